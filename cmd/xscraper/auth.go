package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"xscraper/internal/browser"
	"xscraper/pkg/auth"
	"xscraper/pkg/config"
	"xscraper/pkg/ui"
)

var importStateFile string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage X login credentials and sessions",
	Long: `Manage stored X login credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (TW_EMAIL, TW_USERNAME, TW_PASSWORD)

Never share your credentials, cookies, or session state files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store X login credentials securely",
	Long: `Store X login credentials securely in the system keychain or an
encrypted file.

You will be prompted for:
  - Account name (how you want to refer to it)
  - Email and/or username (at least one is required)
  - Password (hidden as you type)

The scraper uses these to run the login flow in the browser the first
time, then saves the session state so later runs skip the login.`,
	Example: `  # Interactive login
  xscraper auth login

  # Store under a specific name
  xscraper auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Long: `Remove stored X credentials.

If no account name is provided, you will be shown a list of stored
accounts to choose from. You can also remove all accounts at once.`,
	Example: `  # Interactive logout
  xscraper auth logout

  # Logout specific account
  xscraper auth logout work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored X accounts with sanitized credential information.`,
	Run:   runList,
}

// switchCmd represents the auth switch command
var switchCmd = &cobra.Command{
	Use:   "switch [name]",
	Short: "Switch the default account",
	Long: `Switch which stored account is used when no --account flag is given.

The most recently used account is the default. If no account name is
provided, you will be shown a list of accounts to choose from.`,
	Example: `  # Interactive switch
  xscraper auth switch

  # Switch to specific account
  xscraper auth switch work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSwitch,
}

// importCookiesCmd represents the auth import-cookies command
var importCookiesCmd = &cobra.Command{
	Use:   "import-cookies",
	Short: "Build a session state file from browser cookies",
	Long: `Build a reusable session state file from the Cookie header of a
logged-in browser.

This skips the scripted login entirely: you log into X in your own
browser, copy the Cookie request header from the developer tools, and
paste it here. The resulting state file is installed into the scraping
browser on every run.`,
	Example: `  # Paste cookies interactively
  xscraper auth import-cookies

  # Write the session to a specific state file
  xscraper auth import-cookies --state work_session.json`,
	Run: runImportCookies,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(switchCmd)
	authCmd.AddCommand(importCookiesCmd)

	importCookiesCmd.Flags().StringVar(&importStateFile, "state", "", "session state file to write (default: from config)")
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if name == "" {
		fmt.Print("Account name (how you want to refer to it): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read account name", err.Error())
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
	}

	if name == "" {
		ui.PrintError("Account name is required", "")
		os.Exit(1)
	}

	// Check if account already exists
	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\n⚠️  Account '%s' already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("\n📧 Email (Enter to skip): ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("👤 Username (Enter to skip): ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	if email == "" && username == "" {
		ui.PrintError("An email or username is required", "")
		os.Exit(1)
	}

	fmt.Println("\n🔐 Enter your password (it will be hidden as you type):")
	var password string
	for {
		fmt.Print("Password: ")
		password, err = readPassword()
		if err != nil {
			ui.PrintError("Failed to read password", err.Error())
			os.Exit(1)
		}
		if password == "" {
			fmt.Println("\n❌ Password cannot be empty.")
			fmt.Print("Try again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}

		fmt.Print("Confirm password: ")
		confirm, err := readPassword()
		if err != nil {
			ui.PrintError("Failed to read password", err.Error())
			os.Exit(1)
		}
		if confirm != password {
			fmt.Println("\n❌ Passwords do not match.")
			fmt.Print("Try again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	// Show what we're about to do
	fmt.Println("\n📋 Summary:")
	fmt.Printf("   Account name: %s\n", name)
	if email != "" {
		fmt.Printf("   Email: %s\n", email)
	}
	if username != "" {
		fmt.Printf("   Username: %s\n", username)
	}
	fmt.Printf("   Password: ******** (hidden)\n")

	now := time.Now()
	account := &auth.Account{
		Name:      name,
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: now,
		LastUsed:  now,
	}

	// Store credentials
	fmt.Println("\n💾 Storing credentials securely...")
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	fmt.Println("\n🎉 Credentials stored successfully!")
	ui.PrintSuccess(fmt.Sprintf("Account saved: %s", name))

	// Show where credentials are stored
	fmt.Println("\n🔒 Security Information:")
	fmt.Println("   Your credentials are encrypted and stored in:")
	if auth.IsKeyringAvailable() {
		fmt.Println("   • System keychain (primary)")
	}
	fmt.Println("   • Encrypted file (backup)")

	// Show how to use
	fmt.Println("\n📖 Quick Start Guide:")
	fmt.Println("   Scrape every post URL in a file:")
	fmt.Printf("   $ xscraper scrape posts.txt\n")
	fmt.Println("\n   Use this account explicitly:")
	fmt.Printf("   $ xscraper scrape posts.txt --account %s\n", name)
	fmt.Println("\n   Show more options:")
	fmt.Printf("   $ xscraper scrape --help\n")
	fmt.Println("\n⚠️  Never share your credentials or config files!")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if len(args) == 0 {
		// List accounts and ask which to remove
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			ui.PrintError("No stored accounts found", "")
			return
		}

		if len(accounts) == 1 {
			// Only one account, confirm deletion
			account := accounts[0]
			reader := bufio.NewReader(os.Stdin)
			fmt.Printf("Remove account '%s'? (y/N): ", account.Name)
			input, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
				return
			}

			if err := manager.Delete(account.Name); err != nil {
				ui.PrintError("Failed to remove account", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("Account removed: " + account.Name)
			return
		}

		// Multiple accounts, show menu
		fmt.Println("Select account to remove:")
		for i, account := range accounts {
			fmt.Printf("  %d. %s\n", i+1, account.Name)
		}
		fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
		fmt.Printf("  0. Cancel\n\n")

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Choice: ")
		input, _ := reader.ReadString('\n')

		var choice int
		fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

		if choice == 0 {
			return
		} else if choice == len(accounts)+1 {
			// Remove all
			fmt.Print("Remove ALL accounts? This cannot be undone! (yes/N): ")
			confirm, _ := reader.ReadString('\n')
			if strings.TrimSpace(confirm) != "yes" {
				return
			}

			if err := manager.DeleteAll(); err != nil {
				ui.PrintError("Failed to remove all accounts", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("All accounts removed")
			return
		} else if choice > 0 && choice <= len(accounts) {
			account := accounts[choice-1]
			if err := manager.Delete(account.Name); err != nil {
				ui.PrintError("Failed to remove account", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("Account removed: " + account.Name)
			return
		} else {
			ui.PrintError("Invalid choice", "")
			os.Exit(1)
		}
	}

	// Account name provided as argument
	name := args[0]
	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Account removed: " + name)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'xscraper auth login' to add an account")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Account: %s\n", i+1, sanitized.Name)
		if sanitized.Username != "" {
			fmt.Printf("   Username: %s\n", sanitized.Username)
		}
		if sanitized.Email != "" {
			fmt.Printf("   Email: %s\n", sanitized.Email)
		}
		fmt.Printf("   Password: %s\n", sanitized.Password)
		fmt.Printf("   Last Used: %s\n", sanitized.LastUsed.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func runSwitch(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintError("No stored accounts found", "")
		return
	}

	if len(accounts) == 1 {
		ui.PrintInfo("Only one account available", accounts[0].Name)
		return
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		// Interactive selection
		fmt.Println("Select account:")
		for i, account := range accounts {
			fmt.Printf("  %d. %s\n", i+1, account.Name)
		}
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Choice: ")
		input, _ := reader.ReadString('\n')

		var choice int
		fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

		if choice < 1 || choice > len(accounts) {
			ui.PrintError("Invalid choice", "")
			os.Exit(1)
		}

		name = accounts[choice-1].Name
	}

	// Marking the account as used makes it the default
	if err := manager.Touch(name); err != nil {
		ui.PrintError("Account not found", name)
		os.Exit(1)
	}

	ui.PrintSuccess("Default account: " + name)
	fmt.Println("\nRuns without --account now use this account:")
	fmt.Printf("  xscraper scrape posts.txt\n")
}

func runImportCookies(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	statePath := cfg.Twitter.StateFile
	if importStateFile != "" {
		statePath = importStateFile
	}

	// Walk through getting the Cookie header out of the browser
	auth.ShowCookieExtractionGuide()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Ready to paste your Cookie header? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'xscraper auth import-cookies' when you're ready.")
		return
	}

	fmt.Println("\n🔐 Paste the Cookie header (it will be hidden as you type):")
	fmt.Print("Cookie: ")
	header, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read cookie header", err.Error())
		os.Exit(1)
	}

	st, err := browser.StateFromCookieHeader(header)
	if err != nil {
		ui.PrintError("Cookie header unusable", err.Error())
		fmt.Println("\nThe header should contain at least the auth_token cookie.")
		fmt.Println("Copy the whole Cookie line from a request to x.com.")
		os.Exit(1)
	}

	if err := st.Save(statePath); err != nil {
		ui.PrintError("Failed to write session state", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Session saved: " + statePath)
	fmt.Println("\nThe next run installs this session automatically:")
	fmt.Printf("  xscraper scrape posts.txt --state %s\n", statePath)
	fmt.Println("\n⚠️  The state file holds your login cookies, keep it private!")
}

// readPassword reads a secret from stdin without echoing
func readPassword() (string, error) {
	// Try to read without echo
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after input
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
