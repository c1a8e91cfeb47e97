package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"xscraper/pkg/config"
	"xscraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage X Scraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TW_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'xscraper.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values

Sensitive values like passwords and cookies are masked.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Output path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = "xscraper.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# X Scraper Configuration File
#
# This file contains all available configuration options.
# Credentials can also come from environment variables:
# TW_EMAIL, TW_USERNAME, TW_PASSWORD, TW_COOKIE, TW_STATE

# Session material. Everything here is optional: public posts usually
# render their counts without a login.
twitter:
  # Login email, username and password for the scripted login flow.
  # Prefer 'xscraper auth login' over writing the password here.
  email: ""
  username: ""
  password: ""

  # Browser session state file, written after a successful login and
  # reused on later runs
  state_file: "tw_state.json"

  # Cookie header copied from a logged-in browser, or a file holding it.
  # See 'xscraper auth import-cookies'.
  cookie: ""
  cookie_file: ""

  # Stored account to log in with (see 'xscraper auth login')
  account: ""

# Browser configuration
browser:
  # Run without a visible window
  headless: true

  # Path to a Chrome/Chromium binary
  # Leave empty to use a managed download
  bin_path: ""

  # Override the browser user agent (optional)
  user_agent: ""

  accept_language: "en-US,en;q=0.9"

  # Navigation timeout in seconds
  nav_timeout_seconds: 10

  # How long to wait for the post to render before forcing a refresh
  stabilize_timeout_seconds: 10

  # Refresh budget for stuck loads
  # Range: 0-10
  max_refreshes: 4
  refresh_pause_ms: 600

# Fetch loop configuration
scrape:
  # Retry attempts per URL after the first failure
  # Range: 0-10
  retries: 2

  # Minimum seconds between page loads
  min_interval_seconds: 1.0

  # Put posts that rendered without any counts on the failure list
  failed_include_no_counts: true

# Login flow bounds
login:
  identifier_wait_seconds: 20
  password_wait_seconds: 25
  challenge_window_seconds: 40
  challenge_pause_ms: 800
  success_wait_seconds: 30
  poll_interval_ms: 500
  typing_delay_ms: 50

# Output configuration
output:
  # Results CSV, one row per post
  results_file: "results.csv"

  # URLs that failed, ready to feed back into another run
  failed_file: "failed.csv"

  # Write a run manifest next to the results
  write_manifest: true

# Page heuristics. Only set these when the site markup changes and the
# built-in selectors stop matching; empty values keep the defaults.
heuristics:
  post_root_selector: ""
  caption_selector: ""
  time_selector: ""
  like_tokens: []
  share_tokens: []
  comment_tokens: []
  consent_labels: []

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log format: text, json
  format: "text"

  # Log file path (optional)
  # Leave empty to log to stdout only
  file: ""

# UI configuration
ui:
  # Enable colored output
  color: true

  # Enable the in-place progress line
  progress: true

  # Desktop notification when the run finishes
  notifications: false

  # Full-screen terminal UI
  tui: false
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file to taste")
	fmt.Println("2. Run 'xscraper config validate' to check the configuration")
	fmt.Println("3. Start scraping with 'xscraper scrape <urls-file>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Create a sanitized version for display
	displayCfg := *cfg

	// Mask sensitive values
	if displayCfg.Twitter.Password != "" {
		displayCfg.Twitter.Password = "********"
	}
	if displayCfg.Twitter.Cookie != "" {
		displayCfg.Twitter.Cookie = maskSecret(displayCfg.Twitter.Cookie)
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TW_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in standard locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			"xscraper.yaml",
			"xscraper.yml",
			".xscraper.yaml",
			".xscraper.yml",
			filepath.Join(os.Getenv("HOME"), ".xscraper.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "xscraper", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	// Check session material
	if cfg.Twitter.Password == "" && cfg.Twitter.Cookie == "" && cfg.Twitter.CookieFile == "" && cfg.Twitter.Account == "" {
		if _, err := os.Stat(cfg.Twitter.StateFile); err != nil {
			warnings = append(warnings, "no session material configured, posts will be scraped anonymously")
		}
	}
	if cfg.Twitter.Password != "" && cfg.Twitter.Email == "" && cfg.Twitter.Username == "" {
		errors = append(errors, "password is set but neither email nor username is")
	}

	// Check output paths
	for _, path := range []string{cfg.Output.ResultsFile, cfg.Output.FailedFile} {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create output directory for %s: %v", path, err))
			}
		}
	}

	// Check logging file path
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	// Check pacing
	if cfg.Scrape.MinIntervalSeconds > 120 {
		warnings = append(warnings, "min_interval_seconds is over two minutes, runs will be very slow")
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:", "")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Results file: %s\n", cfg.Output.ResultsFile)
	fmt.Printf("  Failed file: %s\n", cfg.Output.FailedFile)
	fmt.Printf("  Retries per URL: %d\n", cfg.Scrape.Retries)
	fmt.Printf("  Min interval: %.1fs\n", cfg.Scrape.MinIntervalSeconds)
	fmt.Printf("  Headless: %t\n", cfg.Browser.Headless)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

// maskSecret masks all but the first 4 and last 4 characters
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
