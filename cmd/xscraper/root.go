package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"xscraper/pkg/ui"
)

var (
	// Version information, set via ldflags at build time
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	noColor       bool
	notifications bool
	quiet         bool
	progressMode  bool
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xscraper",
	Short: "Scrape view and engagement counts from X posts",
	Long: `X Scraper is a command-line tool for collecting view and engagement
counts from X (Twitter) posts.

Features:
  - Drives a real Chromium browser, no API keys needed
  - Reads post URLs from a plain list or a CSV with a url column
  - Streams results to CSV as each post resolves
  - Reuses a saved browser session, imported cookies, or a scripted login
  - Secure credential storage using the system keychain
  - Resume interrupted runs from a checkpoint
  - Desktop notifications and an optional terminal UI

For more information and examples, visit: https://github.com/yourusername/xscraper`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Progress display is the default presentation unless verbose
		// output is requested
		if !verbose && !quiet {
			progressMode = true
		}

		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		// The progress line repaints in place, per-post info logs would
		// tear it. Debug keeps its logs and switches the display to
		// line-per-post mode instead.
		if progressMode && logLevel != "debug" {
			logLevel = "error"
		}

		if noColor {
			ui.SetColorEnabled(false)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.xscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", false, "send a desktop notification when the run finishes")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&progressMode, "progress", "p", false, "show only the progress line and essential info")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show all output (logo, logs, progress)")

	// Version template
	rootCmd.SetVersionTemplate(`X Scraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
