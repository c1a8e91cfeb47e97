package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"xscraper/pkg/config"
	"xscraper/pkg/logger"
	"xscraper/pkg/scraper"
	"xscraper/pkg/ui"
	"xscraper/pkg/ui/tui"
)

var (
	// Scrape command flags
	outputFile   string
	failedFile   string
	stateFile    string
	cookieHeader string
	cookieFile   string
	accountName  string
	retries      int
	minInterval  float64
	headful      bool
	resumeRun    bool
	forceRestart bool
	useTUI       bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <urls-file>",
	Short: "Scrape metrics for every post URL in a file",
	Long: `Scrape view and engagement counts for every post URL in a file.

The input file is either a plain list with one URL per line or a CSV
with a url column. Results stream to the output CSV as each post
resolves, so an interrupted run keeps everything it already collected
and can be continued with --resume.

A login is not required: public posts usually render their counts
anonymously. To scrape as a logged-in account, either import browser
cookies ('xscraper auth import-cookies'), store login credentials
('xscraper auth login'), or point --state at a saved session file.`,
	Example: `  # Scrape every URL in posts.txt into results.csv
  xscraper scrape posts.txt

  # Custom output and a slower pace between page loads
  xscraper scrape posts.txt --output metrics.csv --min-interval 3

  # Scrape with a stored account
  xscraper scrape posts.txt --account work

  # Resume an interrupted run
  xscraper scrape posts.txt --resume

  # Watch the run in the interactive terminal UI
  xscraper scrape posts.txt --tui`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Local flags for scrape command
	scrapeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "results CSV file (default: results.csv)")
	scrapeCmd.Flags().StringVar(&failedFile, "failed", "", "failure list CSV file (default: failed.csv)")
	scrapeCmd.Flags().StringVar(&stateFile, "state", "", "browser session state file")
	scrapeCmd.Flags().StringVar(&cookieHeader, "cookie", "", "Cookie header from a logged-in browser")
	scrapeCmd.Flags().StringVar(&cookieFile, "cookie-file", "", "file containing a Cookie header")
	scrapeCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	scrapeCmd.Flags().IntVar(&retries, "retries", 2, "retry attempts per URL after the first failure")
	scrapeCmd.Flags().Float64Var(&minInterval, "min-interval", 1.0, "minimum seconds between page loads")
	scrapeCmd.Flags().BoolVar(&headful, "headful", false, "run the browser with a visible window")
	scrapeCmd.Flags().BoolVar(&resumeRun, "resume", false, "resume from last checkpoint")
	scrapeCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "force restart, ignoring existing checkpoint")
	scrapeCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")

	// Also add these flags to root command so 'xscraper posts.txt' works
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "results CSV file (default: results.csv)")
	rootCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	rootCmd.Flags().BoolVar(&resumeRun, "resume", false, "resume from last checkpoint")
	rootCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "force restart, ignoring existing checkpoint")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

func runScrape(cmd *cobra.Command, args []string) {
	inputFile := strings.TrimSpace(args[0])

	if !useTUI {
		ui.PrintInfo("URL list", inputFile)
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputFile != "" {
		flags["output"] = outputFile
	}
	if failedFile != "" {
		flags["failed"] = failedFile
	}
	if stateFile != "" {
		flags["state"] = stateFile
	}
	if cookieHeader != "" {
		flags["cookie"] = cookieHeader
	}
	if cookieFile != "" {
		flags["cookie-file"] = cookieFile
	}
	if accountName != "" {
		flags["account"] = accountName
	}
	if retries != 2 {
		flags["retries"] = retries
	}
	if minInterval != 1.0 {
		flags["min-interval"] = minInterval
	}
	if headful {
		flags["headless"] = false
	}
	if useTUI {
		flags["tui"] = true
	}
	// Pass log level to config
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if notifications {
		cfg.UI.Notifications = true
	}
	if !cfg.UI.Color {
		ui.SetColorEnabled(false)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Info("X Scraper starting")

	if _, err := os.Stat(inputFile); err != nil {
		ui.PrintError("URL list not found", inputFile)
		os.Exit(1)
	}

	// Interrupts cancel the run; the checkpoint keeps it resumable
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := scraper.RunOptions{
		InputFile:    inputFile,
		OutputFile:   cfg.Output.ResultsFile,
		Resume:       resumeRun,
		ForceRestart: forceRestart,
	}

	logger.WithFields(map[string]interface{}{
		"input":  inputFile,
		"output": opts.OutputFile,
	}).Info("Starting scrape run")

	if cfg.UI.TUI {
		runScrapeTUI(ctx, cancel, cfg, opts)
		return
	}

	ui.PrintHighlight("[INITIATING METRIC EXTRACTION]")

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to start browser", err.Error())
		os.Exit(1)
	}

	summary, err := s.Run(ctx, opts)
	s.Close()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.WithField("processed", summary.Total).Warn("Run interrupted")
			ui.PrintWarning("Interrupted - progress saved, rerun with --resume to continue")
			os.Exit(130)
		}
		logger.WithError(err).Error("Run failed")
		ui.PrintError("RUN FAILED", err.Error())
		os.Exit(1)
	}

	logger.WithFields(map[string]interface{}{
		"total": summary.Total,
		"ok":    summary.OK,
	}).Info("Run completed")
}

// runScrapeTUI runs the scrape with the terminal UI owning the screen.
// The scraper reports into the TUI instead of printing.
func runScrapeTUI(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, opts scraper.RunOptions) {
	terminal := tui.NewTUI()

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to start browser", err.Error())
		os.Exit(1)
	}
	s.SetTUI(terminal)

	scrapeDone := make(chan error, 1)
	go func() {
		_, err := s.Run(ctx, opts)
		scrapeDone <- err
	}()

	tuiDone := make(chan error, 1)
	go func() {
		tuiDone <- terminal.Start()
	}()

	select {
	case err := <-scrapeDone:
		terminal.Stop()
		<-tuiDone
		s.Close()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				os.Exit(130)
			}
			logger.WithError(err).Error("Run failed")
			ui.PrintError("RUN FAILED", err.Error())
			os.Exit(1)
		}

	case err := <-tuiDone:
		// Quitting the TUI cancels the run
		cancel()
		runErr := <-scrapeDone
		s.Close()
		if err != nil {
			logger.WithError(err).Error("Terminal UI failed")
			os.Exit(1)
		}
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			logger.WithError(runErr).Error("Run failed")
			os.Exit(1)
		}
	}
}

// Make scrape the default command when no subcommand is specified
func init() {
	origRunE := rootCmd.RunE
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if origRunE != nil {
			return origRunE(cmd, args)
		}
		if len(args) > 0 && !isKnownCommand(args[0]) {
			// First argument is not a known command, treat it as a URL
			// list. The flag variables are shared, nothing to transfer.
			return scrapeCmd.RunE(scrapeCmd, args)
		}
		return cmd.Help()
	}

	rootCmd.Args = cobra.ArbitraryArgs
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
