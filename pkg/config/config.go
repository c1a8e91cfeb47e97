package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the scraper
type Config struct {
	// Account credentials and session material
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Browser launch and page settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Fetch loop settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Login flow timing bounds
	Login LoginConfig `yaml:"login" json:"login"`

	// Output file settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Selector and keyword overrides
	Heuristics HeuristicsConfig `yaml:"heuristics" json:"heuristics"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Terminal output preferences
	UI UIConfig `yaml:"ui" json:"ui"`
}

// TwitterConfig holds the account credentials and session material.
// Everything is optional: with no credentials and no session the run
// proceeds unauthenticated.
type TwitterConfig struct {
	Email      string `yaml:"email" json:"email"`
	Username   string `yaml:"username" json:"username"`
	Password   string `yaml:"password" json:"password"`
	StateFile  string `yaml:"state_file" json:"state_file"`
	Cookie     string `yaml:"cookie" json:"cookie"`
	CookieFile string `yaml:"cookie_file" json:"cookie_file"`
	Account    string `yaml:"account" json:"account"`
}

// BrowserConfig holds browser launch and page navigation settings
type BrowserConfig struct {
	Headless                bool   `yaml:"headless" json:"headless"`
	BinPath                 string `yaml:"bin_path" json:"bin_path"`
	UserAgent               string `yaml:"user_agent" json:"user_agent"`
	AcceptLanguage          string `yaml:"accept_language" json:"accept_language"`
	NavTimeoutSeconds       int    `yaml:"nav_timeout_seconds" json:"nav_timeout_seconds"`
	StabilizeTimeoutSeconds int    `yaml:"stabilize_timeout_seconds" json:"stabilize_timeout_seconds"`
	MaxRefreshes            int    `yaml:"max_refreshes" json:"max_refreshes"`
	RefreshPauseMillis      int    `yaml:"refresh_pause_ms" json:"refresh_pause_ms"`
}

// NavTimeout returns the page navigation timeout as a duration
func (c BrowserConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

// StabilizeTimeout returns the post-root wait timeout as a duration
func (c BrowserConfig) StabilizeTimeout() time.Duration {
	return time.Duration(c.StabilizeTimeoutSeconds) * time.Second
}

// RefreshPause returns the pause after a forced refresh as a duration
func (c BrowserConfig) RefreshPause() time.Duration {
	return time.Duration(c.RefreshPauseMillis) * time.Millisecond
}

// ScrapeConfig holds fetch loop settings
type ScrapeConfig struct {
	// Retries is the number of extra attempts after the first one
	Retries int `yaml:"retries" json:"retries"`
	// MinIntervalSeconds spaces navigations; fractional values are allowed
	MinIntervalSeconds float64 `yaml:"min_interval_seconds" json:"min_interval_seconds"`
	// FailedIncludeNoCounts writes no-count URLs to the failed list too
	FailedIncludeNoCounts bool `yaml:"failed_include_no_counts" json:"failed_include_no_counts"`
}

// MinInterval returns the pacing interval as a duration
func (c ScrapeConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalSeconds * float64(time.Second))
}

// LoginConfig holds the login flow timing bounds
type LoginConfig struct {
	IdentifierWaitSeconds  int `yaml:"identifier_wait_seconds" json:"identifier_wait_seconds"`
	PasswordWaitSeconds    int `yaml:"password_wait_seconds" json:"password_wait_seconds"`
	ChallengeWindowSeconds int `yaml:"challenge_window_seconds" json:"challenge_window_seconds"`
	ChallengePauseMillis   int `yaml:"challenge_pause_ms" json:"challenge_pause_ms"`
	SuccessWaitSeconds     int `yaml:"success_wait_seconds" json:"success_wait_seconds"`
	PollIntervalMillis     int `yaml:"poll_interval_ms" json:"poll_interval_ms"`
	TypingDelayMillis      int `yaml:"typing_delay_ms" json:"typing_delay_ms"`
}

// OutputConfig holds output file settings
type OutputConfig struct {
	ResultsFile   string `yaml:"results_file" json:"results_file"`
	FailedFile    string `yaml:"failed_file" json:"failed_file"`
	WriteManifest bool   `yaml:"write_manifest" json:"write_manifest"`
}

// HeuristicsConfig overrides the built-in selector and keyword tables.
// Empty fields keep their defaults. It mirrors the extraction layer's
// heuristics so the config package stays free of sibling imports.
type HeuristicsConfig struct {
	PostRootSelector   string   `yaml:"post_root_selector" json:"post_root_selector"`
	ReplySelector      string   `yaml:"reply_selector" json:"reply_selector"`
	RetweetSelector    string   `yaml:"retweet_selector" json:"retweet_selector"`
	LikeSelector       string   `yaml:"like_selector" json:"like_selector"`
	CaptionSelector    string   `yaml:"caption_selector" json:"caption_selector"`
	TimeSelector       string   `yaml:"time_selector" json:"time_selector"`
	HeaderTimeSelector string   `yaml:"header_time_selector" json:"header_time_selector"`
	CommentTokens      []string `yaml:"comment_tokens" json:"comment_tokens"`
	ShareTokens        []string `yaml:"share_tokens" json:"share_tokens"`
	LikeTokens         []string `yaml:"like_tokens" json:"like_tokens"`
	ConsentLabels      []string `yaml:"consent_labels" json:"consent_labels"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// UIConfig holds terminal output preferences
type UIConfig struct {
	Color         bool `yaml:"color" json:"color"`
	Progress      bool `yaml:"progress" json:"progress"`
	Notifications bool `yaml:"notifications" json:"notifications"`
	TUI           bool `yaml:"tui" json:"tui"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			StateFile: "tw_state.json",
		},
		Browser: BrowserConfig{
			Headless:                true,
			AcceptLanguage:          "en-US,en;q=0.9",
			NavTimeoutSeconds:       10,
			StabilizeTimeoutSeconds: 10,
			MaxRefreshes:            4,
			RefreshPauseMillis:      600,
		},
		Scrape: ScrapeConfig{
			Retries:               2,
			MinIntervalSeconds:    1.0,
			FailedIncludeNoCounts: true,
		},
		Login: LoginConfig{
			IdentifierWaitSeconds:  20,
			PasswordWaitSeconds:    25,
			ChallengeWindowSeconds: 40,
			ChallengePauseMillis:   800,
			SuccessWaitSeconds:     30,
			PollIntervalMillis:     500,
			TypingDelayMillis:      50,
		},
		Output: OutputConfig{
			ResultsFile:   "results.csv",
			FailedFile:    "failed.csv",
			WriteManifest: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		UI: UIConfig{
			Color:         true,
			Progress:      true,
			Notifications: false,
			TUI:           false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Drop-in credential variables first, so the XSCRAPER_ prefix wins
	// when both are set
	if v := os.Getenv("TW_EMAIL"); v != "" {
		c.Twitter.Email = v
	}
	if v := firstEnv("TW_USERNAME", "TWITTER_USERNAME"); v != "" {
		c.Twitter.Username = v
	}
	if v := firstEnv("TW_PASSWORD", "TWITTER_PASSWORD"); v != "" {
		c.Twitter.Password = v
	}
	if v := os.Getenv("TW_STATE"); v != "" {
		c.Twitter.StateFile = v
	}
	if v := os.Getenv("TW_COOKIE"); v != "" {
		c.Twitter.Cookie = v
	}
	if v := os.Getenv("TW_COOKIE_FILE"); v != "" {
		c.Twitter.CookieFile = v
	}

	// Credentials and session
	if v := os.Getenv("XSCRAPER_EMAIL"); v != "" {
		c.Twitter.Email = v
	}
	if v := os.Getenv("XSCRAPER_USERNAME"); v != "" {
		c.Twitter.Username = v
	}
	if v := os.Getenv("XSCRAPER_PASSWORD"); v != "" {
		c.Twitter.Password = v
	}
	if v := os.Getenv("XSCRAPER_STATE_FILE"); v != "" {
		c.Twitter.StateFile = v
	}
	if v := os.Getenv("XSCRAPER_COOKIE"); v != "" {
		c.Twitter.Cookie = v
	}
	if v := os.Getenv("XSCRAPER_COOKIE_FILE"); v != "" {
		c.Twitter.CookieFile = v
	}
	if v := os.Getenv("XSCRAPER_ACCOUNT"); v != "" {
		c.Twitter.Account = v
	}

	// Browser
	if v := os.Getenv("XSCRAPER_HEADLESS"); v != "" {
		c.Browser.Headless = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("XSCRAPER_BROWSER_BIN"); v != "" {
		c.Browser.BinPath = v
	}

	// Fetch loop
	if v := os.Getenv("XSCRAPER_RETRIES"); v != "" {
		var val int
		fmt.Sscanf(v, "%d", &val)
		if val >= 0 {
			c.Scrape.Retries = val
		}
	}
	if v := os.Getenv("XSCRAPER_MIN_INTERVAL"); v != "" {
		var val float64
		fmt.Sscanf(v, "%f", &val)
		if val >= 0 {
			c.Scrape.MinIntervalSeconds = val
		}
	}

	// Output
	if v := os.Getenv("XSCRAPER_OUTPUT"); v != "" {
		c.Output.ResultsFile = v
	}
	if v := os.Getenv("XSCRAPER_FAILED"); v != "" {
		c.Output.FailedFile = v
	}

	// Logging
	if v := os.Getenv("XSCRAPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("XSCRAPER_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	return nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".xscraper.yaml",
		".xscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "xscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "xscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".xscraper.yaml"),
		filepath.Join(os.Getenv("HOME"), ".xscraper.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Credentials are not
// required: a run without them proceeds unauthenticated.
func (c *Config) Validate() error {
	var errs []error

	// Validate fetch loop settings
	if c.Scrape.Retries < 0 {
		errs = append(errs, errors.New("retries cannot be negative"))
	}
	if c.Scrape.Retries > 10 {
		errs = append(errs, errors.New("retries should not exceed 10"))
	}
	if c.Scrape.MinIntervalSeconds < 0 {
		errs = append(errs, errors.New("min interval cannot be negative"))
	}

	// Validate browser settings
	if c.Browser.NavTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}
	if c.Browser.StabilizeTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("stabilize timeout must be positive"))
	}
	if c.Browser.MaxRefreshes < 0 {
		errs = append(errs, errors.New("max refreshes cannot be negative"))
	}
	if c.Browser.MaxRefreshes > 10 {
		errs = append(errs, errors.New("max refreshes should not exceed 10"))
	}
	if c.Browser.RefreshPauseMillis < 0 {
		errs = append(errs, errors.New("refresh pause cannot be negative"))
	}

	// Validate login bounds
	if c.Login.IdentifierWaitSeconds <= 0 ||
		c.Login.PasswordWaitSeconds <= 0 ||
		c.Login.ChallengeWindowSeconds <= 0 ||
		c.Login.SuccessWaitSeconds <= 0 {
		errs = append(errs, errors.New("login wait bounds must be positive"))
	}
	if c.Login.PollIntervalMillis <= 0 {
		errs = append(errs, errors.New("login poll interval must be positive"))
	}

	// Validate output settings
	if c.Output.ResultsFile == "" {
		errs = append(errs, errors.New("results file is required"))
	}
	if c.Output.FailedFile == "" {
		errs = append(errs, errors.New("failed file is required"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file can hold credentials, keep it private
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied; the command layer inserts a
// key only when its flag was actually set.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["email"].(string); ok && v != "" {
		c.Twitter.Email = v
	}
	if v, ok := flags["username"].(string); ok && v != "" {
		c.Twitter.Username = v
	}
	if v, ok := flags["password"].(string); ok && v != "" {
		c.Twitter.Password = v
	}
	if v, ok := flags["state"].(string); ok && v != "" {
		c.Twitter.StateFile = v
	}
	if v, ok := flags["cookie"].(string); ok && v != "" {
		c.Twitter.Cookie = v
	}
	if v, ok := flags["cookie-file"].(string); ok && v != "" {
		c.Twitter.CookieFile = v
	}
	if v, ok := flags["account"].(string); ok && v != "" {
		c.Twitter.Account = v
	}
	if v, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = v
	}
	if v, ok := flags["retries"].(int); ok && v >= 0 {
		c.Scrape.Retries = v
	}
	if v, ok := flags["min-interval"].(float64); ok && v >= 0 {
		c.Scrape.MinIntervalSeconds = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.ResultsFile = v
	}
	if v, ok := flags["failed"].(string); ok && v != "" {
		c.Output.FailedFile = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["tui"].(bool); ok {
		c.UI.TUI = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xscraper.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
