package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)

	// Session defaults
	assert.Equal(t, "tw_state.json", cfg.Twitter.StateFile)
	assert.Empty(t, cfg.Twitter.Email)
	assert.Empty(t, cfg.Twitter.Password)

	// Browser defaults
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "en-US,en;q=0.9", cfg.Browser.AcceptLanguage)
	assert.Equal(t, 10, cfg.Browser.NavTimeoutSeconds)
	assert.Equal(t, 10, cfg.Browser.StabilizeTimeoutSeconds)
	assert.Equal(t, 4, cfg.Browser.MaxRefreshes)
	assert.Equal(t, 600, cfg.Browser.RefreshPauseMillis)

	// Fetch loop defaults
	assert.Equal(t, 2, cfg.Scrape.Retries)
	assert.Equal(t, 1.0, cfg.Scrape.MinIntervalSeconds)
	assert.True(t, cfg.Scrape.FailedIncludeNoCounts)

	// Login defaults
	assert.Equal(t, 20, cfg.Login.IdentifierWaitSeconds)
	assert.Equal(t, 25, cfg.Login.PasswordWaitSeconds)
	assert.Equal(t, 40, cfg.Login.ChallengeWindowSeconds)
	assert.Equal(t, 800, cfg.Login.ChallengePauseMillis)
	assert.Equal(t, 30, cfg.Login.SuccessWaitSeconds)
	assert.Equal(t, 500, cfg.Login.PollIntervalMillis)
	assert.Equal(t, 50, cfg.Login.TypingDelayMillis)

	// Output defaults
	assert.Equal(t, "results.csv", cfg.Output.ResultsFile)
	assert.Equal(t, "failed.csv", cfg.Output.FailedFile)
	assert.True(t, cfg.Output.WriteManifest)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Logging.File)

	// UI defaults
	assert.True(t, cfg.UI.Color)
	assert.True(t, cfg.UI.Progress)
	assert.False(t, cfg.UI.Notifications)
	assert.False(t, cfg.UI.TUI)

	assert.NoError(t, cfg.Validate())
}

func TestDurationAccessors(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10*time.Second, cfg.Browser.NavTimeout())
	assert.Equal(t, 10*time.Second, cfg.Browser.StabilizeTimeout())
	assert.Equal(t, 600*time.Millisecond, cfg.Browser.RefreshPause())
	assert.Equal(t, time.Second, cfg.Scrape.MinInterval())

	cfg.Scrape.MinIntervalSeconds = 0.5
	assert.Equal(t, 500*time.Millisecond, cfg.Scrape.MinInterval())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("XSCRAPER_EMAIL", "env@example.com")
	t.Setenv("XSCRAPER_PASSWORD", "env-password")
	t.Setenv("XSCRAPER_STATE_FILE", "/tmp/state.json")
	t.Setenv("XSCRAPER_HEADLESS", "false")
	t.Setenv("XSCRAPER_RETRIES", "4")
	t.Setenv("XSCRAPER_MIN_INTERVAL", "2.5")
	t.Setenv("XSCRAPER_OUTPUT", "/tmp/out.csv")
	t.Setenv("XSCRAPER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env@example.com", cfg.Twitter.Email)
	assert.Equal(t, "env-password", cfg.Twitter.Password)
	assert.Equal(t, "/tmp/state.json", cfg.Twitter.StateFile)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 4, cfg.Scrape.Retries)
	assert.Equal(t, 2.5, cfg.Scrape.MinIntervalSeconds)
	assert.Equal(t, "/tmp/out.csv", cfg.Output.ResultsFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvDropInFallbacks(t *testing.T) {
	t.Setenv("TW_EMAIL", "tw@example.com")
	t.Setenv("TWITTER_USERNAME", "twuser")
	t.Setenv("TW_PASSWORD", "twpass")
	t.Setenv("TW_STATE", "/tmp/tw_state.json")
	t.Setenv("TW_COOKIE", "auth_token=abc; ct0=def")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "tw@example.com", cfg.Twitter.Email)
	assert.Equal(t, "twuser", cfg.Twitter.Username)
	assert.Equal(t, "twpass", cfg.Twitter.Password)
	assert.Equal(t, "/tmp/tw_state.json", cfg.Twitter.StateFile)
	assert.Equal(t, "auth_token=abc; ct0=def", cfg.Twitter.Cookie)
}

func TestLoadFromEnvPrefixWins(t *testing.T) {
	t.Setenv("TW_EMAIL", "fallback@example.com")
	t.Setenv("XSCRAPER_EMAIL", "primary@example.com")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "primary@example.com", cfg.Twitter.Email)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "defaults are valid",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "no credentials is valid",
			mutate:    func(c *Config) { c.Twitter = TwitterConfig{} },
			wantError: false,
		},
		{
			name:      "negative retries",
			mutate:    func(c *Config) { c.Scrape.Retries = -1 },
			wantError: true,
		},
		{
			name:      "excessive retries",
			mutate:    func(c *Config) { c.Scrape.Retries = 50 },
			wantError: true,
		},
		{
			name:      "zero navigation timeout",
			mutate:    func(c *Config) { c.Browser.NavTimeoutSeconds = 0 },
			wantError: true,
		},
		{
			name:      "excessive refreshes",
			mutate:    func(c *Config) { c.Browser.MaxRefreshes = 11 },
			wantError: true,
		},
		{
			name:      "zero login poll interval",
			mutate:    func(c *Config) { c.Login.PollIntervalMillis = 0 },
			wantError: true,
		},
		{
			name:      "missing results file",
			mutate:    func(c *Config) { c.Output.ResultsFile = "" },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
		{
			name:      "invalid log format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	flags := map[string]interface{}{
		"email":        "flag@example.com",
		"password":     "flag-password",
		"state":        "/flag/state.json",
		"headless":     false,
		"retries":      5,
		"min-interval": 0.5,
		"output":       "/flag/out.csv",
		"failed":       "/flag/failed.csv",
		"log-level":    "error",
		"tui":          true,
	}

	cfg.MergeCommandLineFlags(flags)

	assert.Equal(t, "flag@example.com", cfg.Twitter.Email)
	assert.Equal(t, "flag-password", cfg.Twitter.Password)
	assert.Equal(t, "/flag/state.json", cfg.Twitter.StateFile)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 5, cfg.Scrape.Retries)
	assert.Equal(t, 0.5, cfg.Scrape.MinIntervalSeconds)
	assert.Equal(t, "/flag/out.csv", cfg.Output.ResultsFile)
	assert.Equal(t, "/flag/failed.csv", cfg.Output.FailedFile)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.True(t, cfg.UI.TUI)
}

func TestMergeCommandLineFlagsAbsentKeysKeepValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Browser.Headless = true

	// No "headless" key: the flag was not set, the value must survive.
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output": "/flag/out.csv",
	})

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "/flag/out.csv", cfg.Output.ResultsFile)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	cfg := DefaultConfig()
	cfg.Twitter.Email = "saved@example.com"
	cfg.Scrape.Retries = 3
	cfg.Browser.Headless = false

	require.NoError(t, cfg.Save(configPath))

	// The file can hold credentials
	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, "saved@example.com", loaded.Twitter.Email)
	assert.Equal(t, 3, loaded.Scrape.Retries)
	assert.False(t, loaded.Browser.Headless)
}

func TestLoadFromFileHeuristicsOverlay(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
heuristics:
  post_root_selector: "main article"
  like_tokens: ["like", "fav"]
scrape:
  retries: 1
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(configPath))

	assert.Equal(t, "main article", cfg.Heuristics.PostRootSelector)
	assert.Equal(t, []string{"like", "fav"}, cfg.Heuristics.LikeTokens)
	assert.Empty(t, cfg.Heuristics.ReplySelector, "untouched overrides stay empty")
	assert.Equal(t, 1, cfg.Scrape.Retries)
}

func TestLoadFromFileMissingPathIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(""))
}

func TestLoadFromFileBadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("scrape: ["), 0600))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(configPath))
}

func TestLoadPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
twitter:
  email: "file@example.com"
  username: "fileuser"
scrape:
  retries: 1
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	// Env beats file
	t.Setenv("XSCRAPER_EMAIL", "env@example.com")

	// Flags beat both
	flags := map[string]interface{}{
		"retries": 4,
	}

	cfg, err := Load(configPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "env@example.com", cfg.Twitter.Email)
	assert.Equal(t, "fileuser", cfg.Twitter.Username)
	assert.Equal(t, 4, cfg.Scrape.Retries)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
logging:
  level: "loud"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	_, err := Load(configPath, nil)
	assert.Error(t, err)
}
