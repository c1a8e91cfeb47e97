package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"xscraper/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "json format",
			cfg:     &config.LoggingConfig{Level: "info", Format: "json"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "config with file output",
			cfg:     &config.LoggingConfig{Level: "info", File: "/tmp/xscraper_test.log"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}

			if tt.cfg.File != "" {
				os.Remove(tt.cfg.File)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"bogus", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if !tt.wantErr && level != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, level, tt.expected)
			}
		})
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	base, err := New(&config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	child := base.WithField("url", "https://x.com/u/status/1")
	grandchild := child.WithField("attempt", 2)

	baseImpl := base.(*zerologLogger)
	if len(baseImpl.fields) != 0 {
		t.Errorf("parent logger gained fields: %v", baseImpl.fields)
	}

	childImpl := child.(*zerologLogger)
	if len(childImpl.fields) != 1 {
		t.Errorf("child logger fields = %v, want 1 entry", childImpl.fields)
	}

	grandImpl := grandchild.(*zerologLogger)
	if len(grandImpl.fields) != 2 {
		t.Errorf("grandchild logger fields = %v, want 2 entries", grandImpl.fields)
	}
}

func TestTestLoggerCapture(t *testing.T) {
	tl := NewTestLogger()
	tl.Info("run started")
	tl.WithField("url", "u1").Error("fetch failed")
	tl.InfoWithFields("URL scraped", map[string]interface{}{"views": int64(12400)})

	if !tl.HasMessage("run started") {
		t.Error("expected captured info message")
	}
	if !tl.HasError() {
		t.Error("expected captured error message")
	}

	errs := tl.GetMessagesByLevel("ERROR")
	if len(errs) != 1 {
		t.Fatalf("error messages = %d, want 1", len(errs))
	}
	if errs[0].Fields["url"] != "u1" {
		t.Errorf("error fields = %v, want url=u1", errs[0].Fields)
	}

	tl.Clear()
	if len(tl.GetMessages()) != 0 {
		t.Error("Clear() left messages behind")
	}
}
