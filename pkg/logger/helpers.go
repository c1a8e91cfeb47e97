package logger

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggerWithCaller adds caller information to the logger
func LoggerWithCaller(skip int) Logger {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return GetLogger()
	}

	parts := strings.Split(file, "/")
	filename := parts[len(parts)-1]

	return GetLogger().WithField("caller", fmt.Sprintf("%s:%d", filename, line))
}

// LogNavigation logs one page navigation with its outcome
func LogNavigation(url string, duration time.Duration, err error) {
	fields := map[string]interface{}{
		"url":      url,
		"duration": duration,
	}
	if err != nil {
		fields["error"] = err.Error()
		GetLogger().WarnWithFields("Navigation failed", fields)
		return
	}
	GetLogger().DebugWithFields("Navigation completed", fields)
}

// LogFetchOutcome logs the final result of one URL fetch
func LogFetchOutcome(url, status string, attempt int, err string) {
	fields := map[string]interface{}{
		"url":     url,
		"status":  status,
		"attempt": attempt,
	}
	if err != "" {
		fields["error"] = err
	}

	switch status {
	case "ok":
		GetLogger().InfoWithFields("URL scraped", fields)
	case "no_counts_found":
		GetLogger().WarnWithFields("No counts found", fields)
	default:
		GetLogger().ErrorWithFields("URL failed", fields)
	}
}

// LogLoginStep logs progress through the login state machine
func LogLoginStep(state string, detail string) {
	log := GetLogger().WithField("state", state)
	if detail != "" {
		log = log.WithField("detail", detail)
	}
	log.Debug("Login flow step")
}

// LogRunProgress logs batch progress
func LogRunProgress(done, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(done) / float64(total) * 100
	}

	GetLogger().WithFields(map[string]interface{}{
		"done":       done,
		"total":      total,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("Run progress")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	logger := GetLogger().WithField("component", component)

	if len(config) > 0 {
		logger = logger.WithFields(config)
	}

	logger.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// MustGetLogger gets the logger or panics if it fails
func MustGetLogger() Logger {
	logger := GetLogger()
	if logger == nil {
		panic("logger not initialized")
	}
	return logger
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
