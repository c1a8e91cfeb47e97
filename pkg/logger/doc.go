// Package logger provides structured logging for the scraper.
//
// It wraps the zerolog library to provide a clean API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - Optional JSON format and file output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "xscraper/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File:  "/var/log/xscraper.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Run started")
//	logger.WithField("url", url).Info("Fetching post")
//	logger.WithError(err).Error("Navigation failed")
//
// Advanced Usage:
//
//	// Create a logger instance with fields
//	log := logger.GetLogger().
//	    WithField("component", "scheduler").
//	    WithField("attempt", 2)
//
//	// Use structured logging
//	log.InfoWithFields("URL scraped", map[string]interface{}{
//	    "url":    url,
//	    "views":  views,
//	    "status": "ok",
//	})
package logger
