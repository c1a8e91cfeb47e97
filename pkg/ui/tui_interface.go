package ui

import "xscraper/pkg/models"

// TUI is an interface for terminal user interfaces
type TUI interface {
	StartFetch(index, total int, url string)
	CompleteFetch(url string, result models.ScrapeResult)
	FailFetch(url string, result models.ScrapeResult)
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	IsPaused() bool
}
