package tui_test

import (
	"fmt"
	"time"

	"xscraper/pkg/models"
	"xscraper/pkg/ui/tui"
)

func ExampleTUI() {
	terminal := tui.NewTUI()

	// Start the TUI in a goroutine
	go func() {
		if err := terminal.Start(); err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
	}()

	urls := []string{
		"https://x.com/alice/status/1111111111",
		"https://x.com/bob/status/2222222222",
		"https://x.com/carol/status/3333333333",
	}

	// Simulate a sequential run
	for i, url := range urls {
		terminal.StartFetch(i+1, len(urls), url)
		time.Sleep(500 * time.Millisecond)

		views := int64(1500 * (i + 1))
		result := models.ScrapeResult{
			URL:    url,
			Status: models.StatusOK,
			Views:  &views,
		}
		if i == 1 {
			result = models.ScrapeResult{
				URL:    url,
				Status: models.StatusError,
				Error:  "navigation: timed out",
			}
			terminal.FailFetch(url, result)
		} else {
			terminal.CompleteFetch(url, result)
		}
	}

	// Add some logs
	terminal.LogInfo("Session restored from state file")
	terminal.LogWarning("Post root missing, forcing refresh")
	terminal.LogSuccess("Run complete")

	// Keep running for demo
	time.Sleep(2 * time.Second)
	terminal.Stop()
}
