package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"xscraper/pkg/models"
)

// ProgressDisplay provides a clean, minimal progress display
type ProgressDisplay struct {
	mu         sync.Mutex
	totalURLs  int
	doneCount  int
	currentURL string
	startTime  time.Time
	lastUpdate time.Time
	viewsSeen  int64
	noCounts   int
	errors     int
	isDebug    bool
}

// NewProgressDisplay creates a new progress display
func NewProgressDisplay(totalURLs int, debug bool) *ProgressDisplay {
	return &ProgressDisplay{
		totalURLs:  totalURLs,
		startTime:  time.Now(),
		lastUpdate: time.Now(),
		isDebug:    debug,
	}
}

// StartURL marks the start of a new fetch
func (p *ProgressDisplay) StartURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.currentURL = shortURL(url)
	p.lastUpdate = time.Now()

	if !p.isDebug {
		p.printProgress()
	}
}

// FinishURL records a fetch outcome
func (p *ProgressDisplay) FinishURL(url string, result models.ScrapeResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.doneCount++
	p.currentURL = ""
	p.lastUpdate = time.Now()

	switch result.Status {
	case models.StatusOK:
		if result.Views != nil {
			p.viewsSeen += *result.Views
		}
	case models.StatusNoCountsFound:
		p.noCounts++
	default:
		p.errors++
	}

	if !p.isDebug {
		p.printProgress()
	} else {
		// In debug mode, show more details
		p.printDebugFinish(url, result)
	}
}

// printProgress prints the minimal progress line
func (p *ProgressDisplay) printProgress() {
	// Calculate stats
	elapsed := time.Since(p.startTime)
	rate := float64(p.doneCount) / elapsed.Minutes()
	eta := p.calculateETA()

	// Build progress bar
	progress := float64(p.doneCount) / float64(p.totalURLs)
	barWidth := 20
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	// Format line
	line := fmt.Sprintf("\r[%s] %d/%d • %.1f/min • %s views • %s",
		bar,
		p.doneCount,
		p.totalURLs,
		rate,
		formatCount(p.viewsSeen),
		eta,
	)

	// Add current URL if fetching
	if p.currentURL != "" {
		line += fmt.Sprintf(" • %s", p.currentURL)
	}

	// Add errors if any
	if p.errors > 0 {
		line += fmt.Sprintf(" • %s", Red(fmt.Sprintf("%d errors", p.errors)))
	}

	// Clear line and print
	fmt.Printf("\r%s\r%s", strings.Repeat(" ", 120), line)
}

// printDebugFinish prints detailed info in debug mode
func (p *ProgressDisplay) printDebugFinish(url string, result models.ScrapeResult) {
	switch result.Status {
	case models.StatusOK:
		fmt.Printf("\n%s %s", Green("✓"), shortURL(url))
		if result.Views != nil {
			fmt.Printf(" • %s", Dim(fmt.Sprintf("%s views", formatCount(*result.Views))))
		}
		if result.Likes != nil {
			fmt.Printf(" • %s", Dim(fmt.Sprintf("♥ %s", formatCount(*result.Likes))))
		}
	case models.StatusNoCountsFound:
		fmt.Printf("\n%s %s • %s", Yellow("∅"), shortURL(url), Dim("no counts"))
	default:
		fmt.Printf("\n%s %s • %s", Red("✗"), shortURL(url), result.Error)
	}
	fmt.Println()
}

// Complete marks the entire run as complete
func (p *ProgressDisplay) Complete(summary models.RunSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Printf("\n\n%s Scraped %d posts\n",
		Green("✓"),
		summary.OK,
	)

	// Summary stats
	fmt.Printf("  %s %s views in %s (%.1f posts/min)\n",
		Dim("•"),
		formatCount(p.viewsSeen),
		p.formatDuration(elapsed),
		float64(p.doneCount)/elapsed.Minutes(),
	)

	if summary.NoCounts > 0 {
		fmt.Printf("  %s %d posts without visible counts\n",
			Dim("•"),
			summary.NoCounts,
		)
	}

	if summary.Errors > 0 {
		fmt.Printf("  %s %d fetches failed\n",
			Dim("•"),
			summary.Errors,
		)
	}

	if summary.Skipped > 0 {
		fmt.Printf("  %s %d URLs skipped by resume\n",
			Dim("•"),
			summary.Skipped,
		)
	}
}

// calculateETA estimates time remaining
func (p *ProgressDisplay) calculateETA() string {
	if p.doneCount == 0 {
		return "calculating..."
	}

	remaining := p.totalURLs - p.doneCount
	elapsed := time.Since(p.startTime)
	rate := float64(p.doneCount) / elapsed.Seconds()

	if rate == 0 || remaining < 0 {
		return "calculating..."
	}

	etaSeconds := float64(remaining) / rate
	eta := time.Duration(etaSeconds) * time.Second

	return p.formatDuration(eta)
}

// formatDuration formats a duration in a human-readable way
func (p *ProgressDisplay) formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	} else {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// SetProcessedCount sets the initial processed count (for resume)
func (p *ProgressDisplay) SetProcessedCount(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.doneCount = count
}

// formatCount formats a count the way the post page abbreviates them
func formatCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// shortURL trims a post URL down to its tail for single-line display
func shortURL(url string) string {
	const max = 48
	if len(url) <= max {
		return url
	}
	return "…" + url[len(url)-max+1:]
}
