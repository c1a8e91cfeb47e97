package ui

import (
	"fmt"
	"time"

	"xscraper/pkg/models"
)

// StatusTracker keeps running counts of scrape outcomes
type StatusTracker struct {
	OK        int
	NoCounts  int
	Errors    int
	Skipped   int
	StartTime time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

// Record counts one scrape outcome
func (st *StatusTracker) Record(status models.Status) {
	switch status {
	case models.StatusOK:
		st.OK++
	case models.StatusNoCountsFound:
		st.NoCounts++
	default:
		st.Errors++
	}
}

// RecordSkipped counts a URL skipped by resume
func (st *StatusTracker) RecordSkipped() {
	st.Skipped++
}

// Total returns the number of URLs scraped so far, skips excluded
func (st *StatusTracker) Total() int {
	return st.OK + st.NoCounts + st.Errors
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetScrapeRate returns the average scrape rate (posts per minute)
func (st *StatusTracker) GetScrapeRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Total()) / elapsed
}

// PrintProgress prints the current counters on a single line
func (st *StatusTracker) PrintProgress() {
	fmt.Printf("\r%s %d ok | %d no counts | %d failed",
		Green("[SCRAPED]"),
		st.OK,
		st.NoCounts,
		st.Errors)
}
