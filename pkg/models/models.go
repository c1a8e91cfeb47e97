package models

import (
	"strconv"
	"time"
)

// Status classifies the final outcome of scraping one post URL.
type Status string

const (
	StatusOK            Status = "ok"
	StatusNoCountsFound Status = "no_counts_found"
	StatusError         Status = "error"
)

// ScrapeResult holds the extracted metrics for a single post URL.
// Nil count pointers mean "not determined", which is distinct from zero.
type ScrapeResult struct {
	URL      string
	PostedAt *string
	Views    *int64
	Likes    *int64
	Shares   *int64
	Comments *int64
	Status   Status
	Error    string
	Caption  *string
}

// HasAnyCount reports whether at least one of the four engagement counts
// was determined.
func (r ScrapeResult) HasAnyCount() bool {
	return r.Views != nil || r.Likes != nil || r.Shares != nil || r.Comments != nil
}

// Failed reports whether the URL belongs on the failure list. Including
// no_counts_found is the caller's policy choice.
func (r ScrapeResult) Failed(includeNoCounts bool) bool {
	if r.Status == StatusError {
		return true
	}
	return includeNoCounts && r.Status == StatusNoCountsFound
}

// ResultHeader is the column order of the results CSV.
var ResultHeader = []string{"url", "posted_at", "views", "likes", "shares", "comments", "status", "error", "caption"}

// Record serializes the result as a CSV row matching ResultHeader.
// Undetermined values serialize as empty strings.
func (r ScrapeResult) Record() []string {
	return []string{
		r.URL,
		strOrEmpty(r.PostedAt),
		countOrEmpty(r.Views),
		countOrEmpty(r.Likes),
		countOrEmpty(r.Shares),
		countOrEmpty(r.Comments),
		string(r.Status),
		r.Error,
		strOrEmpty(r.Caption),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func countOrEmpty(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

// SessionSource records how the browser session was established.
type SessionSource string

const (
	SessionFromStateFile SessionSource = "state_file"
	SessionFromCookies   SessionSource = "cookies"
	SessionFromLogin     SessionSource = "login"
	SessionNone          SessionSource = "none"
)

// AuthSession describes the browser session used for a whole run. It is
// created once before the first fetch and never re-entered mid-run.
type AuthSession struct {
	StatePath     string
	Authenticated bool
	Source        SessionSource
}

// RunSummary aggregates per-URL outcomes for logging and the run manifest.
type RunSummary struct {
	Total    int           `json:"total"`
	OK       int           `json:"ok"`
	NoCounts int           `json:"no_counts_found"`
	Errors   int           `json:"errors"`
	Skipped  int           `json:"skipped"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Add counts one finished URL into the summary.
func (s *RunSummary) Add(r ScrapeResult) {
	s.Total++
	switch r.Status {
	case StatusOK:
		s.OK++
	case StatusNoCountsFound:
		s.NoCounts++
	default:
		s.Errors++
	}
}

// SuccessRate returns the fraction of processed URLs that ended ok,
// in percent. Skipped URLs are not counted.
func (s RunSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.OK) / float64(s.Total) * 100
}
