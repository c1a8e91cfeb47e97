package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"xscraper/pkg/models"
)

// FetchState represents the state of one URL fetch
type FetchState int

const (
	FetchActive FetchState = iota
	FetchDone
	FetchFailed
)

// FetchItem represents a single post URL fetch
type FetchItem struct {
	URL       string
	Index     int
	State     FetchState
	Status    models.Status
	Views     *int64
	Likes     *int64
	Error     string
	StartTime time.Time
	Elapsed   time.Duration
}

// Model represents the TUI model
type Model struct {
	// UI components
	spinner spinner.Model
	runBar  progress.Model

	// Fetch state; the loop is sequential so at most one item is active
	fetches    map[string]*FetchItem
	fetchOrder []string
	totalURLs  int

	// Stats
	okCount          int
	noCountsCount    int
	errorCount       int
	viewsSeen        int64
	sessionStartTime time.Time

	// UI state
	width          int
	height         int
	showHelp       bool
	isPaused       bool
	logMessages    []LogMessage
	maxLogMessages int

	// Mutex for thread safety
	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a new TUI model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		spinner:          s,
		runBar:           bar,
		fetches:          make(map[string]*FetchItem),
		fetchOrder:       []string{},
		sessionStartTime: time.Now(),
		logMessages:      []LogMessage{},
		maxLogMessages:   50,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// StartFetch registers a URL as the active fetch
func (m *Model) StartFetch(index, total int, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalURLs = total
	m.fetches[url] = &FetchItem{
		URL:       url,
		Index:     index,
		State:     FetchActive,
		StartTime: time.Now(),
	}
	m.fetchOrder = append(m.fetchOrder, url)
}

// FinishFetch records the outcome of the active fetch
func (m *Model) FinishFetch(url string, result models.ScrapeResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.fetches[url]
	if !ok {
		return
	}

	item.Status = result.Status
	item.Views = result.Views
	item.Likes = result.Likes
	item.Error = result.Error
	item.Elapsed = time.Since(item.StartTime)

	switch result.Status {
	case models.StatusOK:
		item.State = FetchDone
		m.okCount++
		if result.Views != nil {
			m.viewsSeen += *result.Views
		}
	case models.StatusNoCountsFound:
		item.State = FetchDone
		m.noCountsCount++
	default:
		item.State = FetchFailed
		m.errorCount++
	}
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = lipgloss.Color("#FF0000")
	case "WARN":
		color = neonOrange
	case "SUCCESS":
		color = neonGreen
	case "INFO":
		color = neonCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// GetActiveFetch returns the fetch currently in flight, or nil
func (m *Model) GetActiveFetch() *FetchItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.fetchOrder) - 1; i >= 0; i-- {
		if item := m.fetches[m.fetchOrder[i]]; item != nil && item.State == FetchActive {
			return item
		}
	}
	return nil
}

// GetRecentResults returns the last n finished fetches, oldest first
func (m *Model) GetRecentResults(n int) []*FetchItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var finished []*FetchItem
	for _, url := range m.fetchOrder {
		if item := m.fetches[url]; item != nil && item.State != FetchActive {
			finished = append(finished, item)
		}
	}
	if len(finished) > n {
		finished = finished[len(finished)-n:]
	}
	return finished
}

// DoneCount returns the number of finished fetches
func (m *Model) DoneCount() int {
	return m.okCount + m.noCountsCount + m.errorCount
}

// GetRunStats returns the scrape rate and the estimated time remaining
func (m *Model) GetRunStats() (rate float64, eta time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	done := m.DoneCount()
	elapsed := time.Since(m.sessionStartTime)
	if elapsed.Minutes() > 0 {
		rate = float64(done) / elapsed.Minutes()
	}

	remaining := m.totalURLs - done
	if done > 0 && remaining > 0 {
		perFetch := elapsed / time.Duration(done)
		eta = perFetch * time.Duration(remaining)
	}

	return
}

// FormatCount formats an engagement count the way the post page
// abbreviates them
func FormatCount(n int64) string {
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
