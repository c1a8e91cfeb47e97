package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"xscraper/pkg/models"
)

// Message types for the TUI

// FetchStartMsg is sent when a URL fetch starts
type FetchStartMsg struct {
	Index int
	Total int
	URL   string
}

// FetchResultMsg is sent when a URL fetch finishes, whatever the outcome
type FetchResultMsg struct {
	URL    string
	Result models.ScrapeResult
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// WindowSizeMsg is sent when the terminal is resized
type WindowSizeMsg struct {
	Width  int
	Height int
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		// Regular UI update tick
		return m, tea.Batch(
			tickCmd(),
			m.spinner.Tick,
		)

	case FetchStartMsg:
		m.StartFetch(msg.Index, msg.Total, msg.URL)
		m.AddLogMessage("INFO", "Fetching: "+msg.URL)
		return m, nil

	case FetchResultMsg:
		m.FinishFetch(msg.URL, msg.Result)
		switch msg.Result.Status {
		case models.StatusOK:
			m.AddLogMessage("SUCCESS", "Scraped: "+msg.URL)
		case models.StatusNoCountsFound:
			m.AddLogMessage("WARN", "No counts: "+msg.URL)
		default:
			m.AddLogMessage("ERROR", "Failed: "+msg.URL+" - "+msg.Result.Error)
		}
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil

	case WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "p", "P":
		m.isPaused = !m.isPaused
		if m.isPaused {
			m.AddLogMessage("WARN", "Scraping paused by user")
		} else {
			m.AddLogMessage("INFO", "Scraping resumed by user")
		}
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		// Clear logs
		m.mu.Lock()
		m.logMessages = []LogMessage{}
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// Commands

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Helper functions for external use

// SendFetchStart creates a message marking a fetch as started
func SendFetchStart(index, total int, url string) tea.Msg {
	return FetchStartMsg{
		Index: index,
		Total: total,
		URL:   url,
	}
}

// SendFetchResult creates a message carrying a fetch outcome
func SendFetchResult(url string, result models.ScrapeResult) tea.Msg {
	return FetchResultMsg{URL: url, Result: result}
}

// SendLog creates a log message
func SendLog(level, message string) tea.Msg {
	return LogMsg{Level: level, Message: message}
}
