package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"xscraper/pkg/models"
)

// View renders the entire TUI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Build the UI layout
	var sections []string

	// Logo
	sections = append(sections, m.renderLogo())

	// Main content area with two columns
	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ", // spacing
		rightColumn,
	)
	sections = append(sections, mainContent)

	// Help
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	// Join all sections vertically
	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderLogo renders the logo banner
func (m Model) renderLogo() string {
	logo := `
╔══════════════════════════════════════════════════════════════╗
║ ██╗  ██╗    ███████╗ ██████╗██████╗  █████╗ ██████╗ ███████╗ ║
║ ╚██╗██╔╝    ██╔════╝██╔════╝██╔══██╗██╔══██╗██╔══██╗██╔════╝ ║
║  ╚███╔╝     ███████╗██║     ██████╔╝███████║██████╔╝█████╗   ║
║  ██╔██╗     ╚════██║██║     ██╔══██╗██╔══██║██╔═══╝ ██╔══╝   ║
║ ██╔╝ ██╗    ███████║╚██████╗██║  ██║██║  ██║██║     ███████╗ ║
║ ╚═╝  ╚═╝    ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚══════╝ ║
║              POST METRICS EXTRACTION UTILITY                  ║
╚══════════════════════════════════════════════════════════════╝`

	return logoStyle.Width(m.width).Render(logo)
}

// renderLeftColumn renders the left side of the UI
func (m Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Stats panel
	sections = append(sections, m.renderStatsPanel(width))

	// Current fetch panel
	sections = append(sections, m.renderCurrentFetchPanel(width))

	// Recent results panel
	sections = append(sections, m.renderRecentResultsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRightColumn renders the right side of the UI
func (m Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Run progress panel
	sections = append(sections, m.renderRunProgressPanel(width))

	// Logs panel
	sections = append(sections, m.renderLogsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatsPanel renders the statistics panel
func (m Model) renderStatsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" SESSION STATS ")

	elapsed := time.Since(m.sessionStartTime)
	rate := 0.0
	if elapsed.Minutes() > 0 {
		rate = float64(m.okCount+m.noCountsCount+m.errorCount) / elapsed.Minutes()
	}

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Scraped:"), statsValueStyle.Render(fmt.Sprintf("%d posts", m.okCount))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("No Counts:"), statsValueStyle.Render(fmt.Sprintf("%d", m.noCountsCount))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Failed:"), statsValueStyle.Render(fmt.Sprintf("%d", m.errorCount))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Views Seen:"), rateStyle.Render(FormatCount(m.viewsSeen))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Rate:"), rateStyle.Render(fmt.Sprintf("%.1f posts/min", rate))),
	}

	if m.isPaused {
		stats = append(stats, warningStyle.Render("⏸  PAUSED"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, stats...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderCurrentFetchPanel renders the fetch currently in flight
func (m Model) renderCurrentFetchPanel(width int) string {
	title := titleStyle.Render(" CURRENT FETCH ")

	active := m.GetActiveFetch()

	if active == nil {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("Idle")
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, content),
		)
	}

	info := fmt.Sprintf("%s %s",
		m.spinner.View(),
		resultItemActiveStyle.Render(trimURL(active.URL, width-12)),
	)
	detail := lipgloss.NewStyle().Foreground(dimWhite).Render(
		fmt.Sprintf("#%d of %d • %s elapsed", active.Index, m.totalURLs, formatDuration(time.Since(active.StartTime))),
	)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, info, detail),
	)
}

// renderRecentResultsPanel renders the last few finished fetches
func (m Model) renderRecentResultsPanel(width int) string {
	title := titleStyle.Render(" RECENT RESULTS ")

	recent := m.GetRecentResults(5)

	if len(recent) == 0 {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("No results yet")
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, content),
		)
	}

	var items []string
	for _, item := range recent {
		items = append(items, renderResultItem(item, width-6))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderResultItem renders one finished fetch
func renderResultItem(item *FetchItem, width int) string {
	url := trimURL(item.URL, width-14)

	switch item.Status {
	case models.StatusOK:
		line := "✓ " + url
		if item.Views != nil {
			line += " • " + FormatCount(*item.Views) + " views"
		}
		return resultItemDoneStyle.Render(line)
	case models.StatusNoCountsFound:
		return warningStyle.Render("∅ " + url)
	default:
		return errorStyle.Render("✗ " + url)
	}
}

// renderRunProgressPanel renders overall run progress
func (m Model) renderRunProgressPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" RUN PROGRESS ")

	done := m.okCount + m.noCountsCount + m.errorCount
	total := m.totalURLs
	fraction := 0.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}
	if fraction > 1.0 {
		fraction = 1.0
	}

	bar := m.runBar
	bar.Width = width - 8

	elapsed := time.Since(m.sessionStartTime)
	var eta time.Duration
	if done > 0 && total > done {
		perFetch := elapsed / time.Duration(done)
		eta = perFetch * time.Duration(total-done)
	}

	content := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Progress:"),
			statsValueStyle.Render(fmt.Sprintf("%d/%d (%.0f%%)", done, total, fraction*100))),
		bar.ViewAs(fraction),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("ETA:"),
			statsValueStyle.Render(formatDuration(eta))),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

// renderLogsPanel renders the logs panel
func (m Model) renderLogsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" SYSTEM LOGS ")

	// Get recent logs
	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := logMessageStyle.Render(log.Message)

		// Truncate message if too long
		maxMsgLen := width - 25
		if len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	// Calculate height for logs panel to fill remaining space
	logsHeight := m.height - 35 // Approximate calculation
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m Model) renderHelp() string {
	help := `
  Navigation:
    q/Q      - Quit the application
    p/P      - Pause/Resume scraping
    ?        - Toggle this help

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Scraped with metrics
    ` + warningStyle.Render("Orange") + `   - No visible counts
    ` + errorStyle.Render("Red") + `      - Fetch failed

  Icons:
    ✓        - Metrics extracted
    ∅        - No counts found
    ✗        - Fetch failed
    ⏸        - Paused
`

	return panelStyle.Width(m.width).Render(help)
}

// trimURL shortens a URL to fit a panel line
func trimURL(url string, max int) string {
	if max < 8 {
		max = 8
	}
	if len(url) <= max {
		return url
	}
	return "…" + url[len(url)-max+1:]
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
