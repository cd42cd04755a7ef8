package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(m.renderLog())
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with the timer
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))

	return fmt.Sprintf("%s  %s",
		m.Styles.Title.Render("Stowpack"),
		m.Styles.Timer.Render(timer),
	)
}

// renderProgress renders the placement progress bar and counters
func (m *Model) renderProgress() string {
	var b strings.Builder

	handled := m.Placed + m.Rejected
	bar := m.renderProgressBar(handled, m.TotalItems, 30)
	fmt.Fprintf(&b, "  %s %d/%d items\n", bar, handled, m.TotalItems)

	placed := m.Styles.StatusPlaced.Render(fmt.Sprintf("%d placed", m.Placed))
	rejected := m.Styles.StatusRejected.Render(fmt.Sprintf("%d rejected", m.Rejected))
	containers := m.Styles.Container.Render(fmt.Sprintf("%d containers", m.Containers))
	fmt.Fprintf(&b, "  %s | %s | %s", placed, rejected, containers)

	if m.FinalSummary != "" {
		fmt.Fprintf(&b, "\n  %s", m.Styles.StatusPlaced.Render(m.FinalSummary))
	}
	if m.FailureMessage != "" {
		fmt.Fprintf(&b, "\n  %s", m.Styles.StatusRejected.Render("failed: "+m.FailureMessage))
	}

	return b.String()
}

// renderProgressBar creates a progress bar of the given width
func (m *Model) renderProgressBar(completed, total, width int) string {
	if total == 0 {
		total = 1 // Avoid division by zero
	}

	filled := min((completed*width)/total, width)

	filledStr := strings.Repeat("█", filled)
	emptyStr := strings.Repeat("░", width-filled)

	return "[" +
		m.Styles.ProgressFilled.Render(filledStr) +
		m.Styles.ProgressEmpty.Render(emptyStr) +
		"]"
}

// renderLog renders the most recent placement lines
func (m *Model) renderLog() string {
	if len(m.LogLines) == 0 {
		return ""
	}

	var b strings.Builder
	for _, line := range m.LogLines {
		b.WriteString("  ")
		b.WriteString(m.Styles.LogLine.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
