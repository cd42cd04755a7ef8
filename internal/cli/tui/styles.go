package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the TUI
type Styles struct {
	Title lipgloss.Style
	Timer lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	ItemName  lipgloss.Style
	Container lipgloss.Style

	StatusPlaced   lipgloss.Style
	StatusRejected lipgloss.Style

	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	LogLine lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		ProgressFilled: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		ItemName:  lipgloss.NewStyle().Bold(true),
		Container: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),

		StatusPlaced:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StatusRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),

		LogLine: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Icons used in the TUI
const (
	IconPlaced    = "✓"
	IconRejected  = "✗"
	IconContainer = "▣"
)
