package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stowpack/stowpack/internal/packing"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	summaryLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	summaryGoodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	summaryBadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	containerStyle    = lipgloss.NewStyle().Bold(true)
)

// RenderProgressBar renders a progress bar of specified width
func RenderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return fmt.Sprintf("[%s] %5.1f%%", bar, progress*100)
}

// FormatPlanSummary renders the result of a packing run for terminal
// output.
func FormatPlanSummary(plan *packing.Plan) string {
	var b strings.Builder
	summary := plan.Summary()

	b.WriteString(summaryTitleStyle.Render("Packing Result"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %d\n", summaryLabelStyle.Render("Containers:"), summary.Containers)
	fmt.Fprintf(&b, "  %s %s\n", summaryLabelStyle.Render("Placed:"),
		summaryGoodStyle.Render(fmt.Sprintf("%d", summary.Placed)))

	leftBehind := summary.Unplaced + summary.Oversized
	style := summaryGoodStyle
	if leftBehind > 0 {
		style = summaryBadStyle
	}
	fmt.Fprintf(&b, "  %s %s (%d unplaced, %d oversized)\n",
		summaryLabelStyle.Render("Left behind:"),
		style.Render(fmt.Sprintf("%d", leftBehind)),
		summary.Unplaced, summary.Oversized)
	fmt.Fprintf(&b, "  %s %.1f kg\n", summaryLabelStyle.Render("Total weight:"), summary.TotalWeight)
	fmt.Fprintf(&b, "  %s %.1f%%\n", summaryLabelStyle.Render("Volume used:"), summary.VolumeEfficiency)

	if len(plan.Loads) > 0 {
		b.WriteString("\n")
		for _, stats := range plan.LoadStats() {
			name := containerStyle.Render(fmt.Sprintf("Container %d", stats.Container+1))
			bar := RenderProgressBar(stats.VolumeUtilization/100, 20)
			fmt.Fprintf(&b, "  %s %s %d items, %.1f kg\n", name, bar, stats.Items, stats.Weight)
		}
	}

	for _, item := range plan.Oversized {
		fmt.Fprintf(&b, "  %s %s\n", summaryBadStyle.Render("oversized:"), item.Name)
	}
	for _, item := range plan.Unplaced {
		fmt.Fprintf(&b, "  %s %s\n", summaryBadStyle.Render("unplaced:"), item.Name)
	}

	return b.String()
}
