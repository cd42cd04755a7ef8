package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case TickMsg:
		// Continue ticking for timer updates
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case QuitMsg:
		m.Quitting = true
		return m, tea.Quit

	case PackStartedMsg:
		m.TotalItems = msg.TotalItems

	case ContainerOpenedMsg:
		m.Containers++
		m.LastContainer = msg.Index
		m.appendLog(fmt.Sprintf("%s container %d opened", IconContainer, msg.Index+1))

	case ItemPlacedMsg:
		m.Placed++
		m.CurrentItem = msg.Name
		m.LastContainer = msg.Container
		m.appendLog(fmt.Sprintf("%s %s into container %d", IconPlaced, msg.Name, msg.Container+1))

	case ItemRejectedMsg:
		m.Rejected++
		m.appendLog(fmt.Sprintf("%s %s does not fit", IconRejected, msg.Name))

	case PackCompletedMsg:
		m.FinalSummary = fmt.Sprintf("%d containers, %d placed, %d left behind, %.1f%% volume used",
			msg.Containers, msg.Placed, msg.Unplaced+msg.Oversized, msg.Efficiency)

	case PackFailedMsg:
		m.FailureMessage = msg.Error
	}

	return m, nil
}

func (m *Model) appendLog(line string) {
	m.LogLines = append(m.LogLines, line)
	if len(m.LogLines) > m.LogLimit {
		m.LogLines = m.LogLines[len(m.LogLines)-m.LogLimit:]
	}
}
