package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model for packing progress
type Model struct {
	// Configuration
	TotalItems int
	Styles     Styles

	// State
	Placed         int
	Rejected       int
	Containers     int
	CurrentItem    string
	LastContainer  int
	StartTime      time.Time
	LogLines       []string
	LogLimit       int
	FinalSummary   string
	FailureMessage string

	// Control
	Quitting bool
	Done     bool
}

// NewModel creates a new TUI model for a run over totalItems items
func NewModel(totalItems int) *Model {
	return &Model{
		TotalItems: totalItems,
		Styles:     DefaultStyles(),
		StartTime:  time.Now(),
		LogLimit:   8,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg is sent every second to update the timer
type TickMsg time.Time

// tickCmd returns a command that sends TickMsg every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// DoneMsg signals the TUI should exit
type DoneMsg struct{}

// QuitMsg signals the user requested quit (q or Ctrl+C)
type QuitMsg struct{}

// PackStartedMsg carries the size of the run
type PackStartedMsg struct {
	TotalItems int
}

// ContainerOpenedMsg indicates a new container was opened
type ContainerOpenedMsg struct {
	Index int
}

// ItemPlacedMsg indicates a successful placement
type ItemPlacedMsg struct {
	Name      string
	Container int
}

// ItemRejectedMsg indicates an item could not be placed
type ItemRejectedMsg struct {
	Name string
}

// PackCompletedMsg carries the run totals
type PackCompletedMsg struct {
	Containers int
	Placed     int
	Unplaced   int
	Oversized  int
	Efficiency float64
}

// PackFailedMsg indicates the run aborted
type PackFailedMsg struct {
	Error string
}
