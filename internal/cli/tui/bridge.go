package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stowpack/stowpack/internal/events"
)

// Bridge connects the event bus to the bubbletea program
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{
		program: program,
	}
}

// Handler returns an event handler function for the event bus
func (b *Bridge) Handler() events.Handler {
	return func(evt events.Event) {
		msg := b.eventToMsg(evt)
		if msg != nil {
			b.program.Send(msg)
		}
	}
}

// eventToMsg converts an events.Event to a tea.Msg
func (b *Bridge) eventToMsg(evt events.Event) tea.Msg {
	switch evt.Type {
	case events.PackStarted:
		totalItems := 0
		if payload, ok := evt.Payload.(events.PackStartedPayload); ok {
			totalItems = payload.ItemCount
		}
		return PackStartedMsg{
			TotalItems: totalItems,
		}

	case events.ContainerOpened:
		index := 0
		if evt.Container != nil {
			index = *evt.Container
		}
		return ContainerOpenedMsg{
			Index: index,
		}

	case events.ItemPlaced:
		container := 0
		if evt.Container != nil {
			container = *evt.Container
		}
		return ItemPlacedMsg{
			Name:      evt.Item,
			Container: container,
		}

	case events.ItemRejected:
		return ItemRejectedMsg{
			Name: evt.Item,
		}

	case events.PackCompleted:
		if payload, ok := evt.Payload.(events.PackCompletedPayload); ok {
			return PackCompletedMsg{
				Containers: payload.Containers,
				Placed:     payload.Placed,
				Unplaced:   payload.Unplaced,
				Oversized:  payload.Oversized,
				Efficiency: payload.VolumeEfficiency,
			}
		}
		return PackCompletedMsg{}

	case events.PackFailed:
		return PackFailedMsg{
			Error: evt.Error,
		}

	default:
		return nil
	}
}

// SendDone sends a DoneMsg to the program
func (b *Bridge) SendDone() {
	b.program.Send(DoneMsg{})
}

// SendQuit sends a QuitMsg to the program
func (b *Bridge) SendQuit() {
	b.program.Send(QuitMsg{})
}
