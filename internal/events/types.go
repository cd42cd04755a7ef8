package events

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single occurrence in the packing lifecycle
type Event struct {
	// Time is when the event occurred (set by bus on emit)
	Time time.Time `json:"time"`

	// Type identifies what happened
	Type EventType `json:"type"`

	// Container is the container index this event relates to (nil if not container-related)
	Container *int `json:"container,omitempty"`

	// Item is the item name this event relates to (empty for run-level events)
	Item string `json:"item,omitempty"`

	// Payload contains event-specific data (type varies by event)
	Payload any `json:"payload,omitempty"`

	// Error contains error message if this is a failure event
	Error string `json:"error,omitempty"`
}

// EventType is a string constant identifying the event category
type EventType string

// Packing run lifecycle events
const (
	// PackStarted is emitted once when a packing run begins.
	// Payload: PackStartedPayload
	PackStarted EventType = "pack.started"

	// PackCompleted is emitted when a run finishes, whether or not
	// every item was placed.
	// Payload: PackCompletedPayload
	PackCompleted EventType = "pack.completed"

	// PackFailed is emitted when a run aborts before producing a plan.
	PackFailed EventType = "pack.failed"
)

// Placement events
const (
	// ContainerOpened is emitted each time a new container is brought
	// into the plan, including the first.
	ContainerOpened EventType = "container.opened"

	// ItemPlaced is emitted for every successful placement.
	// Payload: PlacementPayload
	ItemPlaced EventType = "item.placed"

	// ItemRejected is emitted for items that cannot be placed, either
	// oversized for the empty container or unplaceable within the
	// container cap.
	ItemRejected EventType = "item.rejected"
)

// Scenario watch events
const (
	WatchTriggered   EventType = "watch.triggered"
	ScenarioReloaded EventType = "scenario.reloaded"
	ScenarioInvalid  EventType = "scenario.invalid"
)

// PackStartedPayload describes the run configuration.
type PackStartedPayload struct {
	ContainerWidth  float64 `json:"container_width"`
	ContainerDepth  float64 `json:"container_depth"`
	ContainerHeight float64 `json:"container_height"`
	MaxWeight       float64 `json:"max_weight"`
	ItemCount       int     `json:"item_count"`
}

// PackCompletedPayload summarizes the finished run.
type PackCompletedPayload struct {
	Containers       int     `json:"containers"`
	Placed           int     `json:"placed"`
	Unplaced         int     `json:"unplaced"`
	Oversized        int     `json:"oversized"`
	VolumeEfficiency float64 `json:"volume_efficiency"`
}

// PlacementPayload carries the position of a placed item.
type PlacementPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
	D float64 `json:"d"`
	H float64 `json:"h"`
}

// NewEvent creates an event with the given type and item name
func NewEvent(eventType EventType, item string) Event {
	return Event{
		Type: eventType,
		Item: item,
	}
}

// WithContainer returns a copy of the event with the container index set
func (e Event) WithContainer(idx int) Event {
	e.Container = &idx
	return e
}

// WithPayload returns a copy of the event with the payload set
func (e Event) WithPayload(payload any) Event {
	e.Payload = payload
	return e
}

// WithError returns a copy of the event with the error message set
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure returns true if this is a failure event type
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".failed") || e.Type == ScenarioInvalid
}

// String returns a human-readable representation of the event
func (e Event) String() string {
	var parts []string
	parts = append(parts, string(e.Type))
	if e.Item != "" {
		parts = append(parts, fmt.Sprintf("item=%s", e.Item))
	}
	if e.Container != nil {
		parts = append(parts, fmt.Sprintf("container=%d", *e.Container))
	}
	if e.Error != "" {
		parts = append(parts, fmt.Sprintf("error=%q", e.Error))
	}
	return strings.Join(parts, " ")
}
