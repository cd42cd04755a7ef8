package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/stowpack/stowpack/internal/packing"
)

// Run statuses reported in state snapshots.
const (
	StatusIdle      = "idle"
	StatusPacking   = "packing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Session maintains the dashboard's working state: the cargo list being
// assembled, the status of the current packing run, and the latest plan.
// It is safe for concurrent access.
type Session struct {
	mu        sync.RWMutex
	items     []packing.ItemLine
	status    string
	runError  string
	startedAt time.Time
	plan      *packing.Plan
}

// StateSnapshot is the JSON shape of GET /api/state.
type StateSnapshot struct {
	Status      string             `json:"status"`
	Error       string             `json:"error,omitempty"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	Items       []packing.ItemLine `json:"items"`
	TotalItems  int                `json:"total_items"`
	TotalWeight float64            `json:"total_weight"`
	TotalVolume float64            `json:"total_volume"`
	PlanID      string             `json:"plan_id,omitempty"`
	Summary     *packing.Summary   `json:"summary,omitempty"`
}

// NewSession creates an empty session in idle status.
func NewSession() *Session {
	return &Session{status: StatusIdle}
}

// AddItem validates and appends one cargo line. A zero quantity
// defaults to 1.
func (s *Session) AddItem(line packing.ItemLine) error {
	if line.Width <= 0 || line.Depth <= 0 || line.Height <= 0 {
		return fmt.Errorf("item %q: dimensions must be positive", line.Name)
	}
	if line.Weight <= 0 {
		return fmt.Errorf("item %q: weight must be positive", line.Name)
	}
	if line.Quantity < 0 {
		return fmt.Errorf("item %q: quantity must not be negative", line.Name)
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	if line.Name == "" {
		line.Name = fmt.Sprintf("Item_%gx%gx%g_%gkg", line.Width, line.Depth, line.Height, line.Weight)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, line)
	return nil
}

// AddLines appends a batch of already-valid cargo lines, such as a
// built-in sample set.
func (s *Session) AddLines(lines []packing.ItemLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, lines...)
}

// RemoveItem deletes the cargo line at index.
func (s *Session) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("no item at index %d", index)
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// ClearItems empties the cargo list.
func (s *Session) ClearItems() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the cargo list.
func (s *Session) Items() []packing.ItemLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]packing.ItemLine, len(s.items))
	copy(out, s.items)
	return out
}

// Begin transitions the session into packing status. Returns false if a
// run is already in progress.
func (s *Session) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusPacking {
		return false
	}
	s.status = StatusPacking
	s.runError = ""
	s.startedAt = time.Now()
	return true
}

// Complete records a finished plan and leaves packing status.
func (s *Session) Complete(plan *packing.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusCompleted
	s.plan = plan
}

// Fail records a run failure and leaves packing status.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	if err != nil {
		s.runError = err.Error()
	}
}

// Plan returns the latest completed plan, or nil before the first run.
func (s *Session) Plan() *packing.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

// Snapshot returns the current state for the dashboard.
func (s *Session) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]packing.ItemLine, len(s.items))
	copy(items, s.items)

	snap := StateSnapshot{
		Status: s.status,
		Error:  s.runError,
		Items:  items,
	}
	for _, line := range items {
		qty := line.Quantity
		snap.TotalItems += qty
		snap.TotalWeight += line.Weight * float64(qty)
		snap.TotalVolume += line.Width * line.Depth * line.Height * float64(qty)
	}
	if !s.startedAt.IsZero() {
		t := s.startedAt
		snap.StartedAt = &t
	}
	if s.plan != nil {
		snap.PlanID = s.plan.ID
		summary := s.plan.Summary()
		snap.Summary = &summary
	}
	return snap
}
