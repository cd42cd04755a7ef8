package events

import (
	"sync"
	"time"
)

// Handler processes a single event. Handlers must not block; slow
// consumers should buffer internally.
type Handler func(Event)

// Bus fans events out from the packer to subscribed handlers.
// Emit is safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	handlers []Handler
	clock    func() time.Time
	closed   bool
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{clock: time.Now}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit stamps the event with the current time and delivers it to every
// subscribed handler in registration order. Emit after Close is a no-op.
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	e.Time = b.clock()
	handlers := b.handlers
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// Close stops event delivery.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
