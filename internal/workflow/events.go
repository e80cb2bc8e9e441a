package workflow

import (
	"context"
	"encoding/json"
	"sync"
)

// EventType names something that happened in the workflow.
type EventType string

// EventResultsUpdated fires whenever the latest results are replaced.
const EventResultsUpdated EventType = "results_updated"

// Event is delivered to subscribers.
type Event struct {
	Type    EventType
	Results json.RawMessage
}

// Handler reacts to an event.
type Handler func(ctx context.Context, e Event)

// Bus dispatches events synchronously, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers h for events of type t.
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers e to every handler subscribed to its type.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Type]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}
