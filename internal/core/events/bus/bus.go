// Package bus provides the in-process pub/sub channel between the simulation
// loop and its observers.
//
// Delivery is synchronous and type-keyed: Publish invokes every handler
// subscribed to the event's type in the caller's goroutine, aggregating
// handler errors with errors.Join. Handlers should be quick or offload heavy
// work. All methods are safe for concurrent use.
package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record published on the bus. Type is the routing key;
// Source names the publisher; Data is an opaque payload for consumers.
type Event struct {
	ID     string
	Type   string
	Source string
	At     time.Time
	Data   any
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(eventType, source string, data any) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		Source: source,
		At:     time.Now(),
		Data:   data,
	}
}

// Handler consumes one delivered event. A returned error is aggregated into
// the Publish result; it does not stop delivery to other handlers.
type Handler func(Event) error

// Subscription is a registered handler bound to an event type. Cancel
// de-registers it; repeated cancels are safe.
type Subscription struct {
	id        string
	eventType string
	bus       *Bus
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// EventType returns the event type the subscription listens to.
func (s *Subscription) EventType() string { return s.eventType }

// Cancel removes the handler from the bus.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	if m := s.bus.handlers[s.eventType]; m != nil {
		delete(m, s.id)
		if len(m) == 0 {
			delete(s.bus.handlers, s.eventType)
		}
	}
	s.bus.mu.Unlock()
	s.bus = nil
}

// Bus is the in-memory event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[string]map[string]Handler)}
}

// Subscribe registers a handler for eventType and returns its subscription.
func (b *Bus) Subscribe(eventType string, h Handler) *Subscription {
	id := uuid.NewString()
	b.mu.Lock()
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[string]Handler)
	}
	b.handlers[eventType][id] = h
	b.mu.Unlock()
	return &Subscription{id: id, eventType: eventType, bus: b}
}

// Publish delivers the event to every handler subscribed to its type and
// returns their joined errors, nil when all handlers succeed or none exist.
func (b *Bus) Publish(e Event) error {
	b.mu.RLock()
	var hs []Handler
	if m := b.handlers[e.Type]; len(m) > 0 {
		hs = make([]Handler, 0, len(m))
		for _, h := range m {
			hs = append(hs, h)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, h := range hs {
		if err := h(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishBatch publishes events in order, aggregating errors across them.
func (b *Bus) PublishBatch(events ...Event) error {
	var errs []error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribers reports how many handlers listen to eventType.
func (b *Bus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
