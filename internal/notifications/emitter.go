package notifications

import (
	"sync"

	"github.com/zaidansari/attarmart-backend/pkg/enums"
)

// Event is a UI-facing notification. The storefront renders it; this service
// only carries it to subscribers.
type Event struct {
	Kind    enums.NotificationKind `json:"kind"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
}

// Emitter fans events out to registered observers. Registration is explicit:
// Subscribe returns the matching unsubscribe so callers own the lifecycle.
type Emitter struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]func(Event)
}

func NewEmitter() *Emitter {
	return &Emitter{subscribers: map[int]func(Event){}}
}

// Subscribe registers fn for every subsequent Publish and returns the
// unsubscribe function. Unsubscribing twice is a no-op.
func (e *Emitter) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subscribers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subscribers, id)
		e.mu.Unlock()
	}
}

// Publish delivers the event to every current subscriber, synchronously.
func (e *Emitter) Publish(event Event) {
	e.mu.Lock()
	targets := make([]func(Event), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		targets = append(targets, fn)
	}
	e.mu.Unlock()

	for _, fn := range targets {
		fn(event)
	}
}

// Success publishes a success event.
func (e *Emitter) Success(title, message string) {
	e.Publish(Event{Kind: enums.NotificationKindSuccess, Title: title, Message: message})
}

// Error publishes an error event.
func (e *Emitter) Error(title, message string) {
	e.Publish(Event{Kind: enums.NotificationKindError, Title: title, Message: message})
}

// Info publishes an informational event.
func (e *Emitter) Info(title, message string) {
	e.Publish(Event{Kind: enums.NotificationKindInfo, Title: title, Message: message})
}
