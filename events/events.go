package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSimulationCompleted EventType = "simulation_completed"
	EventTypeSimulationFailed    EventType = "simulation_failed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SimulationCompletedEvent is emitted once a run has been stored
type SimulationCompletedEvent struct {
	RunID         int64         `json:"run_id"`
	Rounds        int           `json:"rounds"`
	Seed          int64         `json:"seed"`
	StayWinRate   float64       `json:"stay_win_rate"`
	SwitchWinRate float64       `json:"switch_win_rate"`
	Duration      time.Duration `json:"duration_ns"`
}

func (e SimulationCompletedEvent) Type() EventType {
	return EventTypeSimulationCompleted
}

// SimulationFailedEvent is emitted when a requested run could not be played or stored
type SimulationFailedEvent struct {
	Rounds int    `json:"rounds"`
	Seed   int64  `json:"seed"`
	Reason string `json:"reason"`
}

func (e SimulationFailedEvent) Type() EventType {
	return EventTypeSimulationFailed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish emits an event immediately, for callers outside a unit of work
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines and a panicking handler is logged, not propagated.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queueing event until commit")
	b.pending = append(b.pending, e)
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush emits the queued events; called after a successful commit.
// Emission uses a background context so handlers outlive the transaction's context.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events")

	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops queued events; called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
