package events

import (
	"context"
	"sync"

	"diceroyale/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeRoundResolved EventType = "round_resolved"
	EventTypePhaseChanged  EventType = "phase_changed"
	EventTypeTableReset    EventType = "table_reset"
	EventTypeBagChanged    EventType = "bag_changed"
)

// AllEventTypes lists every event type emitted by the service
var AllEventTypes = []EventType{
	EventTypeBetPlaced,
	EventTypeBalanceChange,
	EventTypeRoundResolved,
	EventTypePhaseChanged,
	EventTypeTableReset,
	EventTypeBagChanged,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BetPlacedEvent represents a bet recorded in the ledger
type BetPlacedEvent struct {
	Bet       models.Bet `json:"bet"`
	Simulated bool       `json:"simulated"`
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	models.BalanceChange
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// RoundResolvedEvent carries the outcome of a round and every settlement applied with it
type RoundResolvedEvent struct {
	Round       int                 `json:"round"`
	Outcome     int                 `json:"outcome"`
	Settlements []models.Settlement `json:"settlements"`
	UserResult  string              `json:"user_result"`
}

func (e RoundResolvedEvent) Type() EventType {
	return EventTypeRoundResolved
}

// PhaseChangedEvent represents a round clock transition
type PhaseChangedEvent struct {
	Round    int          `json:"round"`
	OldPhase models.Phase `json:"old_phase"`
	NewPhase models.Phase `json:"new_phase"`
}

func (e PhaseChangedEvent) Type() EventType {
	return EventTypePhaseChanged
}

// TableResetEvent is emitted when the table is restored to its starting state
type TableResetEvent struct {
	Players []models.Actor `json:"players"`
}

func (e TableResetEvent) Type() EventType {
	return EventTypeTableReset
}

// BagChangedEvent represents an add or remove on a shopping bag
type BagChangedEvent struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	Added     bool   `json:"added"`
}

func (e BagChangedEvent) Type() EventType {
	return EventTypeBagChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Observer sees every event inline, in the order Emit is called.
// It must return quickly since it runs on the publisher's goroutine.
type Observer func(event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]Handler
	observers []Observer
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

// Observe registers an observer for every event type
func (b *Bus) Observe(observer Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.observers = append(b.observers, observer)
}

// Publish emits the event with a background context
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// Emit publishes an event to all registered observers and handlers.
// Observers run first on the caller's goroutine. Handlers run on their own
// goroutines, so two handlers of consecutive events may run in either order.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.mu.RUnlock()

	for _, observer := range observers {
		notify(observer, event)
	}

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

func notify(observer Observer, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"panic":     r,
			}).Error("Event observer panicked")
		}
	}()
	observer(event)
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events to main event bus")

	// the commit context may already be cancelled by the time handlers run
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of events waiting for a flush
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
