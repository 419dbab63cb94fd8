package events

import (
	"context"
	"sync"
	"time"

	"roulette/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange            EventType = "balance_change"
	EventTypeLiquidityProvided        EventType = "liquidity_provided"
	EventTypeLiquidityWithdrawn       EventType = "liquidity_withdrawn"
	EventTypeProviderRevenueWithdrawn EventType = "provider_revenue_withdrawn"
	EventTypeOwnerRevenueWithdrawn    EventType = "owner_revenue_withdrawn"
	EventTypeReserveDistributed       EventType = "reserve_distributed"
	EventTypeRoundStarted             EventType = "round_started"
	EventTypeBetsClosed               EventType = "bets_closed"
	EventTypeRoundResolved            EventType = "round_resolved"
	EventTypeBetPlaced                EventType = "bet_placed"
	EventTypeWinningsClaimed          EventType = "winnings_claimed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a custody balance change that occurred
type BalanceChangeEvent struct {
	AccountID    int64
	OldBalance   int64
	NewBalance   int64
	EntryType    models.EntryType
	ChangeAmount int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// LiquidityProvidedEvent represents a provider deposit into a vault
type LiquidityProvidedEvent struct {
	ProviderID int64
	VaultID    int64
	Asset      string
	Amount     int64
}

func (e LiquidityProvidedEvent) Type() EventType {
	return EventTypeLiquidityProvided
}

// LiquidityWithdrawnEvent represents a provider's full exit from a vault
type LiquidityWithdrawnEvent struct {
	ProviderID int64
	VaultID    int64
	Asset      string
	Capital    int64
	Rewards    int64
}

func (e LiquidityWithdrawnEvent) Type() EventType {
	return EventTypeLiquidityWithdrawn
}

// ProviderRevenueWithdrawnEvent represents a reward-only withdrawal
type ProviderRevenueWithdrawnEvent struct {
	ProviderID int64
	VaultID    int64
	Asset      string
	Amount     int64
}

func (e ProviderRevenueWithdrawnEvent) Type() EventType {
	return EventTypeProviderRevenueWithdrawn
}

// OwnerRevenueWithdrawnEvent represents an operator revenue withdrawal
type OwnerRevenueWithdrawnEvent struct {
	VaultID int64
	Asset   string
	Amount  int64
}

func (e OwnerRevenueWithdrawnEvent) Type() EventType {
	return EventTypeOwnerRevenueWithdrawn
}

// ReserveDistributedEvent represents a payout-reserve distribution
type ReserveDistributedEvent struct {
	VaultID       int64
	Asset         string
	Distributed   int64
	OwnerShare    int64
	ProviderShare int64
}

func (e ReserveDistributedEvent) Type() EventType {
	return EventTypeReserveDistributed
}

// RoundStartedEvent represents a new betting round opening
type RoundStartedEvent struct {
	Round     int64
	StartedAt time.Time
}

func (e RoundStartedEvent) Type() EventType {
	return EventTypeRoundStarted
}

// BetsClosedEvent represents the betting window closing
type BetsClosedEvent struct {
	Round    int64
	ClosedAt time.Time
}

func (e BetsClosedEvent) Type() EventType {
	return EventTypeBetsClosed
}

// RoundResolvedEvent represents the outcome derivation for a round
type RoundResolvedEvent struct {
	Round         int64
	WinningNumber uint8
	Slot          uint64
	LastBettor    int64
	ResolvedAt    time.Time
}

func (e RoundResolvedEvent) Type() EventType {
	return EventTypeRoundResolved
}

// BetPlacedEvent represents an accepted wager
type BetPlacedEvent struct {
	PlayerID int64
	VaultID  int64
	Round    int64
	Amount   int64
	Kind     models.BetKind
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// WinningsClaimedEvent represents a settled claim payout
type WinningsClaimedEvent struct {
	PlayerID int64
	VaultID  int64
	Round    int64
	Amount   int64
}

func (e WinningsClaimedEvent) Type() EventType {
	return EventTypeWinningsClaimed
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

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
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

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction that produced them, so emit on a
	// background context rather than the possibly-expired transaction context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
