package engine

import (
	"fmt"

	"diceroyale/models"
)

// Ledger holds at most one bet per owner for the open round
type Ledger struct {
	round  int
	frozen bool
	bets   map[string]models.Bet
	order  []string
}

// NewLedger creates an empty, unfrozen ledger
func NewLedger() *Ledger {
	return &Ledger{bets: make(map[string]models.Bet)}
}

// Open clears the ledger and accepts bets for the given round
func (l *Ledger) Open(round int) {
	l.Clear()
	l.frozen = false
	l.round = round
}

// Round returns the round the ledger is collecting for
func (l *Ledger) Round() int {
	return l.round
}

// Put records a bet, replacing any earlier bet from the same owner.
// It fails once the ledger is frozen.
func (l *Ledger) Put(bet models.Bet) error {
	if l.frozen {
		return fmt.Errorf("%w: ledger for round %d is frozen", ErrInvalidBetWindow, l.round)
	}
	if _, exists := l.bets[bet.OwnerID]; !exists {
		l.order = append(l.order, bet.OwnerID)
	}
	l.bets[bet.OwnerID] = bet
	return nil
}

// Get returns the owner's bet for the round
func (l *Ledger) Get(ownerID string) (models.Bet, bool) {
	bet, ok := l.bets[ownerID]
	return bet, ok
}

// Freeze stops accepting bets and returns the snapshot to settle, in placement order
func (l *Ledger) Freeze() []models.Bet {
	l.frozen = true
	return l.Bets()
}

// Frozen reports whether the ledger has been handed to settlement
func (l *Ledger) Frozen() bool {
	return l.frozen
}

// Bets returns the recorded bets in placement order
func (l *Ledger) Bets() []models.Bet {
	out := make([]models.Bet, 0, len(l.order))
	for _, owner := range l.order {
		out = append(out, l.bets[owner])
	}
	return out
}

// Len returns the number of recorded bets
func (l *Ledger) Len() int {
	return len(l.order)
}

// Clear drops every bet. The ledger stays frozen until reopened.
func (l *Ledger) Clear() {
	l.bets = make(map[string]models.Bet)
	l.order = nil
}
