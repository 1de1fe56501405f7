package models

import "time"

// Phase is the round clock state
type Phase string

const (
	PhaseAwaitingStart Phase = "awaiting_start"
	PhaseBetting       Phase = "betting"
	PhaseResolving     Phase = "resolving"
	PhaseCooldown      Phase = "cooldown"
)

// RoundState describes where the table is in its cycle
type RoundState struct {
	Round            int   `json:"round"`
	Phase            Phase `json:"phase"`
	SecondsRemaining int   `json:"seconds_remaining"`
	LastOutcome      *int  `json:"last_outcome"`
}

// BettingOpen reports whether bets are accepted right now
func (s RoundState) BettingOpen() bool {
	return s.Phase == PhaseBetting && s.SecondsRemaining > 0
}

// HistoryKind distinguishes placement notes from resolved rounds
type HistoryKind string

const (
	HistoryKindBetPlaced     HistoryKind = "bet_placed"
	HistoryKindRoundResolved HistoryKind = "round_resolved"
)

// HistoryEntry is an immutable line in the table history
type HistoryEntry struct {
	ID      string      `json:"id"`
	Kind    HistoryKind `json:"kind"`
	Round   int         `json:"round"`
	At      time.Time   `json:"at"`
	Outcome int         `json:"outcome,omitempty"`
	Delta   int64       `json:"delta"`
	Text    string      `json:"text"`
}

// Notification is a short-lived message in the table feed
type Notification struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// TableSnapshot is a consistent read of the whole table
type TableSnapshot struct {
	State         RoundState     `json:"state"`
	Players       []Actor        `json:"players"`
	PendingBets   []Bet          `json:"pending_bets"`
	History       []HistoryEntry `json:"history"`
	Notifications []Notification `json:"notifications"`
}
