package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeStake       TransactionType = "stake"
	TransactionTypeStakeRefund TransactionType = "stake_refund"
	TransactionTypeReservation TransactionType = "reservation"
	TransactionTypeBetWin      TransactionType = "bet_win"
	TransactionTypeBetLoss     TransactionType = "bet_loss"
	TransactionTypeBoost       TransactionType = "boost"
	TransactionTypeReset       TransactionType = "reset"
)

// BalanceChange represents a single mutation of an actor's balance
type BalanceChange struct {
	ActorID         string          `json:"actor_id"`
	BalanceBefore   int64           `json:"balance_before"`
	BalanceAfter    int64           `json:"balance_after"`
	ChangeAmount    int64           `json:"change_amount"`
	TransactionType TransactionType `json:"transaction_type"`
	Round           int             `json:"round"`
	CreatedAt       time.Time       `json:"created_at"`
}
