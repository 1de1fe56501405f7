package engine

import "errors"

var (
	// ErrInvalidBetWindow is returned when a bet arrives outside the betting phase
	ErrInvalidBetWindow = errors.New("betting is closed")
	// ErrInvalidChoice is returned for a missing or malformed bet choice
	ErrInvalidChoice = errors.New("invalid bet choice")
	// ErrInvalidAmount is returned for a stake that is not a positive integer
	ErrInvalidAmount = errors.New("bet amount must be positive")
	// ErrInsufficientBalance is returned when the stake exceeds the balance
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrClosed is returned once the table has been torn down
	ErrClosed = errors.New("table is closed")
)
