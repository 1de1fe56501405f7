package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// BetType identifies how a bet is matched against the rolled face
type BetType string

const (
	BetTypeNumber  BetType = "number"
	BetTypeOddEven BetType = "odd-even"
	BetTypeHighLow BetType = "high-low"
)

// BetTypes lists every supported bet type in display order
var BetTypes = []BetType{BetTypeNumber, BetTypeOddEven, BetTypeHighLow}

// Choice is the side picked for a bet: a face "1".."6", "odd"/"even" or "high"/"low".
// The zero value means no choice has been made.
type Choice string

const (
	ChoiceOdd  Choice = "odd"
	ChoiceEven Choice = "even"
	ChoiceHigh Choice = "high"
	ChoiceLow  Choice = "low"
)

// NumberChoice returns the choice for a single die face
func NumberChoice(face int) Choice {
	return Choice(strconv.Itoa(face))
}

// Number returns the die face of a number choice
func (c Choice) Number() (int, bool) {
	n, err := strconv.Atoi(string(c))
	if err != nil || n < 1 || n > 6 {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON accepts a face as a JSON integer as well as a string
func (c *Choice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Choice(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("choice must be a string or a whole number, got %s", data)
	}
	*c = Choice(strconv.FormatInt(n, 10))
	return nil
}

// IsSet reports whether a choice has been made
func (c Choice) IsSet() bool {
	return c != ""
}

// ValidateChoice checks that the choice is legal for the bet type
func ValidateChoice(betType BetType, choice Choice) error {
	if !choice.IsSet() {
		return fmt.Errorf("no choice selected for %s bet", betType)
	}
	switch betType {
	case BetTypeNumber:
		if _, ok := choice.Number(); !ok {
			return fmt.Errorf("number bet requires a face between 1 and 6, got %q", choice)
		}
	case BetTypeOddEven:
		if choice != ChoiceOdd && choice != ChoiceEven {
			return fmt.Errorf("odd-even bet requires \"odd\" or \"even\", got %q", choice)
		}
	case BetTypeHighLow:
		if choice != ChoiceHigh && choice != ChoiceLow {
			return fmt.Errorf("high-low bet requires \"high\" or \"low\", got %q", choice)
		}
	default:
		return fmt.Errorf("unknown bet type %q", betType)
	}
	return nil
}

// Label renders the choice the way the table shows it ("#4", "odd", ...)
func (c Choice) Label(betType BetType) string {
	if betType == BetTypeNumber {
		return "#" + string(c)
	}
	return string(c)
}

// Bet is a stake recorded in the ledger for the current round
type Bet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	Type      BetType   `json:"type"`
	Choice    Choice    `json:"choice"`
	Amount    int64     `json:"amount"`
	Reserved  int64     `json:"reserved"` // portion of the stake debited at placement
	Round     int       `json:"round"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Settlement is the result of applying one bet against the round outcome
type Settlement struct {
	Bet           Bet   `json:"bet"`
	Outcome       int   `json:"outcome"`
	Delta         int64 `json:"delta"`
	BalanceBefore int64 `json:"balance_before"`
	BalanceAfter  int64 `json:"balance_after"`
}

// Won reports whether the settlement paid out
func (s Settlement) Won() bool {
	return s.Delta > 0
}
