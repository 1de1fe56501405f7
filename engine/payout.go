package engine

import "diceroyale/models"

// multiplier is a win multiplier kept as a fraction so payouts stay exact
type multiplier struct {
	num int64
	den int64
}

func (m multiplier) Float() float64 {
	return float64(m.num) / float64(m.den)
}

var winMultipliers = map[models.BetType]multiplier{
	models.BetTypeNumber:  {num: 5, den: 1},
	models.BetTypeOddEven: {num: 19, den: 10},
	models.BetTypeHighLow: {num: 19, den: 10},
}

// Multiplier returns the win multiplier of a bet type, or 0 for unknown types
func Multiplier(betType models.BetType) float64 {
	m, ok := winMultipliers[betType]
	if !ok {
		return 0
	}
	return m.Float()
}

// Wins reports whether the choice matches the rolled face
func Wins(betType models.BetType, choice models.Choice, outcome int) bool {
	switch betType {
	case models.BetTypeNumber:
		n, ok := choice.Number()
		return ok && n == outcome
	case models.BetTypeOddEven:
		odd := outcome%2 == 1
		return odd == (choice == models.ChoiceOdd)
	case models.BetTypeHighLow:
		high := outcome >= 4
		return high == (choice == models.ChoiceHigh)
	}
	return false
}

// Resolve maps a bet against the outcome to the signed balance adjustment.
// A win returns the rounded payout, a loss returns -amount, and a bet without
// a choice or with a non-positive amount contributes nothing.
func Resolve(betType models.BetType, choice models.Choice, amount int64, outcome int) int64 {
	if !choice.IsSet() || amount <= 0 {
		return 0
	}
	m, ok := winMultipliers[betType]
	if !ok {
		return -amount
	}
	if Wins(betType, choice, outcome) {
		return roundHalfUp(amount*m.num, m.den)
	}
	return -amount
}

// roundHalfUp divides n by d rounding halves up; n and d are non-negative
func roundHalfUp(n, d int64) int64 {
	return (2*n + d) / (2 * d)
}
