package engine

import (
	"math/rand/v2"
	"time"
)

// RNG is the randomness source of a table
type RNG interface {
	// IntN returns a uniform integer in [0,n)
	IntN(n int) int
	// Float64 returns a uniform float in [0,1)
	Float64() float64
}

// NewRNG returns a seeded PCG generator. The same seed replays the same table.
func NewRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSeededRNG seeds a generator from the wall clock
func NewTimeSeededRNG() RNG {
	return NewRNG(uint64(time.Now().UnixNano()))
}

// RollDie draws one face from a fair six-sided die
func RollDie(rng RNG) int {
	return 1 + rng.IntN(6)
}

func jitter(rng RNG, max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rng.Float64() * float64(max))
}
