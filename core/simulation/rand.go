package simulation

import (
	"math/rand"
	"time"
)

// ResolveSeed returns seed, or a non-zero seed derived from the current time
// when seed is zero.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	if seed = time.Now().UnixNano(); seed == 0 {
		seed = 1
	}
	return seed
}

// NewRand returns a generator seeded with seed, or with the current time when
// seed is zero.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(ResolveSeed(seed)))
}

// uniform draws from U(lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
