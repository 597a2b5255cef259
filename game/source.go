package game

import (
	"math/rand/v2"
	"time"
)

// Source is the randomness a round draws from. *rand.Rand satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n)
	IntN(n int) int

	// Perm returns a uniform permutation of [0, n)
	Perm(n int) []int
}

// NewSource creates a PCG-backed source for the given seed
func NewSource(seed int64) Source {
	return NewStreamSource(seed, 0)
}

// NewStreamSource creates an independent source for one stream of a seeded run.
// Sources sharing a seed but not a stream never share state.
func NewStreamSource(seed int64, stream uint64) Source {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

// TimeSeed returns a seed derived from the wall clock, for runs that did not ask for one
func TimeSeed() int64 {
	return time.Now().UnixNano()
}
