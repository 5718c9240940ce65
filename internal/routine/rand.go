package routine

import "math/rand"

// Shuffler is the randomness seam for item ordering. *rand.Rand satisfies
// it, and tests substitute a seeded instance to make selection
// deterministic.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewShuffler returns the production shuffler, backed by the locked
// top-level math/rand source so concurrent generations can share it.
func NewShuffler() Shuffler {
	return globalShuffler{}
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}
