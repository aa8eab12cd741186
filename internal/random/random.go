// internal/random/random.go
//
// Small randomness helpers shared by the game engines.
// Responsibilities:
//   - Own a single RNG stream per engine (no shared mutable state).
//   - Uniform in-place shuffle (forward Durstenfeld).
//   - Percentage chance and uniform element pick.
//
// A Source is not safe for concurrent use; each game session owns its own.

package random

import "math/rand/v2"

// Source is one independent random stream.
type Source struct {
	rng *rand.Rand
}

// New returns a Source seeded from the process-wide generator.
func New() *Source {
	return NewSeeded(rand.Uint64())
}

// NewSeeded returns a deterministic Source. Same seed, same sequence.
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a uniform int in [0, n). Panics if n <= 0.
func (s *Source) IntN(n int) int {
	return s.rng.IntN(n)
}

// Chance reports true with probability percent/100.
// A single draw in [0,100) is compared against percent.
func (s *Source) Chance(percent int) bool {
	return percent > s.rng.IntN(100)
}

// Shuffle permutes xs in place.
// For i in 0..n-2, element i is swapped with a uniform index in [i, n-1].
func Shuffle[T any](s *Source, xs []T) {
	end := len(xs) - 1
	for i := 0; i < end; i++ {
		j := i + s.rng.IntN(len(xs)-i)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Element returns a uniformly chosen element of xs.
// xs must be non-empty.
func Element[T any](s *Source, xs []T) T {
	return xs[s.rng.IntN(len(xs))]
}
