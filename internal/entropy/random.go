// Package entropy provides the injected random source for all mechanical
// randomness, plus a smooth noise field for economic drift. Seeding makes
// every mechanic reproducible in tests.
package entropy

import (
	"math/rand"
	"sync"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Source is a seedable random source shared across subsystems. Safe for use
// from the tick loop and player actions concurrently.
type Source struct {
	mu    sync.Mutex
	rng   *rand.Rand
	noise opensimplex.Noise
}

// New creates a Source from a seed. The same seed yields the same sequence
// of draws and the same noise field.
func New(seed int64) *Source {
	return &Source{
		rng:   rand.New(rand.NewSource(seed)),
		noise: opensimplex.New(seed),
	}
}

// Float returns a random float64 in [0, 1).
func (s *Source) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// IntN returns a random int in [0, n). n must be positive.
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Range returns a random int in [lo, hi] inclusive.
func (s *Source) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

// Drift samples the noise field for a given channel at time t, returning a
// smooth value in roughly [-1, 1]. Adjacent t values drift rather than jump,
// which keeps resource curves plausible year over year.
func (s *Source) Drift(channel int, t float64) float64 {
	// Channels are spread far apart so their curves stay uncorrelated.
	v := s.noise.Eval2(float64(channel)*37.41, t*0.35)
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return v
}
