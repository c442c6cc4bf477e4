// Package rng provides the seedable random source shared by the simulation
// and the palettes.
package rng

import "math/rand/v2"

// RNG wraps a PCG generator so a run can be replayed from its seed.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: newPCG(seed)}
}

func newPCG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x5eed))
}

// Seed restarts the sequence from seed.
func (r *RNG) Seed(seed int64) {
	r.r = newPCG(seed)
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}

// IntN returns a value in [0, n). Non-positive n yields 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Jitter returns a value uniformly spread over [-span/2, span/2).
func (r *RNG) Jitter(span float64) float64 {
	return (r.r.Float64() - 0.5) * span
}
