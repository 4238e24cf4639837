// Package rng provides the single seeded PRNG stream the simulation core
// draws every stochastic decision from. See design doc Section 5
// (Determinism discipline) and Section 4.3.3 (weighted selection).
package rng

import "math/rand/v2"

// Stream wraps a PCG-seeded generator. All decision paths that need
// randomness take a *Stream by exclusive reference — there is exactly one
// live stream per simulation run, and no other entropy source is ever
// consulted. Given the same seed and the same sequence of calls, a Stream
// reproduces the same sequence of outputs.
type Stream struct {
	r *rand.Rand
}

// New creates a deterministic stream from a 64-bit seed.
func New(seed uint64) *Stream {
	return &Stream{r: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// Float64 returns a pseudo-random float64 in [0, 1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// NormFloat64 returns a pseudo-random sample from the standard normal
// distribution, used for the generate-weight noise term (gaussian_noise(σ)).
func (s *Stream) NormFloat64() float64 {
	return s.r.NormFloat64()
}

// IntN returns a pseudo-random integer in [0, n).
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

// Shuffle deterministically permutes a slice of length n in place using the
// Fisher-Yates algorithm driven by this stream.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// WeightedChoice draws an index from weights using roulette-wheel
// selection. Returns -1 if the total weight is zero or weights is empty —
// callers must treat that as "emit Idle" per the Select stage contract.
// Weights must be iterated in the caller's canonical (ID-sorted) order
// before being passed here; WeightedChoice never reorders its input.
func (s *Stream) WeightedChoice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	pick := s.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if pick < acc {
			return i
		}
	}
	return len(weights) - 1
}

// Gaussian returns a sample from N(0, sigma).
func (s *Stream) Gaussian(sigma float64) float64 {
	return s.NormFloat64() * sigma
}
