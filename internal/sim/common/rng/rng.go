// Package rng provides the random source behind every stochastic draw:
// uniform draws in [0,1), exponential draws, and the raw material the
// weighted selector (services/selector) scans over. It follows the same
// Real/Mock split as common/clock so the solver can be driven
// deterministically in tests.
package rng

import (
	"math"
	"math/rand/v2"
)

// Source is the process-wide random source. It is shared state owned by
// one cell-state instance at a time, injected explicitly rather than held
// as a package-level global.
type Source interface {
	// Uniform returns a pseudo-random float64 in [0, 1).
	Uniform() float64
	// Exponential returns a draw from Exponential(lambda): -ln(1-U)/lambda.
	// Panics if lambda <= 0 (programming error, not a runtime condition).
	Exponential(lambda float64) float64
}

// RealSource is a Source backed by math/rand/v2, seeded explicitly for
// reproducibility. Given the same seed and the same sequence of queries, it
// produces the same output sequence on any platform (algorithmic
// determinism, not bit-for-bit compatibility across Go versions).
type RealSource struct {
	r *rand.Rand
}

// NewRealSource constructs a RealSource from an explicit seed.
func NewRealSource(seed int64) *RealSource {
	return &RealSource{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (s *RealSource) Uniform() float64 {
	return s.r.Float64()
}

func (s *RealSource) Exponential(lambda float64) float64 {
	if lambda <= 0 {
		panic("rng: Exponential requires lambda > 0")
	}
	u := s.r.Float64()
	return -math.Log1p(-u) / lambda
}

// MockSource replays a fixed queue of uniform draws, used by property tests
// that need to pin the exact sequence of random decisions.
// Exponential() consumes one queued value and applies the same inversion
// formula as RealSource so tests exercise identical math.
type MockSource struct {
	values []float64
	pos    int
}

// NewMockSource returns a MockSource that yields values in order, then
// panics once exhausted (a test asking for more draws than it staged is a
// test bug, not a runtime condition to recover from).
func NewMockSource(values ...float64) *MockSource {
	return &MockSource{values: values}
}

func (s *MockSource) Uniform() float64 {
	if s.pos >= len(s.values) {
		panic("rng: MockSource exhausted")
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

func (s *MockSource) Exponential(lambda float64) float64 {
	if lambda <= 0 {
		panic("rng: Exponential requires lambda > 0")
	}
	return -math.Log1p(-s.Uniform()) / lambda
}

// Remaining reports how many queued draws are left, useful for test
// assertions that every staged value was consumed.
func (s *MockSource) Remaining() int {
	return len(s.values) - s.pos
}
