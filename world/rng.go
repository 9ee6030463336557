package world

import "math/rand/v2"

// Stream hands out deterministic per-tick RNGs derived from a single
// run seed. Each tick draws from its own PCG stream, so replaying a
// tick (or re-running with the same seed) reproduces every draw
// regardless of what happened on other ticks.
type Stream struct {
	seed uint64
}

// NewStream creates a stream generator for the given run seed.
func NewStream(seed int64) *Stream {
	return &Stream{seed: uint64(seed)}
}

// Seed returns the run seed the stream was built from.
func (s *Stream) Seed() int64 { return int64(s.seed) }

// Tick returns the RNG for the given tick number.
func (s *Stream) Tick(tick int32) *rand.Rand {
	return rand.New(rand.NewPCG(s.seed, uint64(tick)+1))
}

// Placement returns the RNG used for initial population placement.
// Kept separate from tick streams so seeding draws never shift tick
// behavior.
func (s *Stream) Placement() *rand.Rand {
	return rand.New(rand.NewPCG(s.seed, 0))
}
