package rng

const (
	increment = 0x6D2B79F5
	scale     = 4294967296.0 // 2^32
)

// Source is a Mulberry32 pseudo-random stream.
type Source struct {
	state uint32
	seed  uint32
	draws uint64
}

// New returns a source seeded with seed. Every 32-bit seed is valid.
func New(seed uint32) *Source {
	return &Source{state: seed, seed: seed}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint32 { return s.seed }

// Draws returns how many values have been taken from the stream.
func (s *Source) Draws() uint64 { return s.draws }

// Uint32 advances the stream and returns the next raw 32-bit output.
func (s *Source) Uint32() uint32 {
	s.state += increment
	s.draws++
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Next returns the next value in [0, 1).
func (s *Source) Next() float64 {
	return float64(s.Uint32()) / scale
}

// Intn returns floor(Next() * n), a value in [0, n). It consumes exactly one
// draw, which keeps callers aligned with fixtures expressed as raw streams.
// n <= 0 still consumes a draw and returns 0.
func (s *Source) Intn(n int) int {
	v := s.Next()
	if n <= 0 {
		return 0
	}
	return int(v * float64(n))
}

// Range returns a value in [lo, hi) using one draw.
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.Next()*(hi-lo)
}

// Reset rewinds the stream to its initial seed.
func (s *Source) Reset() {
	s.state = s.seed
	s.draws = 0
}
