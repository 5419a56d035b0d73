package gridfx

import "math/rand/v2"

// Rand is the source of randomness for matrix columns, intro jitter,
// explosion offsets and glitch bursts. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// globalRand draws from the math/rand/v2 top-level generator.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// NewSeededRand returns a deterministic Rand, for reproducible renders.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
