package parcels

import "math/rand"

// RandomSource abstracts the per-set pseudo-random generator a Kernel may
// consult (e.g. for diffusion/stochastic kernels). The default
// implementation wraps math/rand the way the teacher's science.go wraps
// it for plume-rise sampling.
type RandomSource interface {
	Float64() float64
	NormFloat64() float64
}

type mathRandSource struct{ r *rand.Rand }

func (m mathRandSource) Float64() float64     { return m.r.Float64() }
func (m mathRandSource) NormFloat64() float64 { return m.r.NormFloat64() }

// NewRandomSource returns a RandomSource seeded deterministically from
// seed, so a run can be reproduced exactly (spec §5).
func NewRandomSource(seed int64) RandomSource {
	return mathRandSource{r: rand.New(rand.NewSource(seed))}
}
