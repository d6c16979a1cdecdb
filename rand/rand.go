// Package rand is the random source for noise, chirp pitches and transient
// probabilities. Every graph owns its own Rand; a Rand is not safe for
// concurrent use.
package rand

import (
	"time"

	"github.com/MichaelTJones/pcg"
)

// arbitrary odd stream selector for the pcg generator
const sequence = 0xda3e39cb94b95bdb

type Rand struct {
	r *pcg.PCG32
}

func New(seed uint64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.Seed(seed)
	return r
}

// NewTimeSeeded returns a Rand seeded from the wall clock.
func NewTimeSeeded() *Rand {
	return New(uint64(time.Now().UnixNano()))
}

func (r *Rand) Seed(seed uint64) {
	r.r.Seed(seed, sequence)
}

// Uint64 combines two draws; used to seed child generators.
func (r *Rand) Uint64() uint64 {
	return uint64(r.r.Random())<<32 | uint64(r.r.Random())
}

// Float64 returns a number in [0,1).
func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1 << 32)
}

// Bipolar returns a number in [-1,1), i.e. one sample of white noise.
func (r *Rand) Bipolar() float64 {
	return 2*r.Float64() - 1
}
