package dsp

import (
	"math"

	"github.com/vsariola/soundscape/rand"
)

type (
	// ChirpParams describe the randomized bird chirps.
	ChirpParams struct {
		BaseHz   float64 `yaml:"baseHz"`   // lowest possible start frequency
		SpreadHz float64 `yaml:"spreadHz"` // random spread of start and end frequencies
		Peak     float64 `yaml:"peak"`     // envelope peak amplitude
	}

	// Transient is a short frequency-swept sine tone. The frequency sweeps
	// exponentially from StartHz to EndHz during the first 100 ms, while the
	// amplitude rises linearly to the peak in 50 ms and then decays
	// exponentially to 0.001 at 200 ms. The tone ends at 300 ms.
	Transient struct {
		sampleRate float64
		startHz    float64
		endHz      float64
		peak       float64
		phase      float64
		pos        int
		length     int
	}
)

const (
	chirpSweep    = 0.1
	chirpAttack   = 0.05
	chirpDecayEnd = 0.2
	chirpLength   = 0.3
	chirpFloor    = 0.001
)

var DefaultChirp = ChirpParams{BaseHz: 1500, SpreadHz: 500, Peak: 0.1}

// NewTransient picks a random start frequency in [base, base+spread) and a
// random end frequency in [base+spread, base+2*spread), so the sweep always
// goes upwards.
func NewTransient(sampleRate int, params ChirpParams, rng *rand.Rand) *Transient {
	peak := math.Max(params.Peak, chirpFloor)
	return &Transient{
		sampleRate: float64(sampleRate),
		startHz:    params.BaseHz + rng.Float64()*params.SpreadHz,
		endHz:      params.BaseHz + params.SpreadHz + rng.Float64()*params.SpreadHz,
		peak:       peak,
		length:     int(chirpLength * float64(sampleRate)),
	}
}

func (c *Transient) StartHz() float64 { return c.startHz }
func (c *Transient) EndHz() float64   { return c.endHz }

// Duration is the length of the chirp in samples.
func (c *Transient) Duration() int { return c.length }

func (c *Transient) frequency(t float64) float64 {
	if t >= chirpSweep {
		return c.endHz
	}
	return c.startHz * math.Pow(c.endHz/c.startHz, t/chirpSweep)
}

func (c *Transient) envelope(t float64) float64 {
	switch {
	case t < chirpAttack:
		return c.peak * t / chirpAttack
	case t < chirpDecayEnd:
		return c.peak * math.Pow(chirpFloor/c.peak, (t-chirpAttack)/(chirpDecayEnd-chirpAttack))
	default:
		return chirpFloor
	}
}

func (c *Transient) Generate(buffer []float32) bool {
	for i := range buffer {
		if c.pos >= c.length {
			clear(buffer[i:])
			return false
		}
		t := float64(c.pos) / c.sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*c.phase) * c.envelope(t))
		c.phase += c.frequency(t) / c.sampleRate
		c.phase -= math.Floor(c.phase)
		c.pos++
	}
	return c.pos < c.length
}
