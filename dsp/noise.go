package dsp

import (
	"github.com/vsariola/soundscape/rand"
)

type (
	// NoiseParams describe the pre-rendered brown noise loop.
	NoiseParams struct {
		Seconds     float64 `yaml:"seconds"`     // length of the loop
		Integration float64 `yaml:"integration"` // leaky integrator constant k
		Gain        float64 `yaml:"gain"`        // makeup gain applied after integration
	}

	// Loop plays a pre-rendered buffer over and over again. It never finishes.
	Loop struct {
		buffer []float32
		pos    int
	}
)

var DefaultNoise = NoiseParams{Seconds: 2, Integration: 0.02, Gain: 3.5}

// RenderBrownNoise renders white noise through a leaky integrator,
// prev = (prev + k*white) / (1+k), and scales it by the makeup gain. The
// result is clamped to [-1,1].
func RenderBrownNoise(sampleRate int, params NoiseParams, rng *rand.Rand) []float32 {
	n := int(params.Seconds * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	k := params.Integration
	buffer := make([]float32, n)
	prev := 0.0
	for i := range buffer {
		prev = (prev + k*rng.Bipolar()) / (1 + k)
		v := prev * params.Gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		buffer[i] = float32(v)
	}
	return buffer
}

// NewBrownNoise renders a brown noise buffer and returns a Loop playing it. At
// a loop length of a couple of seconds the seam is inaudible.
func NewBrownNoise(sampleRate int, params NoiseParams, rng *rand.Rand) *Loop {
	return NewLoop(RenderBrownNoise(sampleRate, params, rng))
}

func NewLoop(buffer []float32) *Loop {
	return &Loop{buffer: buffer}
}

func (l *Loop) Generate(buffer []float32) bool {
	if len(l.buffer) == 0 {
		clear(buffer)
		return true
	}
	for len(buffer) > 0 {
		n := copy(buffer, l.buffer[l.pos:])
		buffer = buffer[n:]
		l.pos += n
		if l.pos >= len(l.buffer) {
			l.pos = 0
		}
	}
	return true
}
