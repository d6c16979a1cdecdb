package dsp

import "math"

// LFO is a sine control signal in [-1,1]. It is meant to modulate parameters,
// e.g. the center frequency of a Bandpass, and is not heard directly.
type LFO struct {
	phase float64 // [0,1)
	step  float64
}

func NewLFO(sampleRate int, frequency float64) *LFO {
	return &LFO{step: frequency / float64(sampleRate)}
}

func (l *LFO) Generate(buffer []float32) bool {
	for i := range buffer {
		buffer[i] = float32(math.Sin(2 * math.Pi * l.phase))
		l.phase += l.step
		l.phase -= math.Floor(l.phase)
	}
	return true
}
