package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sine struct {
	phase, step float64
}

func newSine(sampleRate int, hz float64) *sine {
	return &sine{step: hz / float64(sampleRate)}
}

func (s *sine) Generate(buffer []float32) bool {
	for i := range buffer {
		buffer[i] = float32(math.Sin(2 * math.Pi * s.phase))
		s.phase += s.step
		s.phase -= math.Floor(s.phase)
	}
	return true
}

// steadyRMS renders one second and measures the RMS of the last 0.9 seconds,
// skipping the filter's settling time.
func steadyRMS(g Generator) float64 {
	const sr = 44100
	buffer := make([]float32, sr)
	for i := 0; i < sr; i += 512 {
		g.Generate(buffer[i:min(i+512, sr)])
	}
	sum := 0.0
	for _, v := range buffer[sr/10:] {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(buffer[sr/10:])))
}

func TestLowpass(t *testing.T) {
	assert.Greater(t, steadyRMS(NewLowpass(newSine(44100, 100), 44100, 800, WebAudioQ)), 0.6)
	assert.Less(t, steadyRMS(NewLowpass(newSine(44100, 8000), 44100, 800, WebAudioQ)), 0.05)
}

func TestLowpassResonance(t *testing.T) {
	// the gain of the RBJ lowpass at the cutoff equals Q
	got := steadyRMS(NewLowpass(newSine(44100, 800), 44100, 800, WebAudioQ))
	assert.InDelta(t, WebAudioQ*math.Sqrt2/2, got, 0.02)
}

func TestBandpass(t *testing.T) {
	assert.Greater(t, steadyRMS(NewBandpass(newSine(44100, 400), 44100, 400, 1)), 0.6)
	assert.Less(t, steadyRMS(NewBandpass(newSine(44100, 8000), 44100, 400, 1)), 0.1)
	assert.Less(t, steadyRMS(NewBandpass(newSine(44100, 20), 44100, 400, 1)), 0.1)
}

func TestBandpassModulation(t *testing.T) {
	const sr = 44100
	f := NewBandpass(newSine(sr, 400), sr, 400, 1)
	f.Modulate(NewLFO(sr, 0.1), 200)
	lo, hi := math.Inf(1), math.Inf(-1)
	buffer := make([]float32, controlInterval)
	for i := 0; i < 10*sr; i += len(buffer) {
		f.Generate(buffer)
		lo = math.Min(lo, f.CenterHz())
		hi = math.Max(hi, f.CenterHz())
	}
	assert.InDelta(t, 200, lo, 5)
	assert.InDelta(t, 600, hi, 5)
}

func TestClampFrequency(t *testing.T) {
	assert.Equal(t, 10.0, clampFrequency(-50, 44100))
	assert.Equal(t, 0.45*44100, clampFrequency(30000, 44100))
	assert.Equal(t, 400.0, clampFrequency(400, 44100))
}
