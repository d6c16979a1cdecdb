package dsp

import "math"

type (
	// Lowpass is a single-stage biquad lowpass in front of a source.
	Lowpass struct {
		source Generator
		coeff  biquadCoeff
		state  biquadState
	}

	// Bandpass is a single-stage biquad bandpass in front of a source. Its
	// center frequency can be modulated by a control signal, see Modulate.
	Bandpass struct {
		source     Generator
		sampleRate float64
		centerHz   float64
		q          float64
		coeff      biquadCoeff
		state      biquadState

		modulator Generator
		depthHz   float64
		control   []float32
		currentHz float64
	}
)

// the modulated center frequency is recomputed every controlInterval samples
const controlInterval = 32

// WebAudioQ is 1 dB of resonance at the cutoff, the default Q of a Web Audio
// lowpass.
const WebAudioQ = 1.1220184543019633

func NewLowpass(source Generator, sampleRate int, cutoffHz, q float64) *Lowpass {
	return &Lowpass{
		source: source,
		coeff:  lowpassCoeff(float64(sampleRate), clampFrequency(cutoffHz, float64(sampleRate)), q),
	}
}

func (f *Lowpass) Generate(buffer []float32) bool {
	ok := f.source.Generate(buffer)
	f.state.Filter(buffer, f.coeff)
	return ok
}

func NewBandpass(source Generator, sampleRate int, centerHz, q float64) *Bandpass {
	sr := float64(sampleRate)
	centerHz = clampFrequency(centerHz, sr)
	return &Bandpass{
		source:     source,
		sampleRate: sr,
		centerHz:   centerHz,
		q:          q,
		coeff:      bandpassCoeff(sr, centerHz, q),
		currentHz:  centerHz,
	}
}

// Modulate patches the control signal onto the center frequency: the center
// becomes centerHz + depthHz*lfo. The control signal is never mixed into the
// audio.
func (f *Bandpass) Modulate(lfo Generator, depthHz float64) {
	f.modulator = lfo
	f.depthHz = depthHz
}

// CenterHz returns the center frequency most recently used for filtering.
func (f *Bandpass) CenterHz() float64 {
	return f.currentHz
}

func (f *Bandpass) Generate(buffer []float32) bool {
	ok := f.source.Generate(buffer)
	if f.modulator == nil {
		f.currentHz = f.centerHz
		f.state.Filter(buffer, f.coeff)
		return ok
	}
	if cap(f.control) < len(buffer) {
		f.control = make([]float32, len(buffer))
	}
	control := f.control[:len(buffer)]
	if !f.modulator.Generate(control) {
		f.modulator = nil // back to the nominal center from the next block on
	}
	for i := 0; i < len(buffer); i += controlInterval {
		j := min(i+controlInterval, len(buffer))
		f.currentHz = clampFrequency(f.centerHz+f.depthHz*float64(control[i]), f.sampleRate)
		f.state.Filter(buffer[i:j], bandpassCoeff(f.sampleRate, f.currentHz, f.q))
	}
	return ok
}

func clampFrequency(hz, sampleRate float64) float64 {
	return math.Max(10, math.Min(hz, 0.45*sampleRate))
}
