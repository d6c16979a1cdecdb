package dsp

import "math"

type (
	biquadState struct {
		x1, x2, y1, y2 float32
	}

	// biquadCoeff are normalized so that a0 = 1
	biquadCoeff struct {
		b0, b1, b2, a1, a2 float32
	}
)

// Filter runs the buffer through the filter in place.
func (state *biquadState) Filter(buffer []float32, coeff biquadCoeff) {
	s := *state
	for i := 0; i < len(buffer); i++ {
		x := buffer[i]
		y := coeff.b0*x + coeff.b1*s.x1 + coeff.b2*s.x2 - coeff.a1*s.y1 - coeff.a2*s.y2
		s.x2, s.x1 = s.x1, x
		s.y2, s.y1 = s.y1, y
		buffer[i] = y
	}
	*state = s
}

// ref: https://www.w3.org/TR/audio-eq-cookbook/
func lowpassCoeff(sampleRate, cutoff, q float64) biquadCoeff {
	w0 := 2 * math.Pi * cutoff / sampleRate
	cos, alpha := math.Cos(w0), math.Sin(w0)/(2*q)
	a0 := 1 + alpha
	return biquadCoeff{
		b0: float32((1 - cos) / 2 / a0),
		b1: float32((1 - cos) / a0),
		b2: float32((1 - cos) / 2 / a0),
		a1: float32(-2 * cos / a0),
		a2: float32((1 - alpha) / a0),
	}
}

// bandpassCoeff has a constant 0 dB peak gain at the center frequency.
func bandpassCoeff(sampleRate, center, q float64) biquadCoeff {
	w0 := 2 * math.Pi * center / sampleRate
	cos, alpha := math.Cos(w0), math.Sin(w0)/(2*q)
	a0 := 1 + alpha
	return biquadCoeff{
		b0: float32(alpha / a0),
		b1: 0,
		b2: float32(-alpha / a0),
		a1: float32(-2 * cos / a0),
		a2: float32((1 - alpha) / a0),
	}
}
