package engine

import (
	"errors"
	"math"

	"github.com/viterin/vek/vek32"
)

// Meter measures the level of the master bus output, in decibels relative to
// full scale (0 dB = signal level of +-1).
type Meter struct {
	Level   float64 // smoothed level
	Peak    float64 // peak of the most recent block
	Attack  float64 // attack time constant in seconds
	Release float64 // release time constant in seconds
	Min     float64 // minimum level in decibels
	Max     float64 // maximum level in decibels

	sampleRate float64
	tmp        []float32
}

var nanError = errors.New("NaN detected in master output")

func NewMeter(sampleRate int) Meter {
	return Meter{
		Level:      -100,
		Peak:       -100,
		Attack:     0.3,
		Release:    0.3,
		Min:        -100,
		Max:        20,
		sampleRate: float64(sampleRate),
	}
}

// Update analyzes the given mono block.
//
// The signal is converted to decibels and smoothed with an exponentially
// decaying average, using the time constant Attack when the level rises and
// Release when it falls. Min and Max are hard limits that keep silence from
// producing negative infinities.
func (m *Meter) Update(signal []float32) (err error) {
	if len(signal) == 0 {
		return nil
	}
	// from https://en.wikipedia.org/wiki/Exponential_smoothing
	alphaAttack := 1 - math.Exp(-1.0/(m.Attack*m.sampleRate))
	alphaRelease := 1 - math.Exp(-1.0/(m.Release*m.sampleRate))
	for _, v := range signal {
		sample2 := float64(v * v)
		if math.IsNaN(sample2) {
			if err == nil {
				err = nanError
			}
			continue
		}
		a := alphaAttack
		dB := m.clampDB(10 * math.Log10(sample2))
		if dB < m.Level {
			a = alphaRelease
		}
		m.Level += (dB - m.Level) * a
	}
	setSliceLength(&m.tmp, len(signal))
	copy(m.tmp, signal)
	vek32.Abs_Inplace(m.tmp)
	m.Peak = m.clampDB(20 * math.Log10(float64(vek32.Max(m.tmp))))
	return err
}

func (m *Meter) clampDB(dB float64) float64 {
	if dB < m.Min || math.IsNaN(dB) {
		return m.Min
	}
	if dB > m.Max {
		return m.Max
	}
	return dB
}

func setSliceLength[T any](slice *[]T, length int) {
	if len(*slice) < length {
		*slice = append(*slice, make([]T, length-len(*slice))...)
	}
	*slice = (*slice)[:length]
}
