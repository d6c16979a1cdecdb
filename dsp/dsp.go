// Package dsp contains the signal sources and filters the soundscapes are
// built from. Everything renders mono float32 blocks at a fixed sample rate.
package dsp

// Generator renders the next len(buffer) samples into buffer. It returns false
// once the generator has finished; the samples after the end are zero and the
// consumer should drop the generator.
type Generator interface {
	Generate(buffer []float32) bool
}

