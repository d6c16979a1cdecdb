package soundscape

import (
	"errors"
	"fmt"
)

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length, each
	// sample represented by [2]float32. [0] is left channel, [1] is right
	AudioBuffer [][2]float32

	// AudioSource is anything that fills AudioBuffers on demand, typically the
	// master bus of the engine. ReadAudio is called from the goroutine driving
	// the audio device, never from the control goroutine.
	AudioSource interface {
		ReadAudio(buffer AudioBuffer) (n int, err error)
	}

	// AudioContext is the platform audio resource. Play starts pulling audio
	// from the source; the returned CloserWaiter stops it.
	AudioContext interface {
		Play(source AudioSource) CloserWaiter
		Resume() error
		Close() error
	}

	// CloserWaiter stops a playing source with Close; Wait blocks until the
	// source has stopped playing.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)

// ErrAudioUnavailable is returned (wrapped) when the platform refuses to create
// or resume the shared audio context, e.g. no output device is present.
var ErrAudioUnavailable = errors.New("audio unavailable")

// Mono writes the mono signal into both channels of the buffer. The buffer is
// expected to be at least as long as the signal.
func (b AudioBuffer) Mono(signal []float32) {
	for i, v := range signal {
		b[i] = [2]float32{v, v}
	}
}

// Fill reads from the source until the whole buffer is filled.
func (b AudioBuffer) Fill(source AudioSource) error {
	for len(b) > 0 {
		n, err := source.ReadAudio(b)
		if err != nil {
			return fmt.Errorf("AudioSource.ReadAudio failed: %w", err)
		}
		if n == 0 {
			return errors.New("AudioSource.ReadAudio returned no samples")
		}
		b = b[n:]
	}
	return nil
}
