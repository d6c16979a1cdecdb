// Package oto plays an AudioSource on the platform audio device.
package oto

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/soundscape"
)

type (
	// Context is the shared device context. Only one can exist per process.
	Context struct {
		context *oto.Context
	}

	player struct {
		player *oto.Player
		reader *sourceReader
	}

	// sourceReader adapts an AudioSource to the io.Reader that oto pulls from
	// its own goroutine.
	sourceReader struct {
		source soundscape.AudioSource
		buffer soundscape.AudioBuffer
		bytes  []byte
	}
)

const DefaultBufferSize = 100 * time.Millisecond

var (
	once        sync.Once
	sharedErr   error
	shared      *oto.Context
	errNoFrames = errors.New("buffer too small for a single frame")
)

// NewContext opens the device with stereo float32 samples at the given rate
// and waits until it is ready. Because the device can only be opened once,
// later calls return the context of the first call, or its error.
func NewContext(sampleRate int, bufferSize time.Duration) (*Context, error) {
	once.Do(func() {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
			BufferSize:   bufferSize,
		})
		if err != nil {
			sharedErr = fmt.Errorf("cannot create oto context: %w", err)
			return
		}
		<-ready
		shared = c
	})
	if sharedErr != nil {
		return nil, sharedErr
	}
	return &Context{context: shared}, nil
}

// Play starts pulling audio from the source on the device goroutine.
func (c *Context) Play(source soundscape.AudioSource) soundscape.CloserWaiter {
	r := &sourceReader{source: source}
	p := c.context.NewPlayer(r)
	p.Play()
	return &player{player: p, reader: r}
}

func (c *Context) Resume() error {
	if err := c.context.Resume(); err != nil {
		return fmt.Errorf("cannot resume oto context: %w", err)
	}
	if err := c.context.Err(); err != nil {
		return fmt.Errorf("oto context failed: %w", err)
	}
	return nil
}

// Close suspends the device. oto contexts cannot be disposed of, so the
// device stays open until the process exits.
func (c *Context) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (r *sourceReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, errNoFrames
	}
	if cap(r.buffer) < frames {
		r.buffer = make(soundscape.AudioBuffer, frames)
	}
	n, err := r.source.ReadAudio(r.buffer[:frames])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("cannot read from audio source: %w", err)
	}
	r.bytes = FloatBufferToF32LE(r.buffer[:n], r.bytes[:0])
	return copy(p, r.bytes), nil
}

func (p *player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// Wait blocks until the player has drained, i.e. the source returned io.EOF.
func (p *player) Wait() {
	for p.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}
