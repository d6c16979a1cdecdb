package soundscape

import (
	"errors"
	"sync"
)

type (
	// CaptureContext is an AudioContext without a device: the played source is
	// only rendered when Capture is called. It is used for offline rendering to
	// files and in tests.
	CaptureContext struct {
		mutex  sync.Mutex
		source AudioSource
		closed bool
	}

	captureWaiter struct {
		context *CaptureContext
		source  AudioSource
	}
)

var errNothingPlaying = errors.New("nothing is playing on the capture context")

func (c *CaptureContext) Play(source AudioSource) CloserWaiter {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.source = source
	return captureWaiter{context: c, source: source}
}

func (c *CaptureContext) Resume() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return errors.New("capture context is closed")
	}
	return nil
}

func (c *CaptureContext) Close() error {
	c.mutex.Lock()
	c.closed = true
	c.source = nil
	c.mutex.Unlock()
	return nil
}

// Capture renders the given number of stereo frames from the source that is
// currently playing.
func (c *CaptureContext) Capture(frames int) (AudioBuffer, error) {
	c.mutex.Lock()
	source := c.source
	c.mutex.Unlock()
	if source == nil {
		return nil, errNothingPlaying
	}
	buffer := make(AudioBuffer, frames)
	if err := buffer.Fill(source); err != nil {
		return nil, err
	}
	return buffer, nil
}

func (w captureWaiter) Close() error {
	w.context.mutex.Lock()
	if w.context.source == w.source {
		w.context.source = nil
	}
	w.context.mutex.Unlock()
	return nil
}

func (w captureWaiter) Wait() {}
