// Package gomidi lets a MIDI controller drive the engine: a control change
// sets the volume and a program change selects the preset.
package gomidi

import (
	"context"
	"errors"

	"github.com/vsariola/soundscape"
	"github.com/vsariola/soundscape/log"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Target is what the controller drives, typically an *engine.Engine.
	Target interface {
		Select(p soundscape.Preset) error
		SetVolume(level float64)
	}

	Controller struct {
		target   Target
		volumeCC uint8
		channel  int // -1 = any
		log      *log.Logger
		events   chan midi.Message
	}
)

// AnyChannel makes the controller listen to all MIDI channels.
const AnyChannel = -1

var ErrNoMIDI = errors.New("MIDI is not available in this build")

func NewController(target Target, volumeCC uint8, channel int, lg *log.Logger) *Controller {
	return &Controller{
		target:   target,
		volumeCC: volumeCC,
		channel:  channel,
		log:      lg,
		events:   make(chan midi.Message, 256),
	}
}

// HandleMessage is the callback of the MIDI driver. It only queues the
// message; if the queue is full, the message is dropped.
func (c *Controller) HandleMessage(msg midi.Message, timestampms int32) {
	select {
	case c.events <- msg:
	default:
	}
}

// Run applies queued messages until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-c.events:
			c.Apply(msg)
		}
	}
}

// Apply maps one message onto the target and reports whether it was used.
// Program changes beyond the last preset are ignored.
func (c *Controller) Apply(msg midi.Message) bool {
	var ch, cc, val, prog uint8
	switch {
	case msg.GetControlChange(&ch, &cc, &val):
		if !c.listens(ch) || cc != c.volumeCC {
			return false
		}
		c.target.SetVolume(float64(val) / 127)
		return true
	case msg.GetProgramChange(&ch, &prog):
		p := soundscape.Preset(prog)
		if !c.listens(ch) || !p.Valid() {
			return false
		}
		if err := c.target.Select(p); err != nil {
			c.log.Warn("MIDI program change failed", "preset", p, "error", err)
		}
		return true
	}
	return false
}

func (c *Controller) listens(ch uint8) bool {
	return c.channel == AnyChannel || int(ch) == c.channel
}
