package gomidi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/soundscape"
	"gitlab.com/gomidi/midi/v2"
)

type fakeTarget struct {
	selected []soundscape.Preset
	volumes  []float64
	err      error
}

func (f *fakeTarget) Select(p soundscape.Preset) error {
	f.selected = append(f.selected, p)
	return f.err
}

func (f *fakeTarget) SetVolume(level float64) {
	f.volumes = append(f.volumes, level)
}

func TestVolumeControlChange(t *testing.T) {
	target := &fakeTarget{}
	c := NewController(target, 7, AnyChannel, nil)
	assert.True(t, c.Apply(midi.ControlChange(0, 7, 127)))
	assert.True(t, c.Apply(midi.ControlChange(5, 7, 0)))
	assert.False(t, c.Apply(midi.ControlChange(0, 1, 64)))
	assert.Equal(t, []float64{1, 0}, target.volumes)
}

func TestProgramChange(t *testing.T) {
	target := &fakeTarget{}
	c := NewController(target, 7, AnyChannel, nil)
	assert.True(t, c.Apply(midi.ProgramChange(0, 1)))
	assert.True(t, c.Apply(midi.ProgramChange(0, 2)))
	assert.True(t, c.Apply(midi.ProgramChange(0, 0)))
	assert.False(t, c.Apply(midi.ProgramChange(0, 3)))
	assert.Equal(t, []soundscape.Preset{soundscape.Rain, soundscape.Forest, soundscape.Off}, target.selected)

	target.err = soundscape.ErrAudioUnavailable
	assert.True(t, c.Apply(midi.ProgramChange(0, 1)))
}

func TestChannelFilter(t *testing.T) {
	target := &fakeTarget{}
	c := NewController(target, 7, 3, nil)
	assert.False(t, c.Apply(midi.ControlChange(2, 7, 64)))
	assert.False(t, c.Apply(midi.ProgramChange(4, 1)))
	assert.True(t, c.Apply(midi.ControlChange(3, 7, 64)))
	assert.False(t, c.Apply(midi.NoteOn(3, 60, 100)))
	require.Len(t, target.volumes, 1)
	assert.InDelta(t, 64.0/127, target.volumes[0], 1e-9)
	assert.Empty(t, target.selected)
}

func TestRunDrainsQueue(t *testing.T) {
	target := &fakeTarget{}
	c := NewController(target, 7, AnyChannel, nil)
	c.HandleMessage(midi.ControlChange(0, 7, 127), 0)
	c.HandleMessage(midi.ProgramChange(0, 2), 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- c.Run(ctx) }()
	require.Eventually(t, func() bool { return len(c.events) == 0 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []float64{1}, target.volumes)
	assert.Equal(t, []soundscape.Preset{soundscape.Forest}, target.selected)
}

func TestHandleMessageDropsWhenFull(t *testing.T) {
	c := NewController(&fakeTarget{}, 7, AnyChannel, nil)
	for i := 0; i < cap(c.events)+10; i++ {
		c.HandleMessage(midi.ControlChange(0, 7, 1), 0)
	}
	assert.Len(t, c.events, cap(c.events))
}

