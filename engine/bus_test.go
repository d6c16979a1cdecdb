package engine

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/soundscape"
)

// constant renders a constant value, for blocks blocks (forever if blocks < 0).
type constant struct {
	value  float32
	blocks int
}

func (c *constant) Generate(buffer []float32) bool {
	if c.blocks == 0 {
		clear(buffer)
		return false
	}
	c.blocks--
	for i := range buffer {
		buffer[i] = c.value
	}
	return true
}

func startedNode(value float32, blocks int) *Node {
	n := NewNode("const", &constant{value: value, blocks: blocks})
	n.Start()
	return n
}

func render(t *testing.T, b *Bus, frames int) soundscape.AudioBuffer {
	t.Helper()
	buffer := make(soundscape.AudioBuffer, frames)
	n, err := b.ReadAudio(buffer)
	require.NoError(t, err)
	require.Equal(t, frames, n)
	return buffer
}

func TestBusMixesInputs(t *testing.T) {
	b := NewBus(44100, 1)
	b.Connect(startedNode(0.25, -1))
	b.Connect(startedNode(0.5, -1))
	for _, frame := range render(t, b, 16) {
		assert.InDelta(t, 0.75, frame[0], 1e-6)
		assert.Equal(t, frame[0], frame[1])
	}
}

func TestBusLimitsOutput(t *testing.T) {
	b := NewBus(44100, 1)
	b.Connect(startedNode(0.8, -1))
	b.Connect(startedNode(0.8, -1))
	for _, frame := range render(t, b, 8) {
		assert.Equal(t, float32(1), frame[0])
	}
}

func TestBusSilencesNaN(t *testing.T) {
	b := NewBus(44100, 1)
	b.Connect(startedNode(float32(math.NaN()), -1))
	for _, frame := range render(t, b, 8) {
		assert.Equal(t, float32(0), frame[0])
	}
}

func TestBusGainRamp(t *testing.T) {
	b := NewBus(44100, 1)
	b.Connect(startedNode(0.5, -1))
	for _, frame := range render(t, b, 4) {
		assert.InDelta(t, 0.5, frame[0], 1e-6)
	}
	assert.Equal(t, 0.0, b.SetGain(-3))
	assert.Equal(t, 0.0, b.Gain())
	ramp := render(t, b, 4)
	for i, want := range []float32{0.375, 0.25, 0.125, 0} {
		assert.InDelta(t, want, ramp[i][0], 1e-6)
	}
	for _, frame := range render(t, b, 4) {
		assert.Equal(t, float32(0), frame[0])
	}
	assert.Equal(t, 1.0, b.SetGain(7))
}

func TestBusDropsFinishedInputs(t *testing.T) {
	b := NewBus(44100, 1)
	bed := startedNode(0.1, -1)
	chirp := startedNode(0.2, 1)
	b.Connect(bed)
	b.Connect(chirp)
	b.Connect(chirp)
	assert.Len(t, b.Inputs(), 2)
	render(t, b, 8)
	render(t, b, 8)
	assert.Equal(t, []*Node{bed}, b.Inputs())
	assert.Equal(t, NodeStopped, chirp.State())
	assert.False(t, chirp.Connected())
	assert.True(t, bed.Connected())
}

func TestBusSilencesIdleAndDisconnectedNodes(t *testing.T) {
	b := NewBus(44100, 1)
	idle := NewNode("idle", &constant{value: 0.5, blocks: -1})
	b.Connect(idle)
	for _, frame := range render(t, b, 8) {
		assert.Equal(t, float32(0), frame[0])
	}
	idle.Start()
	render(t, b, 8)
	b.Disconnect(idle)
	b.Disconnect(idle)
	assert.False(t, idle.Connected())
	for _, frame := range render(t, b, 8) {
		assert.Equal(t, float32(0), frame[0])
	}
}

func TestBusClose(t *testing.T) {
	b := NewBus(44100, 1)
	n := startedNode(0.5, -1)
	b.Connect(n)
	require.NoError(t, b.Close())
	assert.False(t, n.Connected())
	_, err := b.ReadAudio(make(soundscape.AudioBuffer, 8))
	assert.ErrorIs(t, err, io.EOF)
	b.Connect(n)
	assert.Empty(t, b.Inputs())
}

func TestBusVolumeNaNPanics(t *testing.T) {
	assert.Panics(t, func() { NewBus(44100, 1).SetGain(math.NaN()) })
}

func TestMeter(t *testing.T) {
	m := NewMeter(100)
	silence := make([]float32, 100)
	require.NoError(t, m.Update(silence))
	assert.Equal(t, m.Min, m.Level)
	assert.Equal(t, m.Min, m.Peak)

	loud := make([]float32, 1000)
	for i := range loud {
		loud[i] = 0.5
		if i%2 == 1 {
			loud[i] = -0.5
		}
	}
	require.NoError(t, m.Update(loud))
	assert.InDelta(t, 20*math.Log10(0.5), m.Peak, 1e-6)
	assert.InDelta(t, 20*math.Log10(0.5), m.Level, 0.5)

	assert.ErrorIs(t, m.Update([]float32{float32(math.NaN())}), nanError)
}
