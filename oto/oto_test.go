package oto

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/soundscape"
)

func TestFloatBufferToF32LE(t *testing.T) {
	buffer := soundscape.AudioBuffer{{0.5, -0.5}, {1, 0}}
	out := FloatBufferToF32LE(buffer, nil)
	require.Len(t, out, 2*bytesPerFrame)
	want := []float32{0.5, -0.5, 1, 0}
	for i, v := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(out[i*4:]))
		assert.Equal(t, v, got)
	}
	out = FloatBufferToF32LE(buffer[:1], out[:0])
	assert.Len(t, out, bytesPerFrame)
}

type countingSource struct {
	frames int
	eof    bool
}

func (s *countingSource) ReadAudio(buffer soundscape.AudioBuffer) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	n := min(len(buffer), 3)
	for i := range n {
		buffer[i] = [2]float32{float32(s.frames + i), 0}
	}
	s.frames += n
	return n, nil
}

func TestSourceReader(t *testing.T) {
	src := &countingSource{}
	r := &sourceReader{source: src}
	p := make([]byte, 5*bytesPerFrame+3)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 3*bytesPerFrame, n)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(p[2*bytesPerFrame:])))

	_, err = r.Read(p[:bytesPerFrame-1])
	assert.Error(t, err)

	src.eof = true
	_, err = r.Read(p)
	assert.ErrorIs(t, err, io.EOF)
}
