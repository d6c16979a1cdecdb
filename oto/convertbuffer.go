package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/soundscape"
)

// bytesPerFrame of an interleaved stereo float32 frame
const bytesPerFrame = 8

// FloatBufferToF32LE appends the stereo buffer to out as interleaved
// little-endian float32 samples, the format the device context is opened with.
func FloatBufferToF32LE(buffer soundscape.AudioBuffer, out []byte) []byte {
	for _, frame := range buffer {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(frame[0]))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(frame[1]))
	}
	return out
}
