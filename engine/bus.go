package engine

import (
	"io"
	"math"
	"slices"
	"sync"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/soundscape"
)

// Bus is the master gain stage. Every audible node is routed into the bus and
// the bus is the only place where the volume is applied. ReadAudio is called
// from the goroutine driving the audio device; the mutex ensures nodes are not
// connected or disconnected while a block is being mixed.
type Bus struct {
	mutex  sync.Mutex
	inputs []*Node
	gain   float32 // gain applied at the end of the previous block
	target float32
	closed bool

	mix, scratch []float32
	meter        Meter
}

// NewBus returns a bus with the given initial gain, clamped to [0,1].
func NewBus(sampleRate int, gain float64) *Bus {
	g := float32(clampVolume(gain))
	return &Bus{gain: g, target: g, meter: NewMeter(sampleRate)}
}

func clampVolume(level float64) float64 {
	if math.IsNaN(level) {
		panic("engine: volume is NaN")
	}
	return math.Max(0, math.Min(1, level))
}

// Connect routes the node into the bus. Connecting a node twice or connecting
// to a closed bus does nothing.
func (b *Bus) Connect(n *Node) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed || slices.Contains(b.inputs, n) {
		return
	}
	b.inputs = append(b.inputs, n)
	n.connected.Store(true)
}

// Disconnect removes the node from the bus. After Disconnect returns, the node
// is not rendered anymore. Disconnecting a node that is not connected does
// nothing.
func (b *Bus) Disconnect(n *Node) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if i := slices.Index(b.inputs, n); i >= 0 {
		b.inputs = slices.Delete(b.inputs, i, i+1)
	}
	n.connected.Store(false)
}

// Inputs returns a snapshot of the nodes currently routed into the bus.
func (b *Bus) Inputs() []*Node {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return slices.Clone(b.inputs)
}

// SetGain clamps the level to [0,1] and applies it to everything routed into
// the bus from the next block on. The change is ramped linearly over that
// block to avoid clicks. Returns the clamped level.
func (b *Bus) SetGain(level float64) float64 {
	level = clampVolume(level)
	b.mutex.Lock()
	b.target = float32(level)
	b.mutex.Unlock()
	return level
}

func (b *Bus) Gain() float64 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return float64(b.target)
}

// Level returns the smoothed level and the most recent peak of the output, in
// dBFS.
func (b *Bus) Level() (level, peak float64) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.meter.Level, b.meter.Peak
}

// ReadAudio mixes all inputs into the buffer, identical in both channels.
// Inputs that have finished are disconnected. After Close, ReadAudio returns
// io.EOF.
func (b *Bus) ReadAudio(buffer soundscape.AudioBuffer) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed {
		return 0, io.EOF
	}
	n := len(buffer)
	setSliceLength(&b.mix, n)
	setSliceLength(&b.scratch, n)
	clear(b.mix)
	finished := false
	for _, in := range b.inputs {
		if !in.Generate(b.scratch) {
			finished = true
		}
		vek32.Add_Inplace(b.mix, b.scratch)
	}
	if finished {
		b.inputs = slices.DeleteFunc(b.inputs, func(in *Node) bool {
			if in.State() == NodeStopped {
				in.connected.Store(false)
				return true
			}
			return false
		})
	}
	b.applyGain(b.mix)
	for i, v := range b.mix {
		if v != v { // NaN
			v = 0
		}
		b.mix[i] = max(-1, min(1, v))
	}
	b.meter.Update(b.mix)
	buffer.Mono(b.mix)
	return n, nil
}

func (b *Bus) applyGain(mix []float32) {
	if b.gain == b.target || len(mix) == 0 {
		vek32.MulNumber_Inplace(mix, b.target)
		b.gain = b.target
		return
	}
	step := (b.target - b.gain) / float32(len(mix))
	g := b.gain
	for i := range mix {
		g += step
		mix[i] *= g
	}
	b.gain = b.target
}

// Close disconnects everything; the bus produces no more audio.
func (b *Bus) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, in := range b.inputs {
		in.connected.Store(false)
	}
	b.inputs = nil
	b.closed = true
	return nil
}
