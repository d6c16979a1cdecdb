package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vsariola/soundscape"
	"github.com/vsariola/soundscape/log"
	"github.com/vsariola/soundscape/rand"
)

type (
	// State is what a host needs to render its controls.
	State struct {
		Preset soundscape.Preset `yaml:"preset"`
		Volume float64           `yaml:"volume"`
	}

	// ContextFactory opens the platform audio context. It is called lazily, on
	// the first Select of an audible preset, and again on later Selects for as
	// long as it keeps failing.
	ContextFactory func() (soundscape.AudioContext, error)

	// Engine holds at most one live Graph and the master bus every graph is
	// routed into. All methods are safe to call from multiple goroutines.
	Engine struct {
		mutex      sync.Mutex
		opts       Options
		newContext ContextFactory
		context    soundscape.AudioContext
		player     soundscape.CloserWaiter
		bus        *Bus
		graph      *Graph
		state      State
		rng        *rand.Rand
		log        *log.Logger
		closed     bool
	}
)

var errClosed = errors.New("engine is closed")

// New returns an engine with preset off and the default volume. No audio
// resources are acquired until the first audible Select.
func New(opts Options, newContext ContextFactory, lg *log.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}
	rng := rand.NewTimeSeeded()
	if opts.Seed != 0 {
		rng = rand.New(opts.Seed)
	}
	e := &Engine{
		opts:       opts,
		newContext: newContext,
		bus:        NewBus(opts.SampleRate, DefaultVolume),
		state:      State{Preset: soundscape.Off, Volume: DefaultVolume},
		rng:        rng,
		log:        lg,
	}
	e.graph = NewGraph(soundscape.Off, e.bus, opts, rng, lg)
	e.graph.Start()
	return e, nil
}

// Select tears down the current graph and then builds and starts the graph of
// the preset, also when it is the preset already playing. If the audio context
// cannot be opened, the engine stays silent with preset off and the returned
// error wraps soundscape.ErrAudioUnavailable. Select panics if p is not a
// valid preset.
func (e *Engine) Select(p soundscape.Preset) error {
	if !p.Valid() {
		panic(fmt.Sprintf("engine: Select(%v): invalid preset", p))
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.closed {
		return errClosed
	}
	prev := e.state.Preset
	e.graph.Teardown()
	e.state.Preset = soundscape.Off
	if p != soundscape.Off {
		if err := e.ensureContext(); err != nil {
			e.log.Warn("audio unavailable, staying silent", "preset", p, "error", err)
			e.graph = NewGraph(soundscape.Off, e.bus, e.opts, e.rng, e.log)
			e.graph.Start()
			return fmt.Errorf("%w: %w", soundscape.ErrAudioUnavailable, err)
		}
	}
	e.graph = NewGraph(p, e.bus, e.opts, rand.New(e.rng.Uint64()), e.log)
	e.graph.Start()
	e.state.Preset = p
	e.log.Info("preset selected", "from", prev, "to", p)
	return nil
}

func (e *Engine) ensureContext() error {
	if e.context == nil {
		c, err := e.newContext()
		if err != nil {
			return err
		}
		e.context = c
		e.player = c.Play(e.bus)
	}
	return e.context.Resume()
}

// SetVolume clamps level to [0,1] and applies it to the master bus, whatever
// the preset. SetVolume panics if level is NaN.
func (e *Engine) SetVolume(level float64) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.state.Volume = e.bus.SetGain(level)
	e.log.Debug("volume set", "requested", level, "volume", e.state.Volume)
}

func (e *Engine) State() State {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.state
}

// Graph returns the graph of the active preset.
func (e *Engine) Graph() *Graph {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.graph
}

func (e *Engine) Bus() *Bus { return e.bus }

// Level is the smoothed output level and the latest peak, in dBFS.
func (e *Engine) Level() (level, peak float64) { return e.bus.Level() }

// Close tears down the active graph, closes the bus and releases the audio
// context. Select fails after Close.
func (e *Engine) Close() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.graph.Teardown()
	e.state.Preset = soundscape.Off
	var errs []error
	errs = append(errs, e.bus.Close())
	if e.player != nil {
		errs = append(errs, e.player.Close())
	}
	if e.context != nil {
		errs = append(errs, e.context.Close())
	}
	e.log.Info("engine closed")
	return errors.Join(errs...)
}
