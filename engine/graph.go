package engine

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vsariola/soundscape"
	"github.com/vsariola/soundscape/dsp"
	"github.com/vsariola/soundscape/log"
	"github.com/vsariola/soundscape/rand"
)

type (
	// Graph is the source → filter → bus wiring of one preset. A graph is used
	// exactly once: it is built, started and torn down, and never restarted.
	Graph struct {
		preset soundscape.Preset
		bus    *Bus
		opts   Options
		rng    *rand.Rand
		log    *log.Logger

		mutex     sync.Mutex
		state     GraphState
		nodes     []*Node // every node owned by the graph, in creation order
		outputs   []*Node // the nodes routed into the bus on Start
		scheduler *Scheduler
		chirps    int
	}

	GraphState int

	graphFactory func(g *Graph)
)

const (
	GraphBuilding GraphState = iota
	GraphLive
	GraphTornDown
)

var factories = [soundscape.NumPresets]graphFactory{
	soundscape.Off:    func(g *Graph) {},
	soundscape.Rain:   buildRain,
	soundscape.Forest: buildForest,
}

// NewGraph builds, but does not start, the graph of the preset. All audible
// nodes are routed into bus when the graph is started.
func NewGraph(preset soundscape.Preset, bus *Bus, opts Options, rng *rand.Rand, lg *log.Logger) *Graph {
	if !preset.Valid() {
		panic(fmt.Sprintf("engine: no graph for %v", preset))
	}
	g := &Graph{preset: preset, bus: bus, opts: opts, rng: rng, log: lg.With("preset", preset)}
	factories[preset](g)
	return g
}

func buildRain(g *Graph) {
	noise := g.add("noise", dsp.NewBrownNoise(g.opts.SampleRate, g.opts.Noise, g.rng))
	lowpass := g.add("lowpass", dsp.NewLowpass(noise, g.opts.SampleRate, g.opts.Rain.CutoffHz, g.opts.Rain.Q))
	g.route(lowpass)
}

func buildForest(g *Graph) {
	f := g.opts.Forest
	noise := g.add("noise", dsp.NewBrownNoise(g.opts.SampleRate, g.opts.Noise, g.rng))
	gust := g.add("gust", dsp.NewLFO(g.opts.SampleRate, f.GustHz))
	bp := dsp.NewBandpass(noise, g.opts.SampleRate, f.CenterHz, f.Q)
	bp.Modulate(gust, f.DepthHz)
	g.route(g.add("bandpass", bp))
	b := g.opts.Birds
	g.scheduler = NewScheduler(b.Interval, b.Probability, rand.New(g.rng.Uint64()), g.spawnChirp)
}

func (g *Graph) add(name string, gen dsp.Generator) *Node {
	n := NewNode(name, gen)
	g.nodes = append(g.nodes, n)
	return n
}

func (g *Graph) route(n *Node) {
	g.outputs = append(g.outputs, n)
}

// Start moves the graph from Building to Live: every node is started, the
// outputs are connected to the bus and finally the scheduler is started.
// Starting a graph that is not Building does nothing.
func (g *Graph) Start() {
	g.mutex.Lock()
	if g.state != GraphBuilding {
		g.mutex.Unlock()
		return
	}
	for _, n := range g.nodes {
		n.Start()
	}
	for _, n := range g.outputs {
		g.bus.Connect(n)
	}
	g.state = GraphLive
	g.log.Debug("graph live", "nodes", len(g.nodes))
	g.mutex.Unlock()
	// ticks lock the scheduler before the graph, so start it outside our lock
	if g.scheduler != nil {
		g.scheduler.Start()
	}
}

// spawnChirp is the onFire callback of the scheduler: it adds one transient to
// the live graph and routes it into the bus.
func (g *Graph) spawnChirp() {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if g.state != GraphLive {
		return
	}
	// finished chirps have already been dropped by the bus
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool {
		return n.State() == NodeStopped && !n.Connected()
	})
	n := g.add("chirp", dsp.NewTransient(g.opts.SampleRate, g.opts.Birds.Chirp, g.rng))
	n.Start()
	g.bus.Connect(n)
	g.chirps++
}

// Teardown cancels the scheduler, then stops and disconnects every node and
// forgets them. When Teardown returns, nothing of the graph is audible and no
// callback of the graph runs anymore. Teardown is idempotent.
func (g *Graph) Teardown() {
	// Stop waits for an in-flight tick, which needs the graph mutex.
	if g.scheduler != nil {
		g.scheduler.Stop()
	}
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if g.state == GraphTornDown {
		return
	}
	for _, n := range g.nodes {
		n.Stop()
		g.bus.Disconnect(n)
	}
	g.nodes = nil
	g.outputs = nil
	g.state = GraphTornDown
	g.log.Debug("graph torn down", "chirps", g.chirps)
}

func (g *Graph) Preset() soundscape.Preset { return g.preset }

func (g *Graph) State() GraphState {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.state
}

// Nodes returns a snapshot of the nodes owned by the graph.
func (g *Graph) Nodes() []*Node {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return slices.Clone(g.nodes)
}

// Scheduler returns the transient scheduler of the graph, or nil if the preset
// has none.
func (g *Graph) Scheduler() *Scheduler { return g.scheduler }

// Chirps is the number of transients spawned by the graph.
func (g *Graph) Chirps() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.chirps
}

func (s GraphState) String() string {
	switch s {
	case GraphBuilding:
		return "building"
	case GraphLive:
		return "live"
	case GraphTornDown:
		return "torn down"
	}
	return fmt.Sprintf("GraphState(%d)", int(s))
}
