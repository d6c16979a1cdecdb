package engine

import (
	"sync/atomic"

	"github.com/vsariola/soundscape/dsp"
)

type (
	// Node is a handle on one generator of a graph: a source, a filter or a
	// modulator. A node renders silence until started and after stopped; a
	// stopped node can never be restarted.
	Node struct {
		name      string
		gen       dsp.Generator
		state     atomic.Int32
		connected atomic.Bool
	}

	NodeState int32
)

const (
	NodeIdle NodeState = iota
	NodeRunning
	NodeStopped
)

func NewNode(name string, gen dsp.Generator) *Node {
	return &Node{name: name, gen: gen}
}

func (n *Node) Name() string { return n.name }

func (n *Node) State() NodeState { return NodeState(n.state.Load()) }

// Connected reports whether the node is currently routed into a bus.
func (n *Node) Connected() bool { return n.connected.Load() }

func (n *Node) Start() {
	n.state.CompareAndSwap(int32(NodeIdle), int32(NodeRunning))
}

func (n *Node) Stop() {
	n.state.Store(int32(NodeStopped))
}

// Generate implements dsp.Generator, so nodes can feed other nodes. A node
// whose generator finishes (e.g. a transient) stops itself.
func (n *Node) Generate(buffer []float32) bool {
	switch n.State() {
	case NodeRunning:
		if n.gen.Generate(buffer) {
			return true
		}
		n.Stop()
		return false
	case NodeStopped:
		clear(buffer)
		return false
	default:
		clear(buffer)
		return true
	}
}

func (s NodeState) String() string {
	switch s {
	case NodeIdle:
		return "idle"
	case NodeRunning:
		return "running"
	case NodeStopped:
		return "stopped"
	}
	return "unknown"
}
