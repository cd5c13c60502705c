package preflow

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Options tune the push-relabel solver.
type Options struct {
	// GlobalRelabelInterval is the number of discharges performed between
	// global relabels. Zero uses the number of edges in the network. A negative
	// value runs only the initial global relabel.
	GlobalRelabelInterval int
	// MaxRelabelsPerNode bounds the number of times any one node may be
	// relabeled before PushRelabel gives up with ErrRelabelBound. Zero uses
	// 2n+2 for a network of n nodes.
	MaxRelabelsPerNode int
}

// Stats counts the operations performed by a PushRelabel.
type Stats struct {
	Pushes          int   // Pushes which moved a non-zero amount of flow.
	Relabels        int   // Relabel operations, across all nodes.
	Discharges      int   // Discharge operations.
	GlobalRelabels  int   // Global relabel passes, including the initial one.
	MaxNodeRelabels int   // Largest number of relabels applied to a single node.
	Trapped         int64 // Total excess discarded at nodes unable to reach the sink.
}

// SetOptions replaces the Options used by subsequent calls to PushRelabel.
func (fn *FlowNetwork) SetOptions(opts Options) { fn.opts = opts }

// PushRelabel finds a maximum flow via the push-relabel algorithm. The network's residual
// capacities are reset first, so PushRelabel may be called repeatedly.
func (fn *FlowNetwork) PushRelabel() error {
	var started = time.Now()

	var source, sink, err = fn.Terminals()
	if err != nil {
		return err
	}
	fn.reset()

	var s = newSolver(fn, source, sink)
	s.preflow()
	s.globalRelabel()
	err = s.run()

	fn.trapped, fn.stats = s.trapped, s.stats
	for _, r := range s.relabels {
		fn.stats.MaxNodeRelabels = max(fn.stats.MaxNodeRelabels, r)
	}
	for _, t := range s.trapped {
		fn.stats.Trapped += t
	}
	observeStats(fn.stats, time.Since(started))

	if err != nil {
		return err
	}
	fn.source, fn.sink, fn.solved = source, sink, true

	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"nodes":          fn.numNodes,
			"edges":          fn.NumEdges(),
			"source":         source,
			"sink":           sink,
			"flow":           s.excess[sink],
			"pushes":         fn.stats.Pushes,
			"relabels":       fn.stats.Relabels,
			"globalRelabels": fn.stats.GlobalRelabels,
			"trapped":        fn.stats.Trapped,
			"elapsed":        time.Since(started),
		}).Debug("solved maximum flow")
	}
	return nil
}

func observeStats(stats Stats, elapsed time.Duration) {
	pushesTotal.Add(float64(stats.Pushes))
	relabelsTotal.Add(float64(stats.Relabels))
	dischargesTotal.Add(float64(stats.Discharges))
	globalRelabelsTotal.Add(float64(stats.GlobalRelabels))
	maxFlowRuntimeSeconds.Observe(elapsed.Seconds())
}

// solver holds the state of a single PushRelabel over a FlowNetwork.
type solver struct {
	fn           *FlowNetwork
	n            int
	source, sink int

	height   []int
	excess   []int64
	trapped  []int64 // Excess discarded at each node.
	relabels []int   // Relabels applied to each node.
	active   activeSet

	interval    int // Discharges between global relabels; zero disables them.
	sinceGlobal int // Discharges since the last global relabel.
	maxRelabels int

	// Scratch space of globalRelabel.
	toSink, toSource []int
	queue            []int

	stats Stats
}

func newSolver(fn *FlowNetwork, source, sink int) *solver {
	var n = fn.numNodes
	var s = &solver{
		fn:          fn,
		n:           n,
		source:      source,
		sink:        sink,
		height:      make([]int, n),
		excess:      make([]int64, n),
		trapped:     make([]int64, n),
		relabels:    make([]int, n),
		interval:    fn.opts.GlobalRelabelInterval,
		maxRelabels: fn.opts.MaxRelabelsPerNode,
		toSink:      make([]int, n),
		toSource:    make([]int, n),
		queue:       make([]int, 0, n),
	}
	if s.interval == 0 {
		s.interval = fn.NumEdges()
	}
	if s.interval < 0 {
		s.interval = 0
	}
	if s.maxRelabels <= 0 {
		s.maxRelabels = 2*n + 2
	}
	s.height[source] = n
	return s
}

// preflow saturates every arc leaving the source.
func (s *solver) preflow() {
	for _, a := range s.fn.adjacent[s.source] {
		var fwd = &s.fn.arcs[a]
		if fwd.to == s.source || fwd.residual == 0 {
			continue
		}
		var delta = fwd.residual
		fwd.residual = 0
		s.fn.arcs[a^1].residual += delta
		s.excess[s.source] -= delta
		s.excess[fwd.to] += delta
	}
}

// run discharges active nodes, highest first, until none remain.
func (s *solver) run() error {
	for s.active.len() != 0 {
		if s.interval != 0 && s.sinceGlobal == s.interval {
			s.globalRelabel()
		}
		var node = s.active.pop()

		if err := s.discharge(node.id); err != nil {
			return err
		}
		s.sinceGlobal++
	}
	return nil
}

// discharge pushes the excess of node |v| along each admissible arc, and then
// relabels |v| if excess remains. Nodes lifted above the source can no longer
// reach the sink, and have their excess discarded.
func (s *solver) discharge(v int) error {
	s.stats.Discharges++

	var h = s.height[v]
	for _, a := range s.fn.adjacent[v] {
		if s.excess[v] == 0 {
			break
		}
		var to = s.fn.arcs[a].to
		if to != v && s.height[to] == h-1 && s.fn.arcs[a].residual > 0 {
			s.push(v, a)
		}
	}
	if s.excess[v] == 0 {
		return nil
	}

	if err := s.relabel(v); err != nil {
		return err
	}
	if s.height[v] > s.n {
		s.trapped[v] += s.excess[v]
		s.excess[v] = 0
		return nil
	}
	s.active.push(v, s.height[v])
	return nil
}

// push moves as much excess as the residual of arc |a| allows from |v| to the arc's head.
func (s *solver) push(v, a int) {
	var fwd, rev = &s.fn.arcs[a], &s.fn.arcs[a^1]
	var delta = min(s.excess[v], fwd.residual)

	fwd.residual -= delta
	rev.residual += delta
	s.excess[v] -= delta

	var prior = s.excess[fwd.to]
	s.excess[fwd.to] += delta
	s.stats.Pushes++

	if prior == 0 && fwd.to != s.sink && fwd.to != s.source {
		s.active.push(fwd.to, s.height[fwd.to])
	}
	if log.IsLevelEnabled(log.TraceLevel) {
		log.WithFields(log.Fields{"from": v, "to": fwd.to, "delta": delta}).Trace("push")
	}
}

// relabel lifts |v| to one above its lowest neighbor reachable by a residual arc.
// A node without such neighbors is lifted to n+1.
func (s *solver) relabel(v int) error {
	var prior, lowest = s.height[v], s.n
	for _, a := range s.fn.adjacent[v] {
		var to = s.fn.arcs[a].to
		if to != v && s.fn.arcs[a].residual > 0 && s.height[to] < lowest {
			lowest = s.height[to]
		}
	}
	s.height[v] = lowest + 1
	s.relabels[v]++
	s.stats.Relabels++

	if log.IsLevelEnabled(log.TraceLevel) {
		log.WithFields(log.Fields{"node": v, "from": prior, "to": s.height[v]}).Trace("relabel")
	}
	if s.relabels[v] > s.maxRelabels {
		return errors.Wrapf(ErrRelabelBound, "node %d relabeled %d times (height %d)", v, s.relabels[v], s.height[v])
	}
	return nil
}
