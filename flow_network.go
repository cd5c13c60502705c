package preflow

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Edge is a directed edge from the node with ID From to the node with ID To,
// which may carry up to Capacity units of flow.
type Edge struct {
	From, To int
	Capacity int64
}

// FlowNetwork is a directed graph in which each edge is associated with a capacity.
//
// Every added edge is stored as a pair of arcs: a forward arc holding the
// edge's residual capacity, and a twin reverse arc holding the flow which may
// be returned along it. Arc 2k is the forward arc of the k'th added edge and
// arc 2k+1 is its twin, so the twin of arc a is always a^1.
//
// By default, the node which has no incoming edges is the source and the node
// which has no outgoing edges is the sink. SetTerminals may be used to name
// them explicitly instead.
type FlowNetwork struct {
	numNodes  int
	arcs      []arc
	adjacent  [][]int // IDs of arcs leaving each node.
	inDegree  []int
	outDegree []int
	incident  []int64 // Summed capacity of edges touching each node.

	manualTerminals bool
	source, sink    int
	solved          bool

	opts    Options
	trapped []int64
	stats   Stats
}

type arc struct {
	to       int
	residual int64
	capacity int64 // Capacity of the edge, or zero for a twin arc.
}

// maxPreallocNodes bounds the node count used to size the initial arc slice.
const maxPreallocNodes = 1 << 16

// NewFlowNetwork constructs a new graph, preallocating enough memory for the provided number of nodes.
func NewFlowNetwork(numNodes int) *FlowNetwork {
	if numNodes < 0 {
		numNodes = 0
	}
	return &FlowNetwork{
		numNodes:  numNodes,
		arcs:      make([]arc, 0, min(numNodes, maxPreallocNodes)*4), // preallocate assuming avg. node degree = 2
		adjacent:  make([][]int, numNodes),
		inDegree:  make([]int, numNodes),
		outDegree: make([]int, numNodes),
		incident:  make([]int64, numNodes),
		source:    -1,
		sink:      -1,
	}
}

// NumNodes returns the number of nodes in the network.
func (fn *FlowNetwork) NumNodes() int { return fn.numNodes }

// NumEdges returns the number of edges added to the network.
func (fn *FlowNetwork) NumEdges() int { return len(fn.arcs) / 2 }

// AddEdge adds an edge to the flow network. An error is returned if either fromID or toID are not
// valid node IDs, if capacity is negative, or if the total capacity of edges touching either node
// would no longer fit within an int64. Adding an edge twice adds its capacity twice.
func (fn *FlowNetwork) AddEdge(fromID, toID int, capacity int64) error {
	if err := fn.checkNode(fromID); err != nil {
		return err
	}
	if err := fn.checkNode(toID); err != nil {
		return err
	}
	if capacity < 0 {
		return errors.Wrapf(ErrNegativeCapacity, "edge from %d to %d has capacity %d", fromID, toID, capacity)
	}
	if fn.incident[fromID] > math.MaxInt64-capacity {
		return errors.Wrapf(ErrCapacityOverflow, "node %d", fromID)
	}
	if fromID != toID && fn.incident[toID] > math.MaxInt64-capacity {
		return errors.Wrapf(ErrCapacityOverflow, "node %d", toID)
	}
	fn.incident[fromID] += capacity
	if fromID != toID {
		fn.incident[toID] += capacity
	}

	var id = len(fn.arcs)
	fn.arcs = append(fn.arcs,
		arc{to: toID, residual: capacity, capacity: capacity},
		arc{to: fromID},
	)
	fn.adjacent[fromID] = append(fn.adjacent[fromID], id)
	fn.adjacent[toID] = append(fn.adjacent[toID], id+1)
	fn.outDegree[fromID]++
	fn.inDegree[toID]++
	fn.solved = false
	return nil
}

func (fn *FlowNetwork) checkNode(id int) error {
	if id < 0 || id >= fn.numNodes {
		return errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	return nil
}

// Edges returns every edge added to the network, in the order they were added.
func (fn *FlowNetwork) Edges() []Edge {
	var out = make([]Edge, 0, fn.NumEdges())
	for a := 0; a < len(fn.arcs); a += 2 {
		out = append(out, Edge{From: fn.arcs[a+1].to, To: fn.arcs[a].to, Capacity: fn.arcs[a].capacity})
	}
	return out
}

// Residual returns the residual capacity from one node to another, summed across all arcs
// joining them. This includes flow which may be returned along edges directed from 'to' to 'from'.
func (fn *FlowNetwork) Residual(from, to int) int64 {
	if fn.checkNode(from) != nil || fn.checkNode(to) != nil {
		return 0
	}
	var result int64
	for _, a := range fn.adjacent[from] {
		if fn.arcs[a].to == to {
			result += fn.arcs[a].residual
		}
	}
	return result
}

// Capacity returns the summed capacity of all edges from one node to another.
func (fn *FlowNetwork) Capacity(from, to int) int64 {
	if fn.checkNode(from) != nil || fn.checkNode(to) != nil {
		return 0
	}
	var result int64
	for _, a := range fn.adjacent[from] {
		if a&1 == 0 && fn.arcs[a].to == to {
			result += fn.arcs[a].capacity
		}
	}
	return result
}

// Flow returns the flow along edges from one node to another. The result is only meaningful
// after PushRelabel has been run.
func (fn *FlowNetwork) Flow(from, to int) int64 {
	if fn.checkNode(from) != nil || fn.checkNode(to) != nil {
		return 0
	}
	var result int64
	for _, a := range fn.adjacent[from] {
		if a&1 == 0 && fn.arcs[a].to == to {
			result += fn.arcs[a].capacity - fn.arcs[a].residual
		}
	}
	return result
}

// Neighbors returns the sorted IDs of all nodes joined to nodeID by an edge in either direction.
func (fn *FlowNetwork) Neighbors(nodeID int) []int {
	return fn.neighbors(nodeID, func(int) bool { return true })
}

// ForwardNeighbors returns the sorted IDs of nodes reached by edges leaving nodeID.
func (fn *FlowNetwork) ForwardNeighbors(nodeID int) []int {
	return fn.neighbors(nodeID, func(a int) bool { return a&1 == 0 })
}

// ReverseNeighbors returns the sorted IDs of nodes having edges which enter nodeID.
func (fn *FlowNetwork) ReverseNeighbors(nodeID int) []int {
	return fn.neighbors(nodeID, func(a int) bool { return a&1 == 1 })
}

func (fn *FlowNetwork) neighbors(nodeID int, include func(int) bool) []int {
	if fn.checkNode(nodeID) != nil {
		return nil
	}
	var seen = make(map[int]struct{})
	var out []int
	for _, a := range fn.adjacent[nodeID] {
		if !include(a) {
			continue
		}
		if _, ok := seen[fn.arcs[a].to]; !ok {
			seen[fn.arcs[a].to] = struct{}{}
			out = append(out, fn.arcs[a].to)
		}
	}
	sort.Ints(out)
	return out
}

// Outflow returns the amount of flow entering the sink. This is the solution to the
// typical max flow problem, and is zero until PushRelabel has succeeded.
func (fn *FlowNetwork) Outflow() int64 {
	if !fn.solved {
		return 0
	}
	return fn.netInflow(fn.sink)
}

// Trapped returns the excess which was discarded at nodeID after the node was found
// to be unable to reach the sink. The result is only meaningful after PushRelabel has been run.
func (fn *FlowNetwork) Trapped(nodeID int) int64 {
	if !fn.solved || fn.checkNode(nodeID) != nil {
		return 0
	}
	return fn.trapped[nodeID]
}

// Stats returns operation counts of the most recent PushRelabel.
func (fn *FlowNetwork) Stats() Stats { return fn.stats }

// netInflow is the flow entering nodeID less the flow leaving it, derived from residuals.
func (fn *FlowNetwork) netInflow(nodeID int) int64 {
	var result int64
	for _, a := range fn.adjacent[nodeID] {
		if fn.arcs[a].to == nodeID {
			continue // Self-loops carry no net flow.
		}
		result += fn.arcs[a].residual - fn.arcs[a].capacity
	}
	return result
}

// reset prepares the network for computing a new flow.
func (fn *FlowNetwork) reset() {
	for a := range fn.arcs {
		fn.arcs[a].residual = fn.arcs[a].capacity
	}
	fn.solved = false
	fn.stats = Stats{}
}

// MaxFlow builds a FlowNetwork of the given edges and returns its maximum flow.
func MaxFlow(numNodes int, edges []Edge) (int64, error) {
	var fn = NewFlowNetwork(numNodes)
	for _, e := range edges {
		if err := fn.AddEdge(e.From, e.To, e.Capacity); err != nil {
			return 0, err
		}
	}
	if err := fn.PushRelabel(); err != nil {
		return 0, err
	}
	return fn.Outflow(), nil
}
