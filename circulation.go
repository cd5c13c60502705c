package preflow

import (
	"math"

	"github.com/pkg/errors"
)

// Circulation is a flow network which additionally requires edges and nodes to satisfy demand.
// Whereas in a traditional flow network problem we are interested in maximizing the amount of flow
// from the source to the sink, in a circulation we ask if there is a feasible flow which satisfies
// the demand. Nodes in a circulation have no source or sink; instead, each node may demand a net
// inflow (positive demand) or supply a net outflow (negative demand).
type Circulation struct {
	numNodes   int
	edges      []Edge
	edgeDemand []int64 // Lower bound of each of edges.
	nodeDemand []int64
	opts       Options

	network *FlowNetwork
	// targetValue is only reached when all lower-bounds are satisfied
	targetValue int64
	balanced    bool
}

// NewCirculation constructs a new circulation over the provided number of nodes.
func NewCirculation(numNodes int) *Circulation {
	if numNodes < 0 {
		numNodes = 0
	}
	return &Circulation{
		numNodes:   numNodes,
		nodeDemand: make([]int64, numNodes),
	}
}

// AddEdge adds an edge carrying at least demand and at most capacity units of flow. An error is
// returned if either fromID or toID are not valid node IDs, or if the demand is negative or
// exceeds the capacity.
func (c *Circulation) AddEdge(fromID, toID int, capacity, demand int64) error {
	if err := c.checkNode(fromID); err != nil {
		return err
	}
	if err := c.checkNode(toID); err != nil {
		return err
	}
	if demand < 0 {
		return errors.Wrapf(ErrNegativeCapacity, "edge from %d to %d has demand %d", fromID, toID, demand)
	}
	if capacity < demand {
		return errors.Errorf("capacity cannot be smaller than demand; capacity = %d, demand = %d", capacity, demand)
	}
	c.edges = append(c.edges, Edge{From: fromID, To: toID, Capacity: capacity})
	c.edgeDemand = append(c.edgeDemand, demand)
	c.network = nil
	return nil
}

// SetNodeDemand sets the net inflow required at a node. A negative demand is a supply: the node
// must emit that much more flow than it receives.
func (c *Circulation) SetNodeDemand(nodeID int, demand int64) error {
	if err := c.checkNode(nodeID); err != nil {
		return err
	}
	c.nodeDemand[nodeID] = demand
	c.network = nil
	return nil
}

// SetOptions replaces the Options used by subsequent calls to PushRelabel.
func (c *Circulation) SetOptions(opts Options) { c.opts = opts }

func (c *Circulation) checkNode(id int) error {
	if id < 0 || id >= c.numNodes {
		return errors.Wrapf(ErrUnknownNode, "node %d", id)
	}
	return nil
}

// PushRelabel finds a valid circulation (if one exists) via the push-relabel algorithm.
//
// Edge demands are removed from edge capacities, leaving each node with an imbalance of forced
// inflow less forced outflow, less its own demand. A super source supplies each node of positive
// imbalance and a super sink drains each node of negative imbalance; the circulation is feasible
// iff the maximum flow saturates every supply.
func (c *Circulation) PushRelabel() error {
	var superSource, superSink = c.numNodes, c.numNodes + 1
	var fn = NewFlowNetwork(c.numNodes + 2)
	fn.SetOptions(c.opts)

	// compute the excess demand at each node
	var excessDemand = make([]int64, c.numNodes)
	for i, e := range c.edges {
		if err := fn.AddEdge(e.From, e.To, e.Capacity-c.edgeDemand[i]); err != nil {
			return err
		}
		var d, ok = c.edgeDemand[i], false
		if excessDemand[e.From], ok = subChecked(excessDemand[e.From], d); ok {
			excessDemand[e.To], ok = subChecked(excessDemand[e.To], -d)
		}
		if !ok {
			return errors.Wrapf(ErrCapacityOverflow, "demand %d of edge from %d to %d", d, e.From, e.To)
		}
	}
	// set the capacities on the super source and sink according to excess demand
	var target, deficit int64
	for u, excessD := range excessDemand {
		var ok bool
		if excessD, ok = subChecked(excessD, c.nodeDemand[u]); !ok || excessD == math.MinInt64 {
			return errors.Wrapf(ErrCapacityOverflow, "demand %d of node %d", c.nodeDemand[u], u)
		}
		if excessD > 0 {
			if err := fn.AddEdge(superSource, u, excessD); err != nil {
				return err
			}
			target += excessD
		}
		if excessD < 0 {
			if err := fn.AddEdge(u, superSink, -excessD); err != nil {
				return err
			}
			deficit -= excessD
		}
	}
	if err := fn.SetTerminals(superSource, superSink); err != nil {
		return err
	}
	// find the max-flow in the resulting flow network.
	if err := fn.PushRelabel(); err != nil {
		return err
	}
	c.network, c.targetValue, c.balanced = fn, target, target == deficit
	return nil
}

// SatisfiesDemand is true iff the flow satisfies all required demand. It is false until
// PushRelabel has succeeded.
func (c *Circulation) SatisfiesDemand() bool {
	return c.network != nil && c.balanced && c.network.Outflow() == c.targetValue
}

// Outflow returns the total flow routed from nodes with surplus to nodes with deficit, once edge
// demands are accounted for.
func (c *Circulation) Outflow() int64 {
	if c.network == nil {
		return 0
	}
	return c.network.Outflow()
}

// Flow returns the flow achieved by the circulation along edges from one node to another,
// including their demand. The result is only meaningful after PushRelabel has been run.
func (c *Circulation) Flow(from, to int) int64 {
	if c.network == nil {
		return 0
	}
	return c.network.Flow(from, to) + c.EdgeDemand(from, to)
}

// Capacity returns the summed capacity of edges from one node to another.
func (c *Circulation) Capacity(from, to int) int64 {
	var result int64
	for _, e := range c.edges {
		if e.From == from && e.To == to {
			result += e.Capacity
		}
	}
	return result
}

// EdgeDemand returns the summed demand of edges from one node to another.
func (c *Circulation) EdgeDemand(from, to int) int64 {
	var result int64
	for i, e := range c.edges {
		if e.From == from && e.To == to {
			result += c.edgeDemand[i]
		}
	}
	return result
}

// NodeDemand returns the demand of a node.
func (c *Circulation) NodeDemand(nodeID int) int64 {
	if c.checkNode(nodeID) != nil {
		return 0
	}
	return c.nodeDemand[nodeID]
}

// subChecked returns a-b, and false if the difference overflows an int64.
func subChecked(a, b int64) (int64, bool) {
	var d = a - b
	return d, (b >= 0) == (d <= a)
}
