package preflow

import "github.com/pkg/errors"

// Transshipment is a circulation which does not require that the amount of flow entering a node
// remains strictly equal to the amount of flow exiting a node. In a transshipment, some of the
// flow is allowed to stay pooled up in the node, between the bounds set by SetNodeBounds. By
// default, nodes store no flow.
type Transshipment struct {
	Circulation
	bounds map[int]bounds
}

type bounds struct {
	capacity, demand int64
}

// NewTransshipment constructs a new transshipment over the provided number of nodes.
func NewTransshipment(numNodes int) *Transshipment {
	return &Transshipment{
		Circulation: *NewCirculation(numNodes),
		bounds:      make(map[int]bounds),
	}
}

// SetNodeBounds sets the upper and lower bounds on flow which is allowed to stay in a node.
func (t *Transshipment) SetNodeBounds(nodeID int, capacity, demand int64) error {
	if err := t.checkNode(nodeID); err != nil {
		return err
	}
	if demand < 0 {
		return errors.Wrapf(ErrNegativeCapacity, "node %d has demand %d", nodeID, demand)
	}
	if capacity < demand {
		return errors.Errorf("capacity cannot be smaller than demand; capacity = %d, demand = %d", capacity, demand)
	}
	t.bounds[nodeID] = bounds{capacity: capacity, demand: demand}
	t.network = nil
	return nil
}

// NodeFlow returns the amount of flow stored at the provided node. The result is only meaningful
// after PushRelabel has been run.
func (t *Transshipment) NodeFlow(nodeID int) int64 {
	var b, ok = t.bounds[nodeID]
	if !ok || t.network == nil {
		return 0
	}
	return t.network.Flow(nodeID, t.numNodes) + b.demand
}

// PushRelabel finds a valid transshipment (if one exists) via the push-relabel algorithm.
//
// Stored flow is modeled as an edge from each bounded node to an extra storage node. Flow is
// conserved, so the storage node must absorb exactly the supply left over once node demands
// are met.
func (t *Transshipment) PushRelabel() error {
	var storage = t.numNodes
	var c = NewCirculation(t.numNodes + 1)
	c.SetOptions(t.opts)

	for i, e := range t.edges {
		if err := c.AddEdge(e.From, e.To, e.Capacity, t.edgeDemand[i]); err != nil {
			return err
		}
	}
	var stored int64
	for u, demand := range t.nodeDemand {
		c.nodeDemand[u] = demand

		var ok bool
		if stored, ok = subChecked(stored, demand); !ok {
			return errors.Wrapf(ErrCapacityOverflow, "demand %d of node %d", demand, u)
		}

		if b, ok := t.bounds[u]; ok {
			if err := c.AddEdge(u, storage, b.capacity, b.demand); err != nil {
				return err
			}
		}
	}
	c.nodeDemand[storage] = stored

	if err := c.PushRelabel(); err != nil {
		return err
	}
	t.network, t.targetValue, t.balanced = c.network, c.targetValue, c.balanced
	return nil
}
