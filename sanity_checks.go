package preflow

import "github.com/pkg/errors"

// SanityChecks contains sanity check procedures for FlowNetworks, Circulations and Transshipments.
var SanityChecks SanityCheckers

// SanityCheckers holds sanity check procedures for preflow types.
type SanityCheckers struct{}

// FlowNetwork runs several sanity checks against a FlowNetwork that has previously had its
// flow computed: no edge carries more flow than its capacity, every node other than the source
// and sink has inflow equal to its outflow plus any excess it trapped, no augmenting path
// remains, and the minimum cut has the same capacity as the flow.
func (sc SanityCheckers) FlowNetwork(fn *FlowNetwork) error {
	if !fn.solved {
		return errors.New("flow network has not been solved")
	}
	for a := 0; a < len(fn.arcs); a += 2 {
		var fwd, rev = fn.arcs[a], fn.arcs[a+1]
		if fwd.residual < 0 || rev.residual < 0 || fwd.residual+rev.residual != fwd.capacity {
			return errors.Errorf("edge from %d to %d with capacity %d has residuals %d and %d",
				rev.to, fwd.to, fwd.capacity, fwd.residual, rev.residual)
		}
	}
	// ensure inflow == outflow + trapped for every node other than source and sink.
	for v := 0; v < fn.numNodes; v++ {
		if v == fn.source || v == fn.sink {
			continue
		}
		if in := fn.netInflow(v); in != fn.trapped[v] {
			return errors.Errorf("node %d has net inflow %d but trapped excess %d", v, in, fn.trapped[v])
		}
	}
	if fn.netInflow(fn.source) > 0 {
		return errors.Errorf("source %d has positive net inflow %d", fn.source, fn.netInflow(fn.source))
	}
	if err := sc.augmentingPathCheck(fn); err != nil {
		return err
	}
	if _, capacity := fn.MinCut(); capacity != fn.Outflow() {
		return errors.Errorf("minimum cut has capacity %d but flow is %d", capacity, fn.Outflow())
	}
	return nil
}

// augmentingPathCheck returns an error if any augmenting path is found in the residual flow network.
func (SanityCheckers) augmentingPathCheck(fn *FlowNetwork) error {
	if fn.reachesSink()[fn.source] {
		return errors.Errorf("found an augmenting path from source %d to sink %d; flow is not maximum", fn.source, fn.sink)
	}
	return nil
}

// Circulation runs sanity checks against a circulation that has previously had its flow computed. These
// sanity checks include the FlowNetwork checks; they do not need to be run separately.
func (sc SanityCheckers) Circulation(c *Circulation) error {
	if c.network == nil {
		return errors.New("circulation has not been solved")
	}
	if err := sc.FlowNetwork(c.network); err != nil {
		return err
	}
	if !c.SatisfiesDemand() {
		// we have nothing to check unless demand was satisfied
		return nil
	}
	var netInflow, err = sc.edgeFlows(c)
	if err != nil {
		return err
	}
	for v, demand := range c.nodeDemand {
		if netInflow[v] != demand {
			return errors.Errorf("node %d has net inflow %d but demand %d", v, netInflow[v], demand)
		}
	}
	return nil
}

// Transshipment runs sanity checks against a transshipment that has previously had its flow computed.
// These sanity checks include the FlowNetwork checks; they do not need to be run separately.
func (sc SanityCheckers) Transshipment(t *Transshipment) error {
	if t.network == nil {
		return errors.New("transshipment has not been solved")
	}
	if err := sc.FlowNetwork(t.network); err != nil {
		return err
	}
	for nodeID, b := range t.bounds {
		if stored := t.NodeFlow(nodeID); stored > b.capacity {
			return errors.Errorf("node %d has stored flow of %d which exceeds its capacity bound of %d", nodeID, stored, b.capacity)
		}
	}
	if !t.SatisfiesDemand() {
		return nil
	}
	var netInflow, err = sc.edgeFlows(&t.Circulation)
	if err != nil {
		return err
	}
	for v, demand := range t.nodeDemand {
		var stored = t.NodeFlow(v)
		if b := t.bounds[v]; stored < b.demand {
			return errors.Errorf("node %d has stored flow of %d which does not meet its demand of %d", v, stored, b.demand)
		}
		if netInflow[v] != demand+stored {
			return errors.Errorf("node %d has net inflow %d but demand %d and stored flow %d", v, netInflow[v], demand, stored)
		}
	}
	return nil
}

// edgeFlows verifies that flow along the edges of |c| lies within their demand and capacity, and returns
// the net inflow of each node along those edges.
func (SanityCheckers) edgeFlows(c *Circulation) ([]int64, error) {
	var pairs = make(map[[2]int]struct{})
	var netInflow = make([]int64, c.numNodes)
	for _, e := range c.edges {
		var pair = [2]int{e.From, e.To}
		if _, ok := pairs[pair]; ok {
			continue
		}
		pairs[pair] = struct{}{}

		var flow, demand = c.Flow(e.From, e.To), c.EdgeDemand(e.From, e.To)
		if flow < demand {
			return nil, errors.Errorf("edge from %d to %d has flow %d which is less than demand %d", e.From, e.To, flow, demand)
		}
		if capacity := c.Capacity(e.From, e.To); flow > capacity {
			return nil, errors.Errorf("edge from %d to %d has flow %d which exceeds capacity %d", e.From, e.To, flow, capacity)
		}
		netInflow[e.To] += flow
		netInflow[e.From] -= flow
	}
	return netInflow, nil
}
