package preflow

import "github.com/pkg/errors"

// SetTerminals names the source and sink of the network explicitly. Once called, the
// in/out-degree rule used by Terminals is no longer applied.
func (fn *FlowNetwork) SetTerminals(source, sink int) error {
	if fn.numNodes < 2 {
		return ErrTooFewNodes
	}
	if err := fn.checkNode(source); err != nil {
		return errors.WithMessage(err, "source")
	}
	if err := fn.checkNode(sink); err != nil {
		return errors.WithMessage(err, "sink")
	}
	if source == sink {
		return errors.Errorf("source and sink must differ (both are %d)", source)
	}
	fn.manualTerminals = true
	fn.source, fn.sink = source, sink
	fn.solved = false
	return nil
}

// Terminals returns the source and sink of the network. Unless SetTerminals was called, the
// source is the unique node having no incoming edges and the sink is the unique node having
// no outgoing edges. An error is returned if no node or more than one node qualifies.
func (fn *FlowNetwork) Terminals() (source, sink int, err error) {
	if fn.numNodes < 2 {
		return -1, -1, ErrTooFewNodes
	}
	if fn.manualTerminals {
		return fn.source, fn.sink, nil
	}
	if source, err = uniqueZero(fn.inDegree, ErrNoSource, ErrAmbiguousSource); err != nil {
		return -1, -1, err
	}
	if sink, err = uniqueZero(fn.outDegree, ErrNoSink, ErrAmbiguousSink); err != nil {
		return -1, -1, err
	}
	if source == sink {
		// An isolated node qualifies as both, and no other node qualified as either.
		return -1, -1, errors.Wrapf(ErrAmbiguousSource, "node %d has no edges", source)
	}
	return source, sink, nil
}

// uniqueZero returns the index of the single zero entry of degree.
func uniqueZero(degree []int, none, ambiguous error) (int, error) {
	var found = -1
	for id, d := range degree {
		if d != 0 {
			continue
		}
		if found != -1 {
			return -1, errors.Wrapf(ambiguous, "nodes %d and %d", found, id)
		}
		found = id
	}
	if found == -1 {
		return -1, none
	}
	return found, nil
}
