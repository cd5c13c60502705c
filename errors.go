package preflow

import "github.com/pkg/errors"

// Errors returned by FlowNetwork. Use errors.Cause to test a returned error
// against one of these values.
var (
	ErrUnknownNode      = errors.New("no node with that ID is known")
	ErrNegativeCapacity = errors.New("capacity must not be negative")
	ErrCapacityOverflow = errors.New("total capacity incident to node overflows int64")
	ErrTooFewNodes      = errors.New("a flow network requires at least two nodes")
	ErrNoSource         = errors.New("no node without incoming edges to act as source")
	ErrAmbiguousSource  = errors.New("more than one node without incoming edges")
	ErrNoSink           = errors.New("no node without outgoing edges to act as sink")
	ErrAmbiguousSink    = errors.New("more than one node without outgoing edges")
	ErrRelabelBound     = errors.New("node relabeled more often than push-relabel permits")
)
