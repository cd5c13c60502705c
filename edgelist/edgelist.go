// Package edgelist reads and writes flow networks as whitespace-separated
// integers: a node count n and an edge count m, followed by m triples
// "u v c" giving an edge from node u to node v of capacity c. Node IDs of the
// format are 1-based; parsed Instances use the 0-based IDs of package preflow.
package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kalexmills/preflow"
	"github.com/pkg/errors"
)

// MaxNodes is the largest node count accepted by Parse.
const MaxNodes = math.MaxInt32

// Instance is a flow network read from, or to be written as, an edge list.
type Instance struct {
	NumNodes int
	Edges    []preflow.Edge
}

// Network builds a FlowNetwork of the Instance.
func (inst *Instance) Network() (*preflow.FlowNetwork, error) {
	var fn = preflow.NewFlowNetwork(inst.NumNodes)
	for i, e := range inst.Edges {
		if err := fn.AddEdge(e.From, e.To, e.Capacity); err != nil {
			return nil, errors.WithMessagef(err, "edge %d", i+1)
		}
	}
	return fn, nil
}

// Parse reads an Instance. Every token must be an integer, n may not exceed MaxNodes,
// node IDs must fall within [1, n], capacities must be non-negative, and nothing may
// follow the last edge.
func Parse(r io.Reader) (*Instance, error) {
	var tok = newTokenizer(r)

	var n, err = tok.int("node count")
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, errors.Wrapf(preflow.ErrTooFewNodes, "line %d: node count %d", tok.line, n)
	}
	if n > MaxNodes {
		return nil, errors.Errorf("line %d: node count %d too large (max %d)", tok.line, n, MaxNodes)
	}
	m, err := tok.int("edge count")
	if err != nil {
		return nil, err
	}
	if m < 0 {
		return nil, errors.Errorf("line %d: edge count %d is negative", tok.line, m)
	}

	var inst = &Instance{NumNodes: int(n), Edges: make([]preflow.Edge, 0, min(m, 1<<16))}
	for i := int64(0); i != m; i++ {
		var triple [3]int64
		for j, what := range [3]string{"edge tail", "edge head", "edge capacity"} {
			if triple[j], err = tok.int(what); err != nil {
				return nil, errors.WithMessagef(err, "edge %d of %d", i+1, m)
			}
		}
		for _, id := range triple[:2] {
			if id < 1 || id > n {
				return nil, errors.Wrapf(preflow.ErrUnknownNode, "line %d: node %d is not within [1, %d]", tok.line, id, n)
			}
		}
		if triple[2] < 0 {
			return nil, errors.Wrapf(preflow.ErrNegativeCapacity, "line %d: capacity %d", tok.line, triple[2])
		}
		inst.Edges = append(inst.Edges, preflow.Edge{
			From:     int(triple[0] - 1),
			To:       int(triple[1] - 1),
			Capacity: triple[2],
		})
	}

	if extra, ok, err := tok.next(); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Errorf("line %d: unexpected trailing input %q", tok.line, extra)
	}
	return inst, nil
}

// Write writes the Instance in the format read by Parse.
func Write(w io.Writer, inst *Instance) error {
	var bw = bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", inst.NumNodes, len(inst.Edges))
	for _, e := range inst.Edges {
		fmt.Fprintf(bw, "%d %d %d\n", e.From+1, e.To+1, e.Capacity)
	}
	return errors.WithMessage(bw.Flush(), "writing edge list")
}

// tokenizer yields whitespace-separated tokens, tracking the line of each.
type tokenizer struct {
	scanner *bufio.Scanner
	fields  []string
	line    int
}

func newTokenizer(r io.Reader) *tokenizer {
	var s = bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &tokenizer{scanner: s}
}

// next returns the next token, or false if the input is exhausted.
func (t *tokenizer) next() (string, bool, error) {
	for len(t.fields) == 0 {
		if !t.scanner.Scan() {
			return "", false, errors.WithMessage(t.scanner.Err(), "reading edge list")
		}
		t.line++
		t.fields = strings.Fields(t.scanner.Text())
	}
	var tok = t.fields[0]
	t.fields = t.fields[1:]
	return tok, true, nil
}

// int returns the next token as an integer, describing it as |what| in errors.
func (t *tokenizer) int(what string) (int64, error) {
	var tok, ok, err = t.next()
	if err != nil {
		return 0, err
	} else if !ok {
		return 0, errors.Errorf("unexpected end of input: expected %s", what)
	}
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "line %d: parsing %s", t.line, what)
	}
	return i, nil
}
