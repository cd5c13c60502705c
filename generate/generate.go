// Package generate builds random flow networks for testing and benchmarking.
// Every generated instance has a single node without incoming edges (node 0,
// the source) and a single node without outgoing edges (the last node, the
// sink), so the default terminal rule of package preflow applies to it.
package generate

import (
	"math/rand"

	"github.com/kalexmills/preflow"
	"github.com/kalexmills/preflow/edgelist"
)

// Multipartite creates a multipartite graph, which is a few bipartite graphs connected end-to-end.
// Each size is the number of nodes of a layer. Consecutive layers are joined by edges present with
// probability one half, and the source feeds the first layer while the last layer drains to the sink.
// Every capacity is drawn uniformly from [1, maxCapacity].
func Multipartite(rng *rand.Rand, maxCapacity int64, sizes ...int) *edgelist.Instance {
	var b = newBuilder(rng, maxCapacity)
	var source = b.node()

	var prev = []int{source}
	for _, size := range sizes {
		if size <= 0 {
			continue
		}
		var layer = b.nodes(size)
		for _, u := range prev {
			for _, v := range layer {
				if u == source || rng.Float32() < 0.5 {
					b.edge(u, v)
				}
			}
		}
		// Every node needs both an incoming and an outgoing edge.
		for _, u := range prev {
			if b.out[u] == 0 {
				b.edge(u, layer[rng.Intn(len(layer))])
			}
		}
		for _, v := range layer {
			if b.in[v] == 0 {
				b.edge(prev[rng.Intn(len(prev))], v)
			}
		}
		prev = layer
	}

	var sink = b.node()
	for _, u := range prev {
		b.edge(u, sink)
	}
	return b.instance()
}

// Cycles creates a graph formed by layering a bunch of cycles ontop of one another. Each size entry
// is the length of a directed cycle drawn over randomly chosen interior nodes, with a capacity shared
// by all of the cycle's edges. Interior nodes left off of every cycle join a two-node cycle. Roughly
// 10% of the interior nodes (at least one each) are then fed from the source or drain to the sink.
func Cycles(rng *rand.Rand, nodes int, maxCapacity int64, sizes ...int) *edgelist.Instance {
	if nodes < 1 {
		nodes = 1
	}
	var b = newBuilder(rng, maxCapacity)
	var source = b.node()
	var interior = b.nodes(nodes)

	for _, length := range sizes {
		if length > nodes {
			length = nodes
		}
		if length < 2 {
			continue
		}
		var perm = rng.Perm(nodes)
		var capacity = b.capacity()
		for i := 0; i < length; i++ {
			b.edgeOf(interior[perm[i]], interior[perm[(i+1)%length]], capacity)
		}
	}
	for _, v := range interior {
		if b.in[v] != 0 && b.out[v] != 0 {
			continue
		}
		var u = interior[rng.Intn(nodes)]
		b.edge(v, u)
		if u != v {
			b.edge(u, v)
		}
	}

	var sink = b.node()
	var perm = rng.Perm(nodes)
	b.edge(source, interior[perm[0]])
	b.edge(interior[perm[len(perm)-1]], sink)
	for _, i := range perm[1:max(1, nodes/10)] {
		if rng.Float32() < 0.5 {
			b.edge(source, interior[i])
		} else {
			b.edge(interior[i], sink)
		}
	}
	return b.instance()
}

// builder accumulates the nodes and edges of an Instance.
type builder struct {
	rng         *rand.Rand
	maxCapacity int64
	in, out     []int
	edges       []preflow.Edge
}

func newBuilder(rng *rand.Rand, maxCapacity int64) *builder {
	if maxCapacity < 1 {
		maxCapacity = 1
	}
	return &builder{rng: rng, maxCapacity: maxCapacity}
}

func (b *builder) node() int {
	b.in = append(b.in, 0)
	b.out = append(b.out, 0)
	return len(b.in) - 1
}

func (b *builder) nodes(n int) []int {
	var out = make([]int, n)
	for i := range out {
		out[i] = b.node()
	}
	return out
}

func (b *builder) capacity() int64 { return 1 + b.rng.Int63n(b.maxCapacity) }

func (b *builder) edge(from, to int) { b.edgeOf(from, to, b.capacity()) }

func (b *builder) edgeOf(from, to int, capacity int64) {
	b.edges = append(b.edges, preflow.Edge{From: from, To: to, Capacity: capacity})
	b.out[from]++
	b.in[to]++
}

func (b *builder) instance() *edgelist.Instance {
	return &edgelist.Instance{NumNodes: len(b.in), Edges: b.edges}
}
