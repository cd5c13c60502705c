package generate

import (
	"math/rand"
	"testing"

	"github.com/kalexmills/preflow"
	"github.com/kalexmills/preflow/edgelist"
	"github.com/stretchr/testify/require"
)

func TestMultipartite(t *testing.T) {
	var rng = rand.New(rand.NewSource(1))

	for _, sizes := range [][]int{nil, {1}, {3, 3}, {5, 1, 4, 2}, {10, 10, 10}} {
		var inst = Multipartite(rng, 50, sizes...)

		var total = 2
		for _, s := range sizes {
			total += s
		}
		require.Equal(t, total, inst.NumNodes)
		requireTerminals(t, inst)

		for _, e := range inst.Edges {
			require.True(t, e.From < e.To, "edges are directed towards later layers")
			require.True(t, e.Capacity >= 1 && e.Capacity <= 50)
		}
	}
}

func TestMultipartiteIsDeterministic(t *testing.T) {
	var a = Multipartite(rand.New(rand.NewSource(42)), 100, 4, 4, 4)
	var b = Multipartite(rand.New(rand.NewSource(42)), 100, 4, 4, 4)
	require.Equal(t, a, b)
}

func TestCycles(t *testing.T) {
	var rng = rand.New(rand.NewSource(1))

	for _, tc := range []struct {
		nodes int
		sizes []int
	}{
		{1, nil},
		{2, []int{2}},
		{5, nil},
		{10, []int{3, 4, 10, 12}},
		{100, []int{5, 20, 50, 50, 90}},
	} {
		var inst = Cycles(rng, tc.nodes, 20, tc.sizes...)
		require.Equal(t, tc.nodes+2, inst.NumNodes)
		requireTerminals(t, inst)

		for _, e := range inst.Edges {
			require.True(t, e.Capacity >= 1 && e.Capacity <= 20)
		}
	}
}

func TestGeneratedInstancesSolve(t *testing.T) {
	var rng = rand.New(rand.NewSource(7))

	for _, inst := range []*edgelist.Instance{
		Multipartite(rng, 100, 20, 30, 20),
		Cycles(rng, 200, 100, 10, 50, 100, 150),
	} {
		var fn, err = inst.Network()
		require.NoError(t, err)
		require.NoError(t, fn.PushRelabel())
		require.NoError(t, preflow.SanityChecks.FlowNetwork(fn))
	}
}

// requireTerminals verifies that node zero is the only node without incoming
// edges and the last node is the only node without outgoing edges.
func requireTerminals(t *testing.T, inst *edgelist.Instance) {
	var in, out = make([]int, inst.NumNodes), make([]int, inst.NumNodes)
	for _, e := range inst.Edges {
		out[e.From]++
		in[e.To]++
	}
	for v := 0; v != inst.NumNodes; v++ {
		require.Equal(t, v == 0, in[v] == 0, "node %d", v)
		require.Equal(t, v == inst.NumNodes-1, out[v] == 0, "node %d", v)
	}
}
