package preflow_test

import (
	"math"
	"testing"

	"github.com/kalexmills/preflow"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSanityCheckAllCirculations(t *testing.T) {
	visitAllInstances(t, FlowInstances, func(t *testing.T, instance TestInstance) {
		var network, err = instance.Network()
		require.NoError(t, err)
		source, sink, err := network.Terminals()
		require.NoError(t, err)

		// A circulation which moves the maximum flow from source to sink is feasible.
		var graph = newCirculation(t, instance)
		require.NoError(t, graph.SetNodeDemand(source, -instance.expectedFlow))
		require.NoError(t, graph.SetNodeDemand(sink, instance.expectedFlow))

		require.NoError(t, graph.PushRelabel())
		require.True(t, graph.SatisfiesDemand())
		require.Equal(t, instance.expectedFlow, graph.Outflow())
		require.NoError(t, preflow.SanityChecks.Circulation(graph))

		// One more unit is infeasible.
		require.NoError(t, graph.SetNodeDemand(source, -instance.expectedFlow-1))
		require.NoError(t, graph.SetNodeDemand(sink, instance.expectedFlow+1))

		require.NoError(t, graph.PushRelabel())
		require.False(t, graph.SatisfiesDemand())
		require.NoError(t, preflow.SanityChecks.Circulation(graph))
	})
}

func newCirculation(t *testing.T, instance TestInstance) *preflow.Circulation {
	var c = preflow.NewCirculation(instance.NumNodes)
	for _, e := range instance.Edges {
		require.NoError(t, c.AddEdge(e.From, e.To, e.Capacity, 0))
	}
	return c
}

func TestCirculationLowerBounds(t *testing.T) {
	var c = preflow.NewCirculation(2)
	require.Error(t, c.AddEdge(0, 1, 5, 6))
	require.Equal(t, preflow.ErrNegativeCapacity, errors.Cause(c.AddEdge(0, 1, 5, -1)))
	require.Equal(t, preflow.ErrUnknownNode, errors.Cause(c.AddEdge(0, 2, 5, 1)))
	require.Equal(t, preflow.ErrUnknownNode, errors.Cause(c.SetNodeDemand(-1, 1)))

	// Three units are forced from node 0 to node 1, which may only keep two.
	require.NoError(t, c.AddEdge(0, 1, 10, 3))
	require.NoError(t, c.SetNodeDemand(0, -2))
	require.NoError(t, c.SetNodeDemand(1, 2))
	require.False(t, c.SatisfiesDemand())

	require.NoError(t, c.PushRelabel())
	require.False(t, c.SatisfiesDemand())

	// A return edge makes the circulation feasible.
	require.NoError(t, c.AddEdge(1, 0, 1, 0))
	require.NoError(t, c.PushRelabel())
	require.True(t, c.SatisfiesDemand())
	require.NoError(t, preflow.SanityChecks.Circulation(c))

	require.Equal(t, int64(3), c.Flow(0, 1))
	require.Equal(t, int64(1), c.Flow(1, 0))
	require.Equal(t, int64(3), c.EdgeDemand(0, 1))
	require.Equal(t, int64(10), c.Capacity(0, 1))
	require.Equal(t, int64(2), c.NodeDemand(1))
	require.Equal(t, int64(0), c.NodeDemand(7))
}

func TestCirculationUnbalancedDemand(t *testing.T) {
	var c = preflow.NewCirculation(3)
	require.NoError(t, c.AddEdge(0, 1, 10, 0))
	require.NoError(t, c.AddEdge(1, 2, 10, 0))
	require.NoError(t, c.SetNodeDemand(2, 5))

	// Nothing supplies node 2's demand.
	require.NoError(t, c.PushRelabel())
	require.False(t, c.SatisfiesDemand())
	require.Equal(t, int64(0), c.Outflow())

	require.NoError(t, c.SetNodeDemand(0, -5))
	require.NoError(t, c.PushRelabel())
	require.True(t, c.SatisfiesDemand())
	require.Equal(t, int64(5), c.Flow(1, 2))
}

func TestCirculationDemandOverflow(t *testing.T) {
	// Forced inflow of node 2 sums past MaxInt64.
	var c = preflow.NewCirculation(3)
	require.NoError(t, c.AddEdge(0, 2, math.MaxInt64, math.MaxInt64))
	require.NoError(t, c.AddEdge(1, 2, math.MaxInt64, math.MaxInt64))
	require.Equal(t, preflow.ErrCapacityOverflow, errors.Cause(c.PushRelabel()))
	require.False(t, c.SatisfiesDemand())

	// A supply of MinInt64 cannot be negated.
	c = preflow.NewCirculation(4)
	require.NoError(t, c.AddEdge(0, 3, 5, 0))
	require.NoError(t, c.SetNodeDemand(3, math.MinInt64))
	require.Equal(t, preflow.ErrCapacityOverflow, errors.Cause(c.PushRelabel()))

	// Node 0 is forced to emit one unit and also demands MaxInt64.
	c = preflow.NewCirculation(2)
	require.NoError(t, c.AddEdge(0, 1, 1, 1))
	require.NoError(t, c.SetNodeDemand(0, math.MaxInt64))
	require.Equal(t, preflow.ErrCapacityOverflow, errors.Cause(c.PushRelabel()))

	// Large demands which do not overflow are solved.
	const half = math.MaxInt64 / 2
	c = preflow.NewCirculation(2)
	require.NoError(t, c.AddEdge(0, 1, half, 0))
	require.NoError(t, c.SetNodeDemand(0, -half))
	require.NoError(t, c.SetNodeDemand(1, half))
	require.NoError(t, c.PushRelabel())
	require.True(t, c.SatisfiesDemand())
	require.Equal(t, int64(half), c.Flow(0, 1))
}

func TestCirculationSanityChecksRequireSolve(t *testing.T) {
	var c = preflow.NewCirculation(2)
	require.NoError(t, c.AddEdge(0, 1, 1, 1))
	require.Error(t, preflow.SanityChecks.Circulation(c))
	require.Equal(t, int64(0), c.Flow(0, 1))
	require.Equal(t, int64(0), c.Outflow())
}
