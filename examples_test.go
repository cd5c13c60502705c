package preflow_test

import (
	"fmt"

	"github.com/kalexmills/preflow"
)

// Demonstrates how to use a flow network to compute max-flow.
func ExampleFlowNetwork() {
	fn := preflow.NewFlowNetwork(6) // allocates a flow network with nodeIDs 0, 1, ..., 5

	edges := []preflow.Edge{
		{From: 0, To: 1, Capacity: 15}, {From: 0, To: 2, Capacity: 4},
		{From: 1, To: 3, Capacity: 12}, {From: 3, To: 2, Capacity: 3},
		{From: 2, To: 4, Capacity: 10}, {From: 4, To: 1, Capacity: 5},
		{From: 4, To: 5, Capacity: 10}, {From: 3, To: 5, Capacity: 7},
	}
	for _, e := range edges {
		// adds an edge between nodes with the provided capacity
		fn.AddEdge(e.From, e.To, e.Capacity)
	}

	// node 0 has no incoming edges, and is the source. node 5 has no outgoing edges, and is the sink.
	if err := fn.PushRelabel(); err != nil {
		panic(err)
	}
	fmt.Printf("found max flow of %d\n", fn.Outflow())

	sourceSide, capacity := fn.MinCut()
	fmt.Printf("minimum cut %v has capacity %d\n", sourceSide, capacity)
	// Output:
	// found max flow of 14
	// minimum cut [0 1 3] has capacity 14
}

// Demonstrates computing a max-flow in a single call.
func ExampleMaxFlow() {
	flow, err := preflow.MaxFlow(4, []preflow.Edge{
		{From: 0, To: 1, Capacity: 10000},
		{From: 0, To: 2, Capacity: 10000},
		{From: 1, To: 2, Capacity: 1},
		{From: 2, To: 3, Capacity: 10000},
		{From: 1, To: 3, Capacity: 10000},
	})
	fmt.Println(flow, err)
	// Output:
	// 20000 <nil>
}

// Demonstrates how to use a circulation to set lower-bounds on edges.
func ExampleCirculation() {
	c := preflow.NewCirculation(6)
	type edge struct {
		source, target   int
		capacity, demand int64
	}
	// a circulation allows for demand values on the edges of the flow network.
	edges := []edge{
		{0, 1, 15, 0}, {0, 2, 4, 0}, {1, 3, 12, 0}, {3, 2, 3, 0}, {2, 4, 10, 0},
		{4, 1, 5, 4}, {4, 5, 10, 0}, {3, 5, 7, 0},
	}
	for _, edge := range edges {
		c.AddEdge(edge.source, edge.target, edge.capacity, edge.demand)
	}

	c.SetNodeDemand(0, -4)
	c.SetNodeDemand(5, 4)

	c.PushRelabel()

	// there is no notion of source or sink in a circulation; the only question
	// is whether there is a flow which satisfies the requested demand.
	fmt.Printf("demand satisfied: %t\n", c.SatisfiesDemand())

	// the outflow for a circulation is the flow moved from nodes with surplus to
	// nodes with deficit, once edge demands are accounted for.
	fmt.Printf("total flow: %d\n", c.Outflow())
	fmt.Printf("edge 4 -> 1 carries its demand: %t\n", c.Flow(4, 1) >= c.EdgeDemand(4, 1))
	//Output:
	// demand satisfied: true
	// total flow: 8
	// edge 4 -> 1 carries its demand: true
}
