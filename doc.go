// Package preflow computes maximum flows over directed capacitated networks
// using the push-relabel method. Active nodes are discharged highest label
// first, and node labels are periodically recomputed by a pair of breadth-first
// searches over the residual network (the "global relabel" heuristic).
//
// A FlowNetwork is built by adding edges, after which PushRelabel solves it and
// Outflow reports the maximum flow value:
//
//	fn := preflow.NewFlowNetwork(4)
//	fn.AddEdge(0, 1, 10)
//	...
//	if err := fn.PushRelabel(); err != nil {
//		...
//	}
//	fmt.Println(fn.Outflow())
//
// Unless SetTerminals is called, the source is the single node having no
// incoming edges and the sink is the single node having no outgoing edges.
package preflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "preflow_push_total",
		Help: "Cumulative number of non-zero pushes performed by the solver.",
	})
	relabelsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "preflow_relabel_total",
		Help: "Cumulative number of node relabel operations.",
	})
	dischargesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "preflow_discharge_total",
		Help: "Cumulative number of node discharge operations.",
	})
	globalRelabelsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "preflow_global_relabel_total",
		Help: "Cumulative number of global relabel passes.",
	})
	maxFlowRuntimeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "preflow_max_flow_runtime_seconds",
		Help: "Duration required to solve for a maximum flow.",
	})
)
