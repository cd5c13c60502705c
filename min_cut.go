package preflow

// MinCut returns the source side of a minimum cut, as the sorted IDs of nodes which cannot
// reach the sink in the residual network, along with the total capacity of edges leaving
// that side. After a successful PushRelabel the capacity equals Outflow. Before one, MinCut
// returns nil and zero.
func (fn *FlowNetwork) MinCut() (sourceSide []int, capacity int64) {
	if !fn.solved {
		return nil, 0
	}
	var reaches = fn.reachesSink()

	for v := 0; v < fn.numNodes; v++ {
		if reaches[v] {
			continue
		}
		sourceSide = append(sourceSide, v)
		for _, a := range fn.adjacent[v] {
			if a&1 == 0 && reaches[fn.arcs[a].to] {
				capacity += fn.arcs[a].capacity
			}
		}
	}
	return sourceSide, capacity
}

// reachesSink marks each node having a residual path to the sink.
func (fn *FlowNetwork) reachesSink() []bool {
	var reaches = make([]bool, fn.numNodes)
	var queue = []int{fn.sink}
	reaches[fn.sink] = true

	for len(queue) != 0 {
		var u = queue[0]
		queue = queue[1:]

		for _, a := range fn.adjacent[u] {
			var w = fn.arcs[a].to
			if !reaches[w] && fn.arcs[a^1].residual > 0 {
				reaches[w] = true
				queue = append(queue, w)
			}
		}
	}
	return reaches
}
