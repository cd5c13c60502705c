package preflow

import log "github.com/sirupsen/logrus"

const unreached = -1

// globalRelabel recomputes every node height from residual distances, and
// rebuilds the active set with the new heights.
//
// A node which can reach the sink is labeled with its residual distance to
// the sink. A node which cannot, but which can reach the source, is labeled n
// plus its residual distance to the source. Remaining nodes are labeled 2n
// rather than the customary 0, which would make them admissible targets for
// pushes from nodes which reach the sink.
// The source is always labeled n. A valid labeling never places a node which
// reaches the sink or source above these heights, so those nodes are never
// lowered by a global relabel.
func (s *solver) globalRelabel() {
	s.bfs(s.sink, s.source, s.toSink)
	s.bfs(s.source, s.sink, s.toSource)

	for v := range s.height {
		switch {
		case v == s.source:
			s.height[v] = s.n
		case s.toSink[v] != unreached:
			s.height[v] = s.toSink[v]
		case s.toSource[v] != unreached:
			s.height[v] = s.n + s.toSource[v]
		default:
			s.height[v] = 2 * s.n
		}
	}

	s.active.reset()
	for v, excess := range s.excess {
		if excess > 0 && v != s.sink && v != s.source {
			s.active.push(v, s.height[v])
		}
	}
	s.sinceGlobal = 0
	s.stats.GlobalRelabels++

	if log.IsLevelEnabled(log.TraceLevel) {
		log.WithFields(log.Fields{
			"active":     s.active.len(),
			"discharges": s.stats.Discharges,
		}).Trace("global relabel")
	}
}

// bfs walks residual arcs backwards from |root|, storing into |dist| the
// number of arcs on a shortest residual path from each node to |root|, or
// unreached. The |blocked| node is never entered.
func (s *solver) bfs(root, blocked int, dist []int) {
	for v := range dist {
		dist[v] = unreached
	}
	dist[root] = 0
	s.queue = append(s.queue[:0], root)

	for len(s.queue) != 0 {
		var u = s.queue[0]
		s.queue = s.queue[1:]

		for _, a := range s.fn.adjacent[u] {
			var w = s.fn.arcs[a].to
			// Arc a^1 runs from w to u.
			if dist[w] != unreached || w == blocked || s.fn.arcs[a^1].residual == 0 {
				continue
			}
			dist[w] = dist[u] + 1
			s.queue = append(s.queue, w)
		}
	}
}
