package preflow

import "container/heap"

// activeNode is a node having excess, along with its height at the time it
// became active. The height may go stale as other nodes are processed; a node
// is always popped before being discharged and only the discharge decides
// whether (and at what height) it returns to the set.
type activeNode struct {
	id, height int
}

// activeSet holds nodes in need of discharge, ordered on descending height.
type activeSet struct {
	nodes heightHeap
}

func (s *activeSet) push(id, height int) {
	heap.Push(&s.nodes, activeNode{id: id, height: height})
}

// pop removes and returns the highest node of the set.
func (s *activeSet) pop() activeNode {
	return heap.Pop(&s.nodes).(activeNode)
}

// peek returns the highest node of the set without removing it.
func (s *activeSet) peek() activeNode { return s.nodes[0] }

func (s *activeSet) len() int { return len(s.nodes) }

func (s *activeSet) reset() { s.nodes = s.nodes[:0] }

// heightHeap orders activeNodes on descending height.
type heightHeap []activeNode

func (h heightHeap) Len() int           { return len(h) }
func (h heightHeap) Less(i, j int) bool { return h[i].height > h[j].height }
func (h heightHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *heightHeap) Push(x interface{}) {
	*h = append(*h, x.(activeNode))
}
func (h *heightHeap) Pop() interface{} {
	var old, l = *h, len(*h)
	var x = old[l-1]
	*h = old[0 : l-1]
	return x
}
