package pathfind

// node is one discovered grid position. Nodes live in the search arena and
// refer to their parent by arena index.
type node struct {
	cell   Cell
	g      float64 // cost from start along the best route found so far
	h      float64 // heuristic estimate to the goal, fixed at discovery
	parent int     // arena index of the predecessor, -1 for the start node
	seq    int     // discovery order, breaks fCost ties
	closed bool
	index  int // position in the open queue, -1 when not queued
}

func (n *node) f() float64 {
	return n.g + n.h
}

// openQueue implements heap.Interface ordered by (fCost, seq)
type openQueue []*node

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	fi, fj := q[i].f(), q[j].f()
	if fi != fj {
		return fi < fj
	}
	return q[i].seq < q[j].seq
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *openQueue) Pop() any {
	old := *q
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*q = old[:last]
	return n
}
