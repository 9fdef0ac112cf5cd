package genegraph

import "sort"

// Visitation states of the three-colour DFS.
const (
	white = iota // not visited yet
	gray         // on the recursion stack
	black        // fully explored
)

// topoSorter encapsulates state for a topological sort traversal.
type topoSorter struct {
	graph *Graph
	state []int // visitation state per node index
	order []int // recorded post-order sequence
}

// TopologicalOrder returns the node indices such that for every edge u→v,
// u appears before v. Roots and successors are visited in the deterministic
// node order (earliest start, then creation order), so the result is stable
// across runs. The source sentinel is always first and the sink last.
//
// Complexity:
//
//   - Time:   O(V + E)
//   - Memory: O(V)
func (g *Graph) TopologicalOrder() ([]int, error) {
	// 1. Visit roots in deterministic order
	roots := make([]int, len(g.nodes))
	for i := range roots {
		roots[i] = i
	}
	sort.Slice(roots, func(a, b int) bool { return g.before(roots[a], roots[b]) })

	sorter := &topoSorter{
		graph: g,
		state: make([]int, len(g.nodes)),
		order: make([]int, 0, len(g.nodes)),
	}
	// 2. Drive DFS from every unvisited node; later roots first so that the
	//    reversed post-order keeps earlier roots in front
	for i := len(roots) - 1; i >= 0; i-- {
		if sorter.state[roots[i]] == white {
			if err := sorter.visit(roots[i]); err != nil {
				return nil, err
			}
		}
	}
	// 3. Reverse post-order to produce topological order
	for i, j := 0, len(sorter.order)-1; i < j; i, j = i+1, j-1 {
		sorter.order[i], sorter.order[j] = sorter.order[j], sorter.order[i]
	}

	return sorter.order, nil
}

// visit performs a DFS from id, marking states and detecting cycles.
func (t *topoSorter) visit(id int) error {
	// 1. Back-edge to a node on the stack: cycle
	if t.state[id] == gray {
		return ErrCycleDetected
	}
	if t.state[id] == black {
		return nil
	}
	t.state[id] = gray

	// 2. Explore successors, latest first, for the same reason as the roots
	out := t.graph.nodes[id].out
	succ := make([]int, len(out))
	for i, e := range out {
		succ[i] = e.To
	}
	sort.Slice(succ, func(a, b int) bool { return t.graph.before(succ[b], succ[a]) })
	for _, next := range succ {
		if err := t.visit(next); err != nil {
			return err
		}
	}

	// 3. Fully explored
	t.state[id] = black
	t.order = append(t.order, id)

	return nil
}
