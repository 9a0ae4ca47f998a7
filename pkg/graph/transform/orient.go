package transform

import "github.com/matzehuels/nrfg/pkg/graph"

// OrientAway walks breadth-first from start and orients every traversed edge
// away from it. A node for which stop returns true is oriented into but not
// walked through; stop may be nil. It returns the nodes reached, start
// first.
func OrientAway(g *graph.Graph, start graph.NodeID, stop func(graph.NodeID) bool) []graph.NodeID {
	if !g.Has(start) {
		return nil
	}
	return orientWalk(g, start, map[graph.NodeID]bool{start: true}, stop)
}

// OrientEdge makes from the parent of to and orients everything reachable
// from to, without going back through from, away from to.
func OrientEdge(g *graph.Graph, from, to graph.NodeID, stop func(graph.NodeID) bool) error {
	if err := g.Orient(from, to); err != nil {
		return err
	}
	if stop != nil && stop(to) {
		return nil
	}
	orientWalk(g, to, map[graph.NodeID]bool{from: true, to: true}, stop)
	return nil
}

func orientWalk(g *graph.Graph, root graph.NodeID, seen map[graph.NodeID]bool, stop func(graph.NodeID) bool) []graph.NodeID {
	order := []graph.NodeID{root}
	for i := 0; i < len(order); i++ {
		cur := order[i]
		if cur != root && stop != nil && stop(cur) {
			continue
		}
		for _, next := range g.Neighbors(cur) {
			if seen[next] {
				continue
			}
			seen[next] = true
			_ = g.Orient(cur, next)
			order = append(order, next)
		}
	}
	return order
}
