package transform

import "github.com/matzehuels/nrfg/pkg/graph"

// Simplify removes redundant clade nodes until none is left and returns the
// number of nodes removed. Leaf-bearing nodes are never touched.
func Simplify(g *graph.Graph) int {
	removed := 0
	for {
		n := simplifyPass(g)
		if n == 0 {
			return removed
		}
		removed += n
	}
}

func simplifyPass(g *graph.Graph) int {
	removed := 0
	for _, n := range g.Nodes() {
		if !n.IsClade() || !g.Has(n.ID) {
			continue
		}
		if collapse(g, n.ID) {
			removed++
		}
	}
	return removed
}

// collapse applies the first rule that matches id.
func collapse(g *graph.Graph, id graph.NodeID) bool {
	if g.Degree(id) <= 1 {
		_ = g.RemoveNode(id)
		return true
	}
	parents, children := g.Parents(id), g.Children(id)
	switch {
	case len(parents) == 1 && len(children) == 1:
		return bypass(g, id, parents[0], children[0])
	case len(parents) == 0 && len(children) == 2:
		return bypass(g, id, children[0], children[1])
	}
	return false
}

// bypass removes id and joins from to to. Nothing changes when from and to
// are already adjacent, which would otherwise lose a path.
func bypass(g *graph.Graph, id, from, to graph.NodeID) bool {
	if g.HasEdge(from, to) {
		return false
	}
	_ = g.RemoveNode(id)
	_, _ = g.AddEdge(from, to)
	return true
}
