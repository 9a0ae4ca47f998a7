package transform

import (
	"fmt"

	"github.com/matzehuels/nrfg/pkg/graph"
)

// Splice removes id from g and joins its neighbours. The first parent, or
// the lowest neighbour if the node has no parent, becomes the hub and gains
// an edge to every other neighbour. Existing adjacencies are kept as they
// are.
func Splice(g *graph.Graph, id graph.NodeID) error {
	if !g.Has(id) {
		return fmt.Errorf("splice %d: %w", id, graph.ErrUnknownNode)
	}
	neighbors := g.Neighbors(id)
	hub := graph.NodeID(0)
	if parents := g.Parents(id); len(parents) > 0 {
		hub = parents[0]
	} else if len(neighbors) > 0 {
		hub = neighbors[0]
	}
	if err := g.RemoveNode(id); err != nil {
		return err
	}
	for _, n := range neighbors {
		if n == hub || g.HasEdge(hub, n) {
			continue
		}
		if _, err := g.AddEdge(hub, n); err != nil {
			return err
		}
	}
	return nil
}
