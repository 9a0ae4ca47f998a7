package nrfg

import (
	"github.com/matzehuels/nrfg/pkg/graph"
)

// Link is an edge created by sewing, from a source point node to a
// destination point node.
type Link struct {
	Source      graph.NodeID
	Destination graph.NodeID
}

// Sew copies every subgraph into one graph drawing ids from alloc and
// connects each source point node to every destination point node of
// another subgraph with the same event and gene set. Pairs are joined at
// most once.
func Sew(subgraphs []*Subgraph, alloc *graph.Allocator) (*graph.Graph, []Link) {
	g := graph.New(alloc)
	for _, sg := range subgraphs {
		sg.Graph.CopyInto(g)
	}

	var links []Link
	for i, from := range subgraphs {
		for _, src := range from.Points {
			if src.Role != Source {
				continue
			}
			for j, to := range subgraphs {
				if i == j {
					continue
				}
				for _, dst := range to.Points {
					if dst.Role != Destination || !matches(src, dst) || g.HasEdge(src.Node, dst.Node) {
						continue
					}
					if _, err := g.AddEdge(src.Node, dst.Node); err == nil {
						links = append(links, Link{Source: src.Node, Destination: dst.Node})
					}
				}
			}
		}
	}
	return g, links
}

func matches(a, b PointNode) bool {
	return a.Point.Event == b.Point.Event && a.Point.GeneKey() == b.Point.GeneKey()
}
