package nrfg

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/graph/transform"
	"github.com/matzehuels/nrfg/pkg/model"
)

// Clean tidies a sewn graph in place: it splices out the source point
// nodes, simplifies redundant clades, points every fusion point at the
// genes it produced and finally roots the graph on a new node above the
// outgroups. An outgroup missing from the graph or produced by one of the
// fusion points is a precondition violation, reported before g is touched.
// Outgroups that no single edge separates from the other sequences are
// ambiguous. logger may be nil.
func Clean(g *graph.Graph, subgraphs []*Subgraph, outgroups []*model.Sequence, logger *log.Logger) error {
	roots := make([]graph.NodeID, 0, len(outgroups))
	for _, seq := range outgroups {
		id, ok := findSequence(g, seq)
		if !ok {
			return errors.Precondition("outgroup %s is not in the graph", seq)
		}
		for _, sg := range subgraphs {
			for _, p := range sg.Points {
				if p.Point.HasGene(seq) {
					return errors.Precondition("outgroup %s descends from fusion point %s", seq, p.Point.Key())
				}
			}
		}
		roots = append(roots, id)
	}

	spliced := 0
	for _, sg := range subgraphs {
		for _, p := range sg.Points {
			if p.Role != Source || !g.Has(p.Node) {
				continue
			}
			if err := transform.Splice(g, p.Node); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "splice source %s", p.Point.Key())
			}
			spliced++
		}
	}
	removed := transform.Simplify(g)

	isFusion := func(id graph.NodeID) bool {
		n, ok := g.Node(id)
		return ok && n.Kind() == graph.KindFusion
	}
	for _, n := range g.Nodes() {
		p, ok := n.Data.(*model.FusionPoint)
		if !ok {
			continue
		}
		for _, nb := range g.Neighbors(n.ID) {
			seq := firstSequence(g, nb, n.ID)
			if seq == nil || !p.HasGene(seq) {
				continue
			}
			if err := transform.OrientEdge(g, n.ID, nb, isFusion); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "orient %s", p.Key())
			}
		}
	}

	if len(roots) > 0 {
		edge, err := outgroupEdge(g, roots)
		if err != nil {
			return err
		}
		root, err := g.InsertOnEdge(edge.Internal, edge.External, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "root on outgroups")
		}
		transform.OrientAway(g, root.ID, isFusion)
	}

	if logger != nil {
		logger.Debug("graph cleaned", "spliced", spliced, "collapsed", removed, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	}
	return nil
}

// outgroupEdge returns the one edge that isolates the outgroup leaves from
// every other sequence.
func outgroupEdge(g *graph.Graph, outgroups []graph.NodeID) (graph.IsolationPoint, error) {
	set := make(map[graph.NodeID]bool, len(outgroups))
	for _, id := range outgroups {
		set[id] = true
	}
	p, err := g.FindIsolationPoint(
		func(n *graph.Node) bool { return set[n.ID] },
		func(n *graph.Node) bool { return n.Kind() == graph.KindSequence && !set[n.ID] },
	)
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeAmbiguousIsolation, err, "root on %d outgroups", len(outgroups))
	}
	return p, nil
}

// firstSequence walks breadth-first from start, never entering avoid, and
// returns the first sequence met.
func firstSequence(g *graph.Graph, start, avoid graph.NodeID) *model.Sequence {
	for _, id := range g.Walk(start, func(_, to graph.NodeID) bool { return to == avoid }) {
		n, _ := g.Node(id)
		if s, ok := n.Data.(*model.Sequence); ok {
			return s
		}
	}
	return nil
}

func findSequence(g *graph.Graph, seq *model.Sequence) (graph.NodeID, bool) {
	for _, n := range g.Leaves() {
		if n.Data == graph.Data(seq) {
			return n.ID, true
		}
	}
	return 0, false
}
