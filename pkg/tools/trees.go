package tools

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
)

// NewickSource holds trees supplied with a model, labelled by accession.
type NewickSource []string

// Match parses the trees into m's arena and assigns each to the component
// whose minor sequences are most similar to its leaves (Jaccard index), the
// lower index winning ties. A tree sharing no leaf with any component is
// invalid input.
func (src NewickSource) Match(m *model.Model) (map[*model.Component][]*graph.Graph, error) {
	out := make(map[*model.Component][]*graph.Graph)
	for i, nwk := range src {
		g, _, err := graph.ParseNewick(m.Alloc, nwk, AccessionResolver(m))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tree %d", i)
		}
		leaves := treeSequences(g)

		var best *model.Component
		bestScore := 0.0
		for _, c := range m.Components {
			if score := jaccard(leaves, c.MinorSequences()); score > bestScore {
				best, bestScore = c, score
			}
		}
		if best == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "tree %d shares no leaf with any component", i)
		}
		out[best] = append(out[best], g)
	}
	return out, nil
}

func jaccard(a, b []*model.Sequence) float64 {
	common := 0
	for _, s := range a {
		if slices.Contains(b, s) {
			common++
		}
	}
	union := len(a) + len(b) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

func treeSequences(g *graph.Graph) []*model.Sequence {
	var out []*model.Sequence
	for _, n := range g.Leaves() {
		if s, ok := n.Data.(*model.Sequence); ok {
			out = append(out, s)
		}
	}
	return out
}

// Trees gives every component of m a tree. Supplied trees are used first;
// several trees for one component are merged with tk.Consensus. Components
// of one or two sequences get their only possible tree. The rest are
// aligned and inferred with tk. Components that already have a tree are
// left alone. tk may be nil when no tool is needed; logger may be nil.
func Trees(ctx context.Context, m *model.Model, tk Toolkit, src NewickSource, logger *log.Logger) error {
	supplied, err := src.Match(m)
	if err != nil {
		return err
	}
	for _, c := range m.Components {
		if c.Tree != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		g, how, err := componentTree(ctx, m, c, tk, supplied[c])
		if err != nil {
			return err
		}
		c.Tree = g
		if logger != nil {
			logger.Debug("tree ready", "component", c.Key(), "source", how, "nodes", g.NodeCount())
		}
	}
	return nil
}

func componentTree(ctx context.Context, m *model.Model, c *model.Component, tk Toolkit, given []*graph.Graph) (*graph.Graph, string, error) {
	switch {
	case len(given) == 1:
		return given[0], "supplied", nil
	case len(given) > 1:
		if tk == nil {
			return nil, "", errors.Precondition("%d trees for %s need a consensus tool", len(given), c)
		}
		newicks := make([]string, len(given))
		for i, g := range given {
			newicks[i] = idNewick(g)
		}
		out, err := tk.Consensus(ctx, newicks)
		if err != nil {
			return nil, "", err
		}
		g, err := ParseTree(m, out)
		return g, "consensus", err
	}

	seqs := c.MinorSequences()
	if len(seqs) <= 2 {
		return trivialTree(m, seqs), "trivial", nil
	}
	if tk == nil {
		return nil, "", errors.Precondition("component %s has no tree and no toolkit", c)
	}
	fasta, err := ComponentFASTA(c)
	if err != nil {
		return nil, "", err
	}
	aligned, err := tk.Align(ctx, fasta)
	if err != nil {
		return nil, "", err
	}
	nwk, err := tk.InferTree(ctx, aligned)
	if err != nil {
		return nil, "", err
	}
	g, err := ParseTree(m, nwk)
	if err != nil {
		return nil, "", err
	}
	c.Alignment = string(aligned)
	return g, "inferred", nil
}

func trivialTree(m *model.Model, seqs []*model.Sequence) *graph.Graph {
	g := graph.New(m.Alloc)
	if len(seqs) == 1 {
		g.AddNode(seqs[0])
		return g
	}
	root := g.AddNode(nil)
	for _, s := range seqs {
		_, _ = g.AddEdge(root.ID, g.AddNode(s).ID)
	}
	return g
}

// idNewick writes g with "S<id>" leaf labels.
func idNewick(g *graph.Graph) string {
	var start graph.NodeID
	if roots := g.Roots(); len(roots) > 0 {
		start = roots[0]
	}
	return g.Newick(start, func(n *graph.Node) string {
		if n.IsClade() {
			return ""
		}
		return n.Key()
	})
}
