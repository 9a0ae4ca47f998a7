// Package fixture builds small models for tests.
package fixture

import (
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
)

// FusionTrees are the component trees of [Fusion], by component index.
var FusionTrees = []string{
	"((a1,a2),(c1,c2));",
	"((b1,b2),(c1,c2));",
	"(c1,c2);",
}

// NestedTrees are the component trees of [Nested]. The c genes sit deep in
// A's tree, next to a4.
var NestedTrees = []string{
	"((a1,a2),(a3,(a4,(c1,c2))));",
	"((b1,b2),(c1,c2));",
	"(c1,c2);",
}

// Fusion returns a model in which family A = {a1, a2} and family
// B = {b1, b2} fuse into C = {c1, c2}: the 200-site c genes carry A's
// domain at 1..100 and B's at 101..200.
func Fusion() *model.Model { return fused("a1", "a2") }

// Nested returns [Fusion] with A grown to {a1, a2, a3, a4}.
func Nested() *model.Model { return fused("a1", "a2", "a3", "a4") }

func fused(family ...string) *model.Model {
	m := model.New()
	add := func(acc string, length int) *model.Sequence {
		s, err := m.AddSequence(acc, length, "")
		if err != nil {
			panic(err)
		}
		return s
	}
	as := make([]*model.Sequence, len(family))
	for i, acc := range family {
		as[i] = add(acc, 100)
	}
	b1, b2 := add("b1", 100), add("b2", 100)
	c1, c2 := add("c1", 200), add("c2", 200)

	span := func(s *model.Sequence, start, end int) model.Subsequence {
		return model.Subsequence{Sequence: s, Start: start, End: end}
	}
	var edges []*model.Edge
	for i := 1; i < len(as); i++ {
		edges = append(edges, model.NewEdge(model.Whole(as[i-1]), model.Whole(as[i])))
	}
	edges = append(edges,
		model.NewEdge(model.Whole(b1), model.Whole(b2)),
		model.NewEdge(model.Whole(c1), model.Whole(c2)),
		model.NewEdge(model.Whole(as[0]), span(c1, 1, 100)),
		model.NewEdge(model.Whole(b1), span(c1, 101, 200)),
	)
	for _, e := range edges {
		if err := m.AddEdge(e); err != nil {
			panic(err)
		}
	}
	return m
}

// Resolver maps accessions of m to their sequences.
func Resolver(m *model.Model) graph.LabelResolver {
	return func(label string) (graph.Data, error) {
		s, ok := m.SequenceByAccession(label)
		if !ok {
			return nil, nil
		}
		return s, nil
	}
}

// AttachTrees parses FusionTrees onto the components of m, which must
// already be detected.
func AttachTrees(m *model.Model) { Attach(m, FusionTrees) }

// Attach parses trees onto the components of m by component index.
func Attach(m *model.Model, trees []string) {
	for i, c := range m.Components {
		g, _, err := graph.ParseNewick(m.Alloc, trees[i], Resolver(m))
		if err != nil {
			panic(err)
		}
		c.Tree = g
	}
}
