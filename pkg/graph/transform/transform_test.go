package transform

import (
	"slices"
	"testing"

	"github.com/matzehuels/nrfg/pkg/graph"
)

type leaf string

func (l leaf) Kind() graph.Kind { return graph.KindSequence }
func (l leaf) Key() string      { return string(l) }

func parse(t *testing.T, s string) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g, root, err := graph.ParseNewick(nil, s, func(label string) (graph.Data, error) {
		return leaf(label), nil
	})
	if err != nil {
		t.Fatalf("ParseNewick(%q): %v", s, err)
	}
	return g, root
}

func byKey(t *testing.T, g *graph.Graph, key string) graph.NodeID {
	t.Helper()
	for _, n := range g.Leaves() {
		if n.Key() == key {
			return n.ID
		}
	}
	t.Fatalf("no leaf %s", key)
	return 0
}

func TestSplice(t *testing.T) {
	g, root := parse(t, "(a,b);")
	a := byKey(t, g, "a")
	mid, err := g.InsertOnEdge(root, a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := Splice(g, mid.ID); err != nil {
		t.Fatalf("Splice() error: %v", err)
	}
	if g.Has(mid.ID) {
		t.Error("spliced node still present")
	}
	if e, ok := g.Edge(root, a); !ok || e.Left != root {
		t.Errorf("edge root->a = %+v, %v", e, ok)
	}
	if err := Splice(g, mid.ID); err == nil {
		t.Error("Splice() of missing node succeeded")
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		nodes int
		edges int
	}{
		// Root with two children collapses into a single edge.
		{"binary root", "(a,b);", 2, 1},
		// Chain of unary clades disappears.
		{"unary chain", "((((a)),b),c);", 4, 3},
		// Dangling clade leaf is removed.
		{"empty leaf", "(a,,b,c);", 4, 3},
		{"nothing to do", "(a,b,c);", 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := parse(t, tt.input)
			Simplify(g)
			if g.NodeCount() != tt.nodes || g.EdgeCount() != tt.edges {
				t.Errorf("after Simplify: %d nodes / %d edges, want %d / %d",
					g.NodeCount(), g.EdgeCount(), tt.nodes, tt.edges)
			}
			for _, n := range g.Nodes() {
				if n.IsClade() && g.Degree(n.ID) <= 1 {
					t.Errorf("clade %d left with degree %d", n.ID, g.Degree(n.ID))
				}
			}
		})
	}
}

func TestSimplifyKeepsLeaves(t *testing.T) {
	g, _ := parse(t, "((a,b),(c,d));")
	Simplify(g)
	if len(g.Leaves()) != 4 {
		t.Errorf("Leaves() = %d, want 4", len(g.Leaves()))
	}
}

func TestOrientAway(t *testing.T) {
	g, root := parse(t, "((a,b),c);")
	c := byKey(t, g, "c")
	order := OrientAway(g, c, nil)
	if len(order) != g.NodeCount() || order[0] != c {
		t.Fatalf("OrientAway() visited %v", order)
	}
	if got := g.Roots(); !slices.Equal(got, []graph.NodeID{c}) {
		t.Errorf("Roots() = %v, want [%d]", got, c)
	}
	if !slices.Equal(g.Parents(root), []graph.NodeID{c}) {
		t.Errorf("Parents(root) = %v", g.Parents(root))
	}
}

func TestOrientAwayStops(t *testing.T) {
	g, root := parse(t, "((a,b),c);")
	c := byKey(t, g, "c")
	inner := g.Children(root)[0]
	a := byKey(t, g, "a")
	OrientAway(g, c, func(id graph.NodeID) bool { return id == inner })
	// The edge into the barrier is oriented, the edges behind it are not.
	if !slices.Equal(g.Parents(inner), []graph.NodeID{root}) {
		t.Errorf("Parents(inner) = %v", g.Parents(inner))
	}
	if e, _ := g.Edge(inner, a); e.Left != inner {
		t.Errorf("edge behind barrier changed: %+v", e)
	}
}

func TestOrientEdge(t *testing.T) {
	g, root := parse(t, "((a,b),c);")
	inner := g.Children(root)[0]
	if err := OrientEdge(g, inner, root, nil); err != nil {
		t.Fatalf("OrientEdge() error: %v", err)
	}
	c := byKey(t, g, "c")
	if !slices.Equal(g.Parents(root), []graph.NodeID{inner}) {
		t.Errorf("Parents(root) = %v", g.Parents(root))
	}
	if !slices.Equal(g.Parents(c), []graph.NodeID{root}) {
		t.Errorf("Parents(c) = %v", g.Parents(c))
	}
	if err := OrientEdge(g, c, byKey(t, g, "a"), nil); err == nil {
		t.Error("OrientEdge() on non-edge succeeded")
	}
}
