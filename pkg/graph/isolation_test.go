package graph

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func keyIn(keys ...string) Predicate {
	return func(n *Node) bool { return slices.Contains(keys, n.Key()) }
}

func TestFindIsolationPoint(t *testing.T) {
	tests := []struct {
		name    string
		newick  string
		inside  []string
		outside []string
		want    []string // keys of the inside set
	}{
		{"cherry", "((a,b),(c,d));", []string{"a", "b"}, []string{"c", "d"}, []string{"a", "b"}},
		{"single leaf", "((a,b),(c,d));", []string{"c"}, []string{"a", "b", "d"}, []string{"c"}},
		{"cladistic leaf", "((a,b,x),(c,d));", []string{"a", "b"}, []string{"c", "d"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := mustParse(t, tt.newick)
			p, err := g.FindIsolationPoint(keyIn(tt.inside...), keyIn(tt.outside...))
			if err != nil {
				t.Fatalf("FindIsolationPoint() error: %v", err)
			}
			var got []string
			for _, id := range p.Inside {
				n, _ := g.Node(id)
				got = append(got, n.Key())
			}
			slices.Sort(got)
			if !slices.Equal(got, tt.want) {
				t.Errorf("inside = %v, want %v", got, tt.want)
			}
			// The point must really separate the two sets.
			for _, id := range g.Side(p.Internal, p.External) {
				n, _ := g.Node(id)
				if slices.Contains(tt.outside, n.Key()) {
					t.Errorf("outside node %s on internal side", n.Key())
				}
			}
		})
	}
}

func TestFindIsolationPointPrefersFewerCladistic(t *testing.T) {
	// (a) and ((a),x): both edges above "a" isolate it; the closer one wins.
	g, _ := mustParse(t, "(((a),x),b);")
	p, err := g.FindIsolationPoint(keyIn("a"), keyIn("b"))
	if err != nil {
		t.Fatalf("FindIsolationPoint() error: %v", err)
	}
	if p.Cladistic != 0 {
		t.Errorf("Cladistic = %d, want 0", p.Cladistic)
	}
	if n, _ := g.Node(p.Internal); n.Key() != "a" {
		t.Errorf("Internal = %s, want a", n.Key())
	}
}

func TestFindIsolationPointAmbiguous(t *testing.T) {
	// a and b are separated by c: no single edge isolates both.
	g, _ := mustParse(t, "((a,c),(b,d));")
	points := g.FindIsolationPoints(keyIn("a", "b"), keyIn("c", "d"))
	if len(points) != 2 {
		t.Fatalf("FindIsolationPoints() = %d points, want 2", len(points))
	}
	_, err := g.FindIsolationPoint(keyIn("a", "b"), keyIn("c", "d"))
	var ie *IsolationError
	if !errors.As(err, &ie) {
		t.Fatalf("error = %v, want *IsolationError", err)
	}
	if len(ie.Candidates) != 2 {
		t.Errorf("Candidates = %d, want 2", len(ie.Candidates))
	}
	if !strings.Contains(ie.Error(), "found 2 points") {
		t.Errorf("Error() = %q", ie.Error())
	}
}

func TestFindIsolationPointNone(t *testing.T) {
	g, _ := mustParse(t, "(a,b);")
	_, err := g.FindIsolationPoint(keyIn("z"), keyIn("a"))
	var ie *IsolationError
	if !errors.As(err, &ie) || len(ie.Candidates) != 0 {
		t.Fatalf("error = %v, want empty *IsolationError", err)
	}
}
