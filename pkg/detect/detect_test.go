package detect

import (
	"slices"
	"testing"

	"github.com/matzehuels/nrfg/pkg/model"
)

func seqs(lengths ...int) []*model.Sequence {
	out := make([]*model.Sequence, len(lengths))
	for i, l := range lengths {
		out[i] = &model.Sequence{ID: i + 1, Accession: model.SequenceKey(i + 1), Length: l}
	}
	return out
}

func span(s *model.Sequence, start, end int) model.Subsequence {
	return model.Subsequence{Sequence: s, Start: start, End: end}
}

func majorIDs(c *model.Component) []int {
	var ids []int
	for _, s := range c.Major {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind()
	uf.union(1, 2)
	uf.union(3, 4)
	uf.union(2, 4)
	uf.add(5)
	if !uf.connected(1, 3) {
		t.Error("1 and 3 not connected")
	}
	if uf.connected(1, 5) {
		t.Error("1 and 5 connected")
	}
	if uf.find(6) != 6 {
		t.Error("find() of unknown element is not itself")
	}
}

func TestMajorsScenario(t *testing.T) {
	s := seqs(100, 100, 100)
	edges := []*model.Edge{model.NewEdge(span(s[0], 1, 100), span(s[1], 1, 100))}

	cs := Majors(s, edges, 5)
	if len(cs) != 2 {
		t.Fatalf("Majors() = %d components, want 2", len(cs))
	}
	if got := majorIDs(cs[0]); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("component 0 = %v, want [1 2]", got)
	}
	if got := majorIDs(cs[1]); !slices.Equal(got, []int{3}) {
		t.Errorf("component 1 = %v, want [3]", got)
	}
	if cs[0].Index != 0 || cs[1].Index != 1 {
		t.Errorf("indices = %d, %d", cs[0].Index, cs[1].Index)
	}
}

func TestWholeMatch(t *testing.T) {
	s := seqs(100, 104, 200)
	tests := []struct {
		name string
		edge *model.Edge
		want bool
	}{
		{"full cover", model.NewEdge(span(s[0], 1, 100), span(s[1], 1, 104)), true},
		{"within tolerance", model.NewEdge(span(s[0], 3, 98), span(s[1], 2, 101)), true},
		{"partial cover", model.NewEdge(span(s[0], 1, 50), span(s[1], 1, 104)), false},
		{"length mismatch", model.NewEdge(span(s[0], 1, 100), span(s[2], 1, 200)), false},
	}
	for _, tt := range tests {
		if got := WholeMatch(tt.edge, 5); got != tt.want {
			t.Errorf("%s: WholeMatch() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMajorsTransitive(t *testing.T) {
	// Every sequence ends up in exactly one component, joined transitively.
	s := seqs(100, 102, 104, 300, 300)
	edges := []*model.Edge{
		model.NewEdge(span(s[0], 1, 100), span(s[1], 1, 102)),
		model.NewEdge(span(s[1], 1, 102), span(s[2], 1, 104)),
		model.NewEdge(span(s[3], 1, 300), span(s[4], 1, 300)),
		model.NewEdge(span(s[0], 1, 100), span(s[3], 1, 100)), // domain only
	}
	for _, tol := range []int{0, 2, 5, 1000} {
		cs := Majors(s, edges, tol)
		seen := map[int]int{}
		for _, c := range cs {
			for _, m := range c.Major {
				seen[m.ID]++
			}
		}
		for _, q := range s {
			if seen[q.ID] != 1 {
				t.Errorf("T=%d: sequence %d in %d components", tol, q.ID, seen[q.ID])
			}
		}
		for _, e := range edges {
			if !WholeMatch(e, tol) {
				continue
			}
			var ca, cb int
			for _, c := range cs {
				if c.HasMajor(e.Left.Sequence()) {
					ca = c.Index
				}
				if c.HasMajor(e.Right.Sequence()) {
					cb = c.Index
				}
			}
			if ca != cb {
				t.Errorf("T=%d: edge %s split across components", tol, e)
			}
		}
	}
}

func TestMinors(t *testing.T) {
	// Family A: two 100-site genes. Family B: two 300-site genes carrying
	// A's domain at different offsets.
	s := seqs(100, 100, 300, 300)
	edges := []*model.Edge{
		model.NewEdge(span(s[0], 1, 100), span(s[1], 1, 100)),
		model.NewEdge(span(s[2], 1, 300), span(s[3], 1, 300)),
		// entry: A1 matches B1 at 101..200
		model.NewEdge(span(s[0], 1, 100), span(s[2], 101, 200)),
		// weaker entry, ignored
		model.NewEdge(span(s[1], 1, 50), span(s[3], 111, 160)),
	}
	cs := Majors(s, edges, 5)
	if len(cs) != 2 {
		t.Fatalf("Majors() = %d components, want 2", len(cs))
	}
	warnings := Minors(cs, edges, 5, nil)
	if len(warnings) != 0 {
		t.Errorf("Minors() warnings = %v", warnings)
	}

	a, b := cs[0], cs[1]
	if len(b.Minor) != 2 {
		t.Errorf("longer family has %d minors, want its own 2", len(b.Minor))
	}
	want := []model.Subsequence{
		model.Whole(s[0]), model.Whole(s[1]),
		span(s[2], 101, 200), span(s[3], 101, 200),
	}
	if !slices.Equal(a.Minor, want) {
		t.Errorf("A minors = %v, want %v", a.Minor, want)
	}
}

func TestMinorsClamp(t *testing.T) {
	// The B family members are offset so that carrying A's domain over runs
	// past the end of the second member.
	s := seqs(100, 300, 220)
	edges := []*model.Edge{
		model.NewEdge(span(s[0], 1, 100), span(s[1], 201, 300)),
		model.NewEdge(span(s[1], 1, 200), span(s[2], 21, 220)),
	}
	cs := Majors(s, edges, 5)
	if len(cs) != 3 {
		t.Fatalf("Majors() = %d components, want 3", len(cs))
	}
	// Make sequences 2 and 3 one family by hand.
	b := &model.Component{Index: 1, Major: []*model.Sequence{s[1], s[2]}}
	comps := []*model.Component{cs[0], b}

	warnings := Minors(comps, edges, 5, nil)
	if len(warnings) != 1 {
		t.Fatalf("Minors() warnings = %v, want one", warnings)
	}
	got := comps[0].Minor[len(comps[0].Minor)-1]
	if got.Sequence != s[2] || got.End != 220 || got.Start != 220 {
		t.Errorf("clamped minor = %v", got)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("clamped minor invalid: %v", err)
	}
}

func TestMinorsEqualLengthsDoNotPropagate(t *testing.T) {
	s := seqs(100, 100)
	edges := []*model.Edge{model.NewEdge(span(s[0], 1, 50), span(s[1], 51, 100))}
	cs := Majors(s, edges, 5)
	Minors(cs, edges, 5, nil)
	for _, c := range cs {
		if len(c.Minor) != 1 {
			t.Errorf("%s has %d minors, want 1", c, len(c.Minor))
		}
	}
}

func TestDetect(t *testing.T) {
	m := model.New()
	a, _ := m.AddSequence("a", 100, "")
	b, _ := m.AddSequence("b", 100, "")
	c, _ := m.AddSequence("c", 100, "")
	_ = m.AddEdge(model.NewEdge(model.Whole(a), model.Whole(b)))

	if _, err := Detect(m, -1, nil); err == nil {
		t.Error("Detect() with negative tolerance succeeded")
	}
	if _, err := Detect(m, 5, nil); err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if len(m.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(m.Components))
	}
	if m.ComponentOf(a) != m.ComponentOf(b) || m.ComponentOf(c) == m.ComponentOf(a) {
		t.Error("ComponentOf() does not match the scenario")
	}
}
