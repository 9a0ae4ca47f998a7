package subset

import (
	"slices"
	"testing"

	"github.com/matzehuels/nrfg/internal/fixture"
	"github.com/matzehuels/nrfg/pkg/detect"
	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/fusion"
	"github.com/matzehuels/nrfg/pkg/model"
	"github.com/matzehuels/nrfg/pkg/split"
)

func fusedPoints(t *testing.T) (*model.Model, []*model.FusionPoint) {
	t.Helper()
	m := fixture.Fusion()
	if _, err := detect.Detect(m, 5, nil); err != nil {
		t.Fatal(err)
	}
	fixture.AttachTrees(m)
	idx := fusion.NewIndex(m.Components)
	points, _, err := fusion.Points(fusion.Events(m.Components, idx), idx, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m, points
}

func seqSet(m *model.Model, accs ...string) split.LeafSet {
	s := make(split.LeafSet)
	for _, a := range accs {
		seq, _ := m.SequenceByAccession(a)
		s[seq.Key()] = seq
	}
	return s
}

func TestSides(t *testing.T) {
	m, points := fusedPoints(t)
	inner, outer, err := Sides(points[0])
	if err != nil {
		t.Fatalf("Sides() error: %v", err)
	}
	if !inner.Equal(seqSet(m, "c1", "c2")) {
		t.Errorf("inner = %s", inner.Key())
	}
	if !outer.Equal(seqSet(m, "a1", "a2")) {
		t.Errorf("outer = %s", outer.Key())
	}

	detached := &model.FusionPoint{Component: &model.Component{}}
	if _, _, err := Sides(detached); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("Sides() without fused tree error = %v", err)
	}
}

func TestPartition(t *testing.T) {
	for _, noSuper := range []bool{false, true} {
		m, points := fusedPoints(t)
		subsets, err := Partition(points, noSuper, nil)
		if err != nil {
			t.Fatalf("Partition() error: %v", err)
		}
		want := []split.LeafSet{
			seqSet(m, "a1", "a2"),
			seqSet(m, "b1", "b2"),
			seqSet(m, "c1", "c2"),
		}
		if len(subsets) != len(want) {
			t.Fatalf("noSuper=%v: %d subsets, want %d", noSuper, len(subsets), len(want))
		}
		for i, s := range subsets {
			if !s.Leaves.Equal(want[i]) {
				t.Errorf("subset %d = %s, want %s", i, s.Key(), want[i].Key())
			}
			if s.Index != i {
				t.Errorf("subset %d has index %d", i, s.Index)
			}
		}
		// Both points isolate the c genes for the same event: one is kept.
		if got := subsets[2].Points; len(got) != 1 || got[0] != points[0] {
			t.Errorf("c subset points = %v", got)
		}
		if got := subsets[0].Points; !slices.Equal(got, []*model.FusionPoint{points[0]}) {
			t.Errorf("a subset points = %v", got)
		}
		if got := subsets[1].Points; !slices.Equal(got, []*model.FusionPoint{points[1]}) {
			t.Errorf("b subset points = %v", got)
		}
	}
}

func leafSet(keys ...int) split.LeafSet {
	s := make(split.LeafSet)
	for _, k := range keys {
		seq := &model.Sequence{ID: k}
		s[seq.Key()] = seq
	}
	return s
}

func TestDropSupersets(t *testing.T) {
	ab, c, abc, d := leafSet(1, 2), leafSet(3), leafSet(1, 2, 3), leafSet(4)
	sets := map[string]split.LeafSet{ab.Key(): ab, c.Key(): c, abc.Key(): abc, d.Key(): d}

	retained := dropSupersets(sets)
	if _, ok := retained[abc.Key()]; ok {
		t.Error("covered superset retained")
	}
	for _, s := range []split.LeafSet{ab, c, d} {
		if _, ok := retained[s.Key()]; !ok {
			t.Errorf("set %s dropped", s.Key())
		}
	}

	// A point whose side was dropped attaches to the retained parts.
	sub := &Subset{Leaves: ab}
	if !adjacent(sub, abc, retained) {
		t.Error("dropped superset not adjacent to its part")
	}
	if adjacent(&Subset{Leaves: d}, abc, retained) {
		t.Error("unrelated subset adjacent")
	}
	if adjacent(sub, abc, sets) {
		t.Error("retained superset treated as dropped")
	}
}
