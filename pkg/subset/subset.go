// Package subset groups fusion points into the gene subsets from which the
// fusion graph is rebuilt.
//
// Every fusion point divides its component's tree into the leaves on its
// inner side and those on its outer side. The distinct sides over all points
// are the candidate subsets; sides without a sequence are dropped. With
// NoSuper set, a side fully covered by the other retained sides is dropped
// too. Each subset is then extended with the fusion points adjacent to it:
// those with the subset as one of their sides.
package subset

import (
	"cmp"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
	"github.com/matzehuels/nrfg/pkg/split"
)

// Subset is a gene set to rebuild as one subgraph.
type Subset struct {
	Index  int
	Leaves split.LeafSet         // the pertinent side, sequences and fusion points
	Points []*model.FusionPoint // adjacent points, ascending by index
}

// Sequences returns the sequence leaves of the subset.
func (s *Subset) Sequences() split.LeafSet { return s.Leaves.OnlySequences() }

// Key identifies the subset by its leaves.
func (s *Subset) Key() string { return s.Leaves.Key() }

// Sides returns the leaves on the inner and outer side of p in its
// component's fused tree.
func Sides(p *model.FusionPoint) (inner, outer split.LeafSet, err error) {
	tree := p.Component.Fused
	if tree == nil {
		return nil, nil, errors.Precondition("component %s has no fused tree", p.Component)
	}
	if !tree.HasEdge(p.Node, p.Internal) {
		return nil, nil, errors.Inconsistent("fusion point %s is detached from its tree", p.Key())
	}
	var external graph.NodeID
	for _, n := range tree.Neighbors(p.Node) {
		if n != p.Internal {
			external = n
			break
		}
	}
	inner = split.Leaves(tree, tree.Side(p.Internal, p.Node))
	outer = make(split.LeafSet)
	if external != 0 {
		outer = split.Leaves(tree, tree.Side(external, p.Node))
	}
	return inner, outer, nil
}

type sides struct {
	point        *model.FusionPoint
	inner, outer split.LeafSet
}

// Partition builds the subsets for points. Subsets are ordered by leaf key.
func Partition(points []*model.FusionPoint, noSuper bool, logger *log.Logger) ([]*Subset, error) {
	var all []sides
	sets := make(map[string]split.LeafSet)
	for _, p := range points {
		inner, outer, err := Sides(p)
		if err != nil {
			return nil, err
		}
		all = append(all, sides{point: p, inner: inner, outer: outer})
		for _, s := range []split.LeafSet{inner, outer} {
			if len(s.Sequences()) > 0 {
				sets[s.Key()] = s
			}
		}
	}

	retained := sets
	if noSuper {
		retained = dropSupersets(sets)
		if logger != nil && len(retained) < len(sets) {
			logger.Debug("redundant subsets dropped", "before", len(sets), "after", len(retained))
		}
	}

	keys := slices.Sorted(maps.Keys(retained))

	out := make([]*Subset, len(keys))
	for i, k := range keys {
		out[i] = &Subset{Index: i, Leaves: retained[k]}
	}
	for _, sd := range all {
		for _, side := range []split.LeafSet{sd.inner, sd.outer} {
			for _, s := range out {
				if adjacent(s, side, retained) {
					s.add(sd.point)
				}
			}
		}
	}
	return out, nil
}

// adjacent reports whether a point with the given side belongs to s: the
// side is s itself, or the side was dropped as redundant and s is one of
// the retained sets it contains.
func adjacent(s *Subset, side split.LeafSet, retained map[string]split.LeafSet) bool {
	key := side.Key()
	if key == s.Key() {
		return true
	}
	if _, ok := retained[key]; ok || len(side.Sequences()) == 0 {
		return false
	}
	return len(s.Leaves) < len(side) && s.Leaves.SubsetOf(side)
}

// add appends p unless a point of the same event isolating the same genes
// is already present.
func (s *Subset) add(p *model.FusionPoint) {
	for _, q := range s.Points {
		if q == p || (q.Event == p.Event && q.GeneKey() == p.GeneKey()) {
			return
		}
	}
	s.Points = append(s.Points, p)
	slices.SortFunc(s.Points, func(a, b *model.FusionPoint) int { return a.Index - b.Index })
}

// dropSupersets removes, largest first, every set covered by the union of
// the other sets still retained.
func dropSupersets(sets map[string]split.LeafSet) map[string]split.LeafSet {
	keys := slices.Collect(maps.Keys(sets))
	slices.SortFunc(keys, func(a, b string) int {
		if d := len(sets[b]) - len(sets[a]); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})

	retained := maps.Clone(sets)
	for _, k := range keys {
		covered := make(split.LeafSet)
		for other, v := range retained {
			if other != k {
				covered = covered.Union(v)
			}
		}
		if len(covered) > 0 && sets[k].OnlySequences().SubsetOf(covered) {
			delete(retained, k)
		}
	}
	return retained
}
