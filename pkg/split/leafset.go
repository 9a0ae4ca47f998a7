package split

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
)

// LeafSet is a set of sequence and fusion point leaves keyed by graph key.
type LeafSet map[string]graph.Data

// NewLeafSet returns a set holding leaves.
func NewLeafSet(leaves ...graph.Data) LeafSet {
	s := make(LeafSet, len(leaves))
	for _, l := range leaves {
		s[l.Key()] = l
	}
	return s
}

// Has reports whether the set contains a leaf with the given key.
func (s LeafSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the leaf keys in ascending order.
func (s LeafSet) Keys() []string { return slices.Sorted(maps.Keys(s)) }

// Key identifies the set: its sorted keys joined by commas.
func (s LeafSet) Key() string { return strings.Join(s.Keys(), ",") }

// Equal reports whether both sets hold the same keys.
func (s LeafSet) Equal(o LeafSet) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every leaf of s is in o.
func (s LeafSet) SubsetOf(o LeafSet) bool {
	if len(s) > len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Intersect returns the leaves present in both sets.
func (s LeafSet) Intersect(o LeafSet) LeafSet {
	out := make(LeafSet)
	for k, v := range s {
		if o.Has(k) {
			out[k] = v
		}
	}
	return out
}

// Union returns the leaves present in either set.
func (s LeafSet) Union(o LeafSet) LeafSet {
	out := maps.Clone(s)
	if out == nil {
		out = make(LeafSet)
	}
	maps.Copy(out, o)
	return out
}

// Minus returns the leaves of s not in o.
func (s LeafSet) Minus(o LeafSet) LeafSet {
	out := make(LeafSet)
	for k, v := range s {
		if !o.Has(k) {
			out[k] = v
		}
	}
	return out
}

// Sequences returns the sequence leaves, ascending by id.
func (s LeafSet) Sequences() []*model.Sequence {
	var out []*model.Sequence
	for _, v := range s {
		if seq, ok := v.(*model.Sequence); ok {
			out = append(out, seq)
		}
	}
	slices.SortFunc(out, func(a, b *model.Sequence) int { return a.ID - b.ID })
	return out
}

// Points returns the fusion point leaves, ascending by index.
func (s LeafSet) Points() []*model.FusionPoint {
	var out []*model.FusionPoint
	for _, v := range s {
		if p, ok := v.(*model.FusionPoint); ok {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b *model.FusionPoint) int { return a.Index - b.Index })
	return out
}

// OnlySequences returns the subset of sequence leaves.
func (s LeafSet) OnlySequences() LeafSet {
	out := make(LeafSet)
	for k, v := range s {
		if v.Kind() == graph.KindSequence {
			out[k] = v
		}
	}
	return out
}

// Leaves returns the leaf-bearing nodes of ids in g as a set.
func Leaves(g *graph.Graph, ids []graph.NodeID) LeafSet {
	out := make(LeafSet)
	for _, id := range ids {
		if n, ok := g.Node(id); ok && !n.IsClade() {
			out[n.Key()] = n.Data
		}
	}
	return out
}
