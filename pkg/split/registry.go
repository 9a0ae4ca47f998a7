package split

import (
	"slices"

	"github.com/tidwall/btree"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
)

// Entry is a distinct split and the components whose trees contain it.
type Entry struct {
	Split      Split
	Components []*model.Component // ascending by index

	key string
}

// Registry holds the splits of all component trees, deduplicated and
// ordered by key.
type Registry struct {
	entries *btree.BTreeG[*Entry]
	native  map[*model.Component][]Split
	owners  []*model.Component
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: btree.NewBTreeG[*Entry](func(a, b *Entry) bool { return a.key < b.key }),
		native:  make(map[*model.Component][]Split),
	}
}

// Add records s as native to c.
func (r *Registry) Add(c *model.Component, s Split) {
	key := s.Key()
	e, ok := r.entries.Get(&Entry{key: key})
	if !ok {
		e = &Entry{Split: s, key: key}
		r.entries.Set(e)
	}
	if !slices.Contains(e.Components, c) {
		e.Components = append(e.Components, c)
		model.SortComponents(e.Components)
	}
	if _, ok := r.native[c]; !ok {
		r.owners = append(r.owners, c)
		model.SortComponents(r.owners)
	}
	r.native[c] = append(r.native[c], s)
}

// Len returns the number of distinct splits.
func (r *Registry) Len() int { return r.entries.Len() }

// Entries returns all entries in key order.
func (r *Registry) Entries() []*Entry { return r.entries.Items() }

// Native returns the splits contributed by c's tree.
func (r *Registry) Native(c *model.Component) []Split { return r.native[c] }

// Components returns the contributing components, ascending by index.
func (r *Registry) Components() []*model.Component { return r.owners }

// TreeSplits returns both orderings of the leaf bipartition of every edge
// of g. Edges with no leaf on one side contribute nothing.
func TreeSplits(g *graph.Graph) []Split {
	var out []Split
	for _, e := range g.Edges() {
		s := New(Leaves(g, g.Side(e.Left, e.Right)), Leaves(g, g.Side(e.Right, e.Left)))
		if s.Degenerate() {
			continue
		}
		out = append(out, s, s.Reversed())
	}
	return out
}

// Collect registers the splits of every component's tree. The fused tree
// is used when present. A component without any tree is a precondition
// violation.
func Collect(components []*model.Component) (*Registry, error) {
	r := NewRegistry()
	for _, c := range components {
		tree := c.Fused
		if tree == nil {
			tree = c.Tree
		}
		if tree == nil {
			return nil, errors.Precondition("component %s has no tree", c)
		}
		for _, s := range TreeSplits(tree) {
			r.Add(c, s)
		}
	}
	return r, nil
}
