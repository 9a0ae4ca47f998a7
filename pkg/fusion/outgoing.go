package fusion

import (
	"slices"

	"github.com/matzehuels/nrfg/pkg/model"
)

// Index resolves sequences to their major component.
type Index map[*model.Sequence]*model.Component

// NewIndex indexes the major members of components.
func NewIndex(components []*model.Component) Index {
	idx := make(Index)
	for _, c := range components {
		for _, s := range c.Major {
			idx[s] = c
		}
	}
	return idx
}

// Outgoing returns the components whose major sequences appear among the
// minor members of c, ascending by index. Because every major sequence is
// a minor member of its own component, c itself is included.
func (idx Index) Outgoing(c *model.Component) []*model.Component {
	var out []*model.Component
	for _, sub := range c.Minor {
		if o := idx[sub.Sequence]; o != nil && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	model.SortComponents(out)
	return out
}

// Aliases returns the union of the outgoing sets of cs.
func (idx Index) Aliases(cs []*model.Component) map[*model.Component]bool {
	out := make(map[*model.Component]bool)
	for _, c := range cs {
		for _, o := range idx.Outgoing(c) {
			out[o] = true
		}
	}
	return out
}

func difference(a, b []*model.Component) []*model.Component {
	var out []*model.Component
	for _, c := range a {
		if !slices.Contains(b, c) {
			out = append(out, c)
		}
	}
	return out
}

func intersection(a, b []*model.Component) []*model.Component {
	var out []*model.Component
	for _, c := range a {
		if slices.Contains(b, c) {
			out = append(out, c)
		}
	}
	return out
}
