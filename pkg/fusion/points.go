package fusion

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
)

const stageName = "fusion_points"

// Points locates every event in the trees of its two components. Each
// component taking part in an event gets a fused copy of its tree in
// Component.Fused, with one fusion point node per isolating edge; trees of
// other components are left alone. Point indices follow event order.
//
// A side without a tree is a precondition violation. Sides yielding a
// different number of points make the result inconsistent; both sides
// yielding none is only a warning.
func Points(events []*model.FusionEvent, idx Index, logger *log.Logger) ([]*model.FusionPoint, []errors.Warning, error) {
	for _, e := range events {
		e.A.Fused, e.B.Fused = nil, nil
	}

	var (
		points   []*model.FusionPoint
		warnings []errors.Warning
	)
	for _, e := range events {
		aliases := idx.Aliases(e.Intersections)
		var counts [2]int
		for i, side := range [2][2]*model.Component{{e.A, e.B}, {e.B, e.A}} {
			found, err := locate(e, side[0], side[1], aliases, idx, len(points))
			if err != nil {
				return nil, nil, err
			}
			counts[i] = len(found)
			points = append(points, found...)
		}
		switch {
		case counts[0] != counts[1]:
			return nil, nil, errors.Inconsistent("event %s: %d fusion points in %s but %d in %s",
				e, counts[0], e.A, counts[1], e.B)
		case counts[0] == 0:
			msg := "event " + e.String() + " has no fusion point in either tree"
			if logger != nil {
				logger.Warn("no fusion point", "event", e.String())
			}
			warnings = append(warnings, errors.Warning{Stage: stageName, Message: msg})
		default:
			if logger != nil {
				logger.Debug("fusion points located", "event", e.String(), "points", counts[0])
			}
		}
	}
	return points, warnings, nil
}

// locate inserts the points of e into the fused tree of owner.
func locate(e *model.FusionEvent, owner, opposite *model.Component, aliases map[*model.Component]bool, idx Index, next int) ([]*model.FusionPoint, error) {
	if owner.Tree == nil {
		return nil, errors.Precondition("component %s has no tree", owner)
	}
	if owner.Fused == nil {
		owner.Fused = owner.Tree.Clone()
	}
	tree := owner.Fused

	isInside := func(n *graph.Node) bool {
		s, ok := n.Data.(*model.Sequence)
		return ok && aliases[idx[s]]
	}
	isOutside := func(n *graph.Node) bool {
		s, ok := n.Data.(*model.Sequence)
		return ok && !aliases[idx[s]]
	}

	var out []*model.FusionPoint
	for _, p := range tree.FindIsolationPoints(isInside, isOutside) {
		if !tree.HasEdge(p.Internal, p.External) {
			continue
		}
		fp := &model.FusionPoint{
			Index:     next + len(out),
			Internal:  p.Internal,
			Event:     e,
			Component: owner,
			Opposite:  opposite,
		}
		for _, id := range p.Inside {
			n, _ := tree.Node(id)
			fp.Genes = append(fp.Genes, n.Data.(*model.Sequence))
		}
		slices.SortFunc(fp.Genes, func(a, b *model.Sequence) int { return a.ID - b.ID })
		n, err := tree.InsertOnEdge(p.Internal, p.External, fp)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "insert fusion point in %s", owner)
		}
		fp.Node = n.ID
		out = append(out, fp)
	}
	return out, nil
}
