package fusion

import (
	"slices"

	"github.com/matzehuels/nrfg/pkg/model"
)

// Events returns the fusion events between components, resolved, with
// indices in discovery order. Pairs are visited in index order.
func Events(components []*model.Component, idx Index) []*model.FusionEvent {
	outgoing := make([][]*model.Component, len(components))
	for i, c := range components {
		outgoing[i] = idx.Outgoing(c)
	}

	var events []*model.FusionEvent
	for i := range components {
		for j := i + 1; j < len(components); j++ {
			aAlone := difference(outgoing[i], outgoing[j])
			bAlone := difference(outgoing[j], outgoing[i])
			common := intersection(outgoing[i], outgoing[j])
			if len(aAlone) != 1 || len(bAlone) != 1 || len(common) == 0 {
				continue
			}
			events = append(events, &model.FusionEvent{
				Index:         len(events),
				A:             components[i],
				B:             components[j],
				Intersections: common,
			})
		}
	}
	Resolve(events)
	return events
}

// Resolve removes intersections already explained by a more specific
// event, repeating until nothing changes. For an event E with several
// intersections, f is removed when another event has {f} as its only
// intersection and one of that event's components is itself an
// intersection of E: f descends from that component, not directly from E.
func Resolve(events []*model.FusionEvent) {
	for changed := true; changed; {
		changed = false
		for _, e := range events {
			if len(e.Intersections) < 2 {
				continue
			}
			for _, other := range events {
				if other == e || len(other.Intersections) != 1 {
					continue
				}
				f := other.Intersections[0]
				if !slices.Contains(e.Intersections, f) {
					continue
				}
				if !slices.Contains(e.Intersections, other.A) && !slices.Contains(e.Intersections, other.B) {
					continue
				}
				e.Intersections = slices.DeleteFunc(e.Intersections, func(c *model.Component) bool { return c == f })
				changed = true
				if len(e.Intersections) < 2 {
					break
				}
			}
		}
	}
}
