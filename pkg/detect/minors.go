package detect

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/model"
)

const stageName = "components"

// entry is the best edge from a component into a longer one.
type entry struct {
	from, into *model.Component
	source     model.Side // on a major of from
	target     model.Side // on a major of into
}

// Minors fills the minor members of every component and returns the
// tolerance warnings raised while fitting positions. Existing minor lists
// are replaced. logger may be nil.
func Minors(components []*model.Component, edges []*model.Edge, tolerance int, logger *log.Logger) []errors.Warning {
	majorOf := make(map[*model.Sequence]*model.Component)
	for _, c := range components {
		c.Minor = c.Minor[:0]
		for _, s := range c.Major {
			majorOf[s] = c
			c.Minor = append(c.Minor, model.Whole(s))
		}
	}

	var warnings []errors.Warning
	for _, en := range entries(components, edges, majorOf) {
		for _, w := range propagate(en, edges, majorOf, tolerance) {
			if logger != nil {
				logger.Warn("minor position clamped", "component", en.from.Key(), "into", en.into.Key(), "detail", w)
			}
			warnings = append(warnings, errors.Warning{Stage: stageName, Message: w})
		}
	}
	return warnings
}

// entries picks, per ordered component pair (A, B) with B longer on
// average, the edge whose B side is longest. Ties keep the earlier edge.
func entries(components []*model.Component, edges []*model.Edge, majorOf map[*model.Sequence]*model.Component) []entry {
	avg := make(map[*model.Component]float64, len(components))
	for _, c := range components {
		avg[c] = c.AverageLength()
	}

	best := make(map[[2]int]entry)
	for _, e := range edges {
		for _, dir := range [2][2]model.Side{{e.Left, e.Right}, {e.Right, e.Left}} {
			a, b := majorOf[dir[0].Sequence()], majorOf[dir[1].Sequence()]
			if a == nil || b == nil || a == b || avg[b] <= avg[a] {
				continue
			}
			key := [2]int{a.Index, b.Index}
			if cur, ok := best[key]; ok && cur.target.Length() >= dir[1].Length() {
				continue
			}
			best[key] = entry{from: a, into: b, source: dir[0], target: dir[1]}
		}
	}

	out := make([]entry, 0, len(best))
	for _, en := range best {
		out = append(out, en)
	}
	slices.SortFunc(out, func(x, y entry) int {
		if x.from.Index != y.from.Index {
			return x.from.Index - y.from.Index
		}
		return x.into.Index - y.into.Index
	})
	return out
}

// propagate walks the majors of en.into starting at the entry sequence and
// adds one minor member of en.from per reached sequence. It returns a
// message for every position shifted by more than tolerance.
func propagate(en entry, edges []*model.Edge, majorOf map[*model.Sequence]*model.Component, tolerance int) []string {
	var internal []*model.Edge
	for _, e := range edges {
		if majorOf[e.Left.Sequence()] == en.into && majorOf[e.Right.Sequence()] == en.into {
			internal = append(internal, e)
		}
	}

	start := en.target.Sequence()
	done := map[*model.Sequence]model.Subsequence{
		start: {Sequence: start, Start: en.target.Start(), End: en.target.End()},
	}
	en.from.Minor = append(en.from.Minor, done[start])

	var warnings []string
	for {
		var (
			next     *model.Sequence
			nextSide model.Side
			fromSide model.Side
			from     *model.Sequence
		)
		for _, e := range internal {
			for _, dir := range [2][2]model.Side{{e.Left, e.Right}, {e.Right, e.Left}} {
				v, n := dir[0].Sequence(), dir[1].Sequence()
				if _, ok := done[v]; !ok {
					continue
				}
				if _, ok := done[n]; ok {
					continue
				}
				if next == nil || dir[1].Length() > nextSide.Length() {
					next, nextSide, fromSide, from = n, dir[1], dir[0], v
				}
			}
		}
		if next == nil {
			return warnings
		}

		offset := nextSide.Start() - fromSide.Start()
		sub, shift := fit(next, done[from].Start+offset, done[from].End+offset)
		if shift > tolerance {
			warnings = append(warnings, fmt.Sprintf("%s shifted by %d sites (tolerance %d)", sub, shift, tolerance))
		}
		done[next] = sub
		en.from.Minor = append(en.from.Minor, sub)
	}
}

// fit clamps [start, end] into the bounds of seq and returns the clamped
// range with the number of sites it was moved by.
func fit(seq *model.Sequence, start, end int) (model.Subsequence, int) {
	shift := 0
	if start < 1 {
		shift += 1 - start
		start = 1
	}
	if end > seq.Length {
		shift += end - seq.Length
		end = seq.Length
	}
	end = max(end, 1)
	start = min(start, end)
	return model.Subsequence{Sequence: seq, Start: start, End: end}, shift
}
