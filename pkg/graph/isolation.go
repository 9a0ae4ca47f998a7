package graph

import (
	"fmt"
	"slices"
	"strings"
)

// Predicate classifies a node during isolation search.
type Predicate func(*Node) bool

// IsolationPoint is an edge that separates a set of inside nodes from every
// outside node. Internal is the endpoint on the inside, External the one on
// the other side of the edge.
type IsolationPoint struct {
	Internal NodeID
	External NodeID

	// Inside lists the nodes matching the inside predicate on the internal
	// side, ascending.
	Inside []NodeID

	// Cladistic counts the don't-care nodes on the internal side.
	Cladistic int
}

// insideKey identifies the inside set for equality tests.
func (p IsolationPoint) insideKey() string {
	var b strings.Builder
	for i, id := range p.Inside {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}

// IsolationError reports an isolation search that did not yield exactly
// one point. Candidates holds what was found, for diagnosis.
type IsolationError struct {
	Candidates []IsolationPoint
}

// Error implements the error interface.
func (e *IsolationError) Error() string {
	if len(e.Candidates) == 0 {
		return "isolation search found no point"
	}
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = fmt.Sprintf("%d|%d(inside=%d, cladistic=%d)", c.Internal, c.External, len(c.Inside), c.Cladistic)
	}
	return fmt.Sprintf("isolation search found %d points, want 1: %s", len(e.Candidates), strings.Join(parts, " "))
}

// FindIsolationPoints returns the edges that cut the graph cleanly between
// the inside nodes and the rest.
//
// Every edge is tried from both endpoints: the nodes reachable without
// crossing the edge are classified as inside, outside or cladistic (neither).
// A traversal with no outside node and at least one inside node is a
// candidate. Candidates whose inside set is a strict subset of another's are
// dropped, as are candidates with the same inside set as another but more
// cladistic nodes. The survivors are returned ordered by edge.
func (g *Graph) FindIsolationPoints(isInside, isOutside Predicate) []IsolationPoint {
	var candidates []IsolationPoint
	for _, e := range g.Edges() {
		for _, dir := range [2][2]NodeID{{e.Left, e.Right}, {e.Right, e.Left}} {
			if c, ok := g.classify(dir[0], dir[1], isInside, isOutside); ok {
				candidates = append(candidates, c)
			}
		}
	}
	return disambiguate(candidates)
}

// FindIsolationPoint is FindIsolationPoints when exactly one point is
// required. Any other count yields an *IsolationError.
func (g *Graph) FindIsolationPoint(isInside, isOutside Predicate) (IsolationPoint, error) {
	points := g.FindIsolationPoints(isInside, isOutside)
	if len(points) != 1 {
		return IsolationPoint{}, &IsolationError{Candidates: points}
	}
	return points[0], nil
}

func (g *Graph) classify(internal, external NodeID, isInside, isOutside Predicate) (IsolationPoint, bool) {
	p := IsolationPoint{Internal: internal, External: external}
	for _, id := range g.Side(internal, external) {
		n := g.nodes[id]
		switch {
		case isInside(n):
			p.Inside = append(p.Inside, id)
		case isOutside(n):
			return IsolationPoint{}, false
		default:
			p.Cladistic++
		}
	}
	if len(p.Inside) == 0 {
		return IsolationPoint{}, false
	}
	slices.Sort(p.Inside)
	return p, true
}

func disambiguate(candidates []IsolationPoint) []IsolationPoint {
	sets := make([]map[NodeID]bool, len(candidates))
	keys := make([]string, len(candidates))
	for i, c := range candidates {
		sets[i] = make(map[NodeID]bool, len(c.Inside))
		for _, id := range c.Inside {
			sets[i][id] = true
		}
		keys[i] = c.insideKey()
	}

	var out []IsolationPoint
	for i, c := range candidates {
		keep := true
		for j, d := range candidates {
			if i == j {
				continue
			}
			if keys[i] == keys[j] {
				if c.Cladistic > d.Cladistic {
					keep = false
					break
				}
				continue
			}
			if len(c.Inside) < len(d.Inside) && subsetOf(sets[i], sets[j]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

func subsetOf(a, b map[NodeID]bool) bool {
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
