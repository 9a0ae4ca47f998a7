package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/nrfg/pkg/graph"
)

// FusionEvent is a recombination of components A and B. Intersections are
// the components both point to, i.e. the fused descendants.
type FusionEvent struct {
	Index         int
	A             *Component
	B             *Component
	Intersections []*Component // ascending by index
}

// Involves reports whether c is A or B.
func (e *FusionEvent) Involves(c *Component) bool { return e.A == c || e.B == c }

// String formats the event as "C1+C2->[C3 C4]".
func (e *FusionEvent) String() string {
	keys := make([]string, len(e.Intersections))
	for i, c := range e.Intersections {
		keys[i] = c.Key()
	}
	return fmt.Sprintf("%s+%s->[%s]", e.A, e.B, strings.Join(keys, " "))
}

// FusionPoint locates the effect of an event inside a component tree.
type FusionPoint struct {
	Index    int
	Node     graph.NodeID // the node carrying this point
	Internal graph.NodeID // neighbour on the isolated side
	Event    *FusionEvent

	// Genes are the sequences isolated by the point, ascending by id.
	Genes []*Sequence

	Component *Component // tree owner
	Opposite  *Component // other side of the event
}

// Kind implements graph.Data.
func (p *FusionPoint) Kind() graph.Kind { return graph.KindFusion }

// Key implements graph.Data and returns "F<index>".
func (p *FusionPoint) Key() string { return "F" + strconv.Itoa(p.Index) }

// String implements fmt.Stringer.
func (p *FusionPoint) String() string {
	return fmt.Sprintf("%s(%s in %s)", p.Key(), p.Event, p.Component)
}

// HasGene reports whether seq is in the isolated gene set.
func (p *FusionPoint) HasGene(seq *Sequence) bool {
	_, ok := slices.BinarySearchFunc(p.Genes, seq.ID, func(s *Sequence, id int) int { return s.ID - id })
	return ok
}

// GeneKey identifies the gene set, for equality tests.
func (p *FusionPoint) GeneKey() string { return SequenceSetKey(p.Genes) }

// SequenceSetKey joins the keys of seqs in id order.
func SequenceSetKey(seqs []*Sequence) string {
	ids := make([]int, len(seqs))
	for i, s := range seqs {
		ids[i] = s.ID
	}
	slices.Sort(ids)
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(SequenceKey(id))
	}
	return b.String()
}
