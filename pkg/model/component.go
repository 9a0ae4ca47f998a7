package model

import (
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/nrfg/pkg/graph"
)

// Component is a gene family. Major sequences belong to it whole; minor
// subsequences are fragments, possibly of other families' sequences, that
// carry its material.
type Component struct {
	Index     int          // discovery order, from 0
	Major     []*Sequence  // ascending by id
	Minor     []Subsequence
	Tree      *graph.Graph // nil until a tree is supplied or inferred
	Alignment string       // aligned FASTA used to infer Tree, if any

	// Fused is a copy of Tree with fusion point nodes inserted. It is owned
	// by the fusion point stage and nil while that stage is empty.
	Fused *graph.Graph
}

// Key returns "C<index>".
func (c *Component) Key() string { return "C" + strconv.Itoa(c.Index) }

// String implements fmt.Stringer.
func (c *Component) String() string { return c.Key() }

// HasMajor reports whether seq is a major member.
func (c *Component) HasMajor(seq *Sequence) bool {
	return slices.Contains(c.Major, seq)
}

// AverageLength returns the mean length of the major sequences.
func (c *Component) AverageLength() float64 {
	if len(c.Major) == 0 {
		return 0
	}
	lengths := make([]float64, len(c.Major))
	for i, s := range c.Major {
		lengths[i] = float64(s.Length)
	}
	return stat.Mean(lengths, nil)
}

// MinorSequences returns the distinct sequences of the minor members,
// ascending by id.
func (c *Component) MinorSequences() []*Sequence {
	var out []*Sequence
	for _, sub := range c.Minor {
		if !slices.Contains(out, sub.Sequence) {
			out = append(out, sub.Sequence)
		}
	}
	slices.SortFunc(out, func(a, b *Sequence) int { return a.ID - b.ID })
	return out
}

// HasMinor reports whether some minor member lies on seq.
func (c *Component) HasMinor(seq *Sequence) bool {
	return slices.ContainsFunc(c.Minor, func(s Subsequence) bool { return s.Sequence == seq })
}

// SortComponents orders components by index.
func SortComponents(cs []*Component) {
	slices.SortFunc(cs, func(a, b *Component) int { return a.Index - b.Index })
}
