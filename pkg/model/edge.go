package model

import (
	"fmt"

	"github.com/matzehuels/nrfg/pkg/errors"
)

// Side is one end of an edge: an ordered, non-empty list of ranges on a
// single sequence.
type Side []Subsequence

// Sequence returns the sequence of the side, nil when the side is empty.
func (s Side) Sequence() *Sequence {
	if len(s) == 0 {
		return nil
	}
	return s[0].Sequence
}

// Start returns the lowest start of the side's ranges.
func (s Side) Start() int {
	start := 0
	for i, sub := range s {
		if i == 0 || sub.Start < start {
			start = sub.Start
		}
	}
	return start
}

// End returns the highest end of the side's ranges.
func (s Side) End() int {
	end := 0
	for _, sub := range s {
		end = max(end, sub.End)
	}
	return end
}

// Length returns the span from Start to End.
func (s Side) Length() int {
	if len(s) == 0 {
		return 0
	}
	return s.End() - s.Start() + 1
}

func (s Side) validate() error {
	if len(s) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "edge side is empty")
	}
	seq := s.Sequence()
	for _, sub := range s {
		if sub.Sequence != seq {
			return errors.New(errors.ErrCodeInvalidInput, "edge side mixes sequences %s and %s", seq, sub.Sequence)
		}
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Edge is an undirected similarity relation between two sequences.
type Edge struct {
	Left  Side
	Right Side
}

// NewEdge builds an edge between single ranges of two sequences.
func NewEdge(left, right Subsequence) *Edge {
	return &Edge{Left: Side{left}, Right: Side{right}}
}

// Validate checks that both sides are well formed and belong to different
// sequences.
func (e *Edge) Validate() error {
	if err := e.Left.validate(); err != nil {
		return err
	}
	if err := e.Right.validate(); err != nil {
		return err
	}
	if e.Left.Sequence() == e.Right.Sequence() {
		return errors.New(errors.ErrCodeInvalidInput, "edge joins %s to itself", e.Left.Sequence())
	}
	return nil
}

// Position returns 0 when seq is on the left, 1 when it is on the right.
func (e *Edge) Position(seq *Sequence) (int, bool) {
	switch seq {
	case e.Left.Sequence():
		return 0, true
	case e.Right.Sequence():
		return 1, true
	}
	return 0, false
}

// Side returns the side belonging to seq.
func (e *Edge) Side(seq *Sequence) (Side, bool) {
	switch pos, ok := e.Position(seq); {
	case !ok:
		return nil, false
	case pos == 0:
		return e.Left, true
	default:
		return e.Right, true
	}
}

// Opposite returns the side not belonging to seq.
func (e *Edge) Opposite(seq *Sequence) (Side, bool) {
	switch pos, ok := e.Position(seq); {
	case !ok:
		return nil, false
	case pos == 0:
		return e.Right, true
	default:
		return e.Left, true
	}
}

// SideIn returns the side whose sequence is a major member of c.
func (e *Edge) SideIn(c *Component) (Side, bool) {
	switch {
	case c.HasMajor(e.Left.Sequence()):
		return e.Left, true
	case c.HasMajor(e.Right.Sequence()):
		return e.Right, true
	}
	return nil, false
}

// String formats the edge as "left<->right".
func (e *Edge) String() string {
	return fmt.Sprintf("%s<->%s", e.Left.Sequence(), e.Right.Sequence())
}
