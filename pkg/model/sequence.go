package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
)

// Sequence is a gene sequence. Its identity never changes; the length only
// grows through Extend.
type Sequence struct {
	ID        int    // unique within a model
	Accession string // external identifier
	Length    int    // number of sites, at least 1
	Sites     string // optional residues; empty when unknown
}

// Kind implements graph.Data.
func (s *Sequence) Kind() graph.Kind { return graph.KindSequence }

// Key implements graph.Data and returns "S<id>".
func (s *Sequence) Key() string { return SequenceKey(s.ID) }

// String returns the accession, or the key when the accession is empty.
func (s *Sequence) String() string {
	if s.Accession == "" {
		return s.Key()
	}
	return s.Accession
}

// Extend grows the sequence by the given sites. An empty extension is a
// precondition violation.
func (s *Sequence) Extend(sites string) error {
	if len(sites) == 0 {
		return errors.Precondition("sequence %s: cannot extend by zero sites", s)
	}
	if s.Sites != "" || s.Length == 0 {
		s.Sites += sites
	}
	s.Length += len(sites)
	return nil
}

// SequenceKey formats a sequence id as a leaf key.
func SequenceKey(id int) string { return "S" + strconv.Itoa(id) }

// ParseSequenceKey is the inverse of SequenceKey.
func ParseSequenceKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "S")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Subsequence is a 1-based inclusive range of a sequence.
type Subsequence struct {
	Sequence *Sequence
	Start    int
	End      int
}

// Whole returns the subsequence spanning all of s.
func Whole(s *Sequence) Subsequence {
	return Subsequence{Sequence: s, Start: 1, End: s.Length}
}

// Length returns the number of sites covered.
func (s Subsequence) Length() int { return s.End - s.Start + 1 }

// Validate checks 1 <= start <= end <= sequence length.
func (s Subsequence) Validate() error {
	switch {
	case s.Sequence == nil:
		return errors.New(errors.ErrCodeInvalidInput, "subsequence without sequence")
	case s.Start < 1, s.Start > s.End, s.End > s.Sequence.Length:
		return errors.New(errors.ErrCodeInvalidInput, "subsequence %s[%d..%d] out of range 1..%d", s.Sequence, s.Start, s.End, s.Sequence.Length)
	}
	return nil
}

// String formats the range as "accession[start..end]".
func (s Subsequence) String() string {
	return fmt.Sprintf("%s[%d..%d]", s.Sequence, s.Start, s.End)
}
