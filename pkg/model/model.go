package model

import (
	"slices"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
)

// Model holds the pipeline inputs and the outputs of every built stage.
//
// All graphs of a model draw node ids from Alloc, so trees can be merged
// without collisions.
type Model struct {
	Alloc     *graph.Allocator
	Sequences []*Sequence
	Edges     []*Edge

	// Outgroups are sequences the final graph is rooted on.
	Outgroups []*Sequence

	Components []*Component
	Events     []*FusionEvent
	Points     []*FusionPoint

	byID     map[int]*Sequence
	byAcc    map[string]*Sequence
	majorOf  map[*Sequence]*Component
	edgeKeys map[string]bool
}

// New returns an empty model.
func New() *Model {
	return &Model{
		Alloc:    graph.NewAllocator(),
		byID:     make(map[int]*Sequence),
		byAcc:    make(map[string]*Sequence),
		majorOf:  make(map[*Sequence]*Component),
		edgeKeys: make(map[string]bool),
	}
}

// AddSequence registers a sequence with the next free id. The accession
// must be valid and unused.
func (m *Model) AddSequence(accession string, length int, sites string) (*Sequence, error) {
	if err := errors.ValidateAccession(accession); err != nil {
		return nil, err
	}
	if _, ok := m.byAcc[accession]; ok {
		return nil, errors.Precondition("duplicate accession %q", accession)
	}
	if sites != "" && len(sites) != length {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sequence %q: %d sites for length %d", accession, len(sites), length)
	}
	if length < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sequence %q: length %d", accession, length)
	}
	s := &Sequence{ID: len(m.Sequences) + 1, Accession: accession, Length: length, Sites: sites}
	m.Sequences = append(m.Sequences, s)
	m.byID[s.ID] = s
	m.byAcc[accession] = s
	return s, nil
}

// AddEdge validates and registers an edge. Adding the same pair of ranges
// twice is a precondition violation.
func (m *Model) AddEdge(e *Edge) error {
	if err := e.Validate(); err != nil {
		return err
	}
	key := edgeKey(e)
	if m.edgeKeys[key] {
		return errors.Precondition("duplicate edge %s", e)
	}
	m.edgeKeys[key] = true
	m.Edges = append(m.Edges, e)
	return nil
}

func edgeKey(e *Edge) string {
	a := sideKey(e.Left)
	b := sideKey(e.Right)
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func sideKey(s Side) string {
	out := ""
	for _, sub := range s {
		out += sub.String() + ";"
	}
	return out
}

// Sequence returns the sequence with the given id.
func (m *Model) Sequence(id int) (*Sequence, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// SequenceByAccession returns the sequence with the given accession.
func (m *Model) SequenceByAccession(acc string) (*Sequence, bool) {
	s, ok := m.byAcc[acc]
	return s, ok
}

// SetComponents replaces the component list and rebuilds the major index.
// A nil list clears it.
func (m *Model) SetComponents(cs []*Component) {
	m.Components = cs
	clear(m.majorOf)
	for _, c := range cs {
		for _, s := range c.Major {
			m.majorOf[s] = c
		}
	}
}

// ComponentOf returns the component seq is a major member of.
func (m *Model) ComponentOf(seq *Sequence) *Component {
	return m.majorOf[seq]
}

// AddOutgroup marks seq as an outgroup. Listing it twice has no effect.
func (m *Model) AddOutgroup(seq *Sequence) {
	if !slices.Contains(m.Outgroups, seq) {
		m.Outgroups = append(m.Outgroups, seq)
	}
}
