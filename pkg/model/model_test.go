package model

import (
	"testing"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
)

func TestAddSequence(t *testing.T) {
	m := New()
	s, err := m.AddSequence("P12345", 100, "")
	if err != nil {
		t.Fatalf("AddSequence() error: %v", err)
	}
	if s.ID != 1 || s.Key() != "S1" {
		t.Errorf("first sequence = %d/%s, want 1/S1", s.ID, s.Key())
	}
	if got, ok := m.SequenceByAccession("P12345"); !ok || got != s {
		t.Error("SequenceByAccession() did not find sequence")
	}

	tests := []struct {
		name   string
		acc    string
		length int
		sites  string
		code   errors.Code
	}{
		{"duplicate", "P12345", 10, "", errors.ErrCodePrecondition},
		{"bad accession", "a b", 10, "", errors.ErrCodeInvalidAccession},
		{"zero length", "Q1", 0, "", errors.ErrCodeInvalidInput},
		{"sites mismatch", "Q2", 3, "ACGT", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddSequence(tt.acc, tt.length, tt.sites)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSequenceExtend(t *testing.T) {
	s := &Sequence{ID: 1, Accession: "x", Length: 2, Sites: "AC"}
	if err := s.Extend("GT"); err != nil {
		t.Fatalf("Extend() error: %v", err)
	}
	if s.Length != 4 || s.Sites != "ACGT" {
		t.Errorf("after Extend: %d %q", s.Length, s.Sites)
	}
	if err := s.Extend(""); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("Extend(\"\") error = %v, want precondition", err)
	}
}

func TestParseSequenceKey(t *testing.T) {
	tests := []struct {
		key string
		id  int
		ok  bool
	}{
		{"S12", 12, true},
		{"F3", 0, false},
		{"S", 0, false},
		{"Sx", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseSequenceKey(tt.key)
		if id != tt.id || ok != tt.ok {
			t.Errorf("ParseSequenceKey(%q) = %d, %v", tt.key, id, ok)
		}
	}
}

func TestSubsequenceValidate(t *testing.T) {
	s := &Sequence{ID: 1, Length: 10}
	tests := []struct {
		sub  Subsequence
		ok   bool
		name string
	}{
		{Subsequence{s, 1, 10}, true, "whole"},
		{Subsequence{s, 4, 4}, true, "single site"},
		{Subsequence{s, 0, 4}, false, "start below 1"},
		{Subsequence{s, 5, 4}, false, "start after end"},
		{Subsequence{s, 5, 11}, false, "end past length"},
		{Subsequence{nil, 1, 1}, false, "no sequence"},
	}
	for _, tt := range tests {
		if err := tt.sub.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
	}
}

func TestEdge(t *testing.T) {
	a := &Sequence{ID: 1, Accession: "a", Length: 100}
	b := &Sequence{ID: 2, Accession: "b", Length: 80}
	c := &Sequence{ID: 3, Accession: "c", Length: 50}
	e := NewEdge(Subsequence{a, 10, 60}, Subsequence{b, 1, 51})

	if err := e.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if pos, ok := e.Position(b); !ok || pos != 1 {
		t.Errorf("Position(b) = %d, %v", pos, ok)
	}
	if side, _ := e.Side(a); side.Length() != 51 || side.Start() != 10 {
		t.Errorf("Side(a) = %v", side)
	}
	if side, _ := e.Opposite(a); side.Sequence() != b {
		t.Errorf("Opposite(a) = %v", side)
	}
	if _, ok := e.Side(c); ok {
		t.Error("Side(c) found a side")
	}

	self := NewEdge(Subsequence{a, 1, 5}, Subsequence{a, 6, 10})
	if err := self.Validate(); err == nil {
		t.Error("self edge validated")
	}
	mixed := &Edge{Left: Side{{a, 1, 5}, {c, 1, 5}}, Right: Side{{b, 1, 5}}}
	if err := mixed.Validate(); err == nil {
		t.Error("mixed side validated")
	}
}

func TestAddEdgeDuplicate(t *testing.T) {
	m := New()
	a, _ := m.AddSequence("a", 100, "")
	b, _ := m.AddSequence("b", 100, "")
	if err := m.AddEdge(NewEdge(Whole(a), Whole(b))); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}
	err := m.AddEdge(NewEdge(Whole(b), Whole(a)))
	if !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("duplicate AddEdge() error = %v, want precondition", err)
	}
}

func TestComponent(t *testing.T) {
	a := &Sequence{ID: 1, Length: 100}
	b := &Sequence{ID: 2, Length: 200}
	x := &Sequence{ID: 3, Length: 300}
	c := &Component{Index: 2, Major: []*Sequence{a, b}, Minor: []Subsequence{Whole(b), Whole(a), {x, 1, 50}}}

	if got := c.AverageLength(); got != 150 {
		t.Errorf("AverageLength() = %v, want 150", got)
	}
	if got := c.MinorSequences(); len(got) != 3 || got[0] != a || got[2] != x {
		t.Errorf("MinorSequences() = %v", got)
	}
	if !c.HasMajor(a) || c.HasMajor(x) {
		t.Error("HasMajor() wrong")
	}
	if !c.HasMinor(x) {
		t.Error("HasMinor(x) = false")
	}
	if c.Key() != "C2" {
		t.Errorf("Key() = %s", c.Key())
	}

	m := New()
	m.SetComponents([]*Component{c})
	if m.ComponentOf(b) != c || m.ComponentOf(x) != nil {
		t.Error("ComponentOf() wrong")
	}
}

func TestFusionPoint(t *testing.T) {
	a := &Sequence{ID: 1}
	b := &Sequence{ID: 5}
	c := &Sequence{ID: 9}
	p := &FusionPoint{Index: 4, Genes: []*Sequence{a, b}}
	var d graph.Data = p
	if d.Kind() != graph.KindFusion || d.Key() != "F4" {
		t.Errorf("graph data = %v/%s", d.Kind(), d.Key())
	}
	if !p.HasGene(b) || p.HasGene(c) {
		t.Error("HasGene() wrong")
	}
	if got := p.GeneKey(); got != "S1,S5" {
		t.Errorf("GeneKey() = %q", got)
	}
}
