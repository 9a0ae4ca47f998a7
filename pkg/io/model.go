package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
)

type modelDoc struct {
	Sequences  []sequenceDoc  `json:"sequences"`
	Edges      []edgeDoc      `json:"edges"`
	Outgroups  []string       `json:"outgroups,omitempty"`
	Trees      []string       `json:"trees,omitempty"`
	Components []componentDoc `json:"components,omitempty"`
}

type sequenceDoc struct {
	Accession string `json:"accession"`
	Length    int    `json:"length,omitempty"`
	Sites     string `json:"sites,omitempty"`
}

type rangeDoc struct {
	Accession string `json:"accession"`
	Start     int    `json:"start,omitempty"`
	End       int    `json:"end,omitempty"`
}

type edgeDoc struct {
	Left  []rangeDoc `json:"left"`
	Right []rangeDoc `json:"right"`
}

type componentDoc struct {
	Index int        `json:"index"`
	Major []string   `json:"major"`
	Minor []rangeDoc `json:"minor,omitempty"`
	Tree  string     `json:"tree,omitempty"`
}

// ReadModel decodes a model and returns it with the Newick trees listed in
// the document. Components in the input are ignored; they are recomputed
// by detection.
//
// ReadModel returns an INVALID_FORMAT error for malformed JSON and an
// INVALID_INPUT error for references to unknown accessions. Errors from
// [model.Model.AddSequence] and [model.Model.AddEdge] pass through.
func ReadModel(r io.Reader) (*model.Model, []string, error) {
	var doc modelDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode model")
	}

	m := model.New()
	for _, s := range doc.Sequences {
		length := s.Length
		if length == 0 {
			length = len(s.Sites)
		}
		if _, err := m.AddSequence(s.Accession, length, s.Sites); err != nil {
			return nil, nil, err
		}
	}
	for i, e := range doc.Edges {
		left, err := side(m, e.Left)
		if err != nil {
			return nil, nil, fmt.Errorf("edge %d: %w", i, err)
		}
		right, err := side(m, e.Right)
		if err != nil {
			return nil, nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if err := m.AddEdge(&model.Edge{Left: left, Right: right}); err != nil {
			return nil, nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	for _, acc := range doc.Outgroups {
		s, ok := m.SequenceByAccession(acc)
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown outgroup %q", acc)
		}
		m.AddOutgroup(s)
	}
	return m, doc.Trees, nil
}

func side(m *model.Model, ranges []rangeDoc) (model.Side, error) {
	out := make(model.Side, 0, len(ranges))
	for _, r := range ranges {
		s, ok := m.SequenceByAccession(r.Accession)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown accession %q", r.Accession)
		}
		sub := model.Whole(s)
		if r.Start != 0 || r.End != 0 {
			sub.Start, sub.End = r.Start, r.End
		}
		out = append(out, sub)
	}
	return out, nil
}

// ImportModel reads a model file at path. See [ReadModel].
func ImportModel(path string) (*model.Model, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(f)
}

// WriteModel encodes m as JSON. Component trees, when present, are written
// both per component and in the top-level tree list so the output can be
// read back by [ReadModel] without re-running tree inference.
func WriteModel(m *model.Model, w io.Writer) error {
	doc := modelDoc{
		Sequences: make([]sequenceDoc, len(m.Sequences)),
		Edges:     make([]edgeDoc, len(m.Edges)),
	}
	for i, s := range m.Sequences {
		doc.Sequences[i] = sequenceDoc{Accession: s.Accession, Length: s.Length, Sites: s.Sites}
	}
	for i, e := range m.Edges {
		doc.Edges[i] = edgeDoc{Left: ranges(e.Left), Right: ranges(e.Right)}
	}
	for _, s := range m.Outgroups {
		doc.Outgroups = append(doc.Outgroups, s.Accession)
	}
	for _, c := range m.Components {
		cd := componentDoc{Index: c.Index, Minor: ranges(model.Side(c.Minor))}
		for _, s := range c.Major {
			cd.Major = append(cd.Major, s.Accession)
		}
		if c.Tree != nil {
			cd.Tree = Newick(c.Tree)
			doc.Trees = append(doc.Trees, cd.Tree)
		}
		doc.Components = append(doc.Components, cd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func ranges(s model.Side) []rangeDoc {
	out := make([]rangeDoc, len(s))
	for i, sub := range s {
		out[i] = rangeDoc{Accession: sub.Sequence.Accession, Start: sub.Start, End: sub.End}
	}
	return out
}

// ExportModel writes m to a JSON file at path.
func ExportModel(m *model.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteModel(m, f)
}

// Newick writes g from its first root, labelling nodes with [NodeLabel].
// A graph without a root (a cycle after re-rooting) starts from its lowest
// node id. An empty graph yields ";".
func Newick(g *graph.Graph) string {
	var start graph.NodeID
	if roots := g.Roots(); len(roots) > 0 {
		start = roots[0]
	} else if nodes := g.Nodes(); len(nodes) > 0 {
		start = nodes[0].ID
	} else {
		return ";"
	}
	return g.Newick(start, NodeLabel)
}
