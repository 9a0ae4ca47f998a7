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

var kindToString = map[graph.Kind]string{
	graph.KindClade:    "clade",
	graph.KindSequence: "sequence",
	graph.KindFusion:   "fusion",
}

var kindFromString = map[string]graph.Kind{
	"clade":    graph.KindClade,
	"sequence": graph.KindSequence,
	"fusion":   graph.KindFusion,
}

type graphDoc struct {
	Nodes []nodeDoc `json:"nodes"`
	Edges []linkDoc `json:"edges"`
}

type nodeDoc struct {
	ID    graph.NodeID `json:"id"`
	Kind  string       `json:"kind"`
	Label string       `json:"label,omitempty"`
}

type linkDoc struct {
	From graph.NodeID `json:"from"`
	To   graph.NodeID `json:"to"`
}

// Label is the node payload of an imported graph.
type Label struct {
	NodeKind graph.Kind
	Text     string
}

// Kind implements graph.Data.
func (l Label) Kind() graph.Kind { return l.NodeKind }

// Key implements graph.Data.
func (l Label) Key() string { return l.Text }

// NodeLabel returns the display text of n: the accession of a sequence,
// the key of a fusion point or an imported label. Clades are unlabeled.
func NodeLabel(n *graph.Node) string {
	switch d := n.Data.(type) {
	case nil:
		return ""
	case *model.Sequence:
		return d.Accession
	default:
		return d.Key()
	}
}

// WriteGraph encodes g as JSON, labelling nodes with [NodeLabel].
func WriteGraph(g *graph.Graph, w io.Writer) error {
	out := graphDoc{
		Nodes: make([]nodeDoc, 0, g.NodeCount()),
		Edges: make([]linkDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, nodeDoc{ID: n.ID, Kind: kindToString[n.Kind()], Label: NodeLabel(n)})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, linkDoc{From: e.Left, To: e.Right})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportGraph writes g to a JSON file at path.
func ExportGraph(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph. Node ids are preserved; nodes other than
// clades carry [Label] data.
//
// ReadGraph returns an INVALID_FORMAT error for malformed JSON or an
// unknown node kind. Duplicate ids and edges between unknown nodes are
// returned wrapped with the offending node or edge.
func ReadGraph(r io.Reader) (*graph.Graph, error) {
	var data graphDoc
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := graph.New(nil)
	for _, n := range data.Nodes {
		kind, ok := kindFromString[n.Kind]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: unknown kind %q", n.ID, n.Kind)
		}
		var d graph.Data
		if kind != graph.KindClade {
			d = Label{NodeKind: kind, Text: n.Label}
		}
		if _, err := g.AddNodeWithID(n.ID, d); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if _, err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ImportGraph reads a JSON graph file at path. See [ReadGraph].
func ImportGraph(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
