package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nrfg/internal/fixture"
	"github.com/matzehuels/nrfg/pkg/detect"
	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
)

const modelJSON = `{
  "sequences": [
    {"accession": "a1", "length": 100},
    {"accession": "a2", "sites": "MKVL"},
    {"accession": "c1", "length": 200}
  ],
  "edges": [
    {"left": [{"accession": "a1"}], "right": [{"accession": "c1", "start": 1, "end": 100}]}
  ],
  "outgroups": ["a2"],
  "trees": ["(a1,c1);"]
}`

func TestReadModel(t *testing.T) {
	m, trees, err := ReadModel(strings.NewReader(modelJSON))
	if err != nil {
		t.Fatalf("ReadModel() error: %v", err)
	}
	if len(m.Sequences) != 3 {
		t.Fatalf("sequences = %d, want 3", len(m.Sequences))
	}
	if a2, _ := m.SequenceByAccession("a2"); a2.Length != 4 {
		t.Errorf("a2 length = %d, want 4 from sites", a2.Length)
	}
	if len(m.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(m.Edges))
	}
	e := m.Edges[0]
	if e.Left.Start() != 1 || e.Left.End() != 100 {
		t.Errorf("whole range = %d..%d, want 1..100", e.Left.Start(), e.Left.End())
	}
	if e.Right.End() != 100 {
		t.Errorf("right end = %d, want 100", e.Right.End())
	}
	if len(m.Outgroups) != 1 || m.Outgroups[0].Accession != "a2" {
		t.Errorf("outgroups = %v", m.Outgroups)
	}
	if len(trees) != 1 || trees[0] != "(a1,c1);" {
		t.Errorf("trees = %v", trees)
	}
}

func TestReadModelErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"sequences": [`, errors.ErrCodeInvalidFormat},
		{"unknown edge accession", `{"sequences": [{"accession": "a", "length": 5}],
			"edges": [{"left": [{"accession": "a"}], "right": [{"accession": "b"}]}]}`, errors.ErrCodeInvalidInput},
		{"unknown outgroup", `{"sequences": [{"accession": "a", "length": 5}], "outgroups": ["z"]}`, errors.ErrCodeInvalidInput},
		{"bad accession", `{"sequences": [{"accession": "a b", "length": 5}]}`, errors.ErrCodeInvalidAccession},
		{"duplicate accession", `{"sequences": [{"accession": "a", "length": 5}, {"accession": "a", "length": 5}]}`, errors.ErrCodePrecondition},
		{"range out of bounds", `{"sequences": [{"accession": "a", "length": 5}, {"accession": "b", "length": 5}],
			"edges": [{"left": [{"accession": "a", "start": 1, "end": 9}], "right": [{"accession": "b"}]}]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadModel(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestModelRoundTrip(t *testing.T) {
	m := fixture.Fusion()
	if _, err := detect.Detect(m, 0, nil); err != nil {
		t.Fatal(err)
	}
	fixture.AttachTrees(m)

	path := filepath.Join(t.TempDir(), "model.json")
	if err := ExportModel(m, path); err != nil {
		t.Fatalf("ExportModel() error: %v", err)
	}
	back, trees, err := ImportModel(path)
	if err != nil {
		t.Fatalf("ImportModel() error: %v", err)
	}
	if len(back.Sequences) != len(m.Sequences) || len(back.Edges) != len(m.Edges) {
		t.Errorf("round trip lost data: %d/%d sequences, %d/%d edges",
			len(back.Sequences), len(m.Sequences), len(back.Edges), len(m.Edges))
	}
	if len(trees) != len(m.Components) {
		t.Errorf("trees = %d, want %d", len(trees), len(m.Components))
	}
	if trees[2] != "(c1,c2);" {
		t.Errorf("trees[2] = %q, want (c1,c2);", trees[2])
	}
}

func TestImportModelMissing(t *testing.T) {
	_, _, err := ImportModel(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestGraphRoundTrip(t *testing.T) {
	m := fixture.Fusion()
	g, _, err := graph.ParseNewick(m.Alloc, "((a1,a2),c1);", fixture.Resolver(m))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph() error: %v", err)
	}
	back, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph() error: %v", err)
	}
	if back.NodeCount() != g.NodeCount() || back.EdgeCount() != g.EdgeCount() {
		t.Errorf("round trip %d/%d, want %d/%d", back.NodeCount(), back.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	for _, n := range g.Nodes() {
		bn, ok := back.Node(n.ID)
		if !ok {
			t.Fatalf("node %d lost", n.ID)
		}
		if bn.Kind() != n.Kind() || NodeLabel(bn) != NodeLabel(n) {
			t.Errorf("node %d = %v %q, want %v %q", n.ID, bn.Kind(), NodeLabel(bn), n.Kind(), NodeLabel(n))
		}
	}
	if got, want := Newick(back), Newick(g); got != want {
		t.Errorf("Newick() = %q, want %q", got, want)
	}
}

func TestReadGraphErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [}`},
		{"unknown kind", `{"nodes": [{"id": 1, "kind": "leaf"}], "edges": []}`},
		{"duplicate id", `{"nodes": [{"id": 1, "kind": "clade"}, {"id": 1, "kind": "clade"}], "edges": []}`},
		{"dangling edge", `{"nodes": [{"id": 1, "kind": "clade"}], "edges": [{"from": 1, "to": 2}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGraph(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadGraph() succeeded, want error")
			}
		})
	}
}

func TestNewickEmpty(t *testing.T) {
	if got := Newick(graph.New(nil)); got != ";" {
		t.Errorf("Newick(empty) = %q", got)
	}
}

func TestImportModelExample(t *testing.T) {
	m, trees, err := ImportModel(filepath.Join("..", "..", "examples", "fusion", "model.json"))
	if err != nil {
		t.Fatalf("ImportModel() error: %v", err)
	}
	if len(m.Sequences) != 6 || len(m.Edges) != 5 || len(trees) != 3 {
		t.Errorf("got %d sequences, %d edges, %d trees; want 6, 5, 3", len(m.Sequences), len(m.Edges), len(trees))
	}
}
