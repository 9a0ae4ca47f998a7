package graph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the graph.
//
// Edges follow their orientation (Left -> Right). Sequence nodes are drawn as
// rounded boxes, fusion points as filled diamonds and clades as small points.
// label supplies the text of sequence and fusion nodes.
func (g *Graph) ToDOT(label func(*Node) string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph NRFG {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n\n")

	for _, n := range g.Nodes() {
		id := fmt.Sprintf("n%d", n.ID)
		switch n.Kind() {
		case KindSequence:
			fmt.Fprintf(&buf, "  %s [label=%q, shape=box, style=\"filled,rounded\"];\n", id, label(n))
		case KindFusion:
			fmt.Fprintf(&buf, "  %s [label=%q, shape=diamond, fillcolor=\"#f4c06a\"];\n", id, label(n))
		default:
			fmt.Fprintf(&buf, "  %s [label=\"\", shape=point, width=0.08];\n", id)
		}
	}
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.Left, e.Right)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT document to SVG using Graphviz.
//
// Errors are returned if Graphviz cannot initialize, the DOT is malformed, or
// rendering fails. All errors are wrapped with %w.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
