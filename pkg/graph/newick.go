package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
)

// ErrNewickSyntax is returned by [ParseNewick] for malformed input.
var ErrNewickSyntax = errors.New("newick syntax error")

// LabelResolver maps a Newick leaf label to the payload of its node.
// Returning nil data makes the leaf a clade node.
type LabelResolver func(label string) (Data, error)

// ParseNewick builds a tree from a Newick string. Edges are oriented from
// parent to child and the returned id is the root. Branch lengths, internal
// node labels and comments are dropped. A missing final ';' is tolerated;
// anything after it is an error.
func ParseNewick(alloc *Allocator, s string, resolve LabelResolver) (*Graph, NodeID, error) {
	src, err := terminate(s)
	if err != nil {
		return nil, 0, err
	}
	t, err := newick.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNewickSyntax, err)
	}
	g := New(alloc)
	root, err := addSubtree(g, t.Root(), nil, resolve)
	if err != nil {
		return nil, 0, err
	}
	return g, root, nil
}

// terminate checks that s holds one tree and ends it with ';'.
func terminate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty tree", ErrNewickSyntax)
	}
	quoted, comment := false, false
	for i, c := range s {
		switch {
		case c == '\'' && !comment:
			quoted = !quoted
		case quoted:
		case c == '[':
			comment = true
		case c == ']':
			comment = false
		case c == ';' && !comment:
			if rest := strings.TrimSpace(s[i+1:]); rest != "" {
				return "", fmt.Errorf("%w: trailing input %q after ';'", ErrNewickSyntax, rest)
			}
			return s, nil
		}
	}
	return s + ";", nil
}

// addSubtree copies n and everything below it, away from parent, into g.
func addSubtree(g *Graph, n, parent *tree.Node, resolve LabelResolver) (NodeID, error) {
	var children []*tree.Node
	for _, nb := range n.Neigh() {
		if nb != parent {
			children = append(children, nb)
		}
	}

	var data Data
	if len(children) == 0 && n.Name() != "" && resolve != nil {
		d, err := resolve(n.Name())
		if err != nil {
			return 0, fmt.Errorf("resolve %q: %w", n.Name(), err)
		}
		data = d
	}
	id := g.AddNode(data).ID
	for _, c := range children {
		cid, err := addSubtree(g, c, n, resolve)
		if err != nil {
			return 0, err
		}
		if _, err := g.AddEdge(id, cid); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// Newick writes the tree reachable from root. Orientation is ignored: the
// walk treats root as the top and never revisits a node, so undirected
// cycles are cut where they are first met. label returns the text for a
// node; clades with an empty label stay unlabeled.
func (g *Graph) Newick(root NodeID, label func(*Node) string) string {
	var b strings.Builder
	seen := map[NodeID]bool{}
	g.writeNewick(&b, root, seen, label)
	b.WriteByte(';')
	return b.String()
}

func (g *Graph) writeNewick(b *strings.Builder, id NodeID, seen map[NodeID]bool, label func(*Node) string) {
	seen[id] = true
	var kids []NodeID
	for _, n := range g.Neighbors(id) {
		if !seen[n] {
			kids = append(kids, n)
		}
	}
	if len(kids) > 0 {
		b.WriteByte('(')
		first := true
		for _, k := range kids {
			// A sibling subtree may already have claimed this node via a cycle.
			if seen[k] {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			g.writeNewick(b, k, seen, label)
		}
		b.WriteByte(')')
	}
	b.WriteString(quoteLabel(label(g.nodes[id])))
}

func quoteLabel(s string) string {
	if !strings.ContainsAny(s, "(),:;[]' \t") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
