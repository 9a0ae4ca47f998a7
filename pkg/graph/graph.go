package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrUnknownNode is returned when an operation references a node id that
	// is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNodeID is returned by [Graph.AddNodeWithID] when the id is
	// already in use.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrSelfEdge is returned by [Graph.AddEdge] when both endpoints are the
	// same node.
	ErrSelfEdge = errors.New("self-referencing edge")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the two nodes
	// already share an edge, in either orientation.
	ErrDuplicateEdge = errors.New("nodes already share an edge")

	// ErrNoEdge is returned when an operation needs an edge between two nodes
	// that are not adjacent.
	ErrNoEdge = errors.New("no edge between nodes")
)

// NodeID identifies a node. Ids are issued by an [Allocator] and are unique
// across every graph sharing that allocator.
type NodeID int

// Kind tags the payload carried by a node.
type Kind int

const (
	// KindClade marks a node without leaf data: an internal tree node.
	KindClade Kind = iota
	// KindSequence marks a node carrying a gene sequence.
	KindSequence
	// KindFusion marks a node carrying a fusion point.
	KindFusion
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindFusion:
		return "fusion"
	default:
		return "clade"
	}
}

// Data is the payload of a leaf-bearing node. Implementations must be
// comparable by Key: two payloads with the same key denote the same leaf.
type Data interface {
	// Kind returns KindSequence or KindFusion.
	Kind() Kind
	// Key returns a stable, unique textual key such as "S12" or "F3".
	Key() string
}

// Node is a vertex of a [Graph].
type Node struct {
	ID   NodeID
	Data Data // nil for clades
}

// Kind returns the payload kind, KindClade when Data is nil.
func (n *Node) Kind() Kind {
	if n.Data == nil {
		return KindClade
	}
	return n.Data.Kind()
}

// IsClade reports whether the node carries no leaf data.
func (n *Node) IsClade() bool { return n.Data == nil }

// Key returns the payload key, or "#<id>" for clades.
func (n *Node) Key() string {
	if n.Data == nil {
		return fmt.Sprintf("#%d", n.ID)
	}
	return n.Data.Key()
}

// Edge is a relation between two nodes. Left is the parent and Right the
// child once the graph is oriented; traversal ignores the orientation.
type Edge struct {
	Left  NodeID
	Right NodeID
}

// Other returns the endpoint opposite id.
func (e Edge) Other(id NodeID) NodeID {
	if e.Left == id {
		return e.Right
	}
	return e.Left
}

// Has reports whether id is one of the endpoints.
func (e Edge) Has(id NodeID) bool { return e.Left == id || e.Right == id }

// Allocator issues node ids. It is the arena that gives every node of a
// model a unique identity.
//
// The zero value is ready to use and issues ids starting at 1.
type Allocator struct {
	next NodeID
}

// NewAllocator returns an allocator whose first id is 1.
func NewAllocator() *Allocator { return &Allocator{} }

// Next returns a fresh id.
func (a *Allocator) Next() NodeID {
	a.next++
	return a.next
}

// reserve makes sure id is never issued again.
func (a *Allocator) reserve(id NodeID) {
	if id > a.next {
		a.next = id
	}
}

// Graph is an undirected graph with optionally oriented edges.
//
// The zero value is not usable; use [New].
type Graph struct {
	alloc *Allocator
	nodes map[NodeID]*Node
	adj   map[NodeID]map[NodeID]*Edge
	edges int
}

// New creates an empty graph drawing ids from alloc. A nil alloc gives the
// graph a private allocator.
func New(alloc *Allocator) *Graph {
	if alloc == nil {
		alloc = NewAllocator()
	}
	return &Graph{
		alloc: alloc,
		nodes: make(map[NodeID]*Node),
		adj:   make(map[NodeID]map[NodeID]*Edge),
	}
}

// Allocator returns the id source of the graph.
func (g *Graph) Allocator() *Allocator { return g.alloc }

// AddNode adds a node with a freshly allocated id.
func (g *Graph) AddNode(data Data) *Node {
	n := &Node{ID: g.alloc.Next(), Data: data}
	g.nodes[n.ID] = n
	g.adj[n.ID] = make(map[NodeID]*Edge)
	return n
}

// AddNodeWithID adds a node with a caller-chosen id. Returns
// ErrDuplicateNodeID if the id is taken.
func (g *Graph) AddNodeWithID(id NodeID, data Data) (*Node, error) {
	if _, ok := g.nodes[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateNodeID, id)
	}
	g.alloc.reserve(id)
	n := &Node{ID: id, Data: data}
	g.nodes[id] = n
	g.adj[id] = make(map[NodeID]*Edge)
	return n, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether the graph contains id.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes sorted by id.
func (g *Graph) Nodes() []*Node {
	ids := slices.Sorted(maps.Keys(g.nodes))
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// Leaves returns the nodes carrying sequence or fusion data, sorted by id.
func (g *Graph) Leaves() []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if !n.IsClade() {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// AddEdge connects left (parent) to right (child). Returns ErrSelfEdge when
// left == right, ErrUnknownNode for a missing endpoint and ErrDuplicateEdge
// when the two nodes are already adjacent.
func (g *Graph) AddEdge(left, right NodeID) (*Edge, error) {
	if left == right {
		return nil, fmt.Errorf("%w: %d", ErrSelfEdge, left)
	}
	if !g.Has(left) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, left)
	}
	if !g.Has(right) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, right)
	}
	if _, ok := g.adj[left][right]; ok {
		return nil, fmt.Errorf("%w: %d-%d", ErrDuplicateEdge, left, right)
	}
	e := &Edge{Left: left, Right: right}
	g.adj[left][right] = e
	g.adj[right][left] = e
	g.edges++
	return e, nil
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b NodeID) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Edge returns the edge between a and b, whatever its orientation.
func (g *Graph) Edge(a, b NodeID) (Edge, bool) {
	e, ok := g.adj[a][b]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// RemoveEdge deletes the edge between a and b.
func (g *Graph) RemoveEdge(a, b NodeID) error {
	if _, ok := g.adj[a][b]; !ok {
		return fmt.Errorf("%w: %d-%d", ErrNoEdge, a, b)
	}
	delete(g.adj[a], b)
	delete(g.adj[b], a)
	g.edges--
	return nil
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id NodeID) error {
	if !g.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	for other := range g.adj[id] {
		delete(g.adj[other], id)
		g.edges--
	}
	delete(g.adj, id)
	delete(g.nodes, id)
	return nil
}

// Orient makes from the parent of to. The nodes must be adjacent.
func (g *Graph) Orient(from, to NodeID) error {
	e, ok := g.adj[from][to]
	if !ok {
		return fmt.Errorf("%w: %d-%d", ErrNoEdge, from, to)
	}
	e.Left, e.Right = from, to
	return nil
}

// Edges returns a copy of all edges ordered by (min endpoint, max endpoint).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, a := range slices.Sorted(maps.Keys(g.adj)) {
		for _, b := range slices.Sorted(maps.Keys(g.adj[a])) {
			if a < b {
				out = append(out, *g.adj[a][b])
			}
		}
	}
	return out
}

// Neighbors returns the ids adjacent to id in ascending order.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	return slices.Sorted(maps.Keys(g.adj[id]))
}

// Degree returns the number of edges touching id.
func (g *Graph) Degree(id NodeID) int { return len(g.adj[id]) }

// Children returns the neighbors reached by edges oriented away from id.
func (g *Graph) Children(id NodeID) []NodeID {
	var out []NodeID
	for _, n := range g.Neighbors(id) {
		if g.adj[id][n].Left == id {
			out = append(out, n)
		}
	}
	return out
}

// Parents returns the neighbors whose edges are oriented towards id.
func (g *Graph) Parents(id NodeID) []NodeID {
	var out []NodeID
	for _, n := range g.Neighbors(id) {
		if g.adj[id][n].Right == id {
			out = append(out, n)
		}
	}
	return out
}

// InDegree returns the number of parents of id.
func (g *Graph) InDegree(id NodeID) int { return len(g.Parents(id)) }

// OutDegree returns the number of children of id.
func (g *Graph) OutDegree(id NodeID) int { return len(g.Children(id)) }

// Roots returns the nodes without parents, sorted by id.
func (g *Graph) Roots() []NodeID {
	var out []NodeID
	for _, n := range g.Nodes() {
		if g.InDegree(n.ID) == 0 {
			out = append(out, n.ID)
		}
	}
	return out
}

// Walk visits the nodes reachable from start in breadth-first order,
// neighbors in ascending id order. The step from one node to another is
// skipped when skip returns true; skip may be nil.
func (g *Graph) Walk(start NodeID, skip func(from, to NodeID) bool) []NodeID {
	if !g.Has(start) {
		return nil
	}
	seen := map[NodeID]bool{start: true}
	order := []NodeID{start}
	for i := 0; i < len(order); i++ {
		cur := order[i]
		for _, next := range g.Neighbors(cur) {
			if seen[next] || (skip != nil && skip(cur, next)) {
				continue
			}
			seen[next] = true
			order = append(order, next)
		}
	}
	return order
}

// Side returns the nodes reachable from from without crossing its edge to
// away, from included.
func (g *Graph) Side(from, away NodeID) []NodeID {
	return g.Walk(from, func(a, b NodeID) bool {
		return (a == from && b == away) || (a == away && b == from)
	})
}

// Cut splits the graph along the a-b edge. The first graph holds a and
// everything reachable from it without crossing that edge, the second the
// same for b. Node ids and edge orientations are preserved; the receiver is
// not modified.
func (g *Graph) Cut(a, b NodeID) (*Graph, *Graph, error) {
	if !g.HasEdge(a, b) {
		return nil, nil, fmt.Errorf("cut %d-%d: %w", a, b, ErrNoEdge)
	}
	return g.subgraph(g.Side(a, b), a, b), g.subgraph(g.Side(b, a), a, b), nil
}

// subgraph copies the induced subgraph over ids, leaving out the cut edge.
func (g *Graph) subgraph(ids []NodeID, cutA, cutB NodeID) *Graph {
	out := New(g.alloc)
	in := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		in[id] = true
		_, _ = out.AddNodeWithID(id, g.nodes[id].Data)
	}
	for _, e := range g.Edges() {
		if !in[e.Left] || !in[e.Right] {
			continue
		}
		if (e.Left == cutA && e.Right == cutB) || (e.Left == cutB && e.Right == cutA) {
			continue
		}
		_, _ = out.AddEdge(e.Left, e.Right)
	}
	return out
}

// CopyInto merges the graph into target, preserving ids and orientations.
// Nodes and edges already present in target are left untouched, so copying
// the same graph twice creates no duplicates.
func (g *Graph) CopyInto(target *Graph) {
	for _, n := range g.Nodes() {
		if !target.Has(n.ID) {
			_, _ = target.AddNodeWithID(n.ID, n.Data)
		}
	}
	for _, e := range g.Edges() {
		if !target.HasEdge(e.Left, e.Right) {
			_, _ = target.AddEdge(e.Left, e.Right)
		}
	}
}

// Clone returns an independent copy sharing the allocator.
func (g *Graph) Clone() *Graph {
	out := New(g.alloc)
	g.CopyInto(out)
	return out
}

// InsertOnEdge replaces the a-b edge with a new node carrying data, keeping
// the original orientation on both halves.
func (g *Graph) InsertOnEdge(a, b NodeID, data Data) (*Node, error) {
	e, ok := g.Edge(a, b)
	if !ok {
		return nil, fmt.Errorf("insert on %d-%d: %w", a, b, ErrNoEdge)
	}
	if err := g.RemoveEdge(a, b); err != nil {
		return nil, err
	}
	n := g.AddNode(data)
	if _, err := g.AddEdge(e.Left, n.ID); err != nil {
		return nil, err
	}
	if _, err := g.AddEdge(n.ID, e.Right); err != nil {
		return nil, err
	}
	return n, nil
}
