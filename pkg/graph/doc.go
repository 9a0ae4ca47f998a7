// Package graph provides the undirected node/edge container that every stage
// of the fusion-graph pipeline operates on.
//
// # Overview
//
// Component trees, reconstructed subgraphs and the final N-rooted fusion
// graph are all instances of [Graph]. Nodes carry a tagged payload ([Data])
// whose [Kind] is one of [KindClade] (no payload), [KindSequence] or
// [KindFusion]. Callers switch on the kind instead of type-asserting.
//
// Edges are undirected for traversal purposes but remember an orientation
// (Left is the parent, Right the child). Orientation only matters once a
// graph is rooted: [Graph.Parents], [Graph.Children] and [Graph.Orient] read
// and change it, everything else ignores it.
//
// # Node Identity
//
// Node ids are issued by an [Allocator]. Graphs that are later merged with
// [Graph.CopyInto] must share an allocator so their ids never collide; a
// merge then preserves ids and skips nodes and edges the target already has.
//
//	alloc := graph.NewAllocator()
//	a := graph.New(alloc)
//	b := graph.New(alloc)
//	// ... build a and b ...
//	merged := graph.New(alloc)
//	a.CopyInto(merged)
//	b.CopyInto(merged)
//
// # Isolation Search
//
// [Graph.FindIsolationPoints] finds the edges that cleanly separate the nodes
// matching an "inside" predicate from those matching an "outside" predicate,
// tolerating don't-care (cladistic) nodes on either side. It returns the
// maximal, least-cladistic candidates. [Graph.FindIsolationPoint] demands
// exactly one and reports an [*IsolationError] otherwise.
//
// # Newick
//
// [ParseNewick] reads a Newick string with the gotree parser and copies the
// tree into a graph, resolving leaf labels through a caller-supplied
// function. [Graph.Newick] writes the
// subtree reachable from a node back out. Branch lengths and internal labels
// are read but discarded.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. A graph is owned by the
// stage that builds it until handed over with [Graph.CopyInto] or
// [Graph.Clone].
package graph
