// Package transform provides in-place rewrites that tidy a [graph.Graph]
// after trees have been merged into a network.
//
// # Splicing
//
// [Splice] removes a node and reconnects its neighbours so that paths
// through the node survive. It is how helper nodes that only served to join
// two subgraphs are taken out of the final network.
//
// # Simplification
//
// [Simplify] repeatedly removes structural clade nodes that carry no
// information:
//
//   - clades with at most one edge
//   - clades with one parent and one child, replaced by a parent-child edge
//   - root clades with exactly two children, replaced by an edge between the
//     children
//
// Nodes are visited in ascending id order so the result is deterministic.
//
// # Orientation
//
// [OrientAway] re-roots part of a graph: it walks outward from a node and
// points every traversed edge away from it, optionally stopping at nodes a
// predicate marks as barriers.
//
// # Usage
//
//	transform.Splice(g, helper)
//	transform.Simplify(g)
//	transform.OrientAway(g, root, nil)
package transform
