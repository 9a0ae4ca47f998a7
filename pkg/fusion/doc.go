// Package fusion finds where gene families recombine.
//
// # Events
//
// The outgoing set of a component is the set of components whose genes
// carry its material, itself included. Two components A and B fuse when
// each has exactly one component in its outgoing set the other lacks and
// they share at least one: the shared components are the fused
// descendants. [Events] finds all such pairs and then resolves chains: if
// A+B gave C and C+D gave E, the naive A+B event also lists E, which
// [Resolve] removes because E is already explained by the C+D event.
//
// # Points
//
// [Points] locates each event in the trees of its two components. The
// sequences of the descendant components are isolated with
// [graph.Graph.FindIsolationPoints] on a copy of the tree, and a
// [model.FusionPoint] node is inserted on every isolating edge. Both sides
// of an event must yield the same number of points.
package fusion
