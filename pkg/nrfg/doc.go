// Package nrfg rebuilds the N-rooted fusion graph from accepted splits.
//
// # Building
//
// [Build] turns one [subset.Subset] into a tree. The accepted splits that
// cover all of the subset's genes are restricted to those genes, oriented
// away from the lowest keyed gene and inserted one by one below their
// lowest common ancestor. Each of the subset's fusion points then joins
// the smallest clade that an accepted split puts on its side, so a point
// keeps the position it had in its component's fused tree.
// A point whose genes occur in the subgraph is a destination: the place
// the fused material arrives. Any other point is a source.
//
// # Sewing
//
// [Sew] merges all subgraphs into one graph and joins every source to the
// destinations of the same event isolating the same genes.
//
// # Cleanup
//
// [Clean] splices out the sources, collapses clades that carry no
// information (see [transform.Simplify]) and re-roots: every fusion point
// becomes the ancestor of the genes it produced, and the graph is finally
// rooted on a new node above the outgroup sequences, if any. The outgroups
// must be separated from every other sequence by a single edge.
package nrfg
