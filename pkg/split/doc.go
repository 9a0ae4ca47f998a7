// Package split enumerates tree bipartitions and filters them by consensus.
//
// # Splits
//
// Removing an edge from a tree divides its leaves in two. A [Split] records
// the division as an inside and an outside [LeafSet]; both orderings of
// every division are kept. Leaves are sequences and fusion points, keyed by
// their graph key.
//
// # Evidence
//
// [Split.IsEvidencedBy] compares two splits on the leaves they share. If
// either split has an empty side there, the comparison abstains. Otherwise
// the other split supports this one when it divides the shared leaves the
// same way, and rejects it when it does not.
//
// # Consensus
//
// [Collect] gathers the splits of every component tree into a [Registry].
// [Consensus] then lets every component vote on every split using the
// splits native to its own tree, and accepts the splits whose support ratio
// exceeds the cutoff.
package split
