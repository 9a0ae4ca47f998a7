// Package detect partitions sequences into gene families.
//
// # Major detection
//
// [Majors] runs a union-find over the sequences. An edge joins its two
// sequences when both sides cover their sequence to within the tolerance
// and the two sequence lengths differ by at most the tolerance: the edge is
// then a whole-gene match rather than a shared domain. Every resulting set,
// including untouched singletons, is one [model.Component]. Indices follow
// the order in which sets are first met while scanning the sequences.
//
// # Minor propagation
//
// [Minors] records where the material of a family shows up inside longer
// genes of other families. For each pair of components A and B where B is
// longer on average, the longest edge from A into B is the entry point.
// From there the B family is walked greedily along its own longest edges,
// carrying the position of A's domain from member to member. Positions are
// clamped to the sequence; a shift larger than the tolerance is reported as
// a warning, never as an error.
package detect
