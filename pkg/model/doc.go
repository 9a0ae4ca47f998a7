// Package model defines the data the fusion graph pipeline works on.
//
// # Inputs
//
// A [Model] starts with [Sequence] values and similarity [Edge] values
// between them. An edge has two sides, each a list of [Subsequence] ranges
// on one sequence. Both are created once on import and only change through
// controlled operations such as [Sequence.Extend].
//
// # Stage outputs
//
// Pipeline stages attach derived data to the model: [Component] gene
// families with their trees, [FusionEvent] values between components and
// [FusionPoint] values located inside component trees. Stage outputs are
// rebuilt wholesale, never patched.
//
// # Graph payloads
//
// *Sequence and *FusionPoint implement [graph.Data], so tree nodes carry
// them directly. Their keys ("S<id>" and "F<id>") are the leaf names used in
// FASTA records, Newick strings and splits.
package model
