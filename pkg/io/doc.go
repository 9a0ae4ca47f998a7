// Package io provides JSON import and export for models and graphs.
//
// # Model Format
//
// A model file lists the sequences, the similarity edges between ranges of
// them, the outgroups to root the result on and, optionally, one Newick tree
// per gene family:
//
//	{
//	  "sequences": [
//	    {"accession": "a1", "length": 100},
//	    {"accession": "c1", "sites": "MKV..."}
//	  ],
//	  "edges": [
//	    {"left":  [{"accession": "a1", "start": 1, "end": 100}],
//	     "right": [{"accession": "c1", "start": 1, "end": 100}]}
//	  ],
//	  "outgroups": ["a1"],
//	  "trees": ["((a1,a2),(c1,c2));"]
//	}
//
// Positions are 1-based and inclusive. A range with start and end both
// omitted covers the whole sequence. Sequence length defaults to the
// number of sites. Trees use accessions as leaf labels and are matched to
// components after detection, so their order does not matter.
//
// Use [ImportModel] to read a model from a file path, or [ReadModel] to read
// from any io.Reader. [WriteModel] and [ExportModel] write a model back,
// including detected components and their trees when present.
//
// # Graph Format
//
// Graphs (component trees or the final NRFG) are written as node and edge
// arrays. Node ids are the arena ids; edges are oriented from -> to:
//
//	{
//	  "nodes": [
//	    {"id": 1, "kind": "clade"},
//	    {"id": 2, "kind": "sequence", "label": "a1"},
//	    {"id": 7, "kind": "fusion", "label": "F0"}
//	  ],
//	  "edges": [{"from": 1, "to": 2}]
//	}
//
// [ReadGraph] rebuilds a graph whose nodes carry [Label] data, which is
// enough to re-render it without the originating model.
package io
