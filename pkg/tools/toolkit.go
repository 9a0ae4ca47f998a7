// Package tools connects components to external phylogenetics programs.
//
// The reconstruction core only consumes trees; this package produces them.
// A [Toolkit] aligns FASTA, infers a Newick tree from an alignment and
// merges several trees into a consensus. [Exec] runs configured commands,
// [Cached] memoises any toolkit in a [cache.Cache], and [Trees] fills in
// the tree of every component, preferring trees supplied with the model.
//
// FASTA records and Newick leaves name sequences "S<id>" so accessions never
// have to survive a round trip through a third-party program.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
)

// Toolkit is the contract with the external programs.
type Toolkit interface {
	// Align returns an aligned FASTA document for an unaligned one.
	Align(ctx context.Context, fasta []byte) ([]byte, error)
	// InferTree returns a Newick tree for an aligned FASTA document.
	InferTree(ctx context.Context, alignment []byte) (string, error)
	// Consensus merges Newick trees over the same leaves.
	Consensus(ctx context.Context, newicks []string) (string, error)
}

const fastaWidth = 60

// WriteFASTA writes one record per minor sequence of c. A sequence with
// several minor ranges contributes their sites concatenated in range order.
// Every sequence needs its sites.
func WriteFASTA(w io.Writer, c *model.Component) error {
	for _, seq := range c.MinorSequences() {
		if seq.Sites == "" {
			return errors.Precondition("sequence %s has no sites to align", seq)
		}
		var sites strings.Builder
		for _, sub := range c.Minor {
			if sub.Sequence == seq {
				sites.WriteString(seq.Sites[sub.Start-1 : sub.End])
			}
		}
		if _, err := fmt.Fprintf(w, ">%s %s\n", seq.Key(), seq.Accession); err != nil {
			return err
		}
		s := sites.String()
		for len(s) > 0 {
			n := min(fastaWidth, len(s))
			if _, err := fmt.Fprintln(w, s[:n]); err != nil {
				return err
			}
			s = s[n:]
		}
	}
	return nil
}

// ComponentFASTA returns the FASTA document [WriteFASTA] writes.
func ComponentFASTA(c *model.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFASTA(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IDResolver maps "S<id>" labels to the sequences of m.
func IDResolver(m *model.Model) graph.LabelResolver {
	return func(label string) (graph.Data, error) {
		id, ok := model.ParseSequenceKey(label)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "tree label %q is not a sequence id", label)
		}
		s, ok := m.Sequence(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "tree names unknown sequence %s", label)
		}
		return s, nil
	}
}

// AccessionResolver maps accession labels to the sequences of m.
func AccessionResolver(m *model.Model) graph.LabelResolver {
	return func(label string) (graph.Data, error) {
		s, ok := m.SequenceByAccession(label)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "tree names unknown accession %q", label)
		}
		return s, nil
	}
}

// ParseTree imports a tool's Newick output into the model's id arena.
func ParseTree(m *model.Model, newick string) (*graph.Graph, error) {
	g, _, err := graph.ParseNewick(m.Alloc, newick, IDResolver(m))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalTool, err, "parse tree")
	}
	return g, nil
}
