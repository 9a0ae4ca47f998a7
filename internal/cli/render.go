package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	nrfgio "github.com/matzehuels/nrfg/pkg/io"
)

// renderCommand converts a graph JSON file written by "run -f json".
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a graph JSON file to DOT or SVG",
		Long: `Render a graph JSON file to Graphviz DOT or SVG.

Sequence nodes are drawn as boxes labeled with their accession, fusion
points as diamonds, and unlabeled clades as points. SVG output uses an
embedded Graphviz build, so no dot binary is needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr, formatSVG)
			if err := validateFormats(formats, formatDOT, formatSVG, formatNewick); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, formats)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, newick (comma-separated)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, formats []string) error {
	g, err := nrfgio.ImportGraph(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input))
		if len(formats) == 1 {
			output += formatExt[formats[0]]
		}
	}
	return writeGraph(ctx, g, input, output, formats)
}
