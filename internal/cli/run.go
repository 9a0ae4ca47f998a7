package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	nrfgio "github.com/matzehuels/nrfg/pkg/io"
	"github.com/matzehuels/nrfg/pkg/observability"
	"github.com/matzehuels/nrfg/pkg/pipeline"
	"github.com/matzehuels/nrfg/pkg/tools"
)

// Output formats of the run and render commands.
const (
	formatNewick = "newick"
	formatJSON   = "json"
	formatDOT    = "dot"
	formatSVG    = "svg"
)

// formatExt maps each output format to its file extension.
var formatExt = map[string]string{
	formatNewick: ".nwk",
	formatJSON:   ".json",
	formatDOT:    ".dot",
	formatSVG:    ".svg",
}

// runOpts holds the flags of the run command.
type runOpts struct {
	pipelineFlags
	output      string
	formats     []string
	until       string
	metricsFile string
}

func (c *CLI) runCommand() *cobra.Command {
	var (
		opts       runOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "run [model.json]",
		Short: "Reconstruct the NRFG of a model",
		Long: `Reconstruct the N-rooted fusion graph of a model.

The model file lists sequences, similarity edges between (sub)sequences and
optionally outgroups and Newick trees of the gene families. Families without
a tree are aligned and inferred with the configured external tools; their
outputs are cached.

Use --until to stop after an intermediate stage. The sewn graph is written
when stopping at "sewn"; earlier stages only print a summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, formatNewick)
			if err := validateFormats(opts.formats, formatNewick, formatJSON, formatDOT, formatSVG); err != nil {
				return err
			}
			popts, err := opts.options(cmd, c.Logger)
			if err != nil {
				return err
			}
			return c.runRun(cmd.Context(), args[0], popts, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): newick (default), json, dot, svg (comma-separated)")
	cmd.Flags().StringVar(&opts.until, "until", pipeline.StageClean.String(), "last stage to build")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")

	return cmd
}

func (c *CLI) runRun(ctx context.Context, input string, popts pipeline.Options, opts *runOpts) error {
	last, err := pipeline.ParseStage(opts.until)
	if err != nil {
		return err
	}

	m, trees, err := nrfgio.ImportModel(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded %s: %d sequences, %d edges", input, len(m.Sequences), len(m.Edges))

	var metrics *observability.PrometheusHooks
	if opts.metricsFile != "" {
		metrics = observability.NewPrometheusHooks(prometheus.NewRegistry())
		observability.SetToolHooks(metrics)
		observability.SetCacheHooks(metrics)
	}
	defer observability.Reset()

	runner, err := pipeline.NewRunner(ctx, m, tools.NewickSource(trees), popts)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Reconstructing...")
	observability.SetPipelineHooks(&stageSpinner{PipelineHooks: pipelineHooks(metrics), spinner: spinner})
	prog := newProgress(c.Logger)
	spinner.Start()
	result, err := runner.ExecuteUntil(ctx, last)
	if err != nil {
		spinner.StopWithError("Reconstruction failed")
		return err
	}
	prog.done(fmt.Sprintf("Built stages through %s", last))
	spinner.StopWithSuccess(fmt.Sprintf("Run %s built through %s", result.RunID[:8], last))
	printStats(
		stat{result.Stats.Components, "components"},
		stat{result.Stats.Events, "fusion events"},
		stat{result.Stats.Points, "fusion points"},
		stat{result.Stats.Accepted, "accepted splits"},
		stat{result.Stats.Subsets, "subsets"},
	)
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}

	g := result.Graph
	if last == pipeline.StageSewn {
		g = runner.Sewn()
	}
	if g != nil {
		printStats(stat{g.NodeCount(), "nodes"}, stat{g.EdgeCount(), "edges"}, stat{countFusions(g), "fusion nodes"})
		if err := writeGraph(ctx, g, input, opts.output, opts.formats); err != nil {
			return err
		}
	} else {
		printInfo("Stopped after %s; no graph to write", last)
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		printFile(opts.metricsFile)
	}
	return nil
}

// stageSpinner shows the running stage on the spinner and forwards every
// event to the wrapped hooks.
type stageSpinner struct {
	observability.PipelineHooks
	spinner *Spinner
}

func (h *stageSpinner) OnStageStart(ctx context.Context, stage string) {
	h.spinner.SetMessage("Building " + stage + "...")
	h.PipelineHooks.OnStageStart(ctx, stage)
}

func pipelineHooks(metrics *observability.PrometheusHooks) observability.PipelineHooks {
	if metrics == nil {
		return observability.NoopPipelineHooks{}
	}
	return metrics
}

func countFusions(g *graph.Graph) int {
	n := 0
	for _, node := range g.Nodes() {
		if node.Kind() == graph.KindFusion {
			n++
		}
	}
	return n
}

// =============================================================================
// Output
// =============================================================================

// writeGraph writes g once per format. A single format goes to output as
// given; several formats share output as base path.
func writeGraph(ctx context.Context, g *graph.Graph, input, output string, formats []string) error {
	if output == "-" {
		if len(formats) != 1 {
			return errors.New(errors.ErrCodeInvalidOption, "stdout output takes exactly one format")
		}
		data, err := encodeGraph(ctx, g, formats[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	base := basePath(output, input)
	for _, f := range formats {
		path := base + formatExt[f]
		if len(formats) == 1 && output != "" {
			path = output
		}
		data, err := encodeGraph(ctx, g, f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func encodeGraph(ctx context.Context, g *graph.Graph, format string) ([]byte, error) {
	switch format {
	case formatNewick:
		return []byte(nrfgio.Newick(g) + "\n"), nil
	case formatJSON:
		var b strings.Builder
		if err := nrfgio.WriteGraph(g, &b); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	case formatDOT:
		return []byte(g.ToDOT(nrfgio.NodeLabel)), nil
	case formatSVG:
		return graph.RenderSVG(ctx, g.ToDOT(nrfgio.NodeLabel))
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown format %q", format)
}

// basePath derives the output base path. With no output it is the input
// path with its extension replaced by ".nrfg"; a known format extension on
// output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".nrfg"
	}
	ext := filepath.Ext(output)
	for _, known := range formatExt {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// validateFormats checks formats against the allowed set.
func validateFormats(formats []string, allowed ...string) error {
	for _, f := range formats {
		if !slices.Contains(allowed, f) {
			return errors.New(errors.ErrCodeInvalidOption, "invalid format: %s (must be one of %s)", f, strings.Join(allowed, ", "))
		}
	}
	return nil
}
