package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nrfg/pkg/buildinfo"
	"github.com/matzehuels/nrfg/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "nrfg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "nrfg reconstructs gene fusion histories as N-rooted fusion graphs",
		Long: `nrfg builds an N-rooted fusion graph (NRFG) from a similarity model of
gene sequences: it detects gene families, locates fusion events in the
family trees, and sews the per-family subgraphs into one graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.runCommand())
	root.AddCommand(c.componentsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags are the reconstruction options settable on the command line.
// Each overrides the config file value only when given explicitly.
type pipelineFlags struct {
	config       string
	tolerance    int
	cutoff       float64
	noSuper      bool
	outgroups    []string
	noCache      bool
	cacheBackend string
	cacheDir     string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "config file (.toml, .yaml)")
	cmd.Flags().IntVarP(&f.tolerance, "tolerance", "t", 0, "positions a range may miss a sequence end by")
	cmd.Flags().Float64Var(&f.cutoff, "cutoff", pipeline.DefaultCutoff, "support a split must exceed to be accepted")
	cmd.Flags().BoolVar(&f.noSuper, "no-super", false, "drop subsets covered by other subsets")
	cmd.Flags().StringSliceVar(&f.outgroups, "outgroup", nil, "accession to root the graph on (repeatable)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the tool output cache")
	cmd.Flags().StringVar(&f.cacheBackend, "cache-backend", "", "cache backend: file (default), redis, none")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "directory of the file cache")
}

// options loads the config file, if any, and applies explicitly set flags
// on top of it.
func (f *pipelineFlags) options(cmd *cobra.Command, logger *log.Logger) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		loaded, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	changed := cmd.Flags().Changed
	if changed("tolerance") {
		opts.Tolerance = f.tolerance
	}
	if changed("cutoff") {
		opts.Cutoff = f.cutoff
	}
	if changed("no-super") {
		opts.NoSuper = f.noSuper
	}
	opts.AddOutgroups(f.outgroups...)
	if changed("cache-backend") {
		opts.Cache.Backend = f.cacheBackend
	}
	if changed("cache-dir") {
		opts.Cache.Dir = f.cacheDir
	}
	if f.noCache {
		opts.Cache.Backend = pipeline.CacheNone
	}
	opts.Logger = logger

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
