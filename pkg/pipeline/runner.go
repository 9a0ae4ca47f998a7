package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nrfg/pkg/cache"
	"github.com/matzehuels/nrfg/pkg/detect"
	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/fusion"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
	"github.com/matzehuels/nrfg/pkg/nrfg"
	"github.com/matzehuels/nrfg/pkg/observability"
	"github.com/matzehuels/nrfg/pkg/split"
	"github.com/matzehuels/nrfg/pkg/subset"
	"github.com/matzehuels/nrfg/pkg/tools"
)

// Runner owns a model and the outputs of its built stages.
//
// A Runner is not safe for concurrent use: stages mutate the model.
type Runner struct {
	Model   *model.Model
	Options Options
	RunID   string

	logger  *log.Logger
	toolkit tools.Toolkit
	trees   tools.NewickSource
	store   cache.Cache
	state   State

	warnings  map[Stage][]errors.Warning
	durations map[Stage]time.Duration
	index     fusion.Index
	registry  *split.Registry
	accepted  []split.Split
	subsets   []*subset.Subset
	subgraphs []*nrfg.Subgraph
	sewn      *graph.Graph
	links     []nrfg.Link
	final     *graph.Graph
}

// Result contains the outputs of a pipeline run.
type Result struct {
	RunID string

	// Graph is the cleaned NRFG; nil unless the clean stage is built.
	Graph *graph.Graph

	Subgraphs []*nrfg.Subgraph
	Links     []nrfg.Link

	// Warnings are the non-fatal conditions of every built stage, in
	// stage order.
	Warnings []errors.Warning

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components int
	Events     int
	Points     int
	Splits     int
	Accepted   int
	Subsets    int
	NodeCount  int
	EdgeCount  int
	Durations  map[Stage]time.Duration
}

// NewRunner validates opts and prepares a runner for m. Supplied trees are
// matched to components by the trees stage. Unless opts.Toolkit is set,
// external tools run through [tools.Exec] behind the configured cache.
func NewRunner(ctx context.Context, m *model.Model, trees tools.NewickSource, opts Options) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	for _, acc := range opts.Outgroups {
		s, ok := m.SequenceByAccession(acc)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown outgroup %q", acc)
		}
		m.AddOutgroup(s)
	}

	r := &Runner{
		Model:     m,
		Options:   opts,
		RunID:     uuid.NewString(),
		trees:     trees,
		warnings:  make(map[Stage][]errors.Warning),
		durations: make(map[Stage]time.Duration),
	}
	r.logger = opts.Logger.With("run", r.RunID[:8])

	r.toolkit = opts.Toolkit
	if r.toolkit == nil {
		store, err := OpenCache(ctx, opts.Cache)
		if err != nil {
			return nil, err
		}
		r.store = store
		r.toolkit = tools.NewCached(tools.NewExec(opts.Tools), store, keyer(opts.Cache), opts.Cache.TTL)
	}
	return r, nil
}

// OpenCache opens the configured backend.
func OpenCache(ctx context.Context, opts CacheOptions) (cache.Cache, error) {
	switch opts.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, opts.Redis)
	default:
		return cache.NewFileCache(opts.Dir)
	}
}

func keyer(opts CacheOptions) cache.Keyer {
	if opts.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, opts.Scope+":")
}

// Close releases the tool cache.
func (r *Runner) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// State returns the build state of every stage.
func (r *Runner) State() State { return r.state }

// Execute builds every stage not yet built and returns the result.
func (r *Runner) Execute(ctx context.Context) (*Result, error) {
	return r.ExecuteUntil(ctx, StageClean)
}

// ExecuteUntil builds every stage up to and including last. The context is
// checked before each stage.
func (r *Runner) ExecuteUntil(ctx context.Context, last Stage) (*Result, error) {
	for _, s := range Stages {
		if s > last {
			break
		}
		if r.state.Built(s) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Create(ctx, s); err != nil {
			return nil, err
		}
	}
	return r.Result(), nil
}

// Create builds s. The stage must be empty and its prerequisites built.
// A failing stage stays empty.
func (r *Runner) Create(ctx context.Context, s Stage) (err error) {
	if err := r.state.CanCreate(s); err != nil {
		return err
	}

	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, s.String())
	r.logger.Debug("stage start", "stage", s)
	defer func() {
		d := time.Since(start)
		observability.Pipeline().OnStageComplete(ctx, s.String(), d, err)
		if err != nil {
			r.reset(s)
			return
		}
		r.state.set(s, true)
		r.durations[s] = d
		for range r.warnings[s] {
			observability.Pipeline().OnWarning(ctx, s.String())
		}
		r.logger.Info("stage built", "stage", s, "duration", d.Round(time.Millisecond))
	}()

	return r.build(ctx, s)
}

func (r *Runner) build(ctx context.Context, s Stage) error {
	m := r.Model
	switch s {
	case StageComponents:
		w, err := detect.Detect(m, r.Options.Tolerance, r.logger)
		r.warnings[s] = w
		return err

	case StageTrees:
		return tools.Trees(ctx, m, r.toolkit, r.trees, r.logger)

	case StageFusionEvents:
		r.index = fusion.NewIndex(m.Components)
		m.Events = fusion.Events(m.Components, r.index)
		r.logger.Debug("fusion events", "events", len(m.Events))
		return nil

	case StageFusionPoints:
		points, w, err := fusion.Points(m.Events, r.index, r.logger)
		if err != nil {
			return err
		}
		m.Points = points
		r.warnings[s] = w
		return nil

	case StageSplits:
		reg, err := split.Collect(m.Components)
		r.registry = reg
		return err

	case StageConsensus:
		accepted, err := split.Consensus(r.registry, r.Options.Cutoff, r.logger)
		r.accepted = accepted
		return err

	case StageSubsets:
		subsets, err := subset.Partition(m.Points, r.Options.NoSuper, r.logger)
		r.subsets = subsets
		return err

	case StageSubgraphs:
		subgraphs, err := nrfg.BuildAll(r.subsets, r.accepted, m.Alloc, r.logger)
		r.subgraphs = subgraphs
		return err

	case StageSewn:
		r.sewn, r.links = nrfg.Sew(r.subgraphs, m.Alloc)
		r.logger.Debug("subgraphs sewn", "links", len(r.links), "nodes", r.sewn.NodeCount())
		return nil

	case StageClean:
		g := r.sewn.Clone()
		if err := nrfg.Clean(g, r.subgraphs, m.Outgroups, r.logger); err != nil {
			return err
		}
		r.final = g
		return nil
	}
	return errors.New(errors.ErrCodeInternal, "unknown stage %d", int(s))
}

// Drop empties s. The stage must be built and its dependents empty.
func (r *Runner) Drop(s Stage) error {
	if err := r.state.CanDrop(s); err != nil {
		return err
	}
	r.reset(s)
	r.state.set(s, false)
	r.logger.Debug("stage dropped", "stage", s)
	return nil
}

// reset discards whatever s produced, including partial output of a
// failed build.
func (r *Runner) reset(s Stage) {
	m := r.Model
	delete(r.warnings, s)
	delete(r.durations, s)
	switch s {
	case StageComponents:
		m.SetComponents(nil)
	case StageTrees:
		for _, c := range m.Components {
			c.Tree, c.Alignment = nil, ""
		}
	case StageFusionEvents:
		m.Events, r.index = nil, nil
	case StageFusionPoints:
		m.Points = nil
		for _, c := range m.Components {
			c.Fused = nil
		}
	case StageSplits:
		r.registry = nil
	case StageConsensus:
		r.accepted = nil
	case StageSubsets:
		r.subsets = nil
	case StageSubgraphs:
		r.subgraphs = nil
	case StageSewn:
		r.sewn, r.links = nil, nil
	case StageClean:
		r.final = nil
	}
}

// Result summarises the built stages.
func (r *Runner) Result() *Result {
	m := r.Model
	res := &Result{
		RunID:     r.RunID,
		Graph:     r.final,
		Subgraphs: r.subgraphs,
		Links:     r.links,
		Stats: Stats{
			Components: len(m.Components),
			Events:     len(m.Events),
			Points:     len(m.Points),
			Accepted:   len(r.accepted),
			Subsets:    len(r.subsets),
			Durations:  make(map[Stage]time.Duration, len(r.durations)),
		},
	}
	if r.registry != nil {
		res.Stats.Splits = r.registry.Len()
	}
	if r.final != nil {
		res.Stats.NodeCount = r.final.NodeCount()
		res.Stats.EdgeCount = r.final.EdgeCount()
	}
	for _, s := range Stages {
		res.Warnings = append(res.Warnings, r.warnings[s]...)
		if d, ok := r.durations[s]; ok {
			res.Stats.Durations[s] = d
		}
	}
	return res
}

// Sewn returns the graph before cleanup, or nil.
func (r *Runner) Sewn() *graph.Graph { return r.sewn }
