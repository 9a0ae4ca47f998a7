// Package pipeline runs the NRFG reconstruction stages over a model.
//
// This package wires the stage packages (detect, tools, fusion, split,
// subset, nrfg) into one state machine that the CLI and library callers
// share. By centralizing this logic, every entry point gets the same
// ordering, prerequisite checks, logging and metrics.
//
// # Stages
//
// Each [Stage] is either empty or built. A stage can be created only when
// all its prerequisites are built and it is itself empty, and dropped only
// when every stage that depends on it is empty:
//
//	components → trees ─────────┐
//	     └──→ fusion_events → fusion_points → splits → consensus ─┐
//	                               └──→ subsets ──────────────────┴→ subgraphs → sewn → clean
//
// # Usage
//
// Load a model and run everything:
//
//	m, trees, err := io.ImportModel("model.json")
//	runner, err := pipeline.NewRunner(ctx, m, tools.NewickSource(trees), pipeline.Options{
//	    Tolerance: 10,
//	    Logger:    logger,
//	})
//	defer runner.Close()
//	result, err := runner.Execute(ctx)
//
// Or drive stages one at a time, e.g. to retry consensus with another
// cutoff:
//
//	_ = runner.Drop(pipeline.StageClean)   // dependents first
//	...
//	_ = runner.Drop(pipeline.StageConsensus)
//	runner.Options.Cutoff = 0.7
//	result, err := runner.Execute(ctx)
//
// The context is checked between stages only; a stage never stops halfway.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/cache"
	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/split"
	"github.com/matzehuels/nrfg/pkg/tools"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Callers
// =============================================================================

const (
	// DefaultCutoff is the consensus acceptance threshold.
	DefaultCutoff = split.DefaultCutoff

	// DefaultCacheTTL is how long tool outputs stay cached. Alignments are
	// deterministic, so the TTL only bounds disk usage.
	DefaultCacheTTL = 30 * 24 * time.Hour
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// ValidCacheBackends is the set of supported cache backends.
var ValidCacheBackends = map[string]bool{
	CacheFile:  true,
	CacheRedis: true,
	CacheNone:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a reconstruction run.
// Fields carry toml and yaml tags for [LoadConfig].
type Options struct {
	// Tolerance is the number of positions by which similarity ranges may
	// miss a sequence end and still count as whole-sequence matches.
	Tolerance int `toml:"tolerance" yaml:"tolerance"`

	// Cutoff is the support frequency a split must exceed to be accepted.
	// Zero selects DefaultCutoff.
	Cutoff float64 `toml:"cutoff" yaml:"cutoff"`

	// NoSuper drops subsets whose sequences are covered by other subsets.
	NoSuper bool `toml:"no_super" yaml:"no_super"`

	// Outgroups are accessions the final graph is re-rooted on, in
	// addition to any listed in the model.
	Outgroups []string `toml:"outgroups" yaml:"outgroups"`

	Tools tools.Commands `toml:"tools" yaml:"tools"`
	Cache CacheOptions   `toml:"cache" yaml:"cache"`

	// Runtime options (not loaded from config)
	Logger  *log.Logger   `toml:"-" yaml:"-"`
	Toolkit tools.Toolkit `toml:"-" yaml:"-"` // overrides Tools when set

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// CacheOptions selects where tool outputs are cached.
type CacheOptions struct {
	Backend string            `toml:"backend" yaml:"backend"`
	Dir     string            `toml:"dir" yaml:"dir"`
	TTL     time.Duration     `toml:"ttl" yaml:"ttl"`
	Scope   string            `toml:"scope" yaml:"scope"` // key prefix for shared backends
	Redis   cache.RedisConfig `toml:"redis" yaml:"redis"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateCacheBackend checks that a cache backend is supported.
func ValidateCacheBackend(backend string) error {
	if !ValidCacheBackends[backend] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid cache backend: %q (must be one of: file, redis, none)", backend)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateTolerance(o.Tolerance); err != nil {
		return err
	}
	if o.Cutoff == 0 {
		o.Cutoff = DefaultCutoff
	}
	if err := errors.ValidateCutoff(o.Cutoff); err != nil {
		return err
	}
	for _, acc := range o.Outgroups {
		if err := errors.ValidateAccession(acc); err != nil {
			return err
		}
	}
	if o.Tools == (tools.Commands{}) {
		o.Tools = tools.DefaultCommands
	}
	if err := o.Cache.setDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (c *CacheOptions) setDefaults() error {
	if c.Backend == "" {
		c.Backend = CacheFile
	}
	if err := ValidateCacheBackend(c.Backend); err != nil {
		return err
	}
	if c.TTL == 0 {
		c.TTL = DefaultCacheTTL
	}
	if c.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache ttl must be positive, got %s", c.TTL)
	}
	if c.Backend == CacheFile && c.Dir == "" {
		dir, err := cache.DefaultDir()
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOption, err, "no cache directory")
		}
		c.Dir = dir
	}
	if c.Backend == CacheRedis && c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	return nil
}

// AddOutgroups appends accessions not already listed.
func (o *Options) AddOutgroups(accs ...string) {
	for _, a := range accs {
		if !slices.Contains(o.Outgroups, a) {
			o.Outgroups = append(o.Outgroups, a)
		}
	}
}
