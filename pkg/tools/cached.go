package tools

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/nrfg/pkg/cache"
	"github.com/matzehuels/nrfg/pkg/observability"
)

// Fingerprinter is implemented by toolkits whose output depends on
// configuration. The fingerprint becomes part of every cache key.
type Fingerprinter interface {
	Fingerprint(tool string) string
}

// Cached memoises a toolkit. Cache failures degrade to running the tool.
type Cached struct {
	inner Toolkit
	store cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCached wraps inner. A nil keyer uses [cache.NewDefaultKeyer]; a ttl of
// zero keeps entries forever.
func NewCached(inner Toolkit, store cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{inner: inner, store: store, keyer: keyer, ttl: ttl}
}

// Align returns a cached alignment or runs the inner toolkit.
func (c *Cached) Align(ctx context.Context, fasta []byte) ([]byte, error) {
	return c.do(ctx, "align", fasta, func() ([]byte, error) {
		return c.inner.Align(ctx, fasta)
	})
}

// InferTree returns a cached tree or runs the inner toolkit.
func (c *Cached) InferTree(ctx context.Context, alignment []byte) (string, error) {
	out, err := c.do(ctx, "tree", alignment, func() ([]byte, error) {
		s, err := c.inner.InferTree(ctx, alignment)
		return []byte(s), err
	})
	return string(out), err
}

// Consensus returns a cached consensus or runs the inner toolkit.
func (c *Cached) Consensus(ctx context.Context, newicks []string) (string, error) {
	input := []byte(strings.Join(newicks, "\n"))
	out, err := c.do(ctx, "consensus", input, func() ([]byte, error) {
		s, err := c.inner.Consensus(ctx, newicks)
		return []byte(s), err
	})
	return string(out), err
}

func (c *Cached) do(ctx context.Context, tool string, input []byte, run func() ([]byte, error)) ([]byte, error) {
	var fp string
	if f, ok := c.inner.(Fingerprinter); ok {
		fp = f.Fingerprint(tool)
	}
	key := c.keyer.ToolKey(tool, fp, input)

	if data, ok, err := c.store.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, tool)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, tool)

	out, err := run()
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, out, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, tool, len(out))
	}
	return out, nil
}
