package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, "components")
	p.OnStageComplete(ctx, "components", time.Second, nil)
	p.OnWarning(ctx, "components")

	NoopToolHooks{}.OnToolCall(ctx, "align", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tree")
	c.OnCacheMiss(ctx, "align")
	c.OnCacheSet(ctx, "consensus", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Tool().(NoopToolHooks); !ok {
		t.Error("Tool() should return NoopToolHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customTool := &testToolHooks{}
	SetToolHooks(customTool)
	if Tool() != customTool {
		t.Error("SetToolHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnStageComplete(ctx, "splits", time.Millisecond, nil)
	h.OnStageComplete(ctx, "splits", time.Millisecond, errors.New("boom"))
	h.OnWarning(ctx, "components")
	h.OnToolCall(ctx, "align", time.Second, nil)
	h.OnCacheHit(ctx, "tree")
	h.OnCacheMiss(ctx, "tree")
	h.OnCacheSet(ctx, "tree", 10)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"stage ok", h.stages.WithLabelValues("splits", "ok"), 1},
		{"stage error", h.stages.WithLabelValues("splits", "error"), 1},
		{"warnings", h.warnings.WithLabelValues("components"), 1},
		{"tool calls", h.toolCalls.WithLabelValues("align", "ok"), 1},
		{"cache hit", h.cacheOps.WithLabelValues("tree", "hit"), 1},
		{"cache miss", h.cacheOps.WithLabelValues("tree", "miss"), 1},
		{"cache bytes", h.cacheBytes.WithLabelValues("tree"), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteTextfile(t *testing.T) {
	h := NewPrometheusHooks(prometheus.NewRegistry())
	h.OnToolCall(context.Background(), "tree", time.Second, nil)

	path := filepath.Join(t.TempDir(), "nrfg.prom")
	if err := h.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `nrfg_tool_calls_total{status="ok",tool="tree"} 1`) {
		t.Errorf("textfile missing tool counter:\n%s", data)
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testToolHooks struct{ NoopToolHooks }
type testCacheHooks struct{ NoopCacheHooks }
