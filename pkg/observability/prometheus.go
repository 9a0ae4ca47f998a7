package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors registered with a caller-supplied registry.
type PrometheusHooks struct {
	reg prometheus.Gatherer

	stages       *prometheus.CounterVec
	stageSeconds *prometheus.HistogramVec
	warnings     *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	toolSeconds  *prometheus.HistogramVec
	cacheOps     *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec
}

// NewPrometheusHooks registers the nrfg collectors with reg.
func NewPrometheusHooks(reg *prometheus.Registry) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		reg: reg,
		stages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nrfg_stage_runs_total",
			Help: "Stages run, labeled by outcome",
		}, []string{"stage", "status"}),
		stageSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nrfg_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
		}, []string{"stage"}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nrfg_stage_warnings_total",
			Help: "Non-fatal warnings raised by stages",
		}, []string{"stage"}),
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nrfg_tool_calls_total",
			Help: "External tool invocations, labeled by outcome",
		}, []string{"tool", "status"}),
		toolSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nrfg_tool_duration_seconds",
			Help:    "Duration of external tool invocations in seconds",
			Buckets: []float64{0.01, 0.1, 1, 5, 30, 120, 600, 3600},
		}, []string{"tool"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nrfg_cache_operations_total",
			Help: "Cache lookups and writes",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nrfg_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}, []string{"key_type"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnStageStart(context.Context, string) {}

func (h *PrometheusHooks) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	h.stages.WithLabelValues(stage, status(err)).Inc()
	h.stageSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnWarning(_ context.Context, stage string) {
	h.warnings.WithLabelValues(stage).Inc()
}

func (h *PrometheusHooks) OnToolCall(_ context.Context, tool string, d time.Duration, err error) {
	h.toolCalls.WithLabelValues(tool, status(err)).Inc()
	h.toolSeconds.WithLabelValues(tool).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// WriteTextfile writes the current metrics in the node_exporter textfile
// format, for batch runs that exit before anything could scrape them.
func (h *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.reg)
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ ToolHooks     = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
)
