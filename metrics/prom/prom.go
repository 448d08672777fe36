// Package prom adapts the cache engine's metrics hooks to Prometheus.
package prom

import (
	"github.com/ankyy-yy/multi-threaded-fs/cache"
	"github.com/ankyy-yy/multi-threaded-fs/shard"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	evicts  *prometheus.CounterVec
	sizeEnt prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Cache evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

// Size updates the resident-entry-count gauge. Unlike the teacher's
// adapter there is no cost gauge: this domain has no byte-cost accounting,
// only entry-count capacity (see SPEC_FULL.md's Non-goals).
func (a *Adapter) Size(entries int) {
	a.sizeEnt.Set(float64(entries))
}

// reason maps EvictReason to a stable label value.
func reason(r cache.EvictReason) string {
	switch r {
	case cache.EvictRemove:
		return "remove"
	case cache.EvictClear:
		return "clear"
	default:
		return "policy"
	}
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)

// ConcurrentAdapter exports the sharded manager's async/concurrency
// counters (concurrent_stats in §3) as Prometheus gauges. It is separate
// from Adapter because those counters live one layer up, at C5, not on
// the per-entry Metrics interface every C3 instance sees.
type ConcurrentAdapter struct {
	totalAsync     prometheus.Gauge
	completedAsync prometheus.Gauge
	failedAsync    prometheus.Gauge
	avgLatencyMs   prometheus.Gauge
}

// NewConcurrentAdapter constructs a ConcurrentAdapter. Call Collect
// periodically (e.g. from a periodic cleanup tick) with the manager's
// ConcurrentStatistics snapshot.
func NewConcurrentAdapter(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *ConcurrentAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &ConcurrentAdapter{
		totalAsync: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "async_total", Help: "Total async operations submitted", ConstLabels: constLabels,
		}),
		completedAsync: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "async_completed", Help: "Completed async operations", ConstLabels: constLabels,
		}),
		failedAsync: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "async_failed", Help: "Failed async operations", ConstLabels: constLabels,
		}),
		avgLatencyMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "async_avg_latency_ms", Help: "Running average async operation latency in milliseconds", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.totalAsync, a.completedAsync, a.failedAsync, a.avgLatencyMs)
	return a
}

// Collect pushes a ConcurrentStats snapshot into the gauges.
func (a *ConcurrentAdapter) Collect(s shard.ConcurrentStats) {
	a.totalAsync.Set(float64(s.TotalAsync))
	a.completedAsync.Set(float64(s.CompletedAsync))
	a.failedAsync.Set(float64(s.FailedAsync))
	a.avgLatencyMs.Set(float64(s.RunningAvgLatency.Milliseconds()))
}
