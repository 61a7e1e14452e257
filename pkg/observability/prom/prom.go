// Package prom implements the observability hooks with Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	h := prom.New(reg)
//	observability.SetRankHooks(h)
//	observability.SetStoreHooks(h)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/pairrank/pkg/observability"
)

const namespace = "pairrank"

// Hooks records ranking and store events as Prometheus metrics.
// It implements both [observability.RankHooks] and [observability.StoreHooks].
type Hooks struct {
	comparisons    *prometheus.CounterVec
	skips          *prometheus.CounterVec
	queries        *prometheus.CounterVec
	rankings       *prometheus.CounterVec
	rankingLatency prometheus.Histogram
	rankingLevels  prometheus.Histogram

	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	storeBytes   *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
}

// New creates hooks whose collectors are registered with reg.
// A nil reg uses the default Prometheus registerer.
func New(reg prometheus.Registerer) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Hooks{
		comparisons: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Comparisons recorded, by result",
		}, []string{"result"}),
		skips: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skips_total",
			Help:      "Comparisons skipped without a judgement, by result",
		}, []string{"result"}),
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Next-query requests, by outcome",
		}, []string{"outcome"}),
		rankings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_total",
			Help:      "Ranking requests, by cache state",
		}, []string{"cache"}),
		rankingLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Ranking computation latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}),
		rankingLevels: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_levels",
			Help:      "Number of levels per computed ranking",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Session store operations, by backend and operation",
		}, []string{"backend", "op"}),
		storeLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_duration_seconds",
			Help:      "Session store latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"backend", "op"}),
		storeBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_write_bytes",
			Help:      "Encoded session size per write",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"backend"}),
		storeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed session store operations",
		}, []string{"backend", "op"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *Hooks) OnComparison(_ context.Context, _ string, err error) {
	h.comparisons.WithLabelValues(result(err)).Inc()
}

func (h *Hooks) OnSkip(_ context.Context, _ string, err error) {
	h.skips.WithLabelValues(result(err)).Inc()
}

func (h *Hooks) OnQuery(_ context.Context, _ string, found bool) {
	outcome := "exhausted"
	if found {
		outcome = "found"
	}
	h.queries.WithLabelValues(outcome).Inc()
}

func (h *Hooks) OnRanking(_ context.Context, _ string, levels int, cached bool, d time.Duration) {
	if cached {
		h.rankings.WithLabelValues("hit").Inc()
		return
	}
	h.rankings.WithLabelValues("miss").Inc()
	h.rankingLatency.Observe(d.Seconds())
	h.rankingLevels.Observe(float64(levels))
}

func (h *Hooks) OnLoad(_ context.Context, backend string, found bool, d time.Duration) {
	op := "load_miss"
	if found {
		op = "load_hit"
	}
	h.storeOps.WithLabelValues(backend, op).Inc()
	h.storeLatency.WithLabelValues(backend, "load").Observe(d.Seconds())
}

func (h *Hooks) OnSave(_ context.Context, backend string, size int, d time.Duration) {
	h.storeOps.WithLabelValues(backend, "save").Inc()
	h.storeLatency.WithLabelValues(backend, "save").Observe(d.Seconds())
	h.storeBytes.WithLabelValues(backend).Observe(float64(size))
}

func (h *Hooks) OnError(_ context.Context, backend, op string, _ error) {
	h.storeErrors.WithLabelValues(backend, op).Inc()
}

var (
	_ observability.RankHooks  = (*Hooks)(nil)
	_ observability.StoreHooks = (*Hooks)(nil)
)
