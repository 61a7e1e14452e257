package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRankHooks(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnComparison(ctx, "s", nil)
	h.OnComparison(ctx, "s", nil)
	h.OnComparison(ctx, "s", errors.New("out of bounds"))
	h.OnSkip(ctx, "s", nil)
	h.OnQuery(ctx, "s", true)
	h.OnQuery(ctx, "s", false)
	h.OnRanking(ctx, "s", 3, false, time.Millisecond)
	h.OnRanking(ctx, "s", 3, true, 0)
	h.OnRanking(ctx, "s", 3, true, 0)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"comparisons ok", testutil.ToFloat64(h.comparisons.WithLabelValues("ok")), 2},
		{"comparisons error", testutil.ToFloat64(h.comparisons.WithLabelValues("error")), 1},
		{"skips ok", testutil.ToFloat64(h.skips.WithLabelValues("ok")), 1},
		{"queries found", testutil.ToFloat64(h.queries.WithLabelValues("found")), 1},
		{"queries exhausted", testutil.ToFloat64(h.queries.WithLabelValues("exhausted")), 1},
		{"rankings hit", testutil.ToFloat64(h.rankings.WithLabelValues("hit")), 2},
		{"rankings miss", testutil.ToFloat64(h.rankings.WithLabelValues("miss")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestStoreHooks(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnLoad(ctx, "redis", true, time.Millisecond)
	h.OnLoad(ctx, "redis", false, time.Millisecond)
	h.OnSave(ctx, "redis", 2048, time.Millisecond)
	h.OnError(ctx, "file", "save", errors.New("disk full"))

	if got := testutil.ToFloat64(h.storeOps.WithLabelValues("redis", "load_hit")); got != 1 {
		t.Errorf("load_hit = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.storeOps.WithLabelValues("redis", "save")); got != 1 {
		t.Errorf("save = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.storeErrors.WithLabelValues("file", "save")); got != 1 {
		t.Errorf("store errors = %v, want 1", got)
	}
}

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.OnQuery(context.Background(), "s", true)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "pairrank_queries_total" {
			found = true
		}
	}
	if !found {
		t.Error("pairrank_queries_total not registered")
	}
}
