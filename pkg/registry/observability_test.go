package registry

import (
	"context"
	"expvar"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "lookup", true, 5*time.Millisecond)
	rec.Observe(ctx, "lookup", false, 2*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	snapshot := rec.Snapshot()
	if snapshot.Results["lookup"]["success"] != 1 || snapshot.Results["lookup"]["error"] != 1 {
		t.Fatalf("results = %+v", snapshot.Results)
	}
	if snapshot.DurationsMS["lookup"] <= 0 {
		t.Fatalf("durations = %+v", snapshot.DurationsMS)
	}
	if expvar.Get(rec.Name()) == nil {
		t.Fatalf("recorder %q not published", rec.Name())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	rec := NewPrometheusMetricsRecorder(prometheus.NewRegistry())
	ctx := context.Background()

	rec.Observe(ctx, "lookup", true, 5*time.Millisecond)
	rec.Observe(ctx, "lookup", true, 3*time.Millisecond)
	rec.Observe(ctx, "search_by_name", false, time.Millisecond)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("lookup", "success")); got != 2 {
		t.Fatalf("lookup success count = %v", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("search_by_name", "error")); got != 1 {
		t.Fatalf("search error count = %v", got)
	}
	if got := testutil.CollectAndCount(rec.latency); got != 2 {
		t.Fatalf("latency series = %d", got)
	}
}

func TestRegistryRecordsMetrics(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	reg, err := Open(Options{Metrics: rec})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reg.Close()
	ctx := context.Background()

	if _, err := reg.Lookup(ctx, "EPSG", "4326", CategoryGeodeticCRS); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := reg.Lookup(ctx, "EPSG", "999999", CategoryGeodeticCRS); err == nil {
		t.Fatal("expected a miss")
	}

	snapshot := rec.Snapshot()
	if snapshot.Results["lookup"]["success"] != 1 || snapshot.Results["lookup"]["error"] != 1 {
		t.Fatalf("results = %+v", snapshot.Results)
	}
}
