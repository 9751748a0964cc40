package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStoreMetricsCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)

	m.IncMutation("cart", "add")
	m.IncMutation("cart", "add")
	m.IncSnapshotRecovery("wishlist")

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("cart", "add")); got != 2 {
		t.Fatalf("expected 2 add mutations, got %v", got)
	}
	if got := testutil.ToFloat64(m.recoveries.WithLabelValues("wishlist")); got != 1 {
		t.Fatalf("expected 1 recovery, got %v", got)
	}
}

func TestStoreMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *StoreMetrics
	m.IncMutation("cart", "add")
	m.IncSnapshotRecovery("cart")

	unregistered := NewStoreMetrics(nil)
	unregistered.IncMutation("", "")
}
