package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records cart/wishlist store activity.
type StoreMetrics struct {
	mutations  *prometheus.CounterVec
	recoveries *prometheus.CounterVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_mutations_total",
		Help: "Mutations applied to client stores.",
	}, []string{"store", "op"})
	recoveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_snapshot_recoveries_total",
		Help: "Malformed snapshots discarded during rehydration.",
	}, []string{"store"})
	reg.MustRegister(mutations, recoveries)
	return &StoreMetrics{
		mutations:  mutations,
		recoveries: recoveries,
	}
}

// IncMutation increments the mutation counter for the store/op pair.
func (m *StoreMetrics) IncMutation(store, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(store), normalizeLabel(op)).Inc()
}

// IncSnapshotRecovery increments the recovery counter for the named store.
func (m *StoreMetrics) IncSnapshotRecovery(store string) {
	if m == nil || m.recoveries == nil {
		return
	}
	m.recoveries.WithLabelValues(normalizeLabel(store)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
