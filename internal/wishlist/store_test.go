package wishlist

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wrapnest/storefront-backend/pkg/kv"
	"github.com/wrapnest/storefront-backend/pkg/metrics"
)

func newTestStore(t *testing.T, snapshots kv.Snapshots) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), StoreParams{
		Snapshots: snapshots,
		Key:       kv.WishlistKey("guest-1"),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func entry(productID string) Entry {
	return Entry{
		ProductID: productID,
		Slug:      "matte-black-skin",
		Name:      "Matte Black Skin",
		Image:     "data:image/webp;base64,xxx",
		InStock:   true,
	}
}

func TestSetSemantics(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	if err := store.Add(ctx, entry("p1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Add(ctx, entry("p1")); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}

	if got := store.Count(); got != 1 {
		t.Fatalf("expected count 1 after duplicate add, got %d", got)
	}
	if !store.Contains("p1") {
		t.Fatal("expected p1 to be wishlisted")
	}

	if err := store.Remove(ctx, "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if store.Contains("p1") {
		t.Fatal("p1 should be gone after removal")
	}
	if got := store.Count(); got != 0 {
		t.Fatalf("expected count 0 after removal, got %d", got)
	}
}

func TestDuplicateAddSkipsPersistence(t *testing.T) {
	t.Parallel()

	snapshots := &countingSnapshots{Snapshots: kv.NewMemory()}
	store := newTestStore(t, snapshots)
	ctx := context.Background()

	_ = store.Add(ctx, entry("p1"))
	writes := snapshots.sets
	_ = store.Add(ctx, entry("p1"))
	if snapshots.sets != writes {
		t.Fatalf("duplicate add wrote a snapshot: %d -> %d", writes, snapshots.sets)
	}

	_ = store.Remove(ctx, "absent")
	if snapshots.sets != writes {
		t.Fatalf("absent removal wrote a snapshot: %d -> %d", writes, snapshots.sets)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	snapshots := kv.NewMemory()
	store := newTestStore(t, snapshots)
	ctx := context.Background()

	_ = store.Add(ctx, entry("p1"))
	_ = store.Add(ctx, entry("p2"))

	rebuilt := newTestStore(t, snapshots)
	if got := rebuilt.Count(); got != 2 {
		t.Fatalf("expected 2 entries after rehydration, got %d", got)
	}
	if !rebuilt.Contains("p1") || !rebuilt.Contains("p2") {
		t.Fatal("rehydrated store lost entries")
	}
}

func TestRehydrationCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	snapshots := kv.NewMemory()
	key := kv.WishlistKey("guest-1")
	raw := []byte(`[
		{"product_id":"p1","name":"Matte Black Skin"},
		{"product_id":"p1","name":"Matte Black Skin"},
		{"product_id":"p2","name":"Carbon Tee"},
		{"bogus":true},
		"garbage"
	]`)
	_ = snapshots.Set(context.Background(), key, raw)

	store := newTestStore(t, snapshots)
	if got := store.Count(); got != 2 {
		t.Fatalf("expected duplicates and junk to collapse to 2 entries, got %d", got)
	}
}

func TestMalformedSnapshotStartsEmpty(t *testing.T) {
	t.Parallel()

	snapshots := kv.NewMemory()
	_ = snapshots.Set(context.Background(), kv.WishlistKey("guest-1"), []byte("not json"))

	store := newTestStore(t, snapshots)
	if got := store.Count(); got != 0 {
		t.Fatalf("corrupt snapshot should yield an empty wishlist, got %d", got)
	}
}

func TestSubscribeFiresOnStateChangesOnly(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	calls := 0
	unsubscribe := store.Subscribe(func() { calls++ })

	_ = store.Add(ctx, entry("p1"))
	_ = store.Add(ctx, entry("p1"))
	_ = store.Remove(ctx, "absent")
	if calls != 1 {
		t.Fatalf("no-op mutations must not notify, got %d calls", calls)
	}

	_ = store.Remove(ctx, "p1")
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}

	unsubscribe()
	_ = store.Add(ctx, entry("p2"))
	if calls != 2 {
		t.Fatalf("unsubscribed listener was notified, got %d", calls)
	}
}

func TestListenerReadsStoreStateDuringNotify(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	var counts []int
	store.Subscribe(func() {
		counts = append(counts, store.Count())
		_ = store.Contains("p1")
		_ = store.Entries()
	})

	_ = store.Add(ctx, entry("p1"))
	_ = store.Add(ctx, entry("p2"))
	_ = store.Remove(ctx, "p1")
	_ = store.Clear(ctx)

	want := []int{1, 2, 1, 0}
	if len(counts) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(counts))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("notification %d saw count %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestListenerMayUnsubscribeItself(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	calls := 0
	var unsubscribe func()
	unsubscribe = store.Subscribe(func() {
		calls++
		unsubscribe()
	})

	_ = store.Add(ctx, entry("p1"))
	_ = store.Add(ctx, entry("p2"))
	if calls != 1 {
		t.Fatalf("self-unsubscribing listener fired %d times, want 1", calls)
	}
}

func TestRehydrationFlagsEntriesMissingProductID(t *testing.T) {
	t.Parallel()

	snapshots := kv.NewMemory()
	key := kv.WishlistKey("guest-1")
	raw := []byte(`[{"name":"ghost"},{"product_id":"p1","name":"Matte Black Skin"}]`)
	_ = snapshots.Set(context.Background(), key, raw)

	reg := prometheus.NewRegistry()
	store, err := NewStore(context.Background(), StoreParams{
		Snapshots: snapshots,
		Key:       key,
		Metrics:   metrics.NewStoreMetrics(reg),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if got := store.Count(); got != 1 {
		t.Fatalf("expected only the valid entry, got %d", got)
	}
	if got := recoveryCount(t, reg); got != 1 {
		t.Fatalf("expected 1 snapshot recovery, got %v", got)
	}
}

func recoveryCount(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "store_snapshot_recoveries_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "store" && label.GetValue() == "wishlist" {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

type countingSnapshots struct {
	kv.Snapshots
	sets int
}

func (c *countingSnapshots) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.Snapshots.Set(ctx, key, value)
}
