package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wrapnest/storefront-backend/pkg/kv"
)

func newTestStore(t *testing.T, snapshots kv.Snapshots) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), StoreParams{
		Snapshots: snapshots,
		Key:       kv.CartKey("guest-1"),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func item(productID, variant string, price int64, qty int) ItemInput {
	return ItemInput{
		ProductID: productID,
		Name:      "Matte Black Skin",
		Price:     decimal.NewFromInt(price),
		Quantity:  qty,
		Image:     "data:image/webp;base64,xxx",
		Variant:   variant,
	}
}

func TestAddItemMergesIdenticalProductVariant(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	if err := store.AddItem(ctx, item("p1", "iPhone 14", 100, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddItem(ctx, item("p1", "iPhone 14", 100, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
}

func TestAddItemVariantSensitiveIdentity(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	if err := store.AddItem(ctx, item("p1", "iPhone 14", 100, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddItem(ctx, item("p1", "iPhone 15", 100, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	if got := len(store.Lines()); got != 2 {
		t.Fatalf("expected two distinct lines, got %d", got)
	}
}

func TestRemoveByIDVersusProduct(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 1))
	_ = store.AddItem(ctx, item("p1", "iPhone 15", 100, 1))
	_ = store.AddItem(ctx, item("p2", "MacBook Air M2", 150, 1))

	lines := store.Lines()
	if err := store.RemoveItem(ctx, lines[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := len(store.Lines()); got != 2 {
		t.Fatalf("expected 2 lines after targeted removal, got %d", got)
	}

	if err := store.RemoveByProductID(ctx, "p1"); err != nil {
		t.Fatalf("remove by product: %v", err)
	}
	remaining := store.Lines()
	if len(remaining) != 1 || remaining[0].ProductID != "p2" {
		t.Fatalf("expected only p2 to remain, got %+v", remaining)
	}

	// removing an unknown id is a silent no-op
	if err := store.RemoveItem(ctx, "nope"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestUpdateQuantityFloorRemovesLine(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 2))
	id := store.Lines()[0].ID

	if err := store.UpdateQuantity(ctx, id, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("quantity 0 should remove the line, got %d lines", got)
	}

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 2))
	id = store.Lines()[0].ID
	if err := store.UpdateQuantity(ctx, id, -5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("negative quantity should remove the line, got %d lines", got)
	}

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 1))
	id = store.Lines()[0].ID
	if err := store.UpdateQuantity(ctx, id, 7); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := store.Lines()[0].Quantity; got != 7 {
		t.Fatalf("expected quantity 7, got %d", got)
	}
}

func TestTotals(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 2))
	_ = store.AddItem(ctx, item("p2", "L", 50, 3))

	if got := store.TotalItems(); got != 5 {
		t.Fatalf("expected 5 total items, got %d", got)
	}
	if got := store.TotalPrice(); !got.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected total 350, got %s", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	snapshots := kv.NewMemory()
	store := newTestStore(t, snapshots)
	ctx := context.Background()

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 2))
	_ = store.AddItem(ctx, item("p2", "MacBook Air M2", 150, 1))
	_ = store.UpdateQuantity(ctx, store.Lines()[1].ID, 4)

	rebuilt := newTestStore(t, snapshots)

	want := store.Lines()
	got := rebuilt.Lines()
	if len(got) != len(want) {
		t.Fatalf("line count mismatch: want %d got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Quantity != want[i].Quantity ||
			got[i].Variant != want[i].Variant || !got[i].Price.Equal(want[i].Price) {
			t.Fatalf("line %d mismatch: want %+v got %+v", i, want[i], got[i])
		}
	}
}

func TestMalformedSnapshotStartsEmpty(t *testing.T) {
	t.Parallel()

	snapshots := kv.NewMemory()
	key := kv.CartKey("guest-1")
	_ = snapshots.Set(context.Background(), key, []byte("{not json"))

	store := newTestStore(t, snapshots)
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("corrupt snapshot should yield an empty cart, got %d lines", got)
	}
}

func TestClearPurgesSnapshotKey(t *testing.T) {
	t.Parallel()

	snapshots := kv.NewMemory()
	store := newTestStore(t, snapshots)
	ctx := context.Background()

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 1))
	if _, err := snapshots.Get(ctx, kv.CartKey("guest-1")); err != nil {
		t.Fatalf("snapshot should exist before clear: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := snapshots.Get(ctx, kv.CartKey("guest-1")); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("clear must purge the key, got %v", err)
	}
	if got := len(store.Lines()); got != 0 {
		t.Fatalf("expected empty cart after clear, got %d", got)
	}
}

func TestSubscribeNotifiesOnMutations(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	calls := 0
	unsubscribe := store.Subscribe(func() { calls++ })

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 1))
	_ = store.UpdateQuantity(ctx, store.Lines()[0].ID, 3)
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}

	// removing an absent id does not notify
	_ = store.RemoveItem(ctx, "missing")
	if calls != 2 {
		t.Fatalf("no-op removal should not notify, got %d", calls)
	}

	unsubscribe()
	_ = store.Clear(ctx)
	if calls != 2 {
		t.Fatalf("unsubscribed listener was notified, got %d", calls)
	}
}

func TestListenerReadsStoreStateDuringNotify(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	var totals []int
	store.Subscribe(func() {
		totals = append(totals, store.TotalItems())
		_ = store.TotalPrice()
		_ = store.Lines()
	})

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 2))
	_ = store.UpdateQuantity(ctx, store.Lines()[0].ID, 5)
	_ = store.Clear(ctx)

	want := []int{2, 5, 0}
	if len(totals) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(totals))
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Fatalf("notification %d saw %d total items, want %d", i, totals[i], want[i])
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

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 1))
	_ = store.AddItem(ctx, item("p2", "L", 50, 1))
	if calls != 1 {
		t.Fatalf("self-unsubscribing listener fired %d times, want 1", calls)
	}
}

func TestLineIDsAreUniqueAndNeverReused(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, kv.NewMemory())
	ctx := context.Background()

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 1))
	first := store.Lines()[0].ID
	_ = store.RemoveItem(ctx, first)

	_ = store.AddItem(ctx, item("p1", "iPhone 14", 100, 1))
	second := store.Lines()[0].ID
	if first == second {
		t.Fatal("line ids must not be reused after removal")
	}
}
