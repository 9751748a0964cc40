package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, CartKey("g1"), []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, err := store.Get(ctx, CartKey("g1"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("unexpected value %q", raw)
	}

	if err := store.Del(ctx, CartKey("g1")); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := store.Get(ctx, CartKey("g1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after del, got %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()

	payload := []byte(`{"a":1}`)
	if err := store.Set(ctx, "k", payload); err != nil {
		t.Fatalf("set: %v", err)
	}
	payload[0] = 'X'

	raw, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != `{"a":1}` {
		t.Fatalf("stored value was aliased: %q", raw)
	}
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	if got := CartKey("abc"); got != "wn:snapshot:cart:abc" {
		t.Fatalf("unexpected cart key %q", got)
	}
	if got := WishlistKey("abc"); got != "wn:snapshot:wishlist:abc" {
		t.Fatalf("unexpected wishlist key %q", got)
	}
	if got := CartKey(""); got != "wn:snapshot:cart" {
		t.Fatalf("empty token should be skipped, got %q", got)
	}
}
