package kv

import (
	"context"
	"errors"
	"strings"
)

const (
	keyNamespace   = "wn"
	snapshotPrefix = "snapshot"
	cartScope      = "cart"
	wishlistScope  = "wishlist"
)

// ErrNotFound is returned when no snapshot exists under the requested key.
var ErrNotFound = errors.New("kv: key not found")

// Snapshots is the persistence port for the cart and wishlist stores. Writes
// are whole-value overwrites and concurrent writers are not arbitrated: the
// last write to a key wins.
type Snapshots interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// CartKey returns the namespaced snapshot key for a guest's cart.
func CartKey(token string) string {
	return buildKey(snapshotPrefix, cartScope, token)
}

// WishlistKey returns the namespaced snapshot key for a guest's wishlist.
func WishlistKey(token string) string {
	return buildKey(snapshotPrefix, wishlistScope, token)
}

func buildKey(parts ...string) string {
	if len(parts) == 0 {
		return keyNamespace
	}
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
