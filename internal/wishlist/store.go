package wishlist

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"

	"github.com/wrapnest/storefront-backend/pkg/kv"
	"github.com/wrapnest/storefront-backend/pkg/logger"
	"github.com/wrapnest/storefront-backend/pkg/metrics"
)

// Entry is the product snapshot kept for a wishlisted product. The snapshot is
// taken at add time and is not refreshed when the catalog changes.
type Entry struct {
	ProductID string          `json:"product_id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Price     json.RawMessage `json:"price"`
	Image     string          `json:"image"`
	InStock   bool            `json:"in_stock"`
}

// Store holds one guest's wishlist as a set keyed by product id. Every
// state-changing mutation writes the full snapshot; duplicate adds and absent
// removals never touch the persistence adapter.
type Store struct {
	mu        sync.Mutex
	snapshots kv.Snapshots
	key       string
	logg      *logger.Logger
	metrics   *metrics.StoreMetrics

	entries []Entry
	subs    map[int]func()
	nextSub int
}

// StoreParams groups the dependencies for a wishlist store.
type StoreParams struct {
	Snapshots kv.Snapshots
	Key       string
	Logger    *logger.Logger
	Metrics   *metrics.StoreMetrics
}

// NewStore builds a wishlist store and rehydrates it from the persisted
// snapshot. Rehydration replays each entry through the add path so a snapshot
// carrying duplicates collapses back to set semantics.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Snapshots == nil {
		return nil, errors.New("snapshot store is required")
	}
	if params.Key == "" {
		return nil, errors.New("snapshot key is required")
	}

	s := &Store{
		snapshots: params.Snapshots,
		key:       params.Key,
		logg:      params.Logger,
		metrics:   params.Metrics,
		subs:      map[int]func(){},
	}
	s.rehydrate(ctx)
	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) {
	raw, err := s.snapshots.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && s.logg != nil {
			s.logg.Warn(ctx, "wishlist snapshot unavailable, starting empty")
		}
		return
	}

	var persisted []json.RawMessage
	if err := json.Unmarshal(raw, &persisted); err != nil {
		s.metrics.IncSnapshotRecovery("wishlist")
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding malformed wishlist snapshot")
		}
		return
	}

	var decodeErrs error
	for _, item := range persisted {
		var entry Entry
		if err := json.Unmarshal(item, &entry); err != nil {
			decodeErrs = multierr.Append(decodeErrs, err)
			continue
		}
		if entry.ProductID == "" {
			decodeErrs = multierr.Append(decodeErrs, errors.New("entry missing product_id"))
			continue
		}
		s.addLocked(entry)
	}
	if decodeErrs != nil {
		s.metrics.IncSnapshotRecovery("wishlist")
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", decodeErrs.Error()),
				"skipped undecodable wishlist entries")
		}
	}
}

// addLocked appends the entry unless the product id is already present.
func (s *Store) addLocked(entry Entry) bool {
	for _, existing := range s.entries {
		if existing.ProductID == entry.ProductID {
			return false
		}
	}
	s.entries = append(s.entries, entry)
	return true
}

// Add inserts the product snapshot. Adding a product already present is a
// no-op and skips the persistence write.
func (s *Store) Add(ctx context.Context, entry Entry) error {
	s.mu.Lock()

	if !s.addLocked(entry) {
		s.mu.Unlock()
		return nil
	}

	s.metrics.IncMutation("wishlist", "add")
	if err := s.persist(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

// Remove drops the entry for the product id. No-op when absent.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()

	kept := s.entries[:0:0]
	for _, entry := range s.entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(s.entries) {
		s.mu.Unlock()
		return nil
	}
	s.entries = kept

	s.metrics.IncMutation("wishlist", "remove")
	if err := s.persist(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

// Contains reports membership for the product id without side effects.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Count is the number of wishlisted products.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the current entry list.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear empties the wishlist and purges the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()

	s.entries = nil
	s.metrics.IncMutation("wishlist", "clear")
	if err := s.snapshots.Del(ctx, s.key); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	snapshot := s.entries
	if snapshot == nil {
		snapshot = []Entry{}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.snapshots.Set(ctx, s.key, raw)
}

// Subscribe registers a listener invoked after every state change and returns
// the matching unsubscribe function.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) subscribersLocked() []func() {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// notify runs with the store lock released so a listener may read store state
// or unsubscribe itself.
func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
