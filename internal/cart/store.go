package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrapnest/storefront-backend/pkg/kv"
	"github.com/wrapnest/storefront-backend/pkg/logger"
	"github.com/wrapnest/storefront-backend/pkg/metrics"
)

// Line is a single cart entry for one product+variant combination.
type Line struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image"`
	Variant     string          `json:"variant"`
	DeviceModel string          `json:"device_model,omitempty"`
}

// ItemInput carries the product snapshot taken at add time. The store accepts
// the values as given; callers validate at the transport boundary.
type ItemInput struct {
	ProductID   string
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Image       string
	Variant     string
	DeviceModel string
}

// Store holds one guest's cart lines and writes the full snapshot to the
// persistence adapter after every mutation. A store is rehydrated once at
// construction; concurrent stores sharing a key are last-write-wins.
type Store struct {
	mu        sync.Mutex
	snapshots kv.Snapshots
	key       string
	logg      *logger.Logger
	metrics   *metrics.StoreMetrics

	lines   []Line
	subs    map[int]func()
	nextSub int
}

// StoreParams groups the dependencies for a cart store.
type StoreParams struct {
	Snapshots kv.Snapshots
	Key       string
	Logger    *logger.Logger
	Metrics   *metrics.StoreMetrics
}

// NewStore builds a cart store and rehydrates it from the persisted snapshot.
// A missing or malformed snapshot degrades to an empty cart.
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
			s.logg.Warn(ctx, "cart snapshot unavailable, starting empty")
		}
		return
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.metrics.IncSnapshotRecovery("cart")
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding malformed cart snapshot")
		}
		return
	}
	s.lines = lines
}

// AddItem merges into an existing line with the same (product, variant) pair
// or appends a new line with a fresh id. Always persists.
func (s *Store) AddItem(ctx context.Context, input ItemInput) error {
	s.mu.Lock()

	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == input.ProductID && s.lines[i].Variant == input.Variant {
			s.lines[i].Quantity += input.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{
			ID:          uuid.NewString(),
			ProductID:   input.ProductID,
			Name:        input.Name,
			Price:       input.Price,
			Quantity:    input.Quantity,
			Image:       input.Image,
			Variant:     input.Variant,
			DeviceModel: input.DeviceModel,
		})
	}

	s.metrics.IncMutation("cart", "add")
	if err := s.persist(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

// RemoveItem drops the line with the given id. No-op when absent.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	return s.remove(ctx, func(l Line) bool { return l.ID == id }, "remove")
}

// RemoveByProductID drops every line for the product, regardless of variant.
func (s *Store) RemoveByProductID(ctx context.Context, productID string) error {
	return s.remove(ctx, func(l Line) bool { return l.ProductID == productID }, "remove_product")
}

// UpdateQuantity sets the line quantity. A quantity of zero or below is the
// removal trigger, never a stored value.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return s.remove(ctx, func(l Line) bool { return l.ID == id }, "remove")
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines[i].Quantity = quantity
			s.metrics.IncMutation("cart", "update_quantity")
			if err := s.persist(ctx); err != nil {
				s.mu.Unlock()
				return err
			}
			subs := s.subscribersLocked()
			s.mu.Unlock()

			notify(subs)
			return nil
		}
	}
	s.mu.Unlock()
	return nil
}

// Clear empties the cart and purges the persisted snapshot instead of
// overwriting it.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()

	s.lines = nil
	s.metrics.IncMutation("cart", "clear")
	if err := s.snapshots.Del(ctx, s.key); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

func (s *Store) remove(ctx context.Context, match func(Line) bool, op string) error {
	s.mu.Lock()

	kept := s.lines[:0:0]
	for _, line := range s.lines {
		if !match(line) {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(s.lines) {
		s.mu.Unlock()
		return nil
	}
	s.lines = kept

	s.metrics.IncMutation("cart", op)
	if err := s.persist(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	snapshot := s.lines
	if snapshot == nil {
		snapshot = []Line{}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.snapshots.Set(ctx, s.key, raw)
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalItems is the sum of all quantities, recomputed per call.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the sum of price*quantity across lines, recomputed per call.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Subscribe registers a listener invoked after every mutation and returns the
// matching unsubscribe function.
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
