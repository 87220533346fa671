// Package cart owns the authoritative in-memory cart. Local state is the
// source of truth for the UI; the local cache and the remote mirror are
// best-effort sinks that may lag behind it.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/cache"
	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/mirror"
	"github.com/danjocayabyab/Furnihive-sub000/internal/stock"
)

var ErrItemNotFound = errors.New("item not found in cart")

const sinkTimeout = time.Second

// Store holds one identity's cart in memory and fans mutations out to the
// cache and mirror sinks. Sink failures never roll back local state.
type Store struct {
	mu       sync.Mutex
	identity domain.Identity
	items    []domain.CartItem
	// gen increments on every local mutation and identity switch; an async
	// mirror fetch only commits if gen is unchanged since it started
	gen    uint64
	closed bool

	cache  cache.CartCache
	mirror mirror.CartMirror

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func NewStore(c cache.CartCache, m mirror.CartMirror) *Store {
	return &Store{
		identity: domain.Guest(),
		cache:    c,
		mirror:   m,
		subs:     make(map[int]func()),
	}
}

// Identity returns the current cart owner.
func (s *Store) Identity() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Add inserts a new line or merges quantity into an existing one, clamping
// against the item's stock limit either way.
func (s *Store) Add(item domain.CartItem, qty int) {
	s.mu.Lock()
	var line domain.CartItem
	if idx := s.indexOf(item.ProductID); idx >= 0 {
		s.items[idx].Quantity = stock.MergeQuantity(s.items[idx].Quantity, qty, s.items[idx].StockLimit)
		line = s.items[idx]
	} else {
		item.Quantity = stock.ClampQuantity(qty, item.StockLimit)
		if item.AddedAt.IsZero() {
			item.AddedAt = time.Now()
		}
		s.items = append(s.items, item)
		line = item
	}
	s.gen++
	owner := s.identity.Key()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify()
	s.persist(owner, snapshot, func(ctx context.Context) error {
		return s.mirror.UpsertCartLine(ctx, owner, line)
	})
}

// SetQuantity replaces a line's quantity, clamped to its stock limit.
// Reports ErrItemNotFound when the product is absent.
func (s *Store) SetQuantity(productID string, qty int) error {
	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	s.items[idx].Quantity = stock.ClampQuantity(qty, s.items[idx].StockLimit)
	line := s.items[idx]
	s.gen++
	owner := s.identity.Key()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify()
	s.persist(owner, snapshot, func(ctx context.Context) error {
		return s.mirror.UpsertCartLine(ctx, owner, line)
	})
	return nil
}

// Remove deletes a line.
func (s *Store) Remove(productID string) error {
	s.mu.Lock()
	idx := s.indexOf(productID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.gen++
	owner := s.identity.Key()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify()
	s.persist(owner, snapshot, func(ctx context.Context) error {
		return s.mirror.DeleteCartLine(ctx, owner, productID)
	})
	return nil
}

// Clear empties the cart for the current identity.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.gen++
	owner := s.identity.Key()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify()
	s.persist(owner, snapshot, func(ctx context.Context) error {
		err := s.mirror.DeleteCart(ctx, owner)
		if errors.Is(err, mirror.ErrCartNotFound) {
			return nil
		}
		return err
	})
}

// Subtotal sums unit price times quantity over the whole cart, or over the
// given product ids when checkout proceeds with a partial selection.
func (s *Store) Subtotal(selected ...string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum int64
	if len(selected) == 0 {
		for _, it := range s.items {
			sum += it.Subtotal()
		}
		return sum
	}

	want := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	for _, it := range s.items {
		if _, ok := want[it.ProductID]; ok {
			sum += it.Subtotal()
		}
	}
	return sum
}

// Selected returns copies of the lines matching the given product ids, in
// cart order. With no ids it returns the whole cart.
func (s *Store) Selected(ids ...string) []domain.CartItem {
	if len(ids) == 0 {
		return s.Items()
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, 0, len(ids))
	for _, it := range s.items {
		if _, ok := want[it.ProductID]; ok {
			out = append(out, it)
		}
	}
	return out
}

// SetIdentity switches the cart owner. The in-memory cart is replaced with
// the new identity's cached snapshot (empty on a miss); for authenticated
// buyers the remote mirror is then fetched in the background and replaces
// the cart again on arrival, re-adding each line so stock clamps are
// re-validated. A fetch that resolves after any further local edit or
// identity change is discarded.
func (s *Store) SetIdentity(ctx context.Context, id domain.Identity) {
	s.mu.Lock()
	if s.closed || s.identity.Equal(id) {
		s.mu.Unlock()
		return
	}
	s.identity = id
	s.items = nil
	s.gen++
	fetchGen := s.gen
	s.mu.Unlock()

	cached, err := s.cache.Get(ctx, id.Key())
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cart cache load error: %v", err)
	}

	s.mu.Lock()
	if s.closed || s.gen != fetchGen {
		s.mu.Unlock()
		return
	}
	if cached != nil {
		for _, line := range cached.Items {
			line.Quantity = stock.ClampQuantity(line.Quantity, line.StockLimit)
			s.items = append(s.items, line)
		}
	}
	s.mu.Unlock()
	s.notify()

	if !id.IsBuyer() {
		return
	}

	go s.rehydrateFromMirror(id, fetchGen)
}

func (s *Store) rehydrateFromMirror(id domain.Identity, fetchGen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lines, err := s.mirror.ListCartLines(ctx, id.Key())
	if err != nil {
		if !errors.Is(err, mirror.ErrCartNotFound) {
			log.Printf("cart mirror fetch error: %v", err)
		}
		return
	}

	s.mu.Lock()
	if s.closed || s.gen != fetchGen {
		// the user kept editing (or switched identity) while the fetch was
		// in flight; their edits win
		s.mu.Unlock()
		return
	}
	s.items = nil
	for _, line := range lines {
		line.Quantity = stock.ClampQuantity(line.Quantity, line.StockLimit)
		s.items = append(s.items, line)
	}
	owner := s.identity.Key()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify()
	s.persistCache(owner, snapshot)
}

// Subscribe registers an observer called after every committed mutation.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Close tears the store down. Async fetches in flight will not commit, and
// no further sink writes are launched.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.gen++
	s.mu.Unlock()
}

func (s *Store) indexOf(productID string) int {
	for i, it := range s.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() *domain.Cart {
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	return &domain.Cart{
		OwnerKey:  s.identity.Key(),
		Items:     items,
		UpdatedAt: time.Now(),
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// persist writes the cache snapshot and fires the line-level mirror write.
// Both are best effort: failures are logged and local state stands.
func (s *Store) persist(owner string, snapshot *domain.Cart, mirrorOp func(context.Context) error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		if err := s.cache.Set(ctx, owner, snapshot); err != nil {
			log.Printf("cart cache write error: %v", err)
		}
		if err := mirrorOp(ctx); err != nil {
			log.Printf("cart mirror write error: %v", err)
		}
	}()
}

func (s *Store) persistCache(owner string, snapshot *domain.Cart) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		if err := s.cache.Set(ctx, owner, snapshot); err != nil {
			log.Printf("cart cache write error: %v", err)
		}
	}()
}
