package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/cache"
	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[string]*domain.Cart)}
}

func (m *mockCache) Get(_ context.Context, ownerKey string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[ownerKey]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return c, nil
}

func (m *mockCache) Set(_ context.Context, ownerKey string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.carts[ownerKey] = cart
	return nil
}

func (m *mockCache) Delete(_ context.Context, ownerKey string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, ownerKey)
	return m.err
}

func (m *mockCache) snapshot(ownerKey string) *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.carts[ownerKey]
}

type mockMirror struct {
	m       sync.RWMutex
	lines   map[string][]domain.CartItem
	err     error
	upserts int
	deletes int
	// when set, ListCartLines blocks until the channel is closed
	hold chan struct{}
}

func newMockMirror() *mockMirror {
	return &mockMirror{lines: make(map[string][]domain.CartItem)}
}

func (m *mockMirror) ListCartLines(_ context.Context, ownerKey string) ([]domain.CartItem, error) {
	m.m.RLock()
	hold := m.hold
	m.m.RUnlock()
	if hold != nil {
		<-hold
	}

	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	lines, ok := m.lines[ownerKey]
	if !ok {
		return nil, mirror.ErrCartNotFound
	}
	return lines, nil
}

func (m *mockMirror) UpsertCartLine(_ context.Context, ownerKey string, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.upserts++
	if m.err != nil {
		return m.err
	}
	for i, line := range m.lines[ownerKey] {
		if line.ProductID == item.ProductID {
			m.lines[ownerKey][i] = item
			return nil
		}
	}
	m.lines[ownerKey] = append(m.lines[ownerKey], item)
	return nil
}

func (m *mockMirror) DeleteCartLine(_ context.Context, ownerKey string, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	if m.err != nil {
		return m.err
	}
	for i, line := range m.lines[ownerKey] {
		if line.ProductID == productID {
			m.lines[ownerKey] = append(m.lines[ownerKey][:i], m.lines[ownerKey][i+1:]...)
			return nil
		}
	}
	return mirror.ErrItemNotFound
}

func (m *mockMirror) DeleteCart(_ context.Context, ownerKey string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	if m.err != nil {
		return m.err
	}
	delete(m.lines, ownerKey)
	return nil
}

func (m *mockMirror) upsertCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.upserts
}

func limit(n int) *int { return &n }

func sofa() domain.CartItem {
	return domain.CartItem{
		ProductID:  "sofa-1",
		Title:      "Two-seat sofa",
		UnitPrice:  1000,
		Quantity:   0,
		StockLimit: limit(3),
		WeightKg:   18,
		SellerID:   "seller-a",
	}
}

func TestAdd_NewLineClampsQuantity(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	sut.Add(sofa(), 10)

	items := sut.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAdd_ZeroOrNegativeNeverBelowOne(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	sut.Add(sofa(), 0)
	require.Len(t, sut.Items(), 1)
	assert.Equal(t, 1, sut.Items()[0].Quantity)

	sut.Add(sofa(), -5)
	assert.Equal(t, 1, sut.Items()[0].Quantity)
}

func TestAdd_ExistingLineMergesWithClamp(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	sut.Add(sofa(), 2)
	sut.Add(sofa(), 2)

	items := sut.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestSetQuantity_ClampsInsteadOfRejecting(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	sut.Add(sofa(), 2)
	require.NoError(t, sut.SetQuantity("sofa-1", 10))

	items := sut.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestSetQuantity_UnknownProduct(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	assert.ErrorIs(t, sut.SetQuantity("ghost", 1), ErrItemNotFound)
}

func TestRemove(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	sut.Add(sofa(), 1)
	require.NoError(t, sut.Remove("sofa-1"))
	assert.Empty(t, sut.Items())
	assert.ErrorIs(t, sut.Remove("sofa-1"), ErrItemNotFound)
}

func TestSubtotal_FullCartAndSubset(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	sut.Add(sofa(), 2) // 2 x 1000
	sut.Add(domain.CartItem{ProductID: "lamp-7", UnitPrice: 450, WeightKg: 1.5}, 2)

	assert.Equal(t, int64(2900), sut.Subtotal())
	assert.Equal(t, int64(2000), sut.Subtotal("sofa-1"))
	assert.Equal(t, int64(900), sut.Subtotal("lamp-7"))
	assert.Equal(t, int64(0), sut.Subtotal("ghost"))
}

func TestMutations_ReachSinks(t *testing.T) {
	mc := newMockCache()
	mm := newMockMirror()
	sut := NewStore(mc, mm)
	defer sut.Close()

	sut.Add(sofa(), 2)

	require.Eventually(t, func() bool {
		snap := mc.snapshot("guest")
		return snap != nil && len(snap.Items) == 1
	}, 200*time.Millisecond, 10*time.Millisecond, "cache snapshot was not written")

	require.Eventually(t, func() bool {
		return mm.upsertCount() == 1
	}, 200*time.Millisecond, 10*time.Millisecond, "mirror upsert was not fired")
}

func TestSinkFailure_DoesNotRollBackLocalState(t *testing.T) {
	mc := newMockCache()
	mc.err = fmt.Errorf("redis down")
	mm := newMockMirror()
	mm.err = fmt.Errorf("mongo down")
	sut := NewStore(mc, mm)
	defer sut.Close()

	sut.Add(sofa(), 2)

	require.Eventually(t, func() bool {
		return mm.upsertCount() == 1
	}, 200*time.Millisecond, 10*time.Millisecond)
	require.Len(t, sut.Items(), 1)
	assert.Equal(t, 2, sut.Items()[0].Quantity)
}

func TestClear_EmptiesCartEvenWhenMirrorFails(t *testing.T) {
	mm := newMockMirror()
	mm.err = fmt.Errorf("mongo down")
	sut := NewStore(newMockCache(), mm)
	defer sut.Close()

	sut.Add(sofa(), 1)
	sut.Clear()

	assert.Empty(t, sut.Items())
	assert.Equal(t, int64(0), sut.Subtotal())
}

func TestSetIdentity_GuestLinesNeverLeakIntoBuyerCart(t *testing.T) {
	mc := newMockCache()
	mm := newMockMirror()
	sut := NewStore(mc, mm)
	defer sut.Close()

	sut.Add(sofa(), 2) // guest cart

	sut.SetIdentity(context.Background(), domain.Buyer("buyer-1"))

	// buyer has no cache and no mirror entry: the cart must be empty, not
	// carry over the guest's sofa
	assert.Empty(t, sut.Items())
}

func TestSetIdentity_LoadsBuyerCacheThenMirror(t *testing.T) {
	mc := newMockCache()
	mc.carts["buyer-1"] = &domain.Cart{
		OwnerKey: "buyer-1",
		Items:    []domain.CartItem{{ProductID: "desk-3", UnitPrice: 700, Quantity: 1}},
	}
	mm := newMockMirror()
	mm.lines["buyer-1"] = []domain.CartItem{
		{ProductID: "desk-3", UnitPrice: 700, Quantity: 2, StockLimit: limit(5)},
		{ProductID: "shelf-9", UnitPrice: 300, Quantity: 9, StockLimit: limit(4)},
	}
	sut := NewStore(mc, mm)
	defer sut.Close()

	sut.SetIdentity(context.Background(), domain.Buyer("buyer-1"))

	// cached snapshot is visible immediately
	require.Len(t, sut.Items(), 1)

	// the mirror replaces it once the fetch lands, with quantities re-clamped
	require.Eventually(t, func() bool {
		return len(sut.Items()) == 2
	}, 200*time.Millisecond, 10*time.Millisecond, "mirror fetch never replaced the cart")

	items := sut.Items()
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 4, items[1].Quantity, "mirror quantity above stock limit must be clamped")
}

func TestSetIdentity_LocalEditDiscardsInFlightMirrorFetch(t *testing.T) {
	mc := newMockCache()
	mm := newMockMirror()
	mm.lines["buyer-1"] = []domain.CartItem{{ProductID: "shelf-9", UnitPrice: 300, Quantity: 1}}
	mm.hold = make(chan struct{})
	sut := NewStore(mc, mm)
	defer sut.Close()

	sut.SetIdentity(context.Background(), domain.Buyer("buyer-1"))

	// the buyer edits while the mirror fetch hangs
	sut.Add(sofa(), 1)
	close(mm.hold)

	// give the discarded fetch a chance to (incorrectly) commit
	time.Sleep(50 * time.Millisecond)
	items := sut.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "sofa-1", items[0].ProductID, "in-flight mirror fetch must not overwrite local edits")
}

func TestSetIdentity_SwitchBackToGuest(t *testing.T) {
	mc := newMockCache()
	sut := NewStore(mc, newMockMirror())
	defer sut.Close()

	sut.Add(sofa(), 1)
	require.Eventually(t, func() bool {
		return mc.snapshot("guest") != nil
	}, 200*time.Millisecond, 10*time.Millisecond)

	sut.SetIdentity(context.Background(), domain.Buyer("buyer-1"))
	require.Empty(t, sut.Items())

	// the guest cache still holds the old cart, so switching back restores it
	sut.SetIdentity(context.Background(), domain.Guest())
	require.Len(t, sut.Items(), 1)
	assert.Equal(t, "sofa-1", sut.Items()[0].ProductID)
}

func TestSubscribe_NotifiedOnMutationsUntilUnsubscribed(t *testing.T) {
	sut := NewStore(newMockCache(), newMockMirror())
	defer sut.Close()

	var m sync.Mutex
	calls := 0
	unsubscribe := sut.Subscribe(func() {
		m.Lock()
		calls++
		m.Unlock()
	})

	sut.Add(sofa(), 1)
	require.NoError(t, sut.SetQuantity("sofa-1", 2))

	m.Lock()
	assert.Equal(t, 2, calls)
	m.Unlock()

	unsubscribe()
	sut.Clear()

	m.Lock()
	assert.Equal(t, 2, calls)
	m.Unlock()
}

func TestClose_SuppressesLateMirrorCommit(t *testing.T) {
	mm := newMockMirror()
	mm.lines["buyer-1"] = []domain.CartItem{{ProductID: "shelf-9", UnitPrice: 300, Quantity: 1}}
	mm.hold = make(chan struct{})
	sut := NewStore(newMockCache(), mm)

	sut.SetIdentity(context.Background(), domain.Buyer("buyer-1"))
	sut.Close()
	close(mm.hold)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sut.Items())
}
