package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	owner := "buyer-42"

	cart := &domain.Cart{
		OwnerKey: owner,
		Items: []domain.CartItem{
			{ProductID: "sofa-1", Title: "Two-seat sofa", UnitPrice: 250000, Quantity: 1, WeightKg: 18},
			{ProductID: "lamp-7", Title: "Floor lamp", UnitPrice: 45000, Quantity: 2, WeightKg: 1.5},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(owner), string(cartJSON))

	result, err := cache.Get(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, owner, result.OwnerKey)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, "sofa-1", result.Items[0].ProductID)
	assert.Equal(t, int64(250000), result.Items[0].UnitPrice)
}

func TestGet_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_CorruptPayload(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey("guest"), "{not json")

	result, err := cache.Get(context.Background(), "guest")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestSet_ThenGet_RoundTrips(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	lim := 3
	cart := &domain.Cart{
		OwnerKey: "guest",
		Items: []domain.CartItem{
			{ProductID: "chair-2", UnitPrice: 90000, Quantity: 2, StockLimit: &lim},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	require.NoError(t, cache.Set(ctx, "guest", cart))

	got, err := cache.Get(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].StockLimit)
	assert.Equal(t, 3, *got.Items[0].StockLimit)
}

func TestSet_AppliesTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := &domain.Cart{OwnerKey: "guest"}
	require.NoError(t, cache.Set(context.Background(), "guest", cart))

	ttl := mr.TTL(cacheKey("guest"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 20*time.Minute)
}

func TestDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "buyer-1", &domain.Cart{OwnerKey: "buyer-1"}))
	require.True(t, mr.Exists(cacheKey("buyer-1")))

	require.NoError(t, cache.Delete(ctx, "buyer-1"))
	assert.False(t, mr.Exists(cacheKey("buyer-1")))
}

func TestDelete_MissingKeyIsNoError(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, cache.Delete(context.Background(), "ghost"))
}
