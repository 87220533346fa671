package cache

import (
	"context"
	"errors"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
)

// CartCache is the local per-identity cart snapshot store. It is a sink, not
// a source of truth: misses and write failures are recoverable.
type CartCache interface {
	Get(ctx context.Context, ownerKey string) (*domain.Cart, error)
	Set(ctx context.Context, ownerKey string, cart *domain.Cart) error
	Delete(ctx context.Context, ownerKey string) error
}

var ErrCacheMiss = errors.New("cache miss")
