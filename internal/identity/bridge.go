// Package identity connects the session's identity source to whatever needs
// to react when the owner changes. The core only observes identity; it never
// mutates it.
package identity

import (
	"context"
	"sync"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
)

// Handler reacts to an identity change. CartStore.SetIdentity is the primary
// registrant.
type Handler func(ctx context.Context, id domain.Identity)

// Bridge dedupes identity signals and fans them out to handlers in
// registration order.
type Bridge struct {
	mu       sync.Mutex
	current  domain.Identity
	handlers []Handler
}

func NewBridge() *Bridge {
	return &Bridge{current: domain.Guest()}
}

// Current returns the identity last signalled.
func (b *Bridge) Current() domain.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// OnChange registers a handler. Handlers registered after a signal do not
// receive it retroactively.
func (b *Bridge) OnChange(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Signal reports a new identity from the provider. Repeats of the current
// identity are dropped.
func (b *Bridge) Signal(ctx context.Context, id domain.Identity) {
	b.mu.Lock()
	if b.current.Equal(id) {
		b.mu.Unlock()
		return
	}
	b.current = id
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h(ctx, id)
	}
}
