package httpapi

import (
	"context"
	"net/http"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/identity"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityMiddleware derives the request identity from the X-Buyer-ID header
// (absent means guest), signals the bridge so the cart store can react to
// switches, and stores the identity in the request context.
func IdentityMiddleware(bridge *identity.Bridge) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := domain.Guest()
			if buyerID := r.Header.Get("X-Buyer-ID"); buyerID != "" {
				id = domain.Buyer(buyerID)
			}

			bridge.Signal(r.Context(), id)

			ctx := context.WithValue(r.Context(), identityContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromContext(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(identityContextKey).(domain.Identity); ok {
		return id
	}
	return domain.Guest()
}
