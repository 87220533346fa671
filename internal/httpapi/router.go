// Package httpapi exposes the cart and checkout engine over HTTP. It is a
// thin adapter: all semantics live in the inner packages.
package httpapi

import (
	"net/http"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/address"
	"github.com/danjocayabyab/Furnihive-sub000/internal/cart"
	"github.com/danjocayabyab/Furnihive-sub000/internal/checkout"
	"github.com/danjocayabyab/Furnihive-sub000/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Cart     *cart.Store
	Bridge   *identity.Bridge
	Resolver *address.Resolver
	Quotes   checkout.QuoteRequester
	Vouchers VoucherFinder
	Placer   checkout.OrderPlacer

	RequestTimeout time.Duration
}

// NewRouter wires the handlers onto a chi router with the standard middleware
// chain. Each identity gets its own checkout wizard over the shared cart.
func NewRouter(deps Deps) http.Handler {
	newWizard := func() *checkout.Wizard {
		return checkout.NewWizard(deps.Cart, deps.Resolver, deps.Quotes, deps.Placer)
	}

	cartHandler := NewCartHandler(deps.Cart)
	checkoutHandler := NewCheckoutHandler(newWizard, deps.Vouchers)
	addressHandler := NewAddressHandler(deps.Resolver)
	voucherHandler := NewVoucherHandler(deps.Vouchers)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(IdentityMiddleware(deps.Bridge))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		r.Get("/vouchers", voucherHandler.List)

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", addressHandler.List)
			r.Post("/", addressHandler.Create)
			r.Put("/{addressID}", addressHandler.Rename)
			r.Delete("/{addressID}", addressHandler.Delete)
			r.Post("/{addressID}/default", addressHandler.SetDefault)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.State)
			r.Post("/shipping", checkoutHandler.SubmitShipping)
			r.Post("/payment", checkoutHandler.SubmitPayment)
			r.Post("/voucher", checkoutHandler.SelectVoucher)
			r.Delete("/voucher", checkoutHandler.ClearVoucher)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/place", checkoutHandler.Place)
		})
	})

	return r
}
