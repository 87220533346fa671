// Package shipping prices delivery for a checkout through an external
// courier-quote provider.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// ErrQuoteUnavailable blocks the shipping step; a shipping fee is never
// silently defaulted once a dropoff has been entered.
var ErrQuoteUnavailable = errors.New("shipping quote unavailable")

// QuoteProvider is the external courier collaborator.
type QuoteProvider interface {
	Quote(ctx context.Context, pickup, dropoff domain.GeoPoint, parcel domain.Parcel) (domain.ShippingQuote, error)
}

type Client struct {
	provider QuoteProvider
	breaker  *gobreaker.CircuitBreaker[domain.ShippingQuote]
	pickup   domain.GeoPoint
	timeout  time.Duration
}

// NewClient builds a quote client with a fixed pickup point (the seller
// fulfilment hub).
func NewClient(provider QuoteProvider, pickup domain.GeoPoint, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "courier-quotes",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker[domain.ShippingQuote](settings),
		pickup:   pickup,
		timeout:  timeout,
	}
}

// RequestQuote prices delivery to the dropoff for the given parcel. Every
// failure mode surfaces as ErrQuoteUnavailable so the wizard has a single
// condition to gate on.
func (c *Client) RequestQuote(ctx context.Context, dropoff domain.GeoPoint, parcel domain.Parcel) (domain.ShippingQuote, error) {
	quote, err := c.breaker.Execute(func() (domain.ShippingQuote, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.provider.Quote(callCtx, c.pickup, dropoff, parcel)
	})
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}

	quote.Dropoff = dropoff
	quote.Parcel = parcel
	return quote, nil
}
