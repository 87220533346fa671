// Package address resolves buyer-entered shipping addresses to coordinates
// and manages the buyer's saved address book.
package address

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/mirror"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrAddressNotFound means the provider answered but found no
	// coordinates for the input.
	ErrAddressNotFound = errors.New("address could not be resolved")
	// ErrGeocodeService covers transport and provider failures, including an
	// open circuit breaker.
	ErrGeocodeService = errors.New("geocoding service unavailable")

	ErrGuestHasNoAddressBook = errors.New("saved addresses require an authenticated buyer")
)

// Geocoder is the external geocoding collaborator.
type Geocoder interface {
	Geocode(ctx context.Context, freeform string) (domain.GeoPoint, error)
}

type Resolver struct {
	geocoder Geocoder
	breaker  *gobreaker.CircuitBreaker[domain.GeoPoint]
	book     mirror.AddressBook
	timeout  time.Duration
}

func NewResolver(geocoder Geocoder, book mirror.AddressBook, timeout time.Duration) *Resolver {
	settings := gobreaker.Settings{
		Name:    "geocoder",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a user typo is not a provider failure and must not trip the breaker
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrAddressNotFound)
		},
	}
	return &Resolver{
		geocoder: geocoder,
		breaker:  gobreaker.NewCircuitBreaker[domain.GeoPoint](settings),
		book:     book,
		timeout:  timeout,
	}
}

// Geocode resolves a free-form address line. The caller must not advance the
// shipping step on either error.
func (r *Resolver) Geocode(ctx context.Context, freeform string) (domain.GeoPoint, error) {
	if strings.TrimSpace(freeform) == "" {
		return domain.GeoPoint{}, ErrAddressNotFound
	}

	point, err := r.breaker.Execute(func() (domain.GeoPoint, error) {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return r.geocoder.Geocode(callCtx, freeform)
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return domain.GeoPoint{}, ErrAddressNotFound
		}
		return domain.GeoPoint{}, fmt.Errorf("%w: %v", ErrGeocodeService, err)
	}

	return point, nil
}

// List returns the buyer's live saved addresses, default first.
func (r *Resolver) List(ctx context.Context, id domain.Identity) ([]domain.SavedAddress, error) {
	if !id.IsBuyer() {
		return nil, ErrGuestHasNoAddressBook
	}
	return r.book.List(ctx, id.BuyerID)
}

// Create stores a new saved address for the buyer and returns its id.
func (r *Resolver) Create(ctx context.Context, id domain.Identity, label string, addr domain.ShippingAddress) (string, error) {
	if !id.IsBuyer() {
		return "", ErrGuestHasNoAddressBook
	}
	saved := domain.SavedAddress{
		ID:      uuid.NewString(),
		BuyerID: id.BuyerID,
		Label:   label,
		Address: addr,
	}
	if err := r.book.Create(ctx, saved); err != nil {
		return "", err
	}
	return saved.ID, nil
}

func (r *Resolver) Rename(ctx context.Context, id domain.Identity, addressID, label string) error {
	if !id.IsBuyer() {
		return ErrGuestHasNoAddressBook
	}
	return r.book.Rename(ctx, id.BuyerID, addressID, label)
}

// SoftDelete hides an address from listings without purging the row.
func (r *Resolver) SoftDelete(ctx context.Context, id domain.Identity, addressID string) error {
	if !id.IsBuyer() {
		return ErrGuestHasNoAddressBook
	}
	return r.book.SoftDelete(ctx, id.BuyerID, addressID)
}

func (r *Resolver) SetDefault(ctx context.Context, id domain.Identity, addressID string) error {
	if !id.IsBuyer() {
		return ErrGuestHasNoAddressBook
	}
	return r.book.SetDefault(ctx, id.BuyerID, addressID)
}
