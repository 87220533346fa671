// Package checkout sequences the Shipping, Payment and Review steps as an
// explicit state machine, so reaching Review without a shipping quote is
// structurally impossible rather than merely disabled in a UI.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/shipping"
	"github.com/danjocayabyab/Furnihive-sub000/internal/voucher"
)

var (
	ErrIllegalTransition = errors.New("illegal checkout step transition")
	ErrTermsNotAccepted  = errors.New("terms must be accepted")
	ErrUnknownMethod     = errors.New("unknown payment method")
	// ErrStaleSubmission means the address or selection changed while a
	// shipping submit was resolving; the submit's results are discarded.
	ErrStaleSubmission = errors.New("shipping details changed during submission")
)

// ValidationError reports the mandatory shipping fields that are missing.
// It blocks the transition without failing the flow.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// CartReader is the slice of the cart store the wizard reads.
type CartReader interface {
	Identity() domain.Identity
	Selected(ids ...string) []domain.CartItem
	Subtotal(ids ...string) int64
}

// AddressResolver resolves the entered address to coordinates.
type AddressResolver interface {
	Geocode(ctx context.Context, freeform string) (domain.GeoPoint, error)
}

// QuoteRequester prices delivery to a resolved dropoff.
type QuoteRequester interface {
	RequestQuote(ctx context.Context, dropoff domain.GeoPoint, parcel domain.Parcel) (domain.ShippingQuote, error)
}

// OrderPlacer commits the finalized checkout.
type OrderPlacer interface {
	Place(ctx context.Context, buyer domain.Identity, selected []domain.CartItem, shipping domain.ShippingAddress, method domain.PaymentMethod, totals domain.CheckoutTotals) (domain.OrderResult, error)
}

// Wizard walks one checkout through its steps. Abandoning it at any
// non-terminal step has no side effects beyond what was already persisted.
type Wizard struct {
	mu       sync.Mutex
	step     Step
	cart     CartReader
	resolver AddressResolver
	quotes   QuoteRequester
	placer   OrderPlacer

	selection []string
	address   domain.ShippingAddress
	// shipGen increments whenever the inputs a quote is priced against
	// (address, selection) change; an in-flight submit only commits if it is
	// unchanged since the submit started
	shipGen  uint64
	quote    *domain.ShippingQuote
	method   domain.PaymentMethod
	terms    bool
	voucher  *domain.Voucher
	discount int64
	tax      int64
}

func NewWizard(cart CartReader, resolver AddressResolver, quotes QuoteRequester, placer OrderPlacer) *Wizard {
	return &Wizard{
		step:     StepShipping,
		cart:     cart,
		resolver: resolver,
		quotes:   quotes,
		placer:   placer,
	}
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SelectItems restricts checkout to a subset of cart lines. With no ids the
// whole cart is checked out. Only allowed while still on the shipping step.
func (w *Wizard) SelectItems(ids ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepShipping {
		return ErrIllegalTransition
	}
	w.selection = ids
	// a held quote was priced for the old selection's parcel
	w.quote = nil
	w.shipGen++
	return nil
}

// SetAddress records the entered destination. Only allowed on the shipping
// step; a previously fetched quote is discarded because it was priced for
// the old dropoff.
func (w *Wizard) SetAddress(addr domain.ShippingAddress) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepShipping {
		return ErrIllegalTransition
	}
	addr.Resolved = nil
	w.address = addr
	w.quote = nil
	w.shipGen++
	return nil
}

// Address returns the currently entered shipping address.
func (w *Wizard) Address() domain.ShippingAddress {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address
}

// Quote returns the shipping quote held for the current address, if any.
func (w *Wizard) Quote() *domain.ShippingQuote {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.quote == nil {
		return nil
	}
	q := *w.quote
	return &q
}

// SubmitShipping validates the entered address, geocodes it, classifies the
// parcel and fetches a delivery quote. Only when all of that succeeds does
// the wizard move to Payment; any failure leaves it on Shipping with the
// specific error.
func (w *Wizard) SubmitShipping(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepShipping {
		w.mu.Unlock()
		return ErrIllegalTransition
	}
	addr := w.address
	selection := w.selection
	held := w.quote
	submitGen := w.shipGen
	w.mu.Unlock()

	if err := validateAddress(addr); err != nil {
		return err
	}

	point, err := w.resolver.Geocode(ctx, addr.Freeform())
	if err != nil {
		return err
	}

	items := w.cart.Selected(selection...)
	var quote *domain.ShippingQuote
	if len(items) > 0 {
		if held != nil && held.MatchesDropoff(point) {
			// resubmit after Back with an unchanged dropoff: the held quote
			// is still priced for this destination and parcel
			quote = held
		} else {
			parcel := shipping.ClassifyParcel(domain.TotalWeightKg(items))
			q, err := w.quotes.RequestQuote(ctx, point, parcel)
			if err != nil {
				return err
			}
			quote = &q
		}
	}
	// no items means nothing to ship: fee stays zero and no quote is needed

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepShipping {
		return ErrIllegalTransition
	}
	if w.shipGen != submitGen {
		// the address or selection changed while this submit was resolving;
		// its quote is priced for the old inputs
		return ErrStaleSubmission
	}
	w.address.Resolved = &point
	w.quote = quote
	w.step = StepPayment
	return nil
}

// SubmitPayment records the chosen method and terms acceptance and moves to
// Review. No network calls happen on this step.
func (w *Wizard) SubmitPayment(method domain.PaymentMethod, termsAccepted bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepPayment {
		return ErrIllegalTransition
	}
	if !domain.KnownPaymentMethod(method) {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if !termsAccepted {
		return ErrTermsNotAccepted
	}
	w.method = method
	w.terms = true
	w.step = StepReview
	return nil
}

// SelectVoucher applies one voucher to the checkout, replacing any prior
// selection. MinPurchase and MaxDiscount are hard-enforced here, at the
// caller boundary, while the raw discount math stays advisory-free.
func (w *Wizard) SelectVoucher(v domain.Voucher, now time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepPayment && w.step != StepReview {
		return ErrIllegalTransition
	}

	subtotal := w.cart.Subtotal(w.selection...)
	amount, err := voucher.Validate(v, subtotal, now)
	if err != nil {
		return err
	}
	w.voucher = &v
	w.discount = amount
	return nil
}

// ClearVoucher removes the current voucher selection.
func (w *Wizard) ClearVoucher() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.voucher = nil
	w.discount = 0
}

// Voucher returns the currently selected voucher, if any.
func (w *Wizard) Voucher() *domain.Voucher {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.voucher == nil {
		return nil
	}
	v := *w.voucher
	return &v
}

// Back re-enters the previous step without clearing its entered data.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepPayment:
		w.step = StepShipping
	case StepReview:
		w.step = StepPayment
	default:
		return ErrIllegalTransition
	}
	return nil
}

// Totals derives the checkout totals from current state. Never stored.
func (w *Wizard) Totals() domain.CheckoutTotals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalsLocked()
}

func (w *Wizard) totalsLocked() domain.CheckoutTotals {
	subtotal := w.cart.Subtotal(w.selection...)
	var fee int64
	if w.quote != nil {
		fee = w.quote.FeeAmount
	}
	return domain.NewTotals(subtotal, fee, w.tax, w.discount)
}

// PlaceOrder commits the checkout. On success the wizard reaches its
// terminal step; on failure it stays on Review and the caller may retry.
// A selected voucher is re-validated against the subtotal being committed,
// not the one it was selected under: Back plus a selection change can shrink
// the subtotal below the voucher's minimum purchase.
func (w *Wizard) PlaceOrder(ctx context.Context) (domain.OrderResult, error) {
	w.mu.Lock()
	if !canTransition(w.step, StepPlaced) {
		w.mu.Unlock()
		return domain.OrderResult{}, ErrIllegalTransition
	}
	if w.voucher != nil {
		amount, err := voucher.Validate(*w.voucher, w.cart.Subtotal(w.selection...), time.Now())
		if err != nil {
			w.mu.Unlock()
			return domain.OrderResult{}, err
		}
		w.discount = amount
	}
	buyer := w.cart.Identity()
	selected := w.cart.Selected(w.selection...)
	addr := w.address
	method := w.method
	totals := w.totalsLocked()
	w.mu.Unlock()

	result, err := w.placer.Place(ctx, buyer, selected, addr, method, totals)
	if err != nil {
		return domain.OrderResult{}, err
	}

	w.mu.Lock()
	w.step = StepPlaced
	w.mu.Unlock()
	return result, nil
}

func validateAddress(addr domain.ShippingAddress) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", addr.Name},
		{"street", addr.Street},
		{"city", addr.City},
		{"postal_code", addr.PostalCode},
		{"phone", addr.Phone},
		{"email", addr.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
