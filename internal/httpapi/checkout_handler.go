package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/address"
	"github.com/danjocayabyab/Furnihive-sub000/internal/checkout"
	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/shipping"
	"github.com/danjocayabyab/Furnihive-sub000/internal/voucher"
)

// VoucherFinder lists the vouchers currently offerable, so a selection by id
// can be resolved against the live catalog rather than trusted from the body.
type VoucherFinder interface {
	Eligible(ctx context.Context, now time.Time) ([]domain.Voucher, error)
}

// CheckoutHandler keeps one wizard per identity. A wizard is created on first
// use and dropped once its checkout reaches the terminal step, so the next
// checkout starts fresh on Shipping.
type CheckoutHandler struct {
	mu        sync.Mutex
	wizards   map[string]*checkout.Wizard
	newWizard func() *checkout.Wizard
	vouchers  VoucherFinder
}

func NewCheckoutHandler(newWizard func() *checkout.Wizard, vouchers VoucherFinder) *CheckoutHandler {
	return &CheckoutHandler{
		wizards:   make(map[string]*checkout.Wizard),
		newWizard: newWizard,
		vouchers:  vouchers,
	}
}

func (h *CheckoutHandler) wizard(id domain.Identity) *checkout.Wizard {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.wizards[id.Key()]
	if !ok {
		w = h.newWizard()
		h.wizards[id.Key()] = w
	}
	return w
}

func (h *CheckoutHandler) drop(id domain.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.wizards, id.Key())
}

type ShippingRequestDTO struct {
	SelectedIDs []string               `json:"selected_ids,omitempty"`
	Address     domain.ShippingAddress `json:"address"`
}

type PaymentRequestDTO struct {
	Method        string `json:"method"`
	TermsAccepted bool   `json:"terms_accepted"`
}

type VoucherRequestDTO struct {
	VoucherID string `json:"voucher_id"`
}

type CheckoutStateDTO struct {
	Step    string                 `json:"step"`
	Address domain.ShippingAddress `json:"address"`
	Quote   *domain.ShippingQuote  `json:"quote,omitempty"`
	Voucher *domain.Voucher        `json:"voucher,omitempty"`
	Totals  domain.CheckoutTotals  `json:"totals"`
}

func stateOf(w *checkout.Wizard) CheckoutStateDTO {
	return CheckoutStateDTO{
		Step:    w.Step().String(),
		Address: w.Address(),
		Quote:   w.Quote(),
		Voucher: w.Voucher(),
		Totals:  w.Totals(),
	}
}

// GET /api/v1/checkout
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(identityFromContext(r.Context()))
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

// POST /api/v1/checkout/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	wiz := h.wizard(identityFromContext(r.Context()))
	if err := wiz.SelectItems(req.SelectedIDs...); err != nil {
		handleCheckoutError(w, err)
		return
	}
	if err := wiz.SetAddress(req.Address); err != nil {
		handleCheckoutError(w, err)
		return
	}
	if err := wiz.SubmitShipping(r.Context()); err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stateOf(wiz))
}

// POST /api/v1/checkout/payment
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	wiz := h.wizard(identityFromContext(r.Context()))
	if err := wiz.SubmitPayment(domain.PaymentMethod(req.Method), req.TermsAccepted); err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stateOf(wiz))
}

// POST /api/v1/checkout/voucher
func (h *CheckoutHandler) SelectVoucher(w http.ResponseWriter, r *http.Request) {
	var req VoucherRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.VoucherID == "" {
		respondError(w, http.StatusBadRequest, "invalid_voucher_id", "voucher_id is required")
		return
	}

	now := time.Now()
	eligible, err := h.vouchers.Eligible(r.Context(), now)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "voucher catalog unavailable")
		return
	}

	var found *domain.Voucher
	for i := range eligible {
		if eligible[i].ID == req.VoucherID {
			found = &eligible[i]
			break
		}
	}
	if found == nil {
		respondError(w, http.StatusNotFound, "voucher_not_found", "voucher is not available")
		return
	}

	wiz := h.wizard(identityFromContext(r.Context()))
	if err := wiz.SelectVoucher(*found, now); err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stateOf(wiz))
}

// DELETE /api/v1/checkout/voucher
func (h *CheckoutHandler) ClearVoucher(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(identityFromContext(r.Context()))
	wiz.ClearVoucher()
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	wiz := h.wizard(identityFromContext(r.Context()))
	if err := wiz.Back(); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stateOf(wiz))
}

// POST /api/v1/checkout/place
func (h *CheckoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	wiz := h.wizard(id)

	result, err := wiz.PlaceOrder(r.Context())
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	h.drop(id)
	respondJSON(w, http.StatusCreated, result)
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var ve *checkout.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, "missing_fields",
			"missing required fields: "+strings.Join(ve.Fields, ", "))
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, checkout.ErrStaleSubmission):
		respondError(w, http.StatusConflict, "stale_submission", err.Error())
	case errors.Is(err, checkout.ErrUnknownMethod),
		errors.Is(err, checkout.ErrTermsNotAccepted):
		respondError(w, http.StatusBadRequest, "invalid_payment", err.Error())
	case errors.Is(err, address.ErrAddressNotFound):
		respondError(w, http.StatusUnprocessableEntity, "address_unresolved", err.Error())
	case errors.Is(err, address.ErrGeocodeService):
		respondError(w, http.StatusServiceUnavailable, "geocoder_unavailable", err.Error())
	case errors.Is(err, shipping.ErrQuoteUnavailable):
		respondError(w, http.StatusServiceUnavailable, "quotes_unavailable", err.Error())
	case errors.Is(err, voucher.ErrVoucherNotActive),
		errors.Is(err, voucher.ErrMinPurchaseNotMet):
		respondError(w, http.StatusUnprocessableEntity, "voucher_rejected", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
