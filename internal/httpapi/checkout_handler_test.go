package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/address"
	"github.com/danjocayabyab/Furnihive-sub000/internal/cart"
	"github.com/danjocayabyab/Furnihive-sub000/internal/checkout"
	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	err error
}

func (s stubResolver) Geocode(context.Context, string) (domain.GeoPoint, error) {
	if s.err != nil {
		return domain.GeoPoint{}, s.err
	}
	return domain.GeoPoint{Lat: -6.2, Lng: 106.8}, nil
}

type stubQuotes struct {
	fee int64
	err error
}

func (s stubQuotes) RequestQuote(_ context.Context, dropoff domain.GeoPoint, parcel domain.Parcel) (domain.ShippingQuote, error) {
	if s.err != nil {
		return domain.ShippingQuote{}, s.err
	}
	return domain.ShippingQuote{FeeAmount: s.fee, Dropoff: dropoff, Parcel: parcel}, nil
}

type stubPlacer struct {
	result domain.OrderResult
	err    error
}

func (s stubPlacer) Place(context.Context, domain.Identity, []domain.CartItem, domain.ShippingAddress, domain.PaymentMethod, domain.CheckoutTotals) (domain.OrderResult, error) {
	if s.err != nil {
		return domain.OrderResult{}, s.err
	}
	return s.result, nil
}

type stubVouchers struct {
	vouchers []domain.Voucher
	err      error
}

func (s stubVouchers) Eligible(context.Context, time.Time) ([]domain.Voucher, error) {
	return s.vouchers, s.err
}

type checkoutFixture struct {
	store  *cart.Store
	router http.Handler
}

func newCheckoutFixture(t *testing.T, resolver checkout.AddressResolver, quotes checkout.QuoteRequester, placer checkout.OrderPlacer, vouchers VoucherFinder) *checkoutFixture {
	t.Helper()
	store := newTestStore(t)
	store.Add(domain.CartItem{ProductID: "sofa-1", UnitPrice: 1000, WeightKg: 5, SellerID: "seller-a"}, 2)

	newWizard := func() *checkout.Wizard {
		return checkout.NewWizard(store, resolver, quotes, placer)
	}
	h := NewCheckoutHandler(newWizard, vouchers)

	r := chi.NewRouter()
	r.Get("/checkout", h.State)
	r.Post("/checkout/shipping", h.SubmitShipping)
	r.Post("/checkout/payment", h.SubmitPayment)
	r.Post("/checkout/voucher", h.SelectVoucher)
	r.Delete("/checkout/voucher", h.ClearVoucher)
	r.Post("/checkout/back", h.Back)
	r.Post("/checkout/place", h.Place)

	return &checkoutFixture{store: store, router: r}
}

func (f *checkoutFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, httptest.NewRequest(method, path, reader))
	return recorder
}

func shippingBody() ShippingRequestDTO {
	return ShippingRequestDTO{
		Address: domain.ShippingAddress{
			Name:       "Dewi",
			Street:     "Jalan Sudirman 1",
			City:       "Jakarta",
			PostalCode: "10210",
			Phone:      "+62811111111",
			Email:      "dewi@example.com",
		},
	}
}

func TestCheckoutFlow_HappyPath(t *testing.T) {
	f := newCheckoutFixture(t, stubResolver{}, stubQuotes{fee: 52000}, stubPlacer{result: domain.OrderResult{OrderID: "order-1"}}, stubVouchers{})

	rec := f.do(t, "POST", "/checkout/shipping", shippingBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var state CheckoutStateDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, "PAYMENT", state.Step)
	require.NotNil(t, state.Quote)
	assert.Equal(t, int64(52000), state.Quote.FeeAmount)
	assert.Equal(t, int64(54000), state.Totals.Total)

	rec = f.do(t, "POST", "/checkout/payment", PaymentRequestDTO{Method: "card", TermsAccepted: true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, "REVIEW", state.Step)

	rec = f.do(t, "POST", "/checkout/place", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result domain.OrderResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "order-1", result.OrderID)

	// the terminal wizard is dropped, so the next checkout starts over
	rec = f.do(t, "GET", "/checkout", nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, "SHIPPING", state.Step)
}

func TestSubmitShipping_MissingFieldsIs400(t *testing.T) {
	f := newCheckoutFixture(t, stubResolver{}, stubQuotes{}, stubPlacer{}, stubVouchers{})

	body := shippingBody()
	body.Address.Email = ""
	body.Address.Phone = ""
	rec := f.do(t, "POST", "/checkout/shipping", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "missing_fields", resp.Code)
	assert.Contains(t, resp.Error, "phone")
	assert.Contains(t, resp.Error, "email")
}

func TestSubmitShipping_UnresolvedAddressIs422(t *testing.T) {
	f := newCheckoutFixture(t, stubResolver{err: address.ErrAddressNotFound}, stubQuotes{}, stubPlacer{}, stubVouchers{})

	rec := f.do(t, "POST", "/checkout/shipping", shippingBody())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var state CheckoutStateDTO
	rec = f.do(t, "GET", "/checkout", nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, "SHIPPING", state.Step)
}

func TestPlace_BeforeReviewIs409(t *testing.T) {
	f := newCheckoutFixture(t, stubResolver{}, stubQuotes{}, stubPlacer{}, stubVouchers{})

	rec := f.do(t, "POST", "/checkout/place", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "illegal_transition", resp.Code)
}

func TestSelectVoucher_AppliesDiscountFromCatalog(t *testing.T) {
	catalog := stubVouchers{vouchers: []domain.Voucher{
		{ID: "v1", Status: domain.VoucherActive, DiscountType: domain.DiscountPercentage, DiscountValue: 10},
	}}
	f := newCheckoutFixture(t, stubResolver{}, stubQuotes{fee: 100}, stubPlacer{}, catalog)

	require.Equal(t, http.StatusOK, f.do(t, "POST", "/checkout/shipping", shippingBody()).Code)

	rec := f.do(t, "POST", "/checkout/voucher", VoucherRequestDTO{VoucherID: "v1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var state CheckoutStateDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	require.NotNil(t, state.Voucher)
	assert.Equal(t, int64(200), state.Totals.Discount)

	rec = f.do(t, "DELETE", "/checkout/voucher", nil)
	state = CheckoutStateDTO{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Nil(t, state.Voucher)
	assert.Equal(t, int64(0), state.Totals.Discount)
}

func TestSelectVoucher_UnknownIDIs404(t *testing.T) {
	f := newCheckoutFixture(t, stubResolver{}, stubQuotes{fee: 100}, stubPlacer{}, stubVouchers{})

	require.Equal(t, http.StatusOK, f.do(t, "POST", "/checkout/shipping", shippingBody()).Code)

	rec := f.do(t, "POST", "/checkout/voucher", VoucherRequestDTO{VoucherID: "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
