package shipping

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	quote domain.ShippingQuote
	err   error
	calls int
}

func (m *mockProvider) Quote(context.Context, domain.GeoPoint, domain.GeoPoint, domain.Parcel) (domain.ShippingQuote, error) {
	m.calls++
	if m.err != nil {
		return domain.ShippingQuote{}, m.err
	}
	return m.quote, nil
}

var (
	hub     = domain.GeoPoint{Lat: -6.1, Lng: 106.7}
	dropoff = domain.GeoPoint{Lat: -6.2, Lng: 106.8}
)

func TestRequestQuote_Success(t *testing.T) {
	provider := &mockProvider{
		quote: domain.ShippingQuote{FeeAmount: 52000, DistanceMeters: 14200, ProviderReference: "q-1"},
	}
	sut := NewClient(provider, hub, time.Second)

	parcel := ClassifyParcel(25)
	quote, err := sut.RequestQuote(context.Background(), dropoff, parcel)
	require.NoError(t, err)
	assert.Equal(t, int64(52000), quote.FeeAmount)
	assert.Equal(t, parcel, quote.Parcel)
	assert.True(t, quote.MatchesDropoff(dropoff))
	assert.False(t, quote.MatchesDropoff(domain.GeoPoint{Lat: -6.3, Lng: 106.8}))
}

func TestRequestQuote_ProviderFailure(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("timeout")}
	sut := NewClient(provider, hub, time.Second)

	_, err := sut.RequestQuote(context.Background(), dropoff, ClassifyParcel(2))
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestRequestQuote_BreakerShortCircuits(t *testing.T) {
	provider := &mockProvider{err: fmt.Errorf("timeout")}
	sut := NewClient(provider, hub, time.Second)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := sut.RequestQuote(ctx, dropoff, ClassifyParcel(2))
		require.ErrorIs(t, err, ErrQuoteUnavailable)
	}

	callsBefore := provider.calls
	_, err := sut.RequestQuote(ctx, dropoff, ClassifyParcel(2))
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
	assert.Equal(t, callsBefore, provider.calls)
}

func TestHTTPQuoteProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quotes", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"fee_amount":52000,"distance_meters":14200,"reference":"q-99"}`)
	}))
	defer server.Close()

	sut := NewHTTPQuoteProvider(server.URL, "key-1", server.Client())

	quote, err := sut.Quote(context.Background(), hub, dropoff, ClassifyParcel(25))
	require.NoError(t, err)
	assert.Equal(t, int64(52000), quote.FeeAmount)
	assert.Equal(t, int64(14200), quote.DistanceMeters)
	assert.Equal(t, "q-99", quote.ProviderReference)
}

func TestHTTPQuoteProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sut := NewHTTPQuoteProvider(server.URL, "", server.Client())

	_, err := sut.Quote(context.Background(), hub, dropoff, ClassifyParcel(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
