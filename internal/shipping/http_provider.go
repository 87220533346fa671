package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
)

// HTTPQuoteProvider talks to the courier aggregator's quote endpoint.
type HTTPQuoteProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPQuoteProvider(baseURL, apiKey string, client *http.Client) *HTTPQuoteProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPQuoteProvider{baseURL: baseURL, apiKey: apiKey, client: client}
}

type quoteRequest struct {
	PickupLat    float64 `json:"pickup_lat"`
	PickupLng    float64 `json:"pickup_lng"`
	DropoffLat   float64 `json:"dropoff_lat"`
	DropoffLng   float64 `json:"dropoff_lng"`
	VehicleClass string  `json:"vehicle_class"`
	WeightBand   string  `json:"weight_band"`
	WeightKg     float64 `json:"weight_kg"`
}

type quoteResponse struct {
	FeeAmount      int64  `json:"fee_amount"`
	DistanceMeters int64  `json:"distance_meters"`
	Reference      string `json:"reference"`
}

func (p *HTTPQuoteProvider) Quote(ctx context.Context, pickup, dropoff domain.GeoPoint, parcel domain.Parcel) (domain.ShippingQuote, error) {
	body, err := json.Marshal(quoteRequest{
		PickupLat:    pickup.Lat,
		PickupLng:    pickup.Lng,
		DropoffLat:   dropoff.Lat,
		DropoffLng:   dropoff.Lng,
		VehicleClass: string(parcel.VehicleClass),
		WeightBand:   string(parcel.WeightBand),
		WeightKg:     parcel.WeightKg,
	})
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("marshal quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/quotes", bytes.NewReader(body))
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ShippingQuote{}, fmt.Errorf("quote provider returned status %d", resp.StatusCode)
	}

	var out quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("decode quote response: %w", err)
	}

	return domain.ShippingQuote{
		FeeAmount:         out.FeeAmount,
		DistanceMeters:    out.DistanceMeters,
		ProviderReference: out.Reference,
	}, nil
}
