package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
)

// HTTPGeocoder talks to a nominatim-compatible geocoding endpoint.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGeocoder(baseURL string, client *http.Client) *HTTPGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGeocoder{baseURL: baseURL, client: client}
}

type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, freeform string) (domain.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.baseURL, url.QueryEscape(freeform))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return domain.GeoPoint{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: results[0].DisplayName,
	}, nil
}
