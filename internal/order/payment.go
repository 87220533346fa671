package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SessionCreator is the external payment gateway: it turns a placed order
// into a hosted checkout session the buyer is redirected to.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, orderID string) (hostedURL string, err error)
}

// HTTPPaymentGateway talks to the gateway's hosted-session endpoint.
type HTTPPaymentGateway struct {
	baseURL   string
	serverKey string
	client    *http.Client
}

func NewHTTPPaymentGateway(baseURL, serverKey string, client *http.Client) *HTTPPaymentGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPaymentGateway{baseURL: baseURL, serverKey: serverKey, client: client}
}

type sessionRequest struct {
	OrderID string `json:"order_id"`
}

type sessionResponse struct {
	HostedURL string `json:"hosted_url"`
}

func (g *HTTPPaymentGateway) CreateCheckoutSession(ctx context.Context, orderID string) (string, error) {
	body, err := json.Marshal(sessionRequest{OrderID: orderID})
	if err != nil {
		return "", fmt.Errorf("marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout-sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.serverKey != "" {
		req.SetBasicAuth(g.serverKey, "")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode session response: %w", err)
	}
	if out.HostedURL == "" {
		return "", fmt.Errorf("payment gateway returned no hosted url")
	}

	return out.HostedURL, nil
}
