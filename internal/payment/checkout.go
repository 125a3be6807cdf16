package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
)

// ErrNotConfigured is returned when no checkout provider is wired.
var ErrNotConfigured = apperror.New(http.StatusNotImplemented, "online payment is not available yet")

// SessionRequest describes the checkout session to create.
type SessionRequest struct {
	BookingID   string  `json:"booking_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// Session is a hosted checkout session the customer is redirected to.
// Settlement confirmation (webhooks) is intentionally not handled here.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutClient creates hosted checkout sessions.
type CheckoutClient interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// HTTPCheckoutClient talks to a hosted checkout provider over HTTP.
type HTTPCheckoutClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPCheckoutClient builds a client for the given provider endpoint.
// An empty baseURL yields a client whose CreateSession always returns
// ErrNotConfigured.
func NewHTTPCheckoutClient(baseURL, apiKey string) *HTTPCheckoutClient {
	return &HTTPCheckoutClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a provider endpoint is configured.
func (c *HTTPCheckoutClient) Enabled() bool {
	return c.baseURL != ""
}

func (c *HTTPCheckoutClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("checkout provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout response: %w", err)
	}
	return &session, nil
}
