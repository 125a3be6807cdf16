package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	t.Run("posts the request and decodes the session", func(t *testing.T) {
		var gotAuth string
		var gotReq SessionRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Session{ID: "sess-1", URL: "https://pay.example.com/sess-1"})
		}))
		defer server.Close()

		client := NewHTTPCheckoutClient(server.URL, "key-123")

		session, err := client.CreateSession(context.Background(), SessionRequest{
			BookingID: "booking-1",
			Amount:    150,
			Currency:  "INR",
		})
		require.NoError(t, err)

		assert.Equal(t, "sess-1", session.ID)
		assert.Equal(t, "https://pay.example.com/sess-1", session.URL)
		assert.Equal(t, "Bearer key-123", gotAuth)
		assert.Equal(t, "booking-1", gotReq.BookingID)
		assert.Equal(t, float64(150), gotReq.Amount)
	})

	t.Run("provider error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewHTTPCheckoutClient(server.URL, "key-123")

		_, err := client.CreateSession(context.Background(), SessionRequest{BookingID: "booking-1"})
		assert.ErrorContains(t, err, "502")
	})

	t.Run("unconfigured client fails with not implemented", func(t *testing.T) {
		client := NewHTTPCheckoutClient("", "")
		assert.False(t, client.Enabled())

		_, err := client.CreateSession(context.Background(), SessionRequest{BookingID: "booking-1"})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
