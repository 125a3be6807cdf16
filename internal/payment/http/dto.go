package http

import "github.com/parkorbit/parking-spot-backend/internal/payment"

type CreateCheckoutRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

func NewCheckoutSessionResponse(s *payment.Session) CheckoutSessionResponse {
	return CheckoutSessionResponse{
		SessionID: s.ID,
		URL:       s.URL,
	}
}
