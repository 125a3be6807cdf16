package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/auth"
	"github.com/parkorbit/parking-spot-backend/internal/booking"
	"github.com/parkorbit/parking-spot-backend/internal/payment"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/response"
	"github.com/parkorbit/parking-spot-backend/internal/spot"
)

type Handler struct {
	bookings booking.Service
	spots    spot.Service
	checkout payment.CheckoutClient
	log      zerolog.Logger
}

func NewHandler(bookings booking.Service, spots spot.Service, checkout payment.CheckoutClient, log zerolog.Logger) *Handler {
	return &Handler{
		bookings: bookings,
		spots:    spots,
		checkout: checkout,
		log:      log,
	}
}

// CreateCheckout opens a hosted checkout session for one of the caller's
// pending bookings. Settlement is not confirmed here; the booking's
// payment status stays pending until an operator marks it paid.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var body CreateCheckoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	b, err := h.bookings.GetByID(c.Request.Context(), body.BookingID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	if !auth.IsAdmin(c) {
		if b.UserID == nil || *b.UserID != auth.GetUserID(c) {
			response.Error(c, h.log, booking.ErrPermissionDenied)
			return
		}
	}

	if b.PaymentStatus == booking.PaymentPaid {
		response.Error(c, h.log, apperror.New(http.StatusConflict, "booking is already paid"))
		return
	}

	// Currency comes from the spot's pricing block.
	sp, err := h.spots.GetByID(c.Request.Context(), b.SpotID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	session, err := h.checkout.CreateSession(c.Request.Context(), payment.SessionRequest{
		BookingID:   b.ID,
		Amount:      b.Amount,
		Currency:    sp.Pricing.Currency,
		Description: fmt.Sprintf("Parking at %s for %s", b.SpotName, b.VehicleNumber),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, NewCheckoutSessionResponse(session))
}
