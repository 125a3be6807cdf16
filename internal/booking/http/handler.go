package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/auth"
	"github.com/parkorbit/parking-spot-backend/internal/booking"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service booking.Service
	log     zerolog.Logger
}

func NewHandler(service booking.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) create(c *gin.Context, userID *string, allowUserOverride bool) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	owner := userID
	if allowUserOverride && body.UserID != nil {
		owner = body.UserID
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:        owner,
		SpotID:        body.SpotID,
		CustomerName:  body.CustomerName,
		CustomerPhone: body.CustomerPhone,
		VehicleNumber: body.VehicleNumber,
		VehicleType:   body.VehicleType,
		DurationHours: body.DurationHours,
		PaymentMethod: body.PaymentMethod,
		StartTime:     body.StartTime,
		Notes:         body.Notes,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusCreated, NewBookingResponse(b))
}

// CreateAdmin creates a booking on behalf of a customer; the owning user
// reference is optional.
func (h *Handler) CreateAdmin(c *gin.Context) {
	h.create(c, nil, true)
}

// CreateUser creates a booking owned by the authenticated caller.
func (h *Handler) CreateUser(c *gin.Context) {
	id := auth.GetUserID(c)
	h.create(c, &id, false)
}

func (h *Handler) List(c *gin.Context) {
	var q ListBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	bookings, total, err := h.service.List(c.Request.Context(), booking.Filter{
		UserID:        q.UserID,
		SpotID:        q.SpotID,
		Status:        q.Status,
		PaymentStatus: q.PaymentStatus,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	response.OK(c, http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

// ListMine lists the authenticated caller's own bookings.
func (h *Handler) ListMine(c *gin.Context) {
	var q ListBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	bookings, total, err := h.service.List(c.Request.Context(), booking.Filter{
		UserID:        auth.GetUserID(c), // forced to own bookings
		SpotID:        q.SpotID,
		Status:        q.Status,
		PaymentStatus: q.PaymentStatus,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	response.OK(c, http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid booking id"))
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	// Owner or admin only.
	if !auth.IsAdmin(c) {
		if b.UserID == nil || *b.UserID != auth.GetUserID(c) {
			response.Error(c, h.log, booking.ErrPermissionDenied)
			return
		}
	}

	response.OK(c, http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid booking id"))
		return
	}

	var body UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, booking.UpdateStatusRequest{
		Status:        body.Status,
		PaymentStatus: body.PaymentStatus,
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid booking id"))
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "invalid booking id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Export(c *gin.Context) {
	var q ExportBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.log, apperror.Wrap(err, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	if q.From.After(q.To) {
		response.Error(c, h.log, apperror.New(http.StatusBadRequest, "from must not be after to"))
		return
	}

	content, err := h.service.Export(c.Request.Context(), q.From, q.To.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s_%s.xlsx", q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}
