package http

import (
	"time"

	"github.com/parkorbit/parking-spot-backend/internal/booking"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/request"
	spotHttp "github.com/parkorbit/parking-spot-backend/internal/spot/http"
	userHttp "github.com/parkorbit/parking-spot-backend/internal/user/http"
)

type CreateBookingRequest struct {
	SpotID        string     `json:"spot_id" binding:"required,uuid"`
	CustomerName  string     `json:"customer_name" binding:"required,max=100"`
	CustomerPhone string     `json:"customer_phone" binding:"required,max=20"`
	VehicleNumber string     `json:"vehicle_number" binding:"required,max=20"`
	VehicleType   string     `json:"vehicle_type" binding:"required"`
	DurationHours int        `json:"duration_hours" binding:"omitempty,gte=0"`
	PaymentMethod string     `json:"payment_method"`
	StartTime     *time.Time `json:"start_time"`
	Notes         string     `json:"notes" binding:"omitempty,max=500"`
	// UserID can only be set by admins booking on behalf of a customer.
	UserID *string `json:"user_id" binding:"omitempty,uuid"`
}

type UpdateBookingStatusRequest struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus *string `json:"payment_status" binding:"omitempty,oneof=pending paid failed"`
}

type ListBookingsRequest struct {
	request.ListParams
	SpotID        string `form:"spot_id" binding:"omitempty,uuid"`
	UserID        string `form:"user_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid failed"`
}

type ExportBookingsRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

type BookingResponse struct {
	ID            string            `json:"id"`
	Spot          spotHttp.SpotTag  `json:"spot"`
	User          *userHttp.UserTag `json:"user,omitempty"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	VehicleNumber string            `json:"vehicle_number"`
	VehicleType   string            `json:"vehicle_type"`
	StartTime     time.Time         `json:"start_time"`
	DurationHours int               `json:"duration_hours"`
	Amount        float64           `json:"amount"`
	PaymentMethod string            `json:"payment_method"`
	PaymentStatus string            `json:"payment_status"`
	Status        string            `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		Spot:          spotHttp.SpotTag{ID: b.SpotID, Name: b.SpotName},
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		VehicleNumber: b.VehicleNumber,
		VehicleType:   string(b.VehicleType),
		StartTime:     b.StartTime,
		DurationHours: b.DurationHours,
		Amount:        b.Amount,
		PaymentMethod: string(b.PaymentMethod),
		PaymentStatus: string(b.PaymentStatus),
		Status:        string(b.Status),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.UserID != nil {
		resp.User = &userHttp.UserTag{ID: *b.UserID, Name: b.UserName}
	}
	return resp
}
