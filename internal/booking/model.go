package booking

import (
	"net/http"
	"strings"
	"time"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
	"github.com/parkorbit/parking-spot-backend/internal/spot"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "booking not found")
	ErrSpotNotFound         = apperror.New(http.StatusNotFound, "spot not found")
	ErrInvalidVehicleType   = apperror.New(http.StatusBadRequest, "invalid vehicle type")
	ErrInvalidPaymentMethod = apperror.New(http.StatusBadRequest, "invalid payment method")
	ErrOnlineNotAvailable   = apperror.New(http.StatusNotImplemented, "online payment is not available yet")
	ErrInvalidStatus        = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidPaymentStatus = apperror.New(http.StatusBadRequest, "invalid payment status")
	ErrPermissionDenied     = apperror.New(http.StatusForbidden, "permission denied")
)

// errVehicleNotAllowed builds the policy error naming the allowed set.
func errVehicleNotAllowed(allowed []spot.VehicleType) *apperror.AppError {
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}
	return apperror.Newf(http.StatusBadRequest,
		"vehicle type not allowed at this spot; allowed: %s", strings.Join(names, ", "))
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Valid reports whether the payment status is one of the known values.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCOD    PaymentMethod = "cod"
	MethodOnline PaymentMethod = "online"
)

// Valid reports whether the payment method is one of the known values.
func (m PaymentMethod) Valid() bool {
	return m == MethodCOD || m == MethodOnline
}

// Booking is a reservation of one slot for a customer over a time window.
//
// A booking whose status is anything other than cancelled is assumed to
// have decremented exactly one unit of its spot's available_slots; the
// cancel and delete paths release that unit exactly once.
type Booking struct {
	ID            string
	UserID        *string // nil for walk-in bookings entered by an admin
	UserName      string  // populated display field, empty when UserID is nil
	SpotID        string
	SpotName      string // populated display field
	CustomerName  string
	CustomerPhone string
	VehicleNumber string
	VehicleType   spot.VehicleType
	StartTime     time.Time
	DurationHours int
	Amount        float64
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Status        Status
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID        string
	SpotID        string
	Status        string
	PaymentStatus string
	Page          int
	PageSize      int
}
