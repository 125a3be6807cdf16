package booking

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/metrics"
	"github.com/parkorbit/parking-spot-backend/internal/spot"
)

// SpotGateway is the slice of the spot service the booking core needs.
type SpotGateway interface {
	GetByID(ctx context.Context, id string) (*spot.Spot, error)
	ReserveSlot(ctx context.Context, id string) (*spot.Spot, error)
	ReleaseSlot(ctx context.Context, id string) error
}

// CreateRequest carries a booking creation attempt.
type CreateRequest struct {
	UserID        *string // owning user; nil for admin-entered walk-ins
	SpotID        string
	CustomerName  string
	CustomerPhone string
	VehicleNumber string
	VehicleType   string
	DurationHours int        // clamped to a minimum of 1
	PaymentMethod string     // defaults to cod
	StartTime     *time.Time // defaults to now
	Notes         string
}

// UpdateStatusRequest carries an admin status edit. Nil fields are left
// unchanged.
type UpdateStatusRequest struct {
	Status        *string
	PaymentStatus *string
}

type Service interface {
	// Create validates the request, atomically reserves a slot on the
	// spot, and persists the booking, releasing the slot again if
	// persistence fails.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// UpdateStatus edits status/payment status fields only. It never
	// touches spot capacity: a booking cancelled through this path does
	// NOT release its slot. Capacity moves only via Create, Cancel and
	// Delete.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Booking, error)

	// Cancel is the user-facing self-cancel: ownership-checked,
	// idempotent, releases the slot once.
	Cancel(ctx context.Context, id, requesterUserID string) (*Booking, error)

	// Delete removes the booking and releases its slot. Release failure
	// is logged, not surfaced.
	Delete(ctx context.Context, id string) error

	// Export renders bookings starting in [from, to] as an XLSX file.
	Export(ctx context.Context, from, to time.Time) ([]byte, error)
}

type service struct {
	repo    Repository
	spots   SpotGateway
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewService(repo Repository, spots SpotGateway, log zerolog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:    repo,
		spots:   spots,
		log:     log,
		metrics: m,
	}
}

// amount computes the booking price: hourly rate times duration when an
// hourly rate is configured, otherwise the flat daily rate, otherwise 0.
func amount(pricing spot.Pricing, durationHours int) float64 {
	if durationHours < 1 {
		durationHours = 1
	}
	if pricing.HourlyRate != nil {
		return *pricing.HourlyRate * float64(durationHours)
	}
	if pricing.DailyRate != nil {
		return *pricing.DailyRate
	}
	return 0
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Required fields.
	missing := []string{}
	if strings.TrimSpace(req.SpotID) == "" {
		missing = append(missing, "spot_id")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		missing = append(missing, "customer_phone")
	}
	if strings.TrimSpace(req.VehicleNumber) == "" {
		missing = append(missing, "vehicle_number")
	}
	if strings.TrimSpace(req.VehicleType) == "" {
		missing = append(missing, "vehicle_type")
	}
	if len(missing) > 0 {
		return nil, apperror.New(http.StatusBadRequest, "required fields are missing").WithFields(missing...)
	}

	// 2. Payment method. Online checkout has no settlement flow wired,
	// so it must fail loudly rather than silently succeed.
	method := MethodCOD
	if req.PaymentMethod != "" {
		method = PaymentMethod(req.PaymentMethod)
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if method != MethodCOD {
		return nil, ErrOnlineNotAvailable
	}

	// 3. Spot must exist.
	sp, err := s.spots.GetByID(ctx, req.SpotID)
	if err != nil {
		if errors.Is(err, spot.ErrNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	// 4. Advisory capacity check. The atomic decrement below is the
	// authoritative one.
	if sp.AvailableSlots <= 0 {
		if s.metrics != nil {
			s.metrics.CapacityConflicts.Inc()
		}
		return nil, spot.ErrNoSlots
	}

	// 5. Vehicle type must be known.
	vt := spot.VehicleType(req.VehicleType)
	if !vt.Valid() {
		return nil, ErrInvalidVehicleType
	}

	// 6. Spot policy.
	if !sp.AllowsVehicle(vt) {
		return nil, errVehicleNotAllowed(sp.AllowedVehicleTypes)
	}

	duration := req.DurationHours
	if duration < 1 {
		duration = 1
	}

	startTime := time.Now().UTC()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	// Reserve: the returned post-update spot is the proof of success.
	if _, err := s.spots.ReserveSlot(ctx, sp.ID); err != nil {
		if errors.Is(err, spot.ErrSlotsSoldOut) || errors.Is(err, spot.ErrNotFound) {
			if s.metrics != nil {
				s.metrics.CapacityConflicts.Inc()
			}
		}
		return nil, err
	}

	b := &Booking{
		UserID:        req.UserID,
		SpotID:        sp.ID,
		SpotName:      sp.Name,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		VehicleNumber: strings.TrimSpace(req.VehicleNumber),
		VehicleType:   vt,
		StartTime:     startTime,
		DurationHours: duration,
		Amount:        amount(sp.Pricing, duration),
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		Status:        StatusPending,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		// Compensate: the reservation must not outlive a failed insert.
		if releaseErr := s.spots.ReleaseSlot(ctx, sp.ID); releaseErr != nil {
			s.log.Error().Err(releaseErr).
				Str("spot_id", sp.ID).
				Msg("failed to release slot after booking create failure")
		}
		if s.metrics != nil {
			s.metrics.AdmissionRollbacks.Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.WithLabelValues(string(method)).Inc()
	}

	// Reload through the joined query so the user/spot display fields are
	// populated on the create response too.
	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("booking_id", b.ID).Msg("failed to reload booking after create")
		return b, nil
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		st := Status(*req.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus.WithFields("status")
		}
		b.Status = st
	}
	if req.PaymentStatus != nil {
		ps := PaymentStatus(*req.PaymentStatus)
		if !ps.Valid() {
			return nil, ErrInvalidPaymentStatus.WithFields("payment_status")
		}
		b.PaymentStatus = ps
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id, requesterUserID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.UserID == nil || *b.UserID != requesterUserID {
		return nil, ErrPermissionDenied
	}

	// Idempotent: a booking already cancelled released its slot once and
	// must not release it again.
	if b.Status == StatusCancelled {
		return b, nil
	}

	b.Status = StatusCancelled
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.releaseSlotBestEffort(ctx, b, "cancel")

	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.releaseSlotBestEffort(ctx, b, "delete")

	return nil
}

// releaseSlotBestEffort increments the spot counter after a delete or
// cancel. The record mutation already succeeded and is the stronger
// guarantee, so a failing release is logged as capacity drift instead of
// failing the caller.
func (s *service) releaseSlotBestEffort(ctx context.Context, b *Booking, op string) {
	if err := s.spots.ReleaseSlot(ctx, b.SpotID); err != nil {
		s.log.Warn().Err(err).
			Str("op", op).
			Str("booking_id", b.ID).
			Str("spot_id", b.SpotID).
			Msg("failed to release slot; capacity may drift until reconciled")
		if s.metrics != nil {
			s.metrics.SlotReleaseFailures.Inc()
		}
	}
}
