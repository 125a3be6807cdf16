package spot

import (
	"context"
	"net/http"
	"strings"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
)

const maxSpecialInstructions = 500

// CreateRequest carries the fields for creating a spot.
type CreateRequest struct {
	Name                string
	ParkingType         string
	Address             Address
	Latitude            float64
	Longitude           float64
	TotalSlots          int
	OperatingHours      string
	Pricing             Pricing
	Amenities           []string
	AllowedVehicleTypes []string
	SpecialInstructions string
}

// UpdateRequest carries optional fields for updating a spot.
// Nil fields are left unchanged.
type UpdateRequest struct {
	Name                *string
	ParkingType         *string
	Address             *Address
	Latitude            *float64
	Longitude           *float64
	TotalSlots          *int
	OperatingHours      *string
	Pricing             *Pricing
	Amenities           []string
	AllowedVehicleTypes []string
	SpecialInstructions *string
}

// Service defines business logic related to spots.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Spot, error)
	GetByID(ctx context.Context, id string) (*Spot, error)
	List(ctx context.Context, filter Filter) ([]*Spot, int, error)
	Nearby(ctx context.Context, box BoundingBox) ([]*Spot, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Spot, error)
	Delete(ctx context.Context, id string) error
	SetImageURL(ctx context.Context, id, url string) error

	// ReserveSlot and ReleaseSlot expose the repository's atomic counter
	// operations to the booking core.
	ReserveSlot(ctx context.Context, id string) (*Spot, error)
	ReleaseSlot(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new spot Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateAddress(a Address) error {
	missing := []string{}
	if strings.TrimSpace(a.FullAddress) == "" {
		missing = append(missing, "full_address")
	}
	if strings.TrimSpace(a.Locality) == "" {
		missing = append(missing, "locality")
	}
	if strings.TrimSpace(a.Landmark) == "" {
		missing = append(missing, "landmark")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(a.Pincode) == "" {
		missing = append(missing, "pincode")
	}
	if len(missing) > 0 {
		return apperror.New(http.StatusBadRequest, "address fields are required").WithFields(missing...)
	}
	return nil
}

func validatePricing(p Pricing) error {
	if strings.TrimSpace(p.Currency) == "" {
		return apperror.New(http.StatusBadRequest, "currency is required")
	}
	for field, rate := range map[string]*float64{
		"hourly_rate":  p.HourlyRate,
		"daily_rate":   p.DailyRate,
		"monthly_rate": p.MonthlyRate,
	} {
		if rate != nil && *rate < 0 {
			return apperror.Newf(http.StatusBadRequest, "%s must not be negative", field)
		}
	}
	return nil
}

func parseAmenities(values []string) ([]Amenity, error) {
	out := make([]Amenity, 0, len(values))
	for _, v := range values {
		a := Amenity(v)
		if !a.Valid() {
			return nil, apperror.Newf(http.StatusBadRequest, "unknown amenity %q", v)
		}
		out = append(out, a)
	}
	return out, nil
}

func parseVehicleTypes(values []string) ([]VehicleType, error) {
	out := make([]VehicleType, 0, len(values))
	for _, v := range values {
		vt := VehicleType(v)
		if !vt.Valid() {
			return nil, apperror.Newf(http.StatusBadRequest, "unknown vehicle type %q", v)
		}
		out = append(out, vt)
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Spot, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.New(http.StatusBadRequest, "name is required").WithFields("name")
	}
	pt := ParkingType(req.ParkingType)
	if !pt.Valid() {
		return nil, apperror.Newf(http.StatusBadRequest, "unknown parking type %q", req.ParkingType)
	}
	if err := validateAddress(req.Address); err != nil {
		return nil, err
	}
	if req.TotalSlots < 0 {
		return nil, apperror.New(http.StatusBadRequest, "total_slots must not be negative")
	}
	if err := validatePricing(req.Pricing); err != nil {
		return nil, err
	}
	if len(req.SpecialInstructions) > maxSpecialInstructions {
		return nil, apperror.Newf(http.StatusBadRequest, "special instructions must be at most %d characters", maxSpecialInstructions)
	}

	ams, err := parseAmenities(req.Amenities)
	if err != nil {
		return nil, err
	}
	vts, err := parseVehicleTypes(req.AllowedVehicleTypes)
	if err != nil {
		return nil, err
	}

	sp := &Spot{
		Name:                strings.TrimSpace(req.Name),
		ParkingType:         pt,
		Address:             req.Address,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		TotalSlots:          req.TotalSlots,
		AvailableSlots:      req.TotalSlots, // a new spot starts fully available
		OperatingHours:      req.OperatingHours,
		Pricing:             req.Pricing,
		Amenities:           ams,
		AllowedVehicleTypes: vts,
	}
	if v := strings.TrimSpace(req.SpecialInstructions); v != "" {
		sp.SpecialInstructions = &v
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Spot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Spot, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Nearby(ctx context.Context, box BoundingBox) ([]*Spot, error) {
	if box.MinLat > box.MaxLat || box.MinLng > box.MaxLng {
		return nil, apperror.New(http.StatusBadRequest, "invalid bounding box")
	}
	return s.repo.ListWithin(ctx, box)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Spot, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperror.New(http.StatusBadRequest, "name must not be empty").WithFields("name")
		}
		sp.Name = strings.TrimSpace(*req.Name)
	}
	if req.ParkingType != nil {
		pt := ParkingType(*req.ParkingType)
		if !pt.Valid() {
			return nil, apperror.Newf(http.StatusBadRequest, "unknown parking type %q", *req.ParkingType)
		}
		sp.ParkingType = pt
	}
	if req.Address != nil {
		if err := validateAddress(*req.Address); err != nil {
			return nil, err
		}
		sp.Address = *req.Address
	}
	if req.Latitude != nil {
		sp.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		sp.Longitude = *req.Longitude
	}
	slotsDelta := 0
	if req.TotalSlots != nil {
		if *req.TotalSlots < 0 {
			return nil, apperror.New(http.StatusBadRequest, "total_slots must not be negative")
		}
		// Resizing shifts available capacity by the same delta. The shift
		// is applied in the repository's update statement against the live
		// counter, not the copy read above, so concurrent reservations
		// survive the edit.
		slotsDelta = *req.TotalSlots - sp.TotalSlots
		sp.TotalSlots = *req.TotalSlots
	}
	if req.OperatingHours != nil {
		sp.OperatingHours = *req.OperatingHours
	}
	if req.Pricing != nil {
		if err := validatePricing(*req.Pricing); err != nil {
			return nil, err
		}
		sp.Pricing = *req.Pricing
	}
	if req.Amenities != nil {
		ams, err := parseAmenities(req.Amenities)
		if err != nil {
			return nil, err
		}
		sp.Amenities = ams
	}
	if req.AllowedVehicleTypes != nil {
		vts, err := parseVehicleTypes(req.AllowedVehicleTypes)
		if err != nil {
			return nil, err
		}
		sp.AllowedVehicleTypes = vts
	}
	if req.SpecialInstructions != nil {
		if len(*req.SpecialInstructions) > maxSpecialInstructions {
			return nil, apperror.Newf(http.StatusBadRequest, "special instructions must be at most %d characters", maxSpecialInstructions)
		}
		v := strings.TrimSpace(*req.SpecialInstructions)
		if v == "" {
			sp.SpecialInstructions = nil
		} else {
			sp.SpecialInstructions = &v
		}
	}

	if err := s.repo.Update(ctx, sp, slotsDelta); err != nil {
		return nil, err
	}

	// The counter was adjusted in the database; reload to return it.
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	// Existing bookings are intentionally left untouched; they become
	// orphaned and keep their snapshot data.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) SetImageURL(ctx context.Context, id, url string) error {
	return s.repo.SetImageURL(ctx, id, url)
}

func (s *service) ReserveSlot(ctx context.Context, id string) (*Spot, error) {
	return s.repo.ReserveSlot(ctx, id)
}

func (s *service) ReleaseSlot(ctx context.Context, id string) error {
	return s.repo.ReleaseSlot(ctx, id)
}
