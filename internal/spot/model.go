package spot

import (
	"net/http"
	"time"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.New(http.StatusNotFound, "spot not found")
	// ErrNoSlots is returned when the advisory availability check fails.
	ErrNoSlots = apperror.New(http.StatusConflict, "no slots available")
	// ErrSlotsSoldOut is returned when the atomic decrement matched no row,
	// i.e. a concurrent booking consumed the last slot.
	ErrSlotsSoldOut = apperror.New(http.StatusConflict, "slot just sold out")
)

// ParkingType classifies the physical kind of parking a spot offers.
type ParkingType string

const (
	TypeStreet      ParkingType = "street"
	TypeOpenLot     ParkingType = "open_lot"
	TypeCovered     ParkingType = "covered"
	TypeGarage      ParkingType = "garage"
	TypeUnderground ParkingType = "underground"
	TypeValet       ParkingType = "valet"
)

var parkingTypes = map[ParkingType]bool{
	TypeStreet:      true,
	TypeOpenLot:     true,
	TypeCovered:     true,
	TypeGarage:      true,
	TypeUnderground: true,
	TypeValet:       true,
}

// Valid reports whether the parking type is one of the known values.
func (p ParkingType) Valid() bool {
	return parkingTypes[p]
}

// VehicleType classifies the vehicle a booking is made for.
type VehicleType string

const (
	VehicleBikes  VehicleType = "bikes"
	VehicleCars   VehicleType = "cars"
	VehicleTrucks VehicleType = "trucks"
	VehicleBuses  VehicleType = "buses"
)

var vehicleTypes = map[VehicleType]bool{
	VehicleBikes:  true,
	VehicleCars:   true,
	VehicleTrucks: true,
	VehicleBuses:  true,
}

// Valid reports whether the vehicle type is one of the known values.
func (v VehicleType) Valid() bool {
	return vehicleTypes[v]
}

// Amenity is an extra facility a spot advertises.
type Amenity string

const (
	AmenityCCTV             Amenity = "cctv"
	AmenitySecurityGuard    Amenity = "security_guard"
	AmenityEVCharging       Amenity = "ev_charging"
	AmenityCarWash          Amenity = "car_wash"
	AmenityCovered          Amenity = "covered"
	AmenityLighting         Amenity = "lighting"
	AmenityWheelchairAccess Amenity = "wheelchair_access"
)

var amenities = map[Amenity]bool{
	AmenityCCTV:             true,
	AmenitySecurityGuard:    true,
	AmenityEVCharging:       true,
	AmenityCarWash:          true,
	AmenityCovered:          true,
	AmenityLighting:         true,
	AmenityWheelchairAccess: true,
}

// Valid reports whether the amenity is one of the known values.
func (a Amenity) Valid() bool {
	return amenities[a]
}

// Address is the structured location of a spot. All fields are required.
type Address struct {
	FullAddress string
	Locality    string
	Landmark    string
	City        string
	State       string
	Pincode     string
}

// Pricing holds the rates a spot charges. Nil rate means not offered.
type Pricing struct {
	Currency    string
	HourlyRate  *float64
	DailyRate   *float64
	MonthlyRate *float64
}

// Spot is a parking location with a fixed total capacity and a live
// counter of currently available capacity.
type Spot struct {
	ID                  string
	Name                string
	ParkingType         ParkingType
	Address             Address
	Latitude            float64
	Longitude           float64
	TotalSlots          int
	AvailableSlots      int
	OperatingHours      string
	Pricing             Pricing
	Amenities           []Amenity
	AllowedVehicleTypes []VehicleType
	ImageURL            *string
	SpecialInstructions *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AllowsVehicle reports whether the spot admits the given vehicle type.
// An empty allowed set admits every known type.
func (s *Spot) AllowsVehicle(vt VehicleType) bool {
	if len(s.AllowedVehicleTypes) == 0 {
		return true
	}
	for _, allowed := range s.AllowedVehicleTypes {
		if allowed == vt {
			return true
		}
	}
	return false
}

// Filter defines parameters for listing spots.
type Filter struct {
	City        string
	ParkingType string
	VehicleType string
	Keyword     string // Search in name or full address
	Page        int
	PageSize    int
}

// BoundingBox defines a lat/lng window for nearby search.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}
