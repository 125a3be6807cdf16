package http

import (
	"time"

	"github.com/parkorbit/parking-spot-backend/internal/pkg/request"
	"github.com/parkorbit/parking-spot-backend/internal/spot"
)

type AddressDTO struct {
	FullAddress string `json:"full_address" binding:"required"`
	Locality    string `json:"locality" binding:"required"`
	Landmark    string `json:"landmark" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Pincode     string `json:"pincode" binding:"required"`
}

type PricingDTO struct {
	Currency    string   `json:"currency" binding:"required,len=3"`
	HourlyRate  *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	DailyRate   *float64 `json:"daily_rate" binding:"omitempty,gte=0"`
	MonthlyRate *float64 `json:"monthly_rate" binding:"omitempty,gte=0"`
}

type CreateSpotRequest struct {
	Name                string     `json:"name" binding:"required,max=200"`
	ParkingType         string     `json:"parking_type" binding:"required"`
	Address             AddressDTO `json:"address" binding:"required"`
	Latitude            *float64   `json:"latitude" binding:"required"`
	Longitude           *float64   `json:"longitude" binding:"required"`
	TotalSlots          int        `json:"total_slots" binding:"gte=0"`
	OperatingHours      string     `json:"operating_hours"`
	Pricing             PricingDTO `json:"pricing" binding:"required"`
	Amenities           []string   `json:"amenities"`
	AllowedVehicleTypes []string   `json:"allowed_vehicle_types"`
	SpecialInstructions string     `json:"special_instructions" binding:"omitempty,max=500"`
}

type UpdateSpotRequest struct {
	Name                *string     `json:"name"`
	ParkingType         *string     `json:"parking_type"`
	Address             *AddressDTO `json:"address"`
	Latitude            *float64    `json:"latitude"`
	Longitude           *float64    `json:"longitude"`
	TotalSlots          *int        `json:"total_slots"`
	OperatingHours      *string     `json:"operating_hours"`
	Pricing             *PricingDTO `json:"pricing"`
	Amenities           []string    `json:"amenities"`
	AllowedVehicleTypes []string    `json:"allowed_vehicle_types"`
	SpecialInstructions *string     `json:"special_instructions"`
}

type ListSpotsRequest struct {
	request.ListParams
	City        string `form:"city"`
	ParkingType string `form:"parking_type"`
	VehicleType string `form:"vehicle_type"`
	Keyword     string `form:"q"`
}

type NearbyRequest struct {
	MinLat *float64 `form:"min_lat" binding:"required"`
	MaxLat *float64 `form:"max_lat" binding:"required"`
	MinLng *float64 `form:"min_lng" binding:"required"`
	MaxLng *float64 `form:"max_lng" binding:"required"`
}

// SpotTag is the minimal spot reference embedded in other responses.
type SpotTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SpotResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	ParkingType         string     `json:"parking_type"`
	Address             AddressDTO `json:"address"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	TotalSlots          int        `json:"total_slots"`
	AvailableSlots      int        `json:"available_slots"`
	OperatingHours      string     `json:"operating_hours,omitempty"`
	Pricing             PricingDTO `json:"pricing"`
	Amenities           []string   `json:"amenities"`
	AllowedVehicleTypes []string   `json:"allowed_vehicle_types"`
	ImageURL            *string    `json:"image_url,omitempty"`
	SpecialInstructions *string    `json:"special_instructions,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func NewSpotResponse(s *spot.Spot) SpotResponse {
	ams := make([]string, 0, len(s.Amenities))
	for _, a := range s.Amenities {
		ams = append(ams, string(a))
	}
	vts := make([]string, 0, len(s.AllowedVehicleTypes))
	for _, v := range s.AllowedVehicleTypes {
		vts = append(vts, string(v))
	}

	return SpotResponse{
		ID:          s.ID,
		Name:        s.Name,
		ParkingType: string(s.ParkingType),
		Address: AddressDTO{
			FullAddress: s.Address.FullAddress,
			Locality:    s.Address.Locality,
			Landmark:    s.Address.Landmark,
			City:        s.Address.City,
			State:       s.Address.State,
			Pincode:     s.Address.Pincode,
		},
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		TotalSlots:     s.TotalSlots,
		AvailableSlots: s.AvailableSlots,
		OperatingHours: s.OperatingHours,
		Pricing: PricingDTO{
			Currency:    s.Pricing.Currency,
			HourlyRate:  s.Pricing.HourlyRate,
			DailyRate:   s.Pricing.DailyRate,
			MonthlyRate: s.Pricing.MonthlyRate,
		},
		Amenities:           ams,
		AllowedVehicleTypes: vts,
		ImageURL:            s.ImageURL,
		SpecialInstructions: s.SpecialInstructions,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (a *AddressDTO) toModel() spot.Address {
	return spot.Address{
		FullAddress: a.FullAddress,
		Locality:    a.Locality,
		Landmark:    a.Landmark,
		City:        a.City,
		State:       a.State,
		Pincode:     a.Pincode,
	}
}

func (p *PricingDTO) toModel() spot.Pricing {
	return spot.Pricing{
		Currency:    p.Currency,
		HourlyRate:  p.HourlyRate,
		DailyRate:   p.DailyRate,
		MonthlyRate: p.MonthlyRate,
	}
}
