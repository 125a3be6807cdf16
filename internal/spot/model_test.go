package spot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowsVehicle(t *testing.T) {
	t.Run("empty allowed set admits every type", func(t *testing.T) {
		s := &Spot{}
		for _, vt := range []VehicleType{VehicleBikes, VehicleCars, VehicleTrucks, VehicleBuses} {
			assert.True(t, s.AllowsVehicle(vt), "expected %s to be allowed", vt)
		}
	})

	t.Run("non-empty set admits only listed types", func(t *testing.T) {
		s := &Spot{AllowedVehicleTypes: []VehicleType{VehicleBikes, VehicleCars}}

		assert.True(t, s.AllowsVehicle(VehicleBikes))
		assert.True(t, s.AllowsVehicle(VehicleCars))
		assert.False(t, s.AllowsVehicle(VehicleTrucks))
		assert.False(t, s.AllowsVehicle(VehicleBuses))
	})
}

func TestEnumValidity(t *testing.T) {
	t.Run("parking types", func(t *testing.T) {
		for _, pt := range []ParkingType{TypeStreet, TypeOpenLot, TypeCovered, TypeGarage, TypeUnderground, TypeValet} {
			assert.True(t, pt.Valid(), "expected %s to be valid", pt)
		}
		assert.False(t, ParkingType("rooftop").Valid())
		assert.False(t, ParkingType("").Valid())
	})

	t.Run("vehicle types", func(t *testing.T) {
		for _, vt := range []VehicleType{VehicleBikes, VehicleCars, VehicleTrucks, VehicleBuses} {
			assert.True(t, vt.Valid(), "expected %s to be valid", vt)
		}
		assert.False(t, VehicleType("scooters").Valid())
	})

	t.Run("amenities", func(t *testing.T) {
		for _, a := range []Amenity{AmenityCCTV, AmenitySecurityGuard, AmenityEVCharging, AmenityCarWash, AmenityCovered, AmenityLighting, AmenityWheelchairAccess} {
			assert.True(t, a.Valid(), "expected %s to be valid", a)
		}
		assert.False(t, Amenity("helipad").Valid())
	})
}
