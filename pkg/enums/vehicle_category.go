package enums

import "fmt"

// VehicleCategory maps to the vehicle_category enum in Postgres. It is fixed
// at intake and never changes for the life of the vehicle.
type VehicleCategory string

const (
	VehicleCategoryNew           VehicleCategory = "new"
	VehicleCategoryUsed          VehicleCategory = "used"
	VehicleCategoryDemonstration VehicleCategory = "demonstration"
)

var validVehicleCategories = []VehicleCategory{
	VehicleCategoryNew,
	VehicleCategoryUsed,
	VehicleCategoryDemonstration,
}

// IsValid reports whether the value matches the canonical vehicle_category enum.
func (c VehicleCategory) IsValid() bool {
	for _, candidate := range validVehicleCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseVehicleCategory converts raw input into VehicleCategory.
func ParseVehicleCategory(value string) (VehicleCategory, error) {
	for _, candidate := range validVehicleCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle category %q", value)
}
