package enums

import "fmt"

// VehicleStatus maps to the vehicle_status enum in Postgres.
type VehicleStatus string

const (
	VehicleStatusInTransit     VehicleStatus = "in_transit"
	VehicleStatusInStock       VehicleStatus = "in_stock"
	VehicleStatusReserved      VehicleStatus = "reserved"
	VehicleStatusInTestDrive   VehicleStatus = "in_test_drive"
	VehicleStatusInPreparation VehicleStatus = "in_preparation"
	VehicleStatusSold          VehicleStatus = "sold"
	VehicleStatusWrittenOff    VehicleStatus = "written_off"
)

var validVehicleStatuses = []VehicleStatus{
	VehicleStatusInTransit,
	VehicleStatusInStock,
	VehicleStatusReserved,
	VehicleStatusInTestDrive,
	VehicleStatusInPreparation,
	VehicleStatusSold,
	VehicleStatusWrittenOff,
}

// IsValid reports whether the value matches the canonical vehicle_status enum.
func (s VehicleStatus) IsValid() bool {
	for _, candidate := range validVehicleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s VehicleStatus) IsTerminal() bool {
	return s == VehicleStatusSold || s == VehicleStatusWrittenOff
}

// ParseVehicleStatus converts raw input into VehicleStatus.
func ParseVehicleStatus(value string) (VehicleStatus, error) {
	for _, candidate := range validVehicleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle status %q", value)
}
