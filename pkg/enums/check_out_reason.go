package enums

import "fmt"

// CheckOutReason describes why a vehicle leaves the lot. Each reason pins the
// target status the check-out transitions to.
type CheckOutReason string

const (
	CheckOutReasonSale      CheckOutReason = "sale"
	CheckOutReasonTotalLoss CheckOutReason = "total_loss"
	CheckOutReasonTestDrive CheckOutReason = "test_drive"
	CheckOutReasonTransfer  CheckOutReason = "transfer"
)

var validCheckOutReasons = []CheckOutReason{
	CheckOutReasonSale,
	CheckOutReasonTotalLoss,
	CheckOutReasonTestDrive,
	CheckOutReasonTransfer,
}

// IsValid reports whether the value matches the canonical check_out_reason enum.
func (r CheckOutReason) IsValid() bool {
	for _, candidate := range validCheckOutReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// TargetStatus returns the vehicle status this check-out reason leads to.
func (r CheckOutReason) TargetStatus() (VehicleStatus, error) {
	switch r {
	case CheckOutReasonSale:
		return VehicleStatusSold, nil
	case CheckOutReasonTotalLoss:
		return VehicleStatusWrittenOff, nil
	case CheckOutReasonTestDrive:
		return VehicleStatusInTestDrive, nil
	case CheckOutReasonTransfer:
		return VehicleStatusInTransit, nil
	}
	return "", fmt.Errorf("invalid check-out reason %q", r)
}

// ParseCheckOutReason converts raw input into CheckOutReason.
func ParseCheckOutReason(value string) (CheckOutReason, error) {
	for _, candidate := range validCheckOutReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid check-out reason %q", value)
}
