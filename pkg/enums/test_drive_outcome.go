package enums

import "fmt"

// TestDriveOutcome captures how a test drive ended.
type TestDriveOutcome string

const (
	TestDriveOutcomeReturnedToStock        TestDriveOutcome = "returned_to_stock"
	TestDriveOutcomeConvertedToReservation TestDriveOutcome = "converted_to_reservation"
)

var validTestDriveOutcomes = []TestDriveOutcome{
	TestDriveOutcomeReturnedToStock,
	TestDriveOutcomeConvertedToReservation,
}

// IsValid reports whether the value matches the canonical test_drive_outcome enum.
func (o TestDriveOutcome) IsValid() bool {
	for _, candidate := range validTestDriveOutcomes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseTestDriveOutcome converts raw input into TestDriveOutcome.
func ParseTestDriveOutcome(value string) (TestDriveOutcome, error) {
	for _, candidate := range validTestDriveOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid test drive outcome %q", value)
}
