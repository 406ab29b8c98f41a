package enums

import "fmt"

// CheckInSource describes where a vehicle came from at intake.
type CheckInSource string

const (
	CheckInSourceManufacturer         CheckInSource = "manufacturer"
	CheckInSourceCustomerUsedPurchase CheckInSource = "customer_used_purchase"
	CheckInSourceTradeIn              CheckInSource = "trade_in"
	CheckInSourceDealerTransfer       CheckInSource = "dealer_transfer"
)

var validCheckInSources = []CheckInSource{
	CheckInSourceManufacturer,
	CheckInSourceCustomerUsedPurchase,
	CheckInSourceTradeIn,
	CheckInSourceDealerTransfer,
}

// IsValid reports whether the value matches the canonical check_in_source enum.
func (s CheckInSource) IsValid() bool {
	for _, candidate := range validCheckInSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCheckInSource converts raw input into CheckInSource.
func ParseCheckInSource(value string) (CheckInSource, error) {
	for _, candidate := range validCheckInSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid check-in source %q", value)
}
