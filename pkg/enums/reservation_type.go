package enums

import "fmt"

// ReservationType maps to the reservation_type enum in Postgres and drives
// how the expiry deadline is derived at creation.
type ReservationType string

const (
	// ReservationTypeStandard expires 48 hours after creation.
	ReservationTypeStandard ReservationType = "standard"
	// ReservationTypePaidDeposit never expires automatically.
	ReservationTypePaidDeposit ReservationType = "paid_deposit"
	// ReservationTypeWaitingBank expires at the caller-supplied bank deadline.
	ReservationTypeWaitingBank ReservationType = "waiting_bank"
)

var validReservationTypes = []ReservationType{
	ReservationTypeStandard,
	ReservationTypePaidDeposit,
	ReservationTypeWaitingBank,
}

// IsValid reports whether the value matches the canonical reservation_type enum.
func (t ReservationType) IsValid() bool {
	for _, candidate := range validReservationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasExpiry reports whether reservations of this type carry a deadline.
func (t ReservationType) HasExpiry() bool {
	return t != ReservationTypePaidDeposit
}

// ParseReservationType converts raw input into ReservationType.
func ParseReservationType(value string) (ReservationType, error) {
	for _, candidate := range validReservationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation type %q", value)
}
