package enums

import "fmt"

// ReservationStatus maps to the reservation_status enum in Postgres.
// Every status other than Active is terminal.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusExpired   ReservationStatus = "expired"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusActive,
	ReservationStatusCancelled,
	ReservationStatusCompleted,
	ReservationStatusExpired,
}

// IsValid reports whether the value matches the canonical reservation_status enum.
func (s ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the reservation can no longer change state.
func (s ReservationStatus) IsTerminal() bool {
	return s != ReservationStatusActive
}

// ParseReservationStatus converts raw input into ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}
