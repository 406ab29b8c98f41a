package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

type ReservationCreated struct {
	ReservationID uuid.UUID             `json:"reservationId"`
	VehicleID     uuid.UUID             `json:"vehicleId"`
	CustomerID    uuid.UUID             `json:"customerId"`
	Type          enums.ReservationType `json:"type"`
	ExpiresAt     *time.Time            `json:"expiresAt,omitempty"`
}

// ReservationReleased accompanies any terminal reservation event so
// downstream consumers can react to the vehicle going back on the floor
// without caring how the reservation ended.
type ReservationReleased struct {
	ReservationID uuid.UUID               `json:"reservationId"`
	VehicleID     uuid.UUID               `json:"vehicleId"`
	FinalStatus   enums.ReservationStatus `json:"finalStatus"`
	ReleasedAt    time.Time               `json:"releasedAt"`
}

type ReservationCancelled struct {
	ReservationID uuid.UUID `json:"reservationId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	Reason        string    `json:"reason,omitempty"`
	CancelledAt   time.Time `json:"cancelledAt"`
}

type ReservationExtended struct {
	ReservationID     uuid.UUID  `json:"reservationId"`
	VehicleID         uuid.UUID  `json:"vehicleId"`
	PreviousExpiresAt *time.Time `json:"previousExpiresAt,omitempty"`
	NewExpiresAt      time.Time  `json:"newExpiresAt"`
}

type ReservationCompleted struct {
	ReservationID uuid.UUID `json:"reservationId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	CompletedAt   time.Time `json:"completedAt"`
}

type ReservationExpired struct {
	ReservationID uuid.UUID `json:"reservationId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	ExpiredAt     time.Time `json:"expiredAt"`
}
