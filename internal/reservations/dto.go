package reservations

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// StandardReservationTTL is how long a standard reservation holds a vehicle.
const StandardReservationTTL = 48 * time.Hour

type CreateReservationInput struct {
	VehicleID     uuid.UUID             `json:"vehicle_id" validate:"required"`
	Type          enums.ReservationType `json:"type" validate:"required"`
	SalesPersonID uuid.UUID             `json:"sales_person_id" validate:"required"`

	ContextType *string    `json:"context_type,omitempty"`
	ContextID   *uuid.UUID `json:"context_id,omitempty"`

	// Required for waiting_bank reservations, ignored otherwise.
	BankDeadlineAtUtc *time.Time `json:"bank_deadline_at_utc,omitempty"`
}

type CancelReservationInput struct {
	ReservationID uuid.UUID `json:"reservation_id" validate:"required"`
	UserID        uuid.UUID `json:"user_id" validate:"required"`
	Reason        string    `json:"reason" validate:"required"`
}

type ExtendReservationInput struct {
	ReservationID   uuid.UUID `json:"reservation_id" validate:"required"`
	UserID          uuid.UUID `json:"user_id" validate:"required"`
	NewExpiresAtUtc time.Time `json:"new_expires_at_utc" validate:"required"`
}

type CompleteReservationInput struct {
	ReservationID uuid.UUID `json:"reservation_id" validate:"required"`
	UserID        uuid.UUID `json:"user_id" validate:"required"`
}

// ReservationDTO is the reservation snapshot returned by mutating operations.
type ReservationDTO struct {
	ID                   uuid.UUID               `json:"id"`
	VehicleID            uuid.UUID               `json:"vehicle_id"`
	Type                 enums.ReservationType   `json:"type"`
	Status               enums.ReservationStatus `json:"status"`
	SalesPersonID        uuid.UUID               `json:"sales_person_id"`
	ContextType          *string                 `json:"context_type,omitempty"`
	ContextID            *uuid.UUID              `json:"context_id,omitempty"`
	CreatedAtUtc         time.Time               `json:"created_at_utc"`
	ExpiresAtUtc         *time.Time              `json:"expires_at_utc,omitempty"`
	BankDeadlineAtUtc    *time.Time              `json:"bank_deadline_at_utc,omitempty"`
	CancelledAtUtc       *time.Time              `json:"cancelled_at_utc,omitempty"`
	CancellationReason   *string                 `json:"cancellation_reason,omitempty"`
	ExtendedAtUtc        *time.Time              `json:"extended_at_utc,omitempty"`
	PreviousExpiresAtUtc *time.Time              `json:"previous_expires_at_utc,omitempty"`
	CompletedAtUtc       *time.Time              `json:"completed_at_utc,omitempty"`
	ExpiredAtUtc         *time.Time              `json:"expired_at_utc,omitempty"`
	Version              int                     `json:"version"`
}

// NewReservationDTO builds a snapshot from the persisted model.
func NewReservationDTO(reservation *models.Reservation) *ReservationDTO {
	if reservation == nil {
		return nil
	}
	return &ReservationDTO{
		ID:                   reservation.ID,
		VehicleID:            reservation.VehicleID,
		Type:                 reservation.Type,
		Status:               reservation.Status,
		SalesPersonID:        reservation.SalesPersonID,
		ContextType:          reservation.ContextType,
		ContextID:            reservation.ContextID,
		CreatedAtUtc:         reservation.CreatedAtUtc,
		ExpiresAtUtc:         reservation.ExpiresAtUtc,
		BankDeadlineAtUtc:    reservation.BankDeadlineAtUtc,
		CancelledAtUtc:       reservation.CancelledAtUtc,
		CancellationReason:   reservation.CancellationReason,
		ExtendedAtUtc:        reservation.ExtendedAtUtc,
		PreviousExpiresAtUtc: reservation.PreviousExpiresAtUtc,
		CompletedAtUtc:       reservation.CompletedAtUtc,
		ExpiredAtUtc:         reservation.ExpiredAtUtc,
		Version:              reservation.Version,
	}
}
