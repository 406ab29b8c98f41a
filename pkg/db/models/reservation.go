package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// Reservation is a time-boxed claim on a vehicle by a salesperson. The
// "at most one active reservation per vehicle" invariant is enforced by the
// partial unique index ux_reservations_vehicle_active, not application code.
type Reservation struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleID uuid.UUID               `gorm:"column:vehicle_id;type:uuid;not null;index"`
	Type      enums.ReservationType   `gorm:"column:type;type:reservation_type_enum;not null"`
	Status    enums.ReservationStatus `gorm:"column:status;type:reservation_status_enum;not null"`

	SalesPersonID uuid.UUID `gorm:"column:sales_person_id;type:uuid;not null"`

	// Polymorphic reference to the commercial entity that originated the claim.
	ContextType *string    `gorm:"column:context_type"`
	ContextID   *uuid.UUID `gorm:"column:context_id;type:uuid"`

	CreatedAtUtc      time.Time  `gorm:"column:created_at_utc;not null"`
	ExpiresAtUtc      *time.Time `gorm:"column:expires_at_utc"`
	BankDeadlineAtUtc *time.Time `gorm:"column:bank_deadline_at_utc"`

	CancelledAtUtc     *time.Time `gorm:"column:cancelled_at_utc"`
	CancelledByUserID  *uuid.UUID `gorm:"column:cancelled_by_user_id;type:uuid"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`

	ExtendedAtUtc        *time.Time `gorm:"column:extended_at_utc"`
	ExtendedByUserID     *uuid.UUID `gorm:"column:extended_by_user_id;type:uuid"`
	PreviousExpiresAtUtc *time.Time `gorm:"column:previous_expires_at_utc"`

	CompletedAtUtc    *time.Time `gorm:"column:completed_at_utc"`
	CompletedByUserID *uuid.UUID `gorm:"column:completed_by_user_id;type:uuid"`

	ExpiredAtUtc *time.Time `gorm:"column:expired_at_utc"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reservation) TableName() string {
	return "reservations"
}
