package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// VehicleCheckOut records one departure of a vehicle from the lot.
type VehicleCheckOut struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleID         uuid.UUID            `gorm:"column:vehicle_id;type:uuid;not null;index"`
	Reason            enums.CheckOutReason `gorm:"column:reason;type:check_out_reason_enum;not null"`
	OccurredAtUtc     time.Time            `gorm:"column:occurred_at_utc;not null"`
	ResponsibleUserID uuid.UUID            `gorm:"column:responsible_user_id;type:uuid;not null"`
	Notes             *string              `gorm:"column:notes"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (VehicleCheckOut) TableName() string {
	return "vehicle_check_outs"
}
