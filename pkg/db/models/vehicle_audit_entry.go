package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// VehicleAuditEntry is an append-only record of one vehicle status transition.
// Rows are never updated or deleted.
type VehicleAuditEntry struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleID         uuid.UUID           `gorm:"column:vehicle_id;type:uuid;not null;index"`
	OccurredAtUtc     time.Time           `gorm:"column:occurred_at_utc;not null"`
	ResponsibleUserID uuid.UUID           `gorm:"column:responsible_user_id;type:uuid;not null"`
	PreviousStatus    enums.VehicleStatus `gorm:"column:previous_status;type:vehicle_status_enum;not null"`
	NewStatus         enums.VehicleStatus `gorm:"column:new_status;type:vehicle_status_enum;not null"`
	Reason            string              `gorm:"column:reason;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (VehicleAuditEntry) TableName() string {
	return "vehicle_audit_entries"
}
