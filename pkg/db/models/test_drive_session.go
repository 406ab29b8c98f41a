package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// TestDriveSession tracks one test drive from start to completion. EndedAtUtc
// and Outcome stay null while the drive is in progress.
type TestDriveSession struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleID     uuid.UUID               `gorm:"column:vehicle_id;type:uuid;not null;index"`
	SalesPersonID uuid.UUID               `gorm:"column:sales_person_id;type:uuid;not null"`
	CustomerName  string                  `gorm:"column:customer_name;not null"`
	StartedAtUtc  time.Time               `gorm:"column:started_at_utc;not null"`
	EndedAtUtc    *time.Time              `gorm:"column:ended_at_utc"`
	Outcome       *enums.TestDriveOutcome `gorm:"column:outcome;type:test_drive_outcome_enum"`
	Notes         *string                 `gorm:"column:notes"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (TestDriveSession) TableName() string {
	return "test_drive_sessions"
}
