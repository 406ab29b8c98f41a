package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// Vehicle is the inventory aggregate root. Category is fixed at intake; status
// only moves along the lifecycle transition table. The version column backs
// optimistic concurrency: every update must match the loaded version.
type Vehicle struct {
	ID       uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category enums.VehicleCategory `gorm:"column:category;type:vehicle_category_enum;not null"`
	Status   enums.VehicleStatus   `gorm:"column:status;type:vehicle_status_enum;not null"`

	VIN   string  `gorm:"column:vin;not null;uniqueIndex:ux_vehicles_vin"`
	Plate *string `gorm:"column:plate"`

	Make  string `gorm:"column:make;not null"`
	Model string `gorm:"column:model;not null"`
	Trim  string `gorm:"column:trim"`
	Year  int    `gorm:"column:year;not null"`
	Color string `gorm:"column:color"`

	// Used-only fields.
	MileageKm    *int       `gorm:"column:mileage_km"`
	EvaluationID *uuid.UUID `gorm:"column:evaluation_id;type:uuid"`

	// Demonstration-only fields.
	DemoPurpose  *string `gorm:"column:demo_purpose"`
	IsRegistered *bool   `gorm:"column:is_registered"`

	AcquisitionPrice decimal.NullDecimal `gorm:"column:acquisition_price;type:numeric(12,2)"`
	AskingPrice      decimal.NullDecimal `gorm:"column:asking_price;type:numeric(12,2)"`

	CurrentOwnerUserID *uuid.UUID `gorm:"column:current_owner_user_id;type:uuid"`

	Version   int       `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	CheckIns   []VehicleCheckIn   `gorm:"foreignKey:VehicleID"`
	CheckOuts  []VehicleCheckOut  `gorm:"foreignKey:VehicleID"`
	TestDrives []TestDriveSession `gorm:"foreignKey:VehicleID"`
}

// TableName overrides the default table name.
func (Vehicle) TableName() string {
	return "vehicles"
}
