package vehicles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// CreateVehicleInput carries the intake data for a new inventory record.
// Category-specific fields are validated in the service against the chosen
// category, not by tags, since the rules are conditional.
type CreateVehicleInput struct {
	Category enums.VehicleCategory `json:"category" validate:"required"`
	VIN      string                `json:"vin" validate:"required,min=11,max=17"`
	Plate    *string               `json:"plate,omitempty"`
	Make     string                `json:"make" validate:"required"`
	Model    string                `json:"model" validate:"required"`
	Trim     string                `json:"trim,omitempty"`
	Year     int                   `json:"year" validate:"required,min=1950"`
	Color    string                `json:"color,omitempty"`

	MileageKm    *int       `json:"mileage_km,omitempty"`
	EvaluationID *uuid.UUID `json:"evaluation_id,omitempty"`

	DemoPurpose  *string `json:"demo_purpose,omitempty"`
	IsRegistered *bool   `json:"is_registered,omitempty"`

	AcquisitionPrice decimal.NullDecimal `json:"acquisition_price,omitempty"`
	AskingPrice      decimal.NullDecimal `json:"asking_price,omitempty"`

	ActorUserID uuid.UUID `json:"actor_user_id" validate:"required"`
}

type CheckInInput struct {
	VehicleID         uuid.UUID           `json:"vehicle_id" validate:"required"`
	Source            enums.CheckInSource `json:"source" validate:"required"`
	OccurredAtUtc     time.Time           `json:"occurred_at_utc" validate:"required"`
	ResponsibleUserID uuid.UUID           `json:"responsible_user_id" validate:"required"`
	Notes             *string             `json:"notes,omitempty"`
}

type CheckOutInput struct {
	VehicleID         uuid.UUID            `json:"vehicle_id" validate:"required"`
	Reason            enums.CheckOutReason `json:"reason" validate:"required"`
	OccurredAtUtc     time.Time            `json:"occurred_at_utc" validate:"required"`
	ResponsibleUserID uuid.UUID            `json:"responsible_user_id" validate:"required"`
	BuyerID           *uuid.UUID           `json:"buyer_id,omitempty"`
	Notes             *string              `json:"notes,omitempty"`
}

type StartTestDriveInput struct {
	VehicleID     uuid.UUID `json:"vehicle_id" validate:"required"`
	SalesPersonID uuid.UUID `json:"sales_person_id" validate:"required"`
	CustomerName  string    `json:"customer_name" validate:"required"`
	StartedAtUtc  time.Time `json:"started_at_utc" validate:"required"`
	Notes         *string   `json:"notes,omitempty"`
}

type CompleteTestDriveInput struct {
	VehicleID   uuid.UUID              `json:"vehicle_id" validate:"required"`
	TestDriveID uuid.UUID              `json:"test_drive_id" validate:"required"`
	ActorUserID uuid.UUID              `json:"actor_user_id" validate:"required"`
	EndedAtUtc  time.Time              `json:"ended_at_utc" validate:"required"`
	Outcome     enums.TestDriveOutcome `json:"outcome" validate:"required"`
}

type ChangeStatusInput struct {
	VehicleID   uuid.UUID           `json:"vehicle_id" validate:"required"`
	NewStatus   enums.VehicleStatus `json:"new_status" validate:"required"`
	ActorUserID uuid.UUID           `json:"actor_user_id" validate:"required"`
	Reason      string              `json:"reason" validate:"required"`
}

// VehicleDTO is the aggregate snapshot returned by mutating operations.
type VehicleDTO struct {
	ID                 uuid.UUID             `json:"id"`
	Category           enums.VehicleCategory `json:"category"`
	Status             enums.VehicleStatus   `json:"status"`
	VIN                string                `json:"vin"`
	Plate              *string               `json:"plate,omitempty"`
	Make               string                `json:"make"`
	Model              string                `json:"model"`
	Trim               string                `json:"trim,omitempty"`
	Year               int                   `json:"year"`
	Color              string                `json:"color,omitempty"`
	MileageKm          *int                  `json:"mileage_km,omitempty"`
	EvaluationID       *uuid.UUID            `json:"evaluation_id,omitempty"`
	DemoPurpose        *string               `json:"demo_purpose,omitempty"`
	IsRegistered       *bool                 `json:"is_registered,omitempty"`
	AcquisitionPrice   decimal.NullDecimal   `json:"acquisition_price,omitempty"`
	AskingPrice        decimal.NullDecimal   `json:"asking_price,omitempty"`
	CurrentOwnerUserID *uuid.UUID            `json:"current_owner_user_id,omitempty"`
	Version            int                   `json:"version"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// NewVehicleDTO builds a snapshot from the persisted model.
func NewVehicleDTO(vehicle *models.Vehicle) *VehicleDTO {
	if vehicle == nil {
		return nil
	}
	return &VehicleDTO{
		ID:                 vehicle.ID,
		Category:           vehicle.Category,
		Status:             vehicle.Status,
		VIN:                vehicle.VIN,
		Plate:              vehicle.Plate,
		Make:               vehicle.Make,
		Model:              vehicle.Model,
		Trim:               vehicle.Trim,
		Year:               vehicle.Year,
		Color:              vehicle.Color,
		MileageKm:          vehicle.MileageKm,
		EvaluationID:       vehicle.EvaluationID,
		DemoPurpose:        vehicle.DemoPurpose,
		IsRegistered:       vehicle.IsRegistered,
		AcquisitionPrice:   vehicle.AcquisitionPrice,
		AskingPrice:        vehicle.AskingPrice,
		CurrentOwnerUserID: vehicle.CurrentOwnerUserID,
		Version:            vehicle.Version,
		CreatedAt:          vehicle.CreatedAt,
		UpdatedAt:          vehicle.UpdatedAt,
	}
}

// StartTestDriveResult pairs the new session id with the updated snapshot.
type StartTestDriveResult struct {
	TestDriveID uuid.UUID   `json:"test_drive_id"`
	Vehicle     *VehicleDTO `json:"vehicle"`
}

// HistoryEntryDTO is one row of the chronological vehicle history view.
type HistoryEntryDTO struct {
	Kind              string    `json:"kind"`
	OccurredAtUtc     time.Time `json:"occurred_at_utc"`
	ResponsibleUserID uuid.UUID `json:"responsible_user_id"`
	Summary           string    `json:"summary"`
	Detail            any       `json:"detail,omitempty"`
}
