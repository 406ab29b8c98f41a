package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// VehicleCreated is emitted once per vehicle, when it first enters the system.
type VehicleCreated struct {
	VehicleID uuid.UUID             `json:"vehicleId"`
	VIN       string                `json:"vin"`
	Category  enums.VehicleCategory `json:"category"`
	Status    enums.VehicleStatus   `json:"status"`
	Make      string                `json:"make"`
	Model     string                `json:"model"`
	Year      int                   `json:"year"`
}

// VehicleStatusChanged is emitted on every lifecycle transition, alongside
// any more specific event for the same commit.
type VehicleStatusChanged struct {
	VehicleID  uuid.UUID           `json:"vehicleId"`
	FromStatus enums.VehicleStatus `json:"fromStatus"`
	ToStatus   enums.VehicleStatus `json:"toStatus"`
	Reason     string              `json:"reason,omitempty"`
}

type VehicleCheckedIn struct {
	VehicleID uuid.UUID           `json:"vehicleId"`
	CheckInID uuid.UUID           `json:"checkInId"`
	Source    enums.CheckInSource `json:"source"`
	Status    enums.VehicleStatus `json:"status"`
}

type VehicleSold struct {
	VehicleID  uuid.UUID  `json:"vehicleId"`
	CheckOutID uuid.UUID  `json:"checkOutId"`
	BuyerID    *uuid.UUID `json:"buyerId,omitempty"`
	SoldAt     time.Time  `json:"soldAt"`
}

type VehicleWrittenOff struct {
	VehicleID    uuid.UUID `json:"vehicleId"`
	CheckOutID   uuid.UUID `json:"checkOutId"`
	Reason       string    `json:"reason,omitempty"`
	WrittenOffAt time.Time `json:"writtenOffAt"`
}

type VehicleTestDriveStarted struct {
	VehicleID uuid.UUID `json:"vehicleId"`
	SessionID uuid.UUID `json:"sessionId"`
	DriverID  uuid.UUID `json:"driverId"`
	StartedAt time.Time `json:"startedAt"`
}

type VehicleTestDriveCompleted struct {
	VehicleID uuid.UUID              `json:"vehicleId"`
	SessionID uuid.UUID              `json:"sessionId"`
	Outcome   enums.TestDriveOutcome `json:"outcome"`
	EndedAt   time.Time              `json:"endedAt"`
}
