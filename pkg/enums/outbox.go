package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateVehicle     OutboxAggregateType = "vehicle"
	AggregateReservation OutboxAggregateType = "reservation"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateVehicle,
	AggregateReservation,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventVehicleCreated            OutboxEventType = "vehicle_created"
	EventVehicleStatusChanged      OutboxEventType = "vehicle_status_changed"
	EventVehicleCheckedIn          OutboxEventType = "vehicle_checked_in"
	EventVehicleSold               OutboxEventType = "vehicle_sold"
	EventVehicleWrittenOff         OutboxEventType = "vehicle_written_off"
	EventVehicleTestDriveStarted   OutboxEventType = "vehicle_test_drive_started"
	EventVehicleTestDriveCompleted OutboxEventType = "vehicle_test_drive_completed"
	EventReservationCreated        OutboxEventType = "reservation_created"
	EventReservationReleased       OutboxEventType = "reservation_released"
	EventReservationCancelled      OutboxEventType = "reservation_cancelled"
	EventReservationExtended       OutboxEventType = "reservation_extended"
	EventReservationCompleted      OutboxEventType = "reservation_completed"
	EventReservationExpired        OutboxEventType = "reservation_expired"
)

var validOutboxEventTypes = []OutboxEventType{
	EventVehicleCreated,
	EventVehicleStatusChanged,
	EventVehicleCheckedIn,
	EventVehicleSold,
	EventVehicleWrittenOff,
	EventVehicleTestDriveStarted,
	EventVehicleTestDriveCompleted,
	EventReservationCreated,
	EventReservationReleased,
	EventReservationCancelled,
	EventReservationExtended,
	EventReservationCompleted,
	EventReservationExpired,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
