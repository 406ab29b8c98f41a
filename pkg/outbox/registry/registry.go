package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dealerdesk/dealerdesk-backend/pkg/config"
	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate/topic/payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topic          string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the publisher should park a row instead of
// retrying it.
type NonRetryableError struct {
	Err error
}

// Error implements error.
func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

// NewEventRegistry builds the registry with the configured topic names.
// Vehicle lifecycle events flow to the inventory topic, reservation
// lifecycle events to the reservations topic.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.InventoryTopic == "" {
		return nil, fmt.Errorf("inventory topic is required")
	}
	if cfg.ReservationsTopic == "" {
		return nil, fmt.Errorf("reservations topic is required")
	}

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	inventoryTopic := cfg.InventoryTopic
	reservationsTopic := cfg.ReservationsTopic

	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventVehicleCreated,
			AggregateType:  enums.AggregateVehicle,
			Topic:          inventoryTopic,
			PayloadFactory: func() interface{} { return &payloads.VehicleCreated{} },
		},
		{
			EventType:      enums.EventVehicleStatusChanged,
			AggregateType:  enums.AggregateVehicle,
			Topic:          inventoryTopic,
			PayloadFactory: func() interface{} { return &payloads.VehicleStatusChanged{} },
		},
		{
			EventType:      enums.EventVehicleCheckedIn,
			AggregateType:  enums.AggregateVehicle,
			Topic:          inventoryTopic,
			PayloadFactory: func() interface{} { return &payloads.VehicleCheckedIn{} },
		},
		{
			EventType:      enums.EventVehicleSold,
			AggregateType:  enums.AggregateVehicle,
			Topic:          inventoryTopic,
			PayloadFactory: func() interface{} { return &payloads.VehicleSold{} },
		},
		{
			EventType:      enums.EventVehicleWrittenOff,
			AggregateType:  enums.AggregateVehicle,
			Topic:          inventoryTopic,
			PayloadFactory: func() interface{} { return &payloads.VehicleWrittenOff{} },
		},
		{
			EventType:      enums.EventVehicleTestDriveStarted,
			AggregateType:  enums.AggregateVehicle,
			Topic:          inventoryTopic,
			PayloadFactory: func() interface{} { return &payloads.VehicleTestDriveStarted{} },
		},
		{
			EventType:      enums.EventVehicleTestDriveCompleted,
			AggregateType:  enums.AggregateVehicle,
			Topic:          inventoryTopic,
			PayloadFactory: func() interface{} { return &payloads.VehicleTestDriveCompleted{} },
		},
	} {
		reg.register(desc)
	}
	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventReservationCreated,
			AggregateType:  enums.AggregateReservation,
			Topic:          reservationsTopic,
			PayloadFactory: func() interface{} { return &payloads.ReservationCreated{} },
		},
		{
			EventType:      enums.EventReservationReleased,
			AggregateType:  enums.AggregateReservation,
			Topic:          reservationsTopic,
			PayloadFactory: func() interface{} { return &payloads.ReservationReleased{} },
		},
		{
			EventType:      enums.EventReservationCancelled,
			AggregateType:  enums.AggregateReservation,
			Topic:          reservationsTopic,
			PayloadFactory: func() interface{} { return &payloads.ReservationCancelled{} },
		},
		{
			EventType:      enums.EventReservationExtended,
			AggregateType:  enums.AggregateReservation,
			Topic:          reservationsTopic,
			PayloadFactory: func() interface{} { return &payloads.ReservationExtended{} },
		},
		{
			EventType:      enums.EventReservationCompleted,
			AggregateType:  enums.AggregateReservation,
			Topic:          reservationsTopic,
			PayloadFactory: func() interface{} { return &payloads.ReservationCompleted{} },
		},
		{
			EventType:      enums.EventReservationExpired,
			AggregateType:  enums.AggregateReservation,
			Topic:          reservationsTopic,
			PayloadFactory: func() interface{} { return &payloads.ReservationExpired{} },
		},
	} {
		reg.register(desc)
	}

	return reg, nil
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}
