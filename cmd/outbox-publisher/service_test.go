package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/dealerdesk/dealerdesk-backend/pkg/config"
	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
	"github.com/dealerdesk/dealerdesk-backend/pkg/logger"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox/payloads"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox/registry"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestServicePublishBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			vehicleEvent(t, enums.EventVehicleStatusChanged),
			vehicleEvent(t, enums.EventVehicleStatusChanged),
		},
	}
	// First row keeps failing across all in-process retries, second succeeds.
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolvedVehicleEvent()}, &fakeDLQRepo{}, nil)

	drained, err := service.publishBatch(context.Background())
	if err != nil {
		t.Fatalf("publish batch returned error: %v", err)
	}
	if !drained {
		t.Fatalf("expected batch to report rows processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != repo.events[1].ID {
		t.Fatalf("published row recorded wrong ID")
	}
}

func TestServiceRetriesInProcessWithExponentialBackoff(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{vehicleEvent(t, enums.EventVehicleSold)}}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolvedVehicleEvent()}, &fakeDLQRepo{}, nil)
	var waits []time.Duration
	service.retrySleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	if _, err := service.publishBatch(context.Background()); err != nil {
		t.Fatalf("publish batch returned error: %v", err)
	}
	if len(repo.published) != 1 {
		t.Fatalf("expected row published after retries, got %d", len(repo.published))
	}
	if len(repo.failed) != 0 {
		t.Fatalf("a row that eventually published must not be marked failed")
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("expected %d backoff waits, got %d", len(want), len(waits))
	}
	for i, d := range want {
		if waits[i] != d {
			t.Fatalf("backoff %d: expected %s, got %s", i, d, waits[i])
		}
	}
}

func TestServicePublishBatchWritesDLQOnNonRetryable(t *testing.T) {
	event := vehicleEvent(t, enums.EventVehicleCreated)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	eventRegistry := &fakeRegistry{err: registry.NewNonRetryableError(errors.New("invalid payload"))}
	dlqRepo := &fakeDLQRepo{}
	service := newTestService(t, repo, &fakePublisher{}, eventRegistry, dlqRepo, nil)

	drained, err := service.publishBatch(context.Background())
	if err != nil {
		t.Fatalf("publish batch returned error: %v", err)
	}
	if !drained {
		t.Fatalf("expected batch to report rows processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	entry := dlqRepo.entries[0]
	if entry.EventID != event.ID {
		t.Fatalf("dlq event_id mismatch: %s", entry.EventID)
	}
	if entry.Payload == nil || !bytes.Equal(entry.Payload, event.Payload) {
		t.Fatalf("dlq payload mismatch")
	}
	if entry.ErrorReason != enums.OutboxDLQReasonNonRetryable {
		t.Fatalf("unexpected error reason: %s", entry.ErrorReason)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != event.ID {
		t.Fatalf("expected row marked terminal")
	}
}

func TestServicePublishBatchWritesDLQOnMaxAttempts(t *testing.T) {
	event := vehicleEvent(t, enums.EventVehicleStatusChanged)
	event.AttemptCount = 1
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
		},
	}
	dlqRepo := &fakeDLQRepo{}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolvedVehicleEvent()}, dlqRepo, &config.OutboxConfig{
		BatchSize:      1,
		PollIntervalMS: 100,
		MaxAttempts:    2,
		PublishRetries: 1,
	})

	drained, err := service.publishBatch(context.Background())
	if err != nil {
		t.Fatalf("publish batch returned error: %v", err)
	}
	if !drained {
		t.Fatalf("expected batch to report rows processed")
	}
	if got := len(dlqRepo.entries); got != 1 {
		t.Fatalf("expected dlq entry, got %d", got)
	}
	entry := dlqRepo.entries[0]
	if entry.EventID != event.ID {
		t.Fatalf("dlq event_id mismatch: %s", entry.EventID)
	}
	if entry.ErrorReason != enums.OutboxDLQReasonMaxAttempts {
		t.Fatalf("unexpected error reason: %s", entry.ErrorReason)
	}
	if len(repo.terminal) != 1 {
		t.Fatalf("expected row marked terminal")
	}
}

func TestServiceRoutesReservationEventsToReservationsTopic(t *testing.T) {
	reservationID := uuid.New()
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventReservationExpired,
		AggregateType: enums.AggregateReservation,
		AggregateID:   reservationID,
		Payload:       mustEnvelopePayload(t, reservationID.String()),
	}
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	resolved := &registry.ResolvedEvent{
		Descriptor: registry.EventDescriptor{
			EventType:     enums.EventReservationExpired,
			AggregateType: enums.AggregateReservation,
			Topic:         "dd-reservation-events",
		},
		Envelope: outbox.PayloadEnvelope{
			EventID:    event.ID.String(),
			OccurredAt: time.Now(),
		},
		Payload: &payloads.ReservationExpired{},
	}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	service := newTestService(t, repo, pub, &fakeRegistry{resolved: resolved}, &fakeDLQRepo{}, nil)
	var topics []string
	service.publisherFactory = func(topic string) publisher {
		topics = append(topics, topic)
		return pub
	}

	if _, err := service.publishBatch(context.Background()); err != nil {
		t.Fatalf("publish batch returned error: %v", err)
	}
	if len(topics) != 1 || topics[0] != "dd-reservation-events" {
		t.Fatalf("expected reservation topic, got %v", topics)
	}
	if len(repo.published) != 1 {
		t.Fatalf("expected row published")
	}
}

func TestServicePublishBatchEmptyIsQuiet(t *testing.T) {
	repo := &fakeRepo{}
	service := newTestService(t, repo, &fakePublisher{}, &fakeRegistry{}, &fakeDLQRepo{}, nil)

	drained, err := service.publishBatch(context.Background())
	if err != nil {
		t.Fatalf("publish batch returned error: %v", err)
	}
	if drained {
		t.Fatalf("empty batch must report nothing processed")
	}
}

func newTestService(t *testing.T, repo outboxRepository, pub publisher, resolver registryResolver, dlq dlqRepository, outboxCfgOverride *config.OutboxConfig) *Service {
	t.Helper()
	outboxCfg := config.OutboxConfig{
		BatchSize:      2,
		PollIntervalMS: 100,
		MaxAttempts:    5,
		PublishRetries: 3,
		PublishTimeout: time.Second,
	}
	if outboxCfgOverride != nil {
		outboxCfg = *outboxCfgOverride
	}
	cfg := &config.Config{
		Outbox: outboxCfg,
	}
	logg := logger.New(logger.Options{
		ServiceName: "outbox-publisher-test",
		Output:      io.Discard,
	})
	service, err := NewService(ServiceParams{
		Config:           cfg,
		Logger:           logg,
		DB:               &fakeDB{},
		PubSub:           &fakePubSubClient{},
		Repository:       repo,
		Registry:         resolver,
		PublisherFactory: func(_ string) publisher { return pub },
		DLQRepository:    dlq,
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	service.retrySleep = func(context.Context, time.Duration) error { return nil }
	return service
}

func vehicleEvent(tb testing.TB, eventType enums.OutboxEventType) models.OutboxEvent {
	tb.Helper()
	vehicleID := uuid.New()
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateVehicle,
		AggregateID:   vehicleID,
		Payload:       mustEnvelopePayload(tb, vehicleID.String()),
	}
}

func resolvedVehicleEvent() *registry.ResolvedEvent {
	return &registry.ResolvedEvent{
		Descriptor: registry.EventDescriptor{
			EventType:     enums.EventVehicleStatusChanged,
			AggregateType: enums.AggregateVehicle,
			Topic:         "dd-inventory-events",
		},
		Envelope: outbox.PayloadEnvelope{
			EventID:    uuid.NewString(),
			OccurredAt: time.Now(),
		},
		Payload: &payloads.VehicleStatusChanged{},
	}
}

func mustEnvelopePayload(tb testing.TB, eventID string) json.RawMessage {
	tb.Helper()
	env := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{}`),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		tb.Fatalf("marshal envelope: %v", err)
	}
	return payload
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	terminal  []uuid.UUID
}

func (f *fakeRepo) FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error {
	f.terminal = append(f.terminal, id)
	return nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakePubSubClient struct{}

func (f *fakePubSubClient) Ping(context.Context) error {
	return nil
}

func (f *fakePubSubClient) Publisher(name string) *gcppubsub.Publisher {
	return nil
}

type fakePublisher struct {
	results []publishResult
}

func (f *fakePublisher) Publish(context.Context, *gcppubsub.Message) publishResult {
	if len(f.results) == 0 {
		return nil
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(context.Context) (string, error) {
	return "", f.err
}

type fakeRegistry struct {
	resolved *registry.ResolvedEvent
	err      error
}

func (f *fakeRegistry) Resolve(event models.OutboxEvent) (*registry.ResolvedEvent, error) {
	if f.resolved == nil {
		return nil, f.err
	}
	resolved := *f.resolved
	resolved.Envelope.EventID = event.ID.String()
	resolved.Envelope.OccurredAt = time.Now()
	return &resolved, f.err
}

type fakeDLQRepo struct {
	entries []models.OutboxDLQ
}

func (f *fakeDLQRepo) InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error {
	f.entries = append(f.entries, entry)
	return nil
}
