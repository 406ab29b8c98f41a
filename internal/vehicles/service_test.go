package vehicles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/dealerdesk/dealerdesk-backend/pkg/errors"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox"
)

type stubVehicleRepo struct {
	vehicle       *models.Vehicle
	testDrives    map[uuid.UUID]*models.TestDriveSession
	auditEntries  []models.VehicleAuditEntry
	checkIns      []models.VehicleCheckIn
	checkOuts     []models.VehicleCheckOut
	reservations  []models.Reservation
	plateCount    int64
	updateErr     error
	appliedStatus enums.VehicleStatus
	appliedExtras map[string]any
}

func (s *stubVehicleRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubVehicleRepo) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	s.vehicle = vehicle
	return vehicle, nil
}

func (s *stubVehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if s.vehicle == nil || s.vehicle.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.vehicle
	return &copied, nil
}

func (s *stubVehicleRepo) FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	if s.vehicle == nil || s.vehicle.VIN != vin {
		return nil, gorm.ErrRecordNotFound
	}
	return s.vehicle, nil
}

func (s *stubVehicleRepo) CountNonTerminalWithPlate(ctx context.Context, plate string, excludeID uuid.UUID) (int64, error) {
	return s.plateCount, nil
}

func (s *stubVehicleRepo) UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.vehicle == nil || s.vehicle.ID != id || s.vehicle.Version != expectedVersion {
		return ErrStaleVersion
	}
	if status, ok := updates["status"].(enums.VehicleStatus); ok {
		s.appliedStatus = status
		s.vehicle.Status = status
	}
	s.appliedExtras = updates
	if owner, ok := updates["current_owner_user_id"].(uuid.UUID); ok {
		s.vehicle.CurrentOwnerUserID = &owner
	}
	s.vehicle.Version++
	return nil
}

func (s *stubVehicleRepo) CreateCheckIn(ctx context.Context, checkIn *models.VehicleCheckIn) (*models.VehicleCheckIn, error) {
	if checkIn.ID == uuid.Nil {
		checkIn.ID = uuid.New()
	}
	s.checkIns = append(s.checkIns, *checkIn)
	return checkIn, nil
}

func (s *stubVehicleRepo) CreateCheckOut(ctx context.Context, checkOut *models.VehicleCheckOut) (*models.VehicleCheckOut, error) {
	if checkOut.ID == uuid.Nil {
		checkOut.ID = uuid.New()
	}
	s.checkOuts = append(s.checkOuts, *checkOut)
	return checkOut, nil
}

func (s *stubVehicleRepo) CreateTestDrive(ctx context.Context, session *models.TestDriveSession) (*models.TestDriveSession, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if s.testDrives == nil {
		s.testDrives = make(map[uuid.UUID]*models.TestDriveSession)
	}
	s.testDrives[session.ID] = session
	return session, nil
}

func (s *stubVehicleRepo) FindTestDrive(ctx context.Context, id uuid.UUID) (*models.TestDriveSession, error) {
	session, ok := s.testDrives[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (s *stubVehicleRepo) UpdateTestDrive(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	session, ok := s.testDrives[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if ended, ok := updates["ended_at_utc"].(time.Time); ok {
		session.EndedAtUtc = &ended
	}
	if outcome, ok := updates["outcome"].(enums.TestDriveOutcome); ok {
		session.Outcome = &outcome
	}
	return nil
}

func (s *stubVehicleRepo) CreateAuditEntry(ctx context.Context, entry *models.VehicleAuditEntry) error {
	s.auditEntries = append(s.auditEntries, *entry)
	return nil
}

func (s *stubVehicleRepo) ListAuditEntries(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleAuditEntry, error) {
	return s.auditEntries, nil
}

func (s *stubVehicleRepo) ListCheckIns(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleCheckIn, error) {
	return s.checkIns, nil
}

func (s *stubVehicleRepo) ListCheckOuts(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleCheckOut, error) {
	return s.checkOuts, nil
}

func (s *stubVehicleRepo) ListTestDrives(ctx context.Context, vehicleID uuid.UUID) ([]models.TestDriveSession, error) {
	sessions := make([]models.TestDriveSession, 0, len(s.testDrives))
	for _, session := range s.testDrives {
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

func (s *stubVehicleRepo) ListReservations(ctx context.Context, vehicleID uuid.UUID) ([]models.Reservation, error) {
	return s.reservations, nil
}

type recordingOutbox struct {
	events []outbox.DomainEvent
	err    error
}

func (r *recordingOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingOutbox) eventTypes() []enums.OutboxEventType {
	types := make([]enums.OutboxEventType, len(r.events))
	for i, event := range r.events {
		types[i] = event.EventType
	}
	return types
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo *stubVehicleRepo, bus *recordingOutbox) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, bus)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func usedVehicle(status enums.VehicleStatus) *models.Vehicle {
	evaluationID := uuid.New()
	return &models.Vehicle{
		ID:           uuid.New(),
		Category:     enums.VehicleCategoryUsed,
		Status:       status,
		VIN:          "WVWZZZ1JZXW000001",
		Plate:        strPtr("AB-123-CD"),
		Make:         "Volkswagen",
		Model:        "Golf",
		Year:         2021,
		MileageKm:    intPtr(42000),
		EvaluationID: &evaluationID,
		Version:      1,
	}
}

func TestCreateVehicleUsedRequiresCategoryFields(t *testing.T) {
	repo := &stubVehicleRepo{}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	_, err := svc.CreateVehicle(context.Background(), CreateVehicleInput{
		Category:    enums.VehicleCategoryUsed,
		VIN:         "WVWZZZ1JZXW000001",
		Make:        "Volkswagen",
		Model:       "Golf",
		Year:        2021,
		ActorUserID: uuid.New(),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("no event should be queued on rejection")
	}
}

func TestCreateVehicleQueuesCreatedEvent(t *testing.T) {
	repo := &stubVehicleRepo{}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	evaluationID := uuid.New()
	dto, err := svc.CreateVehicle(context.Background(), CreateVehicleInput{
		Category:     enums.VehicleCategoryUsed,
		VIN:          "WVWZZZ1JZXW000001",
		Plate:        strPtr("AB-123-CD"),
		Make:         "Volkswagen",
		Model:        "Golf",
		Year:         2021,
		MileageKm:    intPtr(42000),
		EvaluationID: &evaluationID,
		ActorUserID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if dto.Status != enums.VehicleStatusInTransit {
		t.Fatalf("new inventory should start in transit, got %s", dto.Status)
	}
	if len(bus.events) != 1 || bus.events[0].EventType != enums.EventVehicleCreated {
		t.Fatalf("expected one vehicle_created event, got %v", bus.eventTypes())
	}
}

func TestCheckInUsedVehicleMovesToInStock(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusInTransit)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	responsible := uuid.New()
	dto, err := svc.CheckIn(context.Background(), CheckInInput{
		VehicleID:         vehicle.ID,
		Source:            enums.CheckInSourceCustomerUsedPurchase,
		OccurredAtUtc:     time.Now().UTC(),
		ResponsibleUserID: responsible,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if dto.Status != enums.VehicleStatusInStock {
		t.Fatalf("expected in_stock, got %s", dto.Status)
	}
	if dto.CurrentOwnerUserID == nil || *dto.CurrentOwnerUserID != responsible {
		t.Fatalf("expected current owner to be set")
	}
	if len(repo.auditEntries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(repo.auditEntries))
	}
	types := bus.eventTypes()
	if len(types) != 2 || types[0] != enums.EventVehicleStatusChanged || types[1] != enums.EventVehicleCheckedIn {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestCheckInNewVehicleRejectsNonManufacturerSource(t *testing.T) {
	vehicle := &models.Vehicle{
		ID:       uuid.New(),
		Category: enums.VehicleCategoryNew,
		Status:   enums.VehicleStatusInTransit,
		VIN:      "WVWZZZ1JZXW000002",
		Make:     "Volkswagen",
		Model:    "ID.3",
		Year:     2025,
		Version:  1,
	}
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	_, err := svc.CheckIn(context.Background(), CheckInInput{
		VehicleID:         vehicle.ID,
		Source:            enums.CheckInSourceTradeIn,
		OccurredAtUtc:     time.Now().UTC(),
		ResponsibleUserID: uuid.New(),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.vehicle.Status != enums.VehicleStatusInTransit {
		t.Fatalf("vehicle must remain in_transit, got %s", repo.vehicle.Status)
	}
	if len(bus.events) != 0 {
		t.Fatalf("no event should be queued, got %v", bus.eventTypes())
	}
}

func TestCheckOutSaleQueuesSoldEvent(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusInStock)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	buyer := uuid.New()
	dto, err := svc.CheckOut(context.Background(), CheckOutInput{
		VehicleID:         vehicle.ID,
		Reason:            enums.CheckOutReasonSale,
		OccurredAtUtc:     time.Now().UTC(),
		ResponsibleUserID: uuid.New(),
		BuyerID:           &buyer,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if dto.Status != enums.VehicleStatusSold {
		t.Fatalf("expected sold, got %s", dto.Status)
	}
	types := bus.eventTypes()
	if len(types) != 2 || types[1] != enums.EventVehicleSold {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestCheckOutRejectedForTerminalVehicle(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusSold)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	_, err := svc.CheckOut(context.Background(), CheckOutInput{
		VehicleID:         vehicle.ID,
		Reason:            enums.CheckOutReasonTransfer,
		OccurredAtUtc:     time.Now().UTC(),
		ResponsibleUserID: uuid.New(),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("no event should be queued, got %v", bus.eventTypes())
	}
}

func TestStartAndCompleteTestDrive(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusInStock)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	salesPerson := uuid.New()
	started, err := svc.StartTestDrive(context.Background(), StartTestDriveInput{
		VehicleID:     vehicle.ID,
		SalesPersonID: salesPerson,
		CustomerName:  "A. Customer",
		StartedAtUtc:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if started.Vehicle.Status != enums.VehicleStatusInTestDrive {
		t.Fatalf("expected in_test_drive, got %s", started.Vehicle.Status)
	}

	dto, err := svc.CompleteTestDrive(context.Background(), CompleteTestDriveInput{
		VehicleID:   vehicle.ID,
		TestDriveID: started.TestDriveID,
		ActorUserID: salesPerson,
		EndedAtUtc:  time.Now().UTC(),
		Outcome:     enums.TestDriveOutcomeReturnedToStock,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if dto.Status != enums.VehicleStatusInStock {
		t.Fatalf("expected in_stock after return, got %s", dto.Status)
	}
	session := repo.testDrives[started.TestDriveID]
	if session.EndedAtUtc == nil || session.Outcome == nil {
		t.Fatalf("session should carry end time and outcome")
	}
	types := bus.eventTypes()
	want := []enums.OutboxEventType{
		enums.EventVehicleStatusChanged,
		enums.EventVehicleTestDriveStarted,
		enums.EventVehicleStatusChanged,
		enums.EventVehicleTestDriveCompleted,
	}
	if len(types) != len(want) {
		t.Fatalf("unexpected events %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event %d: expected %s got %s", i, want[i], types[i])
		}
	}
}

func TestCompleteTestDriveUnknownSession(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusInTestDrive)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	_, err := svc.CompleteTestDrive(context.Background(), CompleteTestDriveInput{
		VehicleID:   vehicle.ID,
		TestDriveID: uuid.New(),
		ActorUserID: uuid.New(),
		EndedAtUtc:  time.Now().UTC(),
		Outcome:     enums.TestDriveOutcomeReturnedToStock,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChangeStatusManuallyRequiresReason(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusInStock)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	_, err := svc.ChangeStatusManually(context.Background(), ChangeStatusInput{
		VehicleID:   vehicle.ID,
		NewStatus:   enums.VehicleStatusInPreparation,
		ActorUserID: uuid.New(),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChangeStatusManuallyBoundByTable(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusInPreparation)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	_, err := svc.ChangeStatusManually(context.Background(), ChangeStatusInput{
		VehicleID:   vehicle.ID,
		NewStatus:   enums.VehicleStatusSold,
		ActorUserID: uuid.New(),
		Reason:      "manual override",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.vehicle.Status != enums.VehicleStatusInPreparation {
		t.Fatalf("vehicle must be unchanged, got %s", repo.vehicle.Status)
	}
}

func TestStaleVersionSurfacesAsConflict(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusInStock)
	repo := &stubVehicleRepo{vehicle: vehicle, updateErr: ErrStaleVersion}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	_, err := svc.ChangeStatusManually(context.Background(), ChangeStatusInput{
		VehicleID:   vehicle.ID,
		NewStatus:   enums.VehicleStatusInPreparation,
		ActorUserID: uuid.New(),
		Reason:      "prep for delivery",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected retryable conflict, got %v", err)
	}
}

func TestReserveTxRequiresInStock(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusReserved)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	err := svc.ReserveTx(context.Background(), &gorm.DB{}, vehicle.ID, uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestReleaseTxNoOpWhenVehicleMovedOn(t *testing.T) {
	vehicle := usedVehicle(enums.VehicleStatusSold)
	repo := &stubVehicleRepo{vehicle: vehicle}
	bus := &recordingOutbox{}
	svc := newTestService(t, repo, bus)

	err := svc.ReleaseTx(context.Background(), &gorm.DB{}, vehicle.ID, uuid.New(), uuid.New(), "reservation-expired")
	if err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("no event should be queued, got %v", bus.eventTypes())
	}
	if repo.vehicle.Status != enums.VehicleStatusSold {
		t.Fatalf("vehicle must stay sold")
	}
}
