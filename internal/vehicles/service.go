package vehicles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerdesk/dealerdesk-backend/pkg/db"
	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/dealerdesk/dealerdesk-backend/pkg/errors"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox"
	"github.com/dealerdesk/dealerdesk-backend/pkg/outbox/payloads"
	"github.com/dealerdesk/dealerdesk-backend/pkg/validate"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the vehicle lifecycle operations.
type Service interface {
	CreateVehicle(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error)
	CheckIn(ctx context.Context, input CheckInInput) (*VehicleDTO, error)
	CheckOut(ctx context.Context, input CheckOutInput) (*VehicleDTO, error)
	StartTestDrive(ctx context.Context, input StartTestDriveInput) (*StartTestDriveResult, error)
	CompleteTestDrive(ctx context.Context, input CompleteTestDriveInput) (*VehicleDTO, error)
	ChangeStatusManually(ctx context.Context, input ChangeStatusInput) (*VehicleDTO, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
	GetHistory(ctx context.Context, id uuid.UUID) ([]HistoryEntryDTO, error)

	// ReserveTx and ReleaseTx run inside a caller-owned transaction so the
	// reservation row and the vehicle transition commit atomically.
	ReserveTx(ctx context.Context, tx *gorm.DB, vehicleID, reservationID, salesPersonID uuid.UUID) error
	ReleaseTx(ctx context.Context, tx *gorm.DB, vehicleID, reservationID, userID uuid.UUID, reason string) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService builds a vehicle service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicles repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown vehicle category %q", input.Category))
	}
	if err := validateCategoryFields(input); err != nil {
		return nil, err
	}

	var created *models.Vehicle
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if input.Plate != nil && *input.Plate != "" {
			count, err := repo.CountNonTerminalWithPlate(ctx, *input.Plate, uuid.Nil)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check plate uniqueness")
			}
			if count > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "plate already registered to an active vehicle")
			}
		}

		vehicle := &models.Vehicle{
			Category:         input.Category,
			Status:           enums.VehicleStatusInTransit,
			VIN:              input.VIN,
			Plate:            input.Plate,
			Make:             input.Make,
			Model:            input.Model,
			Trim:             input.Trim,
			Year:             input.Year,
			Color:            input.Color,
			MileageKm:        input.MileageKm,
			EvaluationID:     input.EvaluationID,
			DemoPurpose:      input.DemoPurpose,
			IsRegistered:     input.IsRegistered,
			AcquisitionPrice: input.AcquisitionPrice,
			AskingPrice:      input.AskingPrice,
			Version:          1,
		}
		saved, err := repo.CreateVehicle(ctx, vehicle)
		if err != nil {
			if db.IsUniqueViolation(err, "ux_vehicles_vin") {
				return pkgerrors.New(pkgerrors.CodeConflict, "vin already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
		}
		created = saved

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventVehicleCreated,
			AggregateType: enums.AggregateVehicle,
			AggregateID:   saved.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID},
			Data: payloads.VehicleCreated{
				VehicleID: saved.ID,
				VIN:       saved.VIN,
				Category:  saved.Category,
				Status:    saved.Status,
				Make:      saved.Make,
				Model:     saved.Model,
				Year:      saved.Year,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return NewVehicleDTO(created), nil
}

func (s *service) CheckIn(ctx context.Context, input CheckInInput) (*VehicleDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown check-in source %q", input.Source))
	}

	var snapshot *VehicleDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		vehicle, err := s.loadVehicle(ctx, repo, input.VehicleID)
		if err != nil {
			return err
		}
		if err := validateCheckIn(vehicle, input.Source); err != nil {
			return err
		}

		targetStatus := enums.VehicleStatusInStock
		if vehicle.Category == enums.VehicleCategoryNew {
			targetStatus = enums.VehicleStatusInTransit
		}

		owner := input.ResponsibleUserID
		changed, err := s.applyTransition(ctx, tx, repo, vehicle, transitionRequest{
			newStatus:     targetStatus,
			userID:        input.ResponsibleUserID,
			reason:        fmt.Sprintf("check-in (%s)", input.Source),
			occurredAtUtc: input.OccurredAtUtc,
			extraUpdates:  map[string]any{"current_owner_user_id": owner},
		})
		if err != nil {
			return err
		}

		checkIn := &models.VehicleCheckIn{
			VehicleID:         vehicle.ID,
			Source:            input.Source,
			OccurredAtUtc:     input.OccurredAtUtc,
			ResponsibleUserID: input.ResponsibleUserID,
			Notes:             input.Notes,
		}
		if _, err := repo.CreateCheckIn(ctx, checkIn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record check-in")
		}

		vehicle.Status = targetStatus
		vehicle.CurrentOwnerUserID = &owner
		if changed {
			vehicle.Version++
		}
		snapshot = NewVehicleDTO(vehicle)

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventVehicleCheckedIn,
			AggregateType: enums.AggregateVehicle,
			AggregateID:   vehicle.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ResponsibleUserID},
			Data: payloads.VehicleCheckedIn{
				VehicleID: vehicle.ID,
				CheckInID: checkIn.ID,
				Source:    input.Source,
				Status:    targetStatus,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) CheckOut(ctx context.Context, input CheckOutInput) (*VehicleDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	targetStatus, err := input.Reason.TargetStatus()
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	var snapshot *VehicleDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		vehicle, err := s.loadVehicle(ctx, repo, input.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("vehicle already %s", vehicle.Status))
		}

		changed, err := s.applyTransition(ctx, tx, repo, vehicle, transitionRequest{
			newStatus:     targetStatus,
			userID:        input.ResponsibleUserID,
			reason:        fmt.Sprintf("check-out (%s)", input.Reason),
			occurredAtUtc: input.OccurredAtUtc,
		})
		if err != nil {
			return err
		}

		checkOut := &models.VehicleCheckOut{
			VehicleID:         vehicle.ID,
			Reason:            input.Reason,
			OccurredAtUtc:     input.OccurredAtUtc,
			ResponsibleUserID: input.ResponsibleUserID,
			Notes:             input.Notes,
		}
		if _, err := repo.CreateCheckOut(ctx, checkOut); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record check-out")
		}

		vehicle.Status = targetStatus
		if changed {
			vehicle.Version++
		}
		snapshot = NewVehicleDTO(vehicle)

		switch input.Reason {
		case enums.CheckOutReasonSale:
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventVehicleSold,
				AggregateType: enums.AggregateVehicle,
				AggregateID:   vehicle.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.ResponsibleUserID},
				Data: payloads.VehicleSold{
					VehicleID:  vehicle.ID,
					CheckOutID: checkOut.ID,
					BuyerID:    input.BuyerID,
					SoldAt:     input.OccurredAtUtc,
				},
			})
		case enums.CheckOutReasonTotalLoss:
			reason := ""
			if input.Notes != nil {
				reason = *input.Notes
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventVehicleWrittenOff,
				AggregateType: enums.AggregateVehicle,
				AggregateID:   vehicle.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.ResponsibleUserID},
				Data: payloads.VehicleWrittenOff{
					VehicleID:    vehicle.ID,
					CheckOutID:   checkOut.ID,
					Reason:       reason,
					WrittenOffAt: input.OccurredAtUtc,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) StartTestDrive(ctx context.Context, input StartTestDriveInput) (*StartTestDriveResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var result *StartTestDriveResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		vehicle, err := s.loadVehicle(ctx, repo, input.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.Status != enums.VehicleStatusInStock && vehicle.Status != enums.VehicleStatusReserved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("test drive not allowed from status %s", vehicle.Status))
		}

		changed, err := s.applyTransition(ctx, tx, repo, vehicle, transitionRequest{
			newStatus:     enums.VehicleStatusInTestDrive,
			userID:        input.SalesPersonID,
			reason:        "test-drive-started",
			occurredAtUtc: input.StartedAtUtc,
		})
		if err != nil {
			return err
		}

		session := &models.TestDriveSession{
			VehicleID:     vehicle.ID,
			SalesPersonID: input.SalesPersonID,
			CustomerName:  input.CustomerName,
			StartedAtUtc:  input.StartedAtUtc,
			Notes:         input.Notes,
		}
		if _, err := repo.CreateTestDrive(ctx, session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record test drive")
		}

		vehicle.Status = enums.VehicleStatusInTestDrive
		if changed {
			vehicle.Version++
		}
		result = &StartTestDriveResult{
			TestDriveID: session.ID,
			Vehicle:     NewVehicleDTO(vehicle),
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventVehicleTestDriveStarted,
			AggregateType: enums.AggregateVehicle,
			AggregateID:   vehicle.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.SalesPersonID},
			Data: payloads.VehicleTestDriveStarted{
				VehicleID: vehicle.ID,
				SessionID: session.ID,
				DriverID:  input.SalesPersonID,
				StartedAt: input.StartedAtUtc,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) CompleteTestDrive(ctx context.Context, input CompleteTestDriveInput) (*VehicleDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Outcome.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown test drive outcome %q", input.Outcome))
	}

	targetStatus := enums.VehicleStatusInStock
	if input.Outcome == enums.TestDriveOutcomeConvertedToReservation {
		targetStatus = enums.VehicleStatusReserved
	}

	var snapshot *VehicleDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		vehicle, err := s.loadVehicle(ctx, repo, input.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.Status != enums.VehicleStatusInTestDrive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vehicle is not in a test drive")
		}

		session, err := repo.FindTestDrive(ctx, input.TestDriveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "test drive session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load test drive session")
		}
		if session.VehicleID != vehicle.ID {
			return pkgerrors.New(pkgerrors.CodeValidation, "test drive session does not belong to vehicle")
		}
		if session.EndedAtUtc != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "test drive session already completed")
		}

		changed, err := s.applyTransition(ctx, tx, repo, vehicle, transitionRequest{
			newStatus:     targetStatus,
			userID:        input.ActorUserID,
			reason:        fmt.Sprintf("test-drive-completed (%s)", input.Outcome),
			occurredAtUtc: input.EndedAtUtc,
		})
		if err != nil {
			return err
		}

		outcome := input.Outcome
		if err := repo.UpdateTestDrive(ctx, session.ID, map[string]any{
			"ended_at_utc": input.EndedAtUtc,
			"outcome":      outcome,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete test drive session")
		}

		vehicle.Status = targetStatus
		if changed {
			vehicle.Version++
		}
		snapshot = NewVehicleDTO(vehicle)

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventVehicleTestDriveCompleted,
			AggregateType: enums.AggregateVehicle,
			AggregateID:   vehicle.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID},
			Data: payloads.VehicleTestDriveCompleted{
				VehicleID: vehicle.ID,
				SessionID: session.ID,
				Outcome:   input.Outcome,
				EndedAt:   input.EndedAtUtc,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) ChangeStatusManually(ctx context.Context, input ChangeStatusInput) (*VehicleDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var snapshot *VehicleDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		vehicle, err := s.loadVehicle(ctx, repo, input.VehicleID)
		if err != nil {
			return err
		}

		changed, err := s.applyTransition(ctx, tx, repo, vehicle, transitionRequest{
			newStatus:     input.NewStatus,
			userID:        input.ActorUserID,
			reason:        input.Reason,
			occurredAtUtc: s.now(),
		})
		if err != nil {
			return err
		}

		vehicle.Status = input.NewStatus
		if changed {
			vehicle.Version++
		}
		snapshot = NewVehicleDTO(vehicle)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	vehicle, err := s.loadVehicle(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return NewVehicleDTO(vehicle), nil
}

func (s *service) ReserveTx(ctx context.Context, tx *gorm.DB, vehicleID, reservationID, salesPersonID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for vehicle reserve")
	}
	repo := s.repo.WithTx(tx)
	vehicle, err := s.loadVehicle(ctx, repo, vehicleID)
	if err != nil {
		return err
	}
	if vehicle.Status != enums.VehicleStatusInStock {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("vehicle cannot be reserved from status %s", vehicle.Status))
	}
	_, err = s.applyTransition(ctx, tx, repo, vehicle, transitionRequest{
		newStatus:     enums.VehicleStatusReserved,
		userID:        salesPersonID,
		reason:        fmt.Sprintf("reserved (%s)", reservationID),
		occurredAtUtc: s.now(),
	})
	return err
}

func (s *service) ReleaseTx(ctx context.Context, tx *gorm.DB, vehicleID, reservationID, userID uuid.UUID, reason string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for vehicle release")
	}
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "release reason required")
	}
	repo := s.repo.WithTx(tx)
	vehicle, err := s.loadVehicle(ctx, repo, vehicleID)
	if err != nil {
		return err
	}
	if vehicle.Status != enums.VehicleStatusReserved {
		// The vehicle moved on, typically via a test drive or a sale.
		// The reservation transition proceeds; there is nothing to roll back.
		return nil
	}
	_, err = s.applyTransition(ctx, tx, repo, vehicle, transitionRequest{
		newStatus:     enums.VehicleStatusInStock,
		userID:        userID,
		reason:        reason,
		occurredAtUtc: s.now(),
	})
	return err
}

type transitionRequest struct {
	newStatus     enums.VehicleStatus
	userID        uuid.UUID
	reason        string
	occurredAtUtc time.Time
	extraUpdates  map[string]any
}

// applyTransition guards the move, commits it with an optimistic version
// check, appends the audit entry, and queues the status-changed event. A
// no-op transition skips the audit row and event but still applies any
// extra column updates. The returned bool reports whether the row version
// was bumped.
func (s *service) applyTransition(ctx context.Context, tx *gorm.DB, repo Repository, vehicle *models.Vehicle, req transitionRequest) (bool, error) {
	if err := GuardTransition(vehicle.Status, req.newStatus); err != nil {
		return false, err
	}

	if vehicle.Status == req.newStatus {
		if len(req.extraUpdates) == 0 {
			return false, nil
		}
		if err := repo.UpdateVersioned(ctx, vehicle.ID, vehicle.Version, req.extraUpdates); err != nil {
			return false, mapVersionError(err, "update vehicle")
		}
		return true, nil
	}

	updates := map[string]any{"status": req.newStatus}
	for k, v := range req.extraUpdates {
		updates[k] = v
	}
	if err := repo.UpdateVersioned(ctx, vehicle.ID, vehicle.Version, updates); err != nil {
		return false, mapVersionError(err, "update vehicle status")
	}

	entry := &models.VehicleAuditEntry{
		VehicleID:         vehicle.ID,
		OccurredAtUtc:     req.occurredAtUtc,
		ResponsibleUserID: req.userID,
		PreviousStatus:    vehicle.Status,
		NewStatus:         req.newStatus,
		Reason:            req.reason,
	}
	if err := repo.CreateAuditEntry(ctx, entry); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append audit entry")
	}

	err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventVehicleStatusChanged,
		AggregateType: enums.AggregateVehicle,
		AggregateID:   vehicle.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{UserID: req.userID},
		Data: payloads.VehicleStatusChanged{
			VehicleID:  vehicle.ID,
			FromStatus: vehicle.Status,
			ToStatus:   req.newStatus,
			Reason:     req.reason,
		},
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) loadVehicle(ctx context.Context, repo Repository, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return vehicle, nil
}

func mapVersionError(err error, context string) error {
	if errors.Is(err, ErrStaleVersion) {
		return pkgerrors.New(pkgerrors.CodeConflict, "vehicle was modified concurrently")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, context)
}

func validateCategoryFields(input CreateVehicleInput) error {
	switch input.Category {
	case enums.VehicleCategoryNew:
		return nil
	case enums.VehicleCategoryUsed:
		missing := map[string]string{}
		if input.Plate == nil || *input.Plate == "" {
			missing["plate"] = "is required for used vehicles"
		}
		if input.MileageKm == nil {
			missing["mileage_km"] = "is required for used vehicles"
		}
		if input.EvaluationID == nil {
			missing["evaluation_id"] = "is required for used vehicles"
		}
		if len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "used vehicle is missing required fields").WithDetails(missing)
		}
		return nil
	case enums.VehicleCategoryDemonstration:
		missing := map[string]string{}
		if input.DemoPurpose == nil || *input.DemoPurpose == "" {
			missing["demo_purpose"] = "is required for demonstration vehicles"
		}
		if input.IsRegistered != nil && *input.IsRegistered && (input.Plate == nil || *input.Plate == "") {
			missing["plate"] = "is required for registered demonstration vehicles"
		}
		if len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "demonstration vehicle is missing required fields").WithDetails(missing)
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown vehicle category %q", input.Category))
}

func validateCheckIn(vehicle *models.Vehicle, source enums.CheckInSource) error {
	switch vehicle.Category {
	case enums.VehicleCategoryNew:
		if source != enums.CheckInSourceManufacturer {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "new vehicles can only be checked in from the manufacturer")
		}
	case enums.VehicleCategoryUsed:
		if vehicle.Plate == nil || *vehicle.Plate == "" || vehicle.MileageKm == nil || vehicle.EvaluationID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "used vehicle is missing plate, mileage or evaluation reference")
		}
	case enums.VehicleCategoryDemonstration:
		if vehicle.DemoPurpose == nil || *vehicle.DemoPurpose == "" {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "demonstration vehicle is missing a demo purpose")
		}
		if vehicle.IsRegistered != nil && *vehicle.IsRegistered && (vehicle.Plate == nil || *vehicle.Plate == "") {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "registered demonstration vehicle is missing a plate")
		}
	}
	return nil
}
