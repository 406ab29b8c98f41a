package reservations

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

// activeReservationConstraint is the partial unique index that enforces
// at most one active reservation per vehicle at the storage level.
const activeReservationConstraint = "ux_reservations_vehicle_active"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// VehicleGuard runs the paired vehicle transition inside the reservation's
// transaction, so both aggregates commit or roll back together.
type VehicleGuard interface {
	ReserveTx(ctx context.Context, tx *gorm.DB, vehicleID, reservationID, salesPersonID uuid.UUID) error
	ReleaseTx(ctx context.Context, tx *gorm.DB, vehicleID, reservationID, userID uuid.UUID, reason string) error
}

// Service defines the reservation lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateReservationInput) (*ReservationDTO, error)
	Cancel(ctx context.Context, input CancelReservationInput) (*ReservationDTO, error)
	Extend(ctx context.Context, input ExtendReservationInput) (*ReservationDTO, error)
	Complete(ctx context.Context, input CompleteReservationInput) (*ReservationDTO, error)

	// Expire forces the expiry transition when the deadline has passed.
	// Calling it on an already terminal reservation is a no-op.
	Expire(ctx context.Context, reservationID uuid.UUID, now time.Time) error

	// DueForExpiry lists active reservations whose deadline has passed.
	DueForExpiry(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	vehicles VehicleGuard
	now      func() time.Time
}

// NewService builds a reservation service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, vehicles VehicleGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle guard required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		vehicles: vehicles,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateReservationInput) (*ReservationDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown reservation type %q", input.Type))
	}

	createdAt := s.now()
	expiresAt, err := expiryFor(input.Type, createdAt, input.BankDeadlineAtUtc)
	if err != nil {
		return nil, err
	}

	var created *models.Reservation
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		reservation := &models.Reservation{
			ID:                uuid.New(),
			VehicleID:         input.VehicleID,
			Type:              input.Type,
			Status:            enums.ReservationStatusActive,
			SalesPersonID:     input.SalesPersonID,
			ContextType:       input.ContextType,
			ContextID:         input.ContextID,
			CreatedAtUtc:      createdAt,
			ExpiresAtUtc:      expiresAt,
			BankDeadlineAtUtc: input.BankDeadlineAtUtc,
			Version:           1,
		}

		// The vehicle guard rejects anything not in stock; the partial
		// unique index catches the remaining race between two creators.
		if err := s.vehicles.ReserveTx(ctx, tx, input.VehicleID, reservation.ID, input.SalesPersonID); err != nil {
			return err
		}

		saved, err := repo.Create(ctx, reservation)
		if err != nil {
			if db.IsUniqueViolation(err, activeReservationConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "vehicle already has an active reservation")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
		}
		created = saved

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventReservationCreated,
			AggregateType: enums.AggregateReservation,
			AggregateID:   saved.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.SalesPersonID},
			Data: payloads.ReservationCreated{
				ReservationID: saved.ID,
				VehicleID:     saved.VehicleID,
				CustomerID:    input.SalesPersonID,
				Type:          saved.Type,
				ExpiresAt:     saved.ExpiresAtUtc,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return NewReservationDTO(created), nil
}

func (s *service) Cancel(ctx context.Context, input CancelReservationInput) (*ReservationDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var snapshot *ReservationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		reservation, err := s.loadReservation(ctx, repo, input.ReservationID)
		if err != nil {
			return err
		}
		if reservation.Status != enums.ReservationStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("reservation is %s, only active reservations can be cancelled", reservation.Status))
		}

		cancelledAt := s.now()
		reason := input.Reason
		updates := map[string]any{
			"status":               enums.ReservationStatusCancelled,
			"cancelled_at_utc":     cancelledAt,
			"cancelled_by_user_id": input.UserID,
			"cancellation_reason":  reason,
		}
		if err := repo.UpdateVersioned(ctx, reservation.ID, reservation.Version, updates); err != nil {
			return mapVersionError(err, "cancel reservation")
		}

		if err := s.vehicles.ReleaseTx(ctx, tx, reservation.VehicleID, reservation.ID, input.UserID, "reservation-cancelled"); err != nil {
			return err
		}

		reservation.Status = enums.ReservationStatusCancelled
		reservation.CancelledAtUtc = &cancelledAt
		reservation.CancelledByUserID = &input.UserID
		reservation.CancellationReason = &reason
		reservation.Version++
		snapshot = NewReservationDTO(reservation)

		events := []outbox.DomainEvent{
			{
				EventType:     enums.EventReservationCancelled,
				AggregateType: enums.AggregateReservation,
				AggregateID:   reservation.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.UserID},
				Data: payloads.ReservationCancelled{
					ReservationID: reservation.ID,
					VehicleID:     reservation.VehicleID,
					Reason:        reason,
					CancelledAt:   cancelledAt,
				},
			},
			{
				EventType:     enums.EventReservationReleased,
				AggregateType: enums.AggregateReservation,
				AggregateID:   reservation.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.UserID},
				Data: payloads.ReservationReleased{
					ReservationID: reservation.ID,
					VehicleID:     reservation.VehicleID,
					FinalStatus:   enums.ReservationStatusCancelled,
					ReleasedAt:    cancelledAt,
				},
			},
		}
		for _, event := range events {
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) Extend(ctx context.Context, input ExtendReservationInput) (*ReservationDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var snapshot *ReservationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		reservation, err := s.loadReservation(ctx, repo, input.ReservationID)
		if err != nil {
			return err
		}
		if reservation.Status != enums.ReservationStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("reservation is %s, only active reservations can be extended", reservation.Status))
		}
		if !reservation.Type.HasExpiry() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "paid deposit reservations have no expiry to extend")
		}
		if !input.NewExpiresAtUtc.After(reservation.CreatedAtUtc) {
			return pkgerrors.New(pkgerrors.CodeValidation, "new deadline must be after the reservation creation time")
		}

		extendedAt := s.now()
		previousExpiry := reservation.ExpiresAtUtc
		updates := map[string]any{
			"expires_at_utc":          input.NewExpiresAtUtc,
			"extended_at_utc":         extendedAt,
			"extended_by_user_id":     input.UserID,
			"previous_expires_at_utc": previousExpiry,
		}
		if err := repo.UpdateVersioned(ctx, reservation.ID, reservation.Version, updates); err != nil {
			return mapVersionError(err, "extend reservation")
		}

		newExpiry := input.NewExpiresAtUtc
		reservation.ExpiresAtUtc = &newExpiry
		reservation.ExtendedAtUtc = &extendedAt
		reservation.ExtendedByUserID = &input.UserID
		reservation.PreviousExpiresAtUtc = previousExpiry
		reservation.Version++
		snapshot = NewReservationDTO(reservation)

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventReservationExtended,
			AggregateType: enums.AggregateReservation,
			AggregateID:   reservation.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.UserID},
			Data: payloads.ReservationExtended{
				ReservationID:     reservation.ID,
				VehicleID:         reservation.VehicleID,
				PreviousExpiresAt: previousExpiry,
				NewExpiresAt:      input.NewExpiresAtUtc,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) Complete(ctx context.Context, input CompleteReservationInput) (*ReservationDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var snapshot *ReservationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		reservation, err := s.loadReservation(ctx, repo, input.ReservationID)
		if err != nil {
			return err
		}
		if reservation.Status != enums.ReservationStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("reservation is %s, only active reservations can be completed", reservation.Status))
		}

		completedAt := s.now()
		updates := map[string]any{
			"status":               enums.ReservationStatusCompleted,
			"completed_at_utc":     completedAt,
			"completed_by_user_id": input.UserID,
		}
		if err := repo.UpdateVersioned(ctx, reservation.ID, reservation.Version, updates); err != nil {
			return mapVersionError(err, "complete reservation")
		}

		reservation.Status = enums.ReservationStatusCompleted
		reservation.CompletedAtUtc = &completedAt
		reservation.CompletedByUserID = &input.UserID
		reservation.Version++
		snapshot = NewReservationDTO(reservation)

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventReservationCompleted,
			AggregateType: enums.AggregateReservation,
			AggregateID:   reservation.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.UserID},
			Data: payloads.ReservationCompleted{
				ReservationID: reservation.ID,
				VehicleID:     reservation.VehicleID,
				CompletedAt:   completedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) Expire(ctx context.Context, reservationID uuid.UUID, now time.Time) error {
	if reservationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		reservation, err := s.loadReservation(ctx, repo, reservationID)
		if err != nil {
			return err
		}
		if reservation.Status != enums.ReservationStatusActive {
			// Already terminal; expiry is idempotent.
			return nil
		}
		if reservation.ExpiresAtUtc == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation has no expiry")
		}
		if now.Before(*reservation.ExpiresAtUtc) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation deadline has not passed")
		}

		updates := map[string]any{
			"status":         enums.ReservationStatusExpired,
			"expired_at_utc": now,
		}
		if err := repo.UpdateVersioned(ctx, reservation.ID, reservation.Version, updates); err != nil {
			return mapVersionError(err, "expire reservation")
		}

		// The salesperson who held the claim is credited as the
		// responsible user on the vehicle rollback.
		if err := s.vehicles.ReleaseTx(ctx, tx, reservation.VehicleID, reservation.ID, reservation.SalesPersonID, "reservation-expired"); err != nil {
			return err
		}

		events := []outbox.DomainEvent{
			{
				EventType:     enums.EventReservationExpired,
				AggregateType: enums.AggregateReservation,
				AggregateID:   reservation.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: reservation.SalesPersonID},
				Data: payloads.ReservationExpired{
					ReservationID: reservation.ID,
					VehicleID:     reservation.VehicleID,
					ExpiredAt:     now,
				},
			},
			{
				EventType:     enums.EventReservationReleased,
				AggregateType: enums.AggregateReservation,
				AggregateID:   reservation.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: reservation.SalesPersonID},
				Data: payloads.ReservationReleased{
					ReservationID: reservation.ID,
					VehicleID:     reservation.VehicleID,
					FinalStatus:   enums.ReservationStatusExpired,
					ReleasedAt:    now,
				},
			},
		}
		for _, event := range events {
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) DueForExpiry(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error) {
	if limit <= 0 {
		limit = 200
	}
	due, err := s.repo.FindActiveDue(ctx, now, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list due reservations")
	}
	return due, nil
}

func (s *service) loadReservation(ctx context.Context, repo Repository, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return reservation, nil
}

func mapVersionError(err error, context string) error {
	if errors.Is(err, ErrStaleVersion) {
		return pkgerrors.New(pkgerrors.CodeConflict, "reservation was modified concurrently")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, context)
}

func expiryFor(reservationType enums.ReservationType, createdAt time.Time, bankDeadline *time.Time) (*time.Time, error) {
	switch reservationType {
	case enums.ReservationTypeStandard:
		expiry := createdAt.Add(StandardReservationTTL)
		return &expiry, nil
	case enums.ReservationTypePaidDeposit:
		return nil, nil
	case enums.ReservationTypeWaitingBank:
		if bankDeadline == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank deadline required for waiting_bank reservations")
		}
		deadline := *bankDeadline
		return &deadline, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown reservation type %q", reservationType))
}
