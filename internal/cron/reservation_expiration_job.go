package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	pkgerrors "github.com/dealerdesk/dealerdesk-backend/pkg/errors"
	"github.com/dealerdesk/dealerdesk-backend/pkg/logger"
)

const defaultSweeperBatchSize = 200

// reservationExpirer is the slice of the reservations service the sweeper
// needs. Expire opens its own transaction per reservation, so a failure on
// one row never rolls back the others.
type reservationExpirer interface {
	DueForExpiry(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error)
	Expire(ctx context.Context, reservationID uuid.UUID, now time.Time) error
}

type ReservationExpirationJobParams struct {
	Logger       *logger.Logger
	Reservations reservationExpirer
	BatchSize    int
}

func NewReservationExpirationJob(params ReservationExpirationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reservations == nil {
		return nil, fmt.Errorf("reservations service required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweeperBatchSize
	}
	return &reservationExpirationJob{
		logg:         params.Logger,
		reservations: params.Reservations,
		batchSize:    batchSize,
		now:          time.Now,
	}, nil
}

type reservationExpirationJob struct {
	logg         *logger.Logger
	reservations reservationExpirer
	batchSize    int
	now          func() time.Time
}

func (j *reservationExpirationJob) Name() string { return "reservation-expiration" }

func (j *reservationExpirationJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	due, err := j.reservations.DueForExpiry(ctx, now, j.batchSize)
	if err != nil {
		return fmt.Errorf("list due reservations: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	expired := 0
	conflicts := 0
	var failed error
	for _, reservation := range due {
		if ctx.Err() != nil {
			break
		}
		err := j.reservations.Expire(ctx, reservation.ID, now)
		switch {
		case err == nil:
			expired++
		case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
			// A user cancel/extend/complete committed first. The row
			// is re-read on the next cycle if it is still due.
			conflicts++
		default:
			failed = multierr.Append(failed, fmt.Errorf("reservation %s: %w", reservation.ID, err))
			itemCtx := j.logg.WithReservationID(ctx, reservation.ID.String())
			j.logg.Error(itemCtx, "failed to expire reservation", err)
		}
	}
	failures := len(multierr.Errors(failed))

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"due":       len(due),
		"expired":   expired,
		"conflicts": conflicts,
		"failures":  failures,
	})
	j.logg.Info(logCtx, "reservation expiration sweep complete")

	if failed != nil {
		return fmt.Errorf("%d of %d due reservations failed to expire: %w", failures, len(due), failed)
	}
	return nil
}
