package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerdesk/dealerdesk-backend/internal/repo"
	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// ErrStaleVersion reports a lost optimistic-concurrency race on a
// reservation row.
var ErrStaleVersion = errors.New("reservation version is stale")

// Repository is the persistence surface for reservation rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (*models.Reservation, error)

	// FindActiveDue returns active reservations whose deadline has passed,
	// oldest deadline first.
	FindActiveDue(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error)

	// UpdateVersioned applies updates only when the stored version still
	// matches expectedVersion, bumping version by one in the same statement.
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]any) error
}

type repository struct {
	base repo.Base
}

// NewRepository builds a reservation repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	if err := r.base.DB(ctx).Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.base.DB(ctx).Where("id = ?", id).First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) FindActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.base.DB(ctx).
		Where("vehicle_id = ? AND status = ?", vehicleID, enums.ReservationStatusActive).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) FindActiveDue(ctx context.Context, now time.Time, limit int) ([]models.Reservation, error) {
	var due []models.Reservation
	err := r.base.DB(ctx).
		Where("status = ? AND expires_at_utc IS NOT NULL AND expires_at_utc <= ?", enums.ReservationStatusActive, now).
		Order("expires_at_utc ASC").
		Limit(limit).
		Find(&due).Error
	return due, err
}

func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]any) error {
	merged := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["version"] = gorm.Expr("version + 1")

	res := r.base.DB(ctx).Model(&models.Reservation{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(merged)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}
