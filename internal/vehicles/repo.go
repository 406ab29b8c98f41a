package vehicles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerdesk/dealerdesk-backend/internal/repo"
	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
)

// ErrStaleVersion reports a lost optimistic-concurrency race: the row was
// updated by another writer between load and commit.
var ErrStaleVersion = errors.New("vehicle version is stale")

// Repository is the persistence surface for the vehicle aggregate and its
// embedded history collections.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	CountNonTerminalWithPlate(ctx context.Context, plate string, excludeID uuid.UUID) (int64, error)

	// UpdateVersioned applies updates only when the stored version still
	// matches expectedVersion, bumping version by one in the same statement.
	// Returns ErrStaleVersion when another writer got there first.
	UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]any) error

	CreateCheckIn(ctx context.Context, checkIn *models.VehicleCheckIn) (*models.VehicleCheckIn, error)
	CreateCheckOut(ctx context.Context, checkOut *models.VehicleCheckOut) (*models.VehicleCheckOut, error)
	CreateTestDrive(ctx context.Context, session *models.TestDriveSession) (*models.TestDriveSession, error)
	FindTestDrive(ctx context.Context, id uuid.UUID) (*models.TestDriveSession, error)
	UpdateTestDrive(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreateAuditEntry(ctx context.Context, entry *models.VehicleAuditEntry) error

	ListAuditEntries(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleAuditEntry, error)
	ListCheckIns(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleCheckIn, error)
	ListCheckOuts(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleCheckOut, error)
	ListTestDrives(ctx context.Context, vehicleID uuid.UUID) ([]models.TestDriveSession, error)
	ListReservations(ctx context.Context, vehicleID uuid.UUID) ([]models.Reservation, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds a vehicle repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: repo.NewBase(tx)}
}

func (r *repository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.base.DB(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.base.DB(ctx).Where("id = ?", id).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.base.DB(ctx).Where("vin = ?", vin).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) CountNonTerminalWithPlate(ctx context.Context, plate string, excludeID uuid.UUID) (int64, error) {
	var count int64
	query := r.base.DB(ctx).Model(&models.Vehicle{}).
		Where("plate = ?", plate).
		Where("status NOT IN ?", []enums.VehicleStatus{enums.VehicleStatusSold, enums.VehicleStatusWrittenOff})
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]any) error {
	merged := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["version"] = gorm.Expr("version + 1")

	res := r.base.DB(ctx).Model(&models.Vehicle{}).
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

func (r *repository) CreateCheckIn(ctx context.Context, checkIn *models.VehicleCheckIn) (*models.VehicleCheckIn, error) {
	if err := r.base.DB(ctx).Create(checkIn).Error; err != nil {
		return nil, err
	}
	return checkIn, nil
}

func (r *repository) CreateCheckOut(ctx context.Context, checkOut *models.VehicleCheckOut) (*models.VehicleCheckOut, error) {
	if err := r.base.DB(ctx).Create(checkOut).Error; err != nil {
		return nil, err
	}
	return checkOut, nil
}

func (r *repository) CreateTestDrive(ctx context.Context, session *models.TestDriveSession) (*models.TestDriveSession, error) {
	if err := r.base.DB(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *repository) FindTestDrive(ctx context.Context, id uuid.UUID) (*models.TestDriveSession, error) {
	var session models.TestDriveSession
	err := r.base.DB(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) UpdateTestDrive(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.base.DB(ctx).Model(&models.TestDriveSession{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateAuditEntry(ctx context.Context, entry *models.VehicleAuditEntry) error {
	return r.base.DB(ctx).Create(entry).Error
}

func (r *repository) ListAuditEntries(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleAuditEntry, error) {
	var entries []models.VehicleAuditEntry
	err := r.base.DB(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("occurred_at_utc ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) ListCheckIns(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleCheckIn, error) {
	var checkIns []models.VehicleCheckIn
	err := r.base.DB(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("occurred_at_utc ASC").
		Find(&checkIns).Error
	return checkIns, err
}

func (r *repository) ListCheckOuts(ctx context.Context, vehicleID uuid.UUID) ([]models.VehicleCheckOut, error) {
	var checkOuts []models.VehicleCheckOut
	err := r.base.DB(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("occurred_at_utc ASC").
		Find(&checkOuts).Error
	return checkOuts, err
}

func (r *repository) ListTestDrives(ctx context.Context, vehicleID uuid.UUID) ([]models.TestDriveSession, error) {
	var sessions []models.TestDriveSession
	err := r.base.DB(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("started_at_utc ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *repository) ListReservations(ctx context.Context, vehicleID uuid.UUID) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.base.DB(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at_utc ASC").
		Find(&reservations).Error
	return reservations, err
}
