package vehicles

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerdesk/dealerdesk-backend/pkg/db/models"
	pkgerrors "github.com/dealerdesk/dealerdesk-backend/pkg/errors"
)

// History entry kinds, one per event source.
const (
	HistoryKindStatusChange = "status_change"
	HistoryKindCheckIn      = "check_in"
	HistoryKindCheckOut     = "check_out"
	HistoryKindTestDrive    = "test_drive"
	HistoryKindReservation  = "reservation"
)

func (s *service) GetHistory(ctx context.Context, id uuid.UUID) ([]HistoryEntryDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}

	auditEntries, err := s.repo.ListAuditEntries(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	checkIns, err := s.repo.ListCheckIns(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list check-ins")
	}
	checkOuts, err := s.repo.ListCheckOuts(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list check-outs")
	}
	testDrives, err := s.repo.ListTestDrives(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list test drives")
	}
	reservations, err := s.repo.ListReservations(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}

	return BuildHistory(auditEntries, checkIns, checkOuts, testDrives, reservations), nil
}

// BuildHistory merges the four event sources plus the audit trail into one
// chronological view, oldest first. Pure function over its inputs.
func BuildHistory(
	auditEntries []models.VehicleAuditEntry,
	checkIns []models.VehicleCheckIn,
	checkOuts []models.VehicleCheckOut,
	testDrives []models.TestDriveSession,
	reservations []models.Reservation,
) []HistoryEntryDTO {
	entries := make([]HistoryEntryDTO, 0,
		len(auditEntries)+len(checkIns)+len(checkOuts)+len(testDrives)+len(reservations))

	for _, entry := range auditEntries {
		entries = append(entries, HistoryEntryDTO{
			Kind:              HistoryKindStatusChange,
			OccurredAtUtc:     entry.OccurredAtUtc,
			ResponsibleUserID: entry.ResponsibleUserID,
			Summary:           fmt.Sprintf("status %s -> %s (%s)", entry.PreviousStatus, entry.NewStatus, entry.Reason),
			Detail:            entry,
		})
	}
	for _, checkIn := range checkIns {
		entries = append(entries, HistoryEntryDTO{
			Kind:              HistoryKindCheckIn,
			OccurredAtUtc:     checkIn.OccurredAtUtc,
			ResponsibleUserID: checkIn.ResponsibleUserID,
			Summary:           fmt.Sprintf("checked in from %s", checkIn.Source),
			Detail:            checkIn,
		})
	}
	for _, checkOut := range checkOuts {
		entries = append(entries, HistoryEntryDTO{
			Kind:              HistoryKindCheckOut,
			OccurredAtUtc:     checkOut.OccurredAtUtc,
			ResponsibleUserID: checkOut.ResponsibleUserID,
			Summary:           fmt.Sprintf("checked out for %s", checkOut.Reason),
			Detail:            checkOut,
		})
	}
	for _, session := range testDrives {
		summary := fmt.Sprintf("test drive for %s", session.CustomerName)
		if session.Outcome != nil {
			summary = fmt.Sprintf("test drive for %s (%s)", session.CustomerName, *session.Outcome)
		}
		entries = append(entries, HistoryEntryDTO{
			Kind:              HistoryKindTestDrive,
			OccurredAtUtc:     session.StartedAtUtc,
			ResponsibleUserID: session.SalesPersonID,
			Summary:           summary,
			Detail:            session,
		})
	}
	for _, reservation := range reservations {
		entries = append(entries, HistoryEntryDTO{
			Kind:              HistoryKindReservation,
			OccurredAtUtc:     reservation.CreatedAtUtc,
			ResponsibleUserID: reservation.SalesPersonID,
			Summary:           fmt.Sprintf("%s reservation (%s)", reservation.Type, reservation.Status),
			Detail:            reservation,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAtUtc.Before(entries[j].OccurredAtUtc)
	})
	return entries
}
