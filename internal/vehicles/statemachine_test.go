package vehicles

import (
	"testing"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/dealerdesk/dealerdesk-backend/pkg/errors"
)

func TestCanTransitionAllowedEdges(t *testing.T) {
	allowed := []struct {
		from enums.VehicleStatus
		to   enums.VehicleStatus
	}{
		{enums.VehicleStatusInTransit, enums.VehicleStatusInStock},
		{enums.VehicleStatusInStock, enums.VehicleStatusReserved},
		{enums.VehicleStatusInStock, enums.VehicleStatusInTestDrive},
		{enums.VehicleStatusInStock, enums.VehicleStatusInPreparation},
		{enums.VehicleStatusInStock, enums.VehicleStatusSold},
		{enums.VehicleStatusInStock, enums.VehicleStatusWrittenOff},
		{enums.VehicleStatusInStock, enums.VehicleStatusInTransit},
		{enums.VehicleStatusReserved, enums.VehicleStatusInStock},
		{enums.VehicleStatusReserved, enums.VehicleStatusInTestDrive},
		{enums.VehicleStatusReserved, enums.VehicleStatusSold},
		{enums.VehicleStatusInTestDrive, enums.VehicleStatusInStock},
		{enums.VehicleStatusInTestDrive, enums.VehicleStatusReserved},
		{enums.VehicleStatusInPreparation, enums.VehicleStatusInStock},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}
}

func TestCanTransitionNoOpAlwaysAllowed(t *testing.T) {
	statuses := []enums.VehicleStatus{
		enums.VehicleStatusInTransit,
		enums.VehicleStatusInStock,
		enums.VehicleStatusReserved,
		enums.VehicleStatusInTestDrive,
		enums.VehicleStatusInPreparation,
		enums.VehicleStatusSold,
		enums.VehicleStatusWrittenOff,
	}
	for _, status := range statuses {
		if !CanTransition(status, status) {
			t.Fatalf("expected no-op on %s to be allowed", status)
		}
	}
}

func TestCanTransitionNoImplicitSymmetry(t *testing.T) {
	// InStock -> InPreparation exists, the reverse exists too, but
	// Reserved -> InPreparation does not and must not be inferred.
	if CanTransition(enums.VehicleStatusReserved, enums.VehicleStatusInPreparation) {
		t.Fatalf("Reserved -> InPreparation should be rejected")
	}
	if CanTransition(enums.VehicleStatusInPreparation, enums.VehicleStatusReserved) {
		t.Fatalf("InPreparation -> Reserved should be rejected")
	}
	if CanTransition(enums.VehicleStatusInTransit, enums.VehicleStatusSold) {
		t.Fatalf("InTransit -> Sold should be rejected")
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	targets := []enums.VehicleStatus{
		enums.VehicleStatusInTransit,
		enums.VehicleStatusInStock,
		enums.VehicleStatusReserved,
		enums.VehicleStatusInTestDrive,
		enums.VehicleStatusInPreparation,
	}
	for _, terminal := range []enums.VehicleStatus{enums.VehicleStatusSold, enums.VehicleStatusWrittenOff} {
		for _, target := range targets {
			if CanTransition(terminal, target) {
				t.Fatalf("expected %s -> %s to be rejected", terminal, target)
			}
		}
	}
}

func TestGuardTransitionErrors(t *testing.T) {
	if err := GuardTransition(enums.VehicleStatusInStock, enums.VehicleStatusReserved); err != nil {
		t.Fatalf("expected allowed transition, got %v", err)
	}

	err := GuardTransition(enums.VehicleStatusSold, enums.VehicleStatusInStock)
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	err = GuardTransition(enums.VehicleStatusInStock, enums.VehicleStatus("repainting"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
