package vehicles

import (
	"fmt"

	"github.com/dealerdesk/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/dealerdesk/dealerdesk-backend/pkg/errors"
)

// transitionTable is the single source of truth for the vehicle lifecycle.
// Edges are directed; there is no implicit symmetry. Sold and WrittenOff
// have no outgoing edges.
var transitionTable = map[enums.VehicleStatus][]enums.VehicleStatus{
	enums.VehicleStatusInTransit: {
		enums.VehicleStatusInStock,
	},
	enums.VehicleStatusInStock: {
		enums.VehicleStatusReserved,
		enums.VehicleStatusInTestDrive,
		enums.VehicleStatusInPreparation,
		enums.VehicleStatusSold,
		enums.VehicleStatusWrittenOff,
		enums.VehicleStatusInTransit,
	},
	enums.VehicleStatusReserved: {
		enums.VehicleStatusInStock,
		enums.VehicleStatusInTestDrive,
		enums.VehicleStatusSold,
	},
	enums.VehicleStatusInTestDrive: {
		enums.VehicleStatusInStock,
		enums.VehicleStatusReserved,
	},
	enums.VehicleStatusInPreparation: {
		enums.VehicleStatusInStock,
	},
	enums.VehicleStatusSold:       {},
	enums.VehicleStatusWrittenOff: {},
}

// CanTransition reports whether the lifecycle permits moving from one
// status to another. A no-op (from == to) is always permitted.
func CanTransition(from, to enums.VehicleStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitionTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// GuardTransition returns a state-conflict error when the requested move is
// not in the transition table. Callers rely on it leaving the aggregate
// untouched on failure.
func GuardTransition(from, to enums.VehicleStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown vehicle status %q", to))
	}
	if CanTransition(from, to) {
		return nil
	}
	if from.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("vehicle in terminal status %s cannot change", from)).
			WithDetails(map[string]string{"from": string(from), "to": string(to)})
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("transition %s -> %s is not allowed", from, to)).
		WithDetails(map[string]string{"from": string(from), "to": string(to)})
}
