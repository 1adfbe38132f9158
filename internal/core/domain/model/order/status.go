package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Machine-readable conflict codes surfaced on 409 responses. Callers
// branch on these instead of matching error message strings.
const (
	CodeOrderNotClaimable   = "ORDER_NOT_CLAIMABLE"
	CodeOrderAlreadyClaimed = "ORDER_ALREADY_CLAIMED"
	CodeMaxActiveOrders     = "MAX_ACTIVE_ORDERS"
	CodeNotAssignedToPicker = "NOT_ASSIGNED_TO_PICKER"
	CodeNotPicking          = "NOT_PICKING"
	CodeNotAssignedToPacker = "NOT_ASSIGNED_TO_PACKER"
	CodeNotPacking          = "NOT_PACKING"
	CodeCannotDecrement     = "CANNOT_DECREMENT"
	CodeOrderNotCancellable = "ORDER_NOT_CANCELLABLE"
	CodeOrderNotBackorder   = "ORDER_NOT_BACKORDER"
	CodePickingIncomplete   = "PICKING_INCOMPLETE"
	CodeTaskNotPickable     = "TASK_NOT_PICKABLE"
	CodeTaskNotSkippable    = "TASK_NOT_SKIPPABLE"
)

// Status represents the lifecycle state of an order. It implements a
// state machine with defined transitions so orders follow the fulfillment
// workflow:
//
//	Pending ──> Picking ──> Picked ──> Packing ──> Packed ──> Shipped
//	   ^           │          ^           │
//	   └───────────┘          └───────────┘
//	  (unclaim)              (unclaim-packing)
//
// Any non-terminal status may transition to Cancelled. Exception
// resolution may force Backorder from Picking; backorder release returns
// the order to Pending. Shipped and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order awaits a picker claim.
	Pending

	// Picking means a picker has exclusively claimed the order.
	Picking

	// Picked means picking finished and the order awaits a packer claim.
	Picked

	// Packing means a packer has exclusively claimed the order.
	Packing

	// Packed means packing finished and the order awaits shipment.
	Packed

	// Shipped is a terminal status: the package left the warehouse.
	Shipped

	// Cancelled is a terminal status reachable from any non-terminal state.
	Cancelled

	// Backorder means insufficient stock: the order is deferred, not
	// cancelled, and returns to Pending when stock is replenished.
	Backorder
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Picking:   "Picking",
		Picked:    "Picked",
		Packing:   "Packing",
		Packed:    "Packed",
		Shipped:   "Shipped",
		Cancelled: "Cancelled",
		Backorder: "Backorder",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Picking:   "Picking",
		Picked:    "Picked",
		Packing:   "Packing",
		Packed:    "Packed",
		Shipped:   "Shipped",
		Cancelled: "Cancelled",
		Backorder: "Backorder",
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
// Used when reconstructing orders from persistence or external input.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Shipped || s == Cancelled
}

// ClaimForPicking transitions Pending -> Picking.
//
// A Picking source state yields ORDER_ALREADY_CLAIMED (someone holds the
// claim); every other source state yields ORDER_NOT_CLAIMABLE.
func (s Status) ClaimForPicking() (Status, error) {
	if s == Picking {
		return 0, errs.NewConflictError(CodeOrderAlreadyClaimed, "order is already claimed by a picker")
	}
	if s != Pending {
		return 0, errs.NewConflictError(CodeOrderNotClaimable,
			fmt.Sprintf("order in status %s cannot be claimed for picking", s))
	}
	return Picking, nil
}

// ReleaseToPending transitions Picking -> Pending (picker unclaim).
func (s Status) ReleaseToPending() (Status, error) {
	if s != Picking {
		return 0, errs.NewConflictError(CodeNotPicking,
			fmt.Sprintf("order in status %s is not being picked", s))
	}
	return Pending, nil
}

// CompletePicking transitions Picking -> Picked.
func (s Status) CompletePicking() (Status, error) {
	if s != Picking {
		return 0, errs.NewConflictError(CodeNotPicking,
			fmt.Sprintf("order in status %s is not being picked", s))
	}
	return Picked, nil
}

// ClaimForPacking transitions Picked -> Packing, with the same conflict
// split as ClaimForPicking.
func (s Status) ClaimForPacking() (Status, error) {
	if s == Packing {
		return 0, errs.NewConflictError(CodeOrderAlreadyClaimed, "order is already claimed by a packer")
	}
	if s != Picked {
		return 0, errs.NewConflictError(CodeOrderNotClaimable,
			fmt.Sprintf("order in status %s cannot be claimed for packing", s))
	}
	return Packing, nil
}

// ReleaseToPicked transitions Packing -> Picked (packer unclaim).
func (s Status) ReleaseToPicked() (Status, error) {
	if s != Packing {
		return 0, errs.NewConflictError(CodeNotPacking,
			fmt.Sprintf("order in status %s is not being packed", s))
	}
	return Picked, nil
}

// CompletePacking transitions Packing -> Packed.
func (s Status) CompletePacking() (Status, error) {
	if s != Packing {
		return 0, errs.NewConflictError(CodeNotPacking,
			fmt.Sprintf("order in status %s is not being packed", s))
	}
	return Packed, nil
}

// Ship transitions Packed -> Shipped.
func (s Status) Ship() (Status, error) {
	if s != Packed {
		return 0, errs.NewConflictError(CodeOrderNotClaimable,
			fmt.Sprintf("order in status %s cannot be shipped", s))
	}
	return Shipped, nil
}

// Cancel transitions any non-terminal status -> Cancelled.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictError(CodeOrderNotCancellable,
			fmt.Sprintf("order in status %s cannot be cancelled", s))
	}
	return Cancelled, nil
}

// MarkBackorder transitions Pending or Picking -> Backorder. Reached at
// creation time when stock is insufficient, or from Picking through
// exception resolution.
func (s Status) MarkBackorder() (Status, error) {
	if s != Pending && s != Picking {
		return 0, errs.NewConflictError(CodeOrderNotBackorder,
			fmt.Sprintf("order in status %s cannot be moved to backorder", s))
	}
	return Backorder, nil
}

// ReleaseBackorder transitions Backorder -> Pending once stock allows.
func (s Status) ReleaseBackorder() (Status, error) {
	if s != Backorder {
		return 0, errs.NewConflictError(CodeOrderNotBackorder,
			fmt.Sprintf("order in status %s is not a backorder", s))
	}
	return Pending, nil
}

// ValidateAssignment validates the consistency between status and worker
// assignment: a picker is set if and only if the order is Picking, a
// packer if and only if it is Packing.
func (s Status) ValidateAssignment(hasPicker, hasPacker bool) error {
	if hasPicker != (s == Picking) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is inconsistent with picker assignment %t", s, hasPicker),
		)
	}
	if hasPacker != (s == Packing) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is inconsistent with packer assignment %t", s, hasPacker),
		)
	}
	return nil
}
