// Package exception contains the OrderException aggregate: a logged
// fulfillment discrepancy (short pick, damage, substitution) and its
// exactly-once resolution. Resolution actions mutate order and item state
// through the command layer; the aggregate itself only guards its own
// lifecycle so a resolved exception can never be resolved again.
package exception

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrExceptionIsNotConstructed is returned when an Exception instance was
// not created through NewException or RestoreException.
var ErrExceptionIsNotConstructed = errors.New("Exception must be created via NewException or RestoreException")

// Conflict codes surfaced by the exception lifecycle.
const (
	CodeAlreadyResolved = "EXCEPTION_ALREADY_RESOLVED"
)

// Type classifies the logged discrepancy.
type Type int

const (
	// TypeUnknown catches uninitialized values.
	TypeUnknown Type = iota

	// ShortPick means fewer units were found than expected.
	ShortPick

	// ShortPickBackorder is a short pick that proposes deferring the
	// order; it starts in Reviewing rather than Open.
	ShortPickBackorder

	// Damage means units were found damaged.
	Damage

	// Substitution proposes fulfilling with a different SKU.
	Substitution

	// WrongItem means the bin held a different SKU than expected.
	WrongItem

	// QuantityMismatch means the system quantity disagrees with the bin.
	QuantityMismatch
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:        "Unknown",
		ShortPick:          "ShortPick",
		ShortPickBackorder: "ShortPickBackorder",
		Damage:             "Damage",
		Substitution:       "Substitution",
		WrongItem:          "WrongItem",
		QuantityMismatch:   "QuantityMismatch",
	}
}

// String returns the human-readable name of the exception type.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the Type is one of the recognized discrepancies.
func (t Type) Validate() error {
	if t < ShortPick || t > QuantityMismatch {
		return errs.NewValueIsInvalidErrorWithCause("exception type is invalid",
			fmt.Errorf("%d is not a valid exception type", t))
	}
	return nil
}

// Status is the exception lifecycle: Open (or Reviewing) -> Resolved.
type Status int

const (
	// StatusUnknown catches uninitialized values.
	StatusUnknown Status = iota

	// Open means the exception awaits triage.
	Open

	// Reviewing means the exception is under supervisor review.
	Reviewing

	// Resolved is terminal; re-resolution is rejected.
	Resolved
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Open:          "Open",
		Reviewing:     "Reviewing",
		Resolved:      "Resolved",
	}
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the Status is one of the defined states.
func (s Status) Validate() error {
	if s < Open || s > Resolved {
		return errs.NewValueIsInvalidErrorWithCause("exception status is invalid",
			fmt.Errorf("%d is not a valid exception status", s))
	}
	return nil
}

// Resolution is the action a supervisor applies to close an exception.
type Resolution int

const (
	// ResolutionUnknown catches uninitialized values.
	ResolutionUnknown Resolution = iota

	// Substitute sets a substitute SKU on the affected item.
	Substitute

	// CancelItem cancels the affected item.
	CancelItem

	// CancelOrder cancels the whole order.
	CancelOrder

	// AdjustQuantity overwrites the item's ordered quantity.
	AdjustQuantity

	// TransferBin moves the item to a different bin.
	TransferBin

	// MarkBackorder defers the order for insufficient stock.
	MarkBackorder
)

func getResolutionStrings() map[Resolution]string {
	return map[Resolution]string{
		ResolutionUnknown: "Unknown",
		Substitute:        "Substitute",
		CancelItem:        "CancelItem",
		CancelOrder:       "CancelOrder",
		AdjustQuantity:    "AdjustQuantity",
		TransferBin:       "TransferBin",
		MarkBackorder:     "Backorder",
	}
}

// String returns the human-readable name of the resolution.
func (r Resolution) String() string {
	if str, ok := getResolutionStrings()[r]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the Resolution is one of the defined actions.
func (r Resolution) Validate() error {
	if r < Substitute || r > MarkBackorder {
		return errs.NewValueIsInvalidErrorWithCause("resolution is invalid",
			fmt.Errorf("%d is not a valid resolution", r))
	}
	return nil
}

// Exception records one fulfillment discrepancy against an order item.
// It is resolved exactly once: the persistence layer locks the row for
// update during resolution and the aggregate rejects a second Resolve.
type Exception struct {
	id               kernel.UUID
	orderID          kernel.UUID
	orderItemID      kernel.UUID
	sku              string
	exType           Type
	quantityExpected int
	quantityActual   int
	reason           string
	reportedBy       kernel.UUID
	status           Status
	resolution       *Resolution
	resolutionNotes  string
	resolvedBy       *kernel.UUID
	resolvedAt       *time.Time
	isConstructed    bool
}

// NewException logs a discrepancy. All identifying fields are required
// and the type must be a recognized enum value. SHORT_PICK_BACKORDER
// exceptions start in Reviewing; everything else starts Open.
func NewException(
	id kernel.UUID,
	orderID kernel.UUID,
	orderItemID kernel.UUID,
	sku string,
	exType Type,
	quantityExpected int,
	quantityActual int,
	reason string,
	reportedBy kernel.UUID,
) (*Exception, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := orderItemID.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if err := exType.Validate(); err != nil {
		return nil, err
	}
	if quantityExpected < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantityExpected",
			fmt.Errorf("%d is negative", quantityExpected))
	}
	if quantityActual < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantityActual",
			fmt.Errorf("%d is negative", quantityActual))
	}
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}
	if err := reportedBy.Validate(); err != nil {
		return nil, err
	}

	status := Open
	if exType == ShortPickBackorder {
		status = Reviewing
	}

	return &Exception{
		id:               id,
		orderID:          orderID,
		orderItemID:      orderItemID,
		sku:              sku,
		exType:           exType,
		quantityExpected: quantityExpected,
		quantityActual:   quantityActual,
		reason:           reason,
		reportedBy:       reportedBy,
		status:           status,
		isConstructed:    true,
	}, nil
}

// RestoreException reconstructs an exception from persistence.
func RestoreException(
	id kernel.UUID,
	orderID kernel.UUID,
	orderItemID kernel.UUID,
	sku string,
	exType Type,
	quantityExpected int,
	quantityActual int,
	reason string,
	reportedBy kernel.UUID,
	status Status,
	resolution *Resolution,
	resolutionNotes string,
	resolvedBy *kernel.UUID,
	resolvedAt *time.Time,
) (*Exception, error) {
	ex, err := NewException(id, orderID, orderItemID, sku, exType, quantityExpected, quantityActual, reason, reportedBy)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	ex.status = status
	ex.resolution = resolution
	ex.resolutionNotes = resolutionNotes
	ex.resolvedBy = resolvedBy
	ex.resolvedAt = resolvedAt
	return ex, nil
}

// Validate ensures the Exception was constructed through a constructor.
func (e *Exception) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrExceptionIsNotConstructed
	}
	return nil
}

// ID returns the exception's unique identifier.
func (e *Exception) ID() kernel.UUID {
	return e.id
}

// OrderID returns the affected order.
func (e *Exception) OrderID() kernel.UUID {
	return e.orderID
}

// OrderItemID returns the affected order item.
func (e *Exception) OrderItemID() kernel.UUID {
	return e.orderItemID
}

// SKU returns the affected stock keeping unit.
func (e *Exception) SKU() string {
	return e.sku
}

// Type returns the discrepancy classification.
func (e *Exception) Type() Type {
	return e.exType
}

// QuantityExpected returns the quantity the system expected.
func (e *Exception) QuantityExpected() int {
	return e.quantityExpected
}

// QuantityActual returns the quantity actually found.
func (e *Exception) QuantityActual() int {
	return e.quantityActual
}

// QuantityShort returns expected minus actual.
func (e *Exception) QuantityShort() int {
	return e.quantityExpected - e.quantityActual
}

// Reason returns the reporter's description of the discrepancy.
func (e *Exception) Reason() string {
	return e.reason
}

// ReportedBy returns the user who logged the exception.
func (e *Exception) ReportedBy() kernel.UUID {
	return e.reportedBy
}

// Status returns the exception lifecycle status.
func (e *Exception) Status() Status {
	return e.status
}

// Resolution returns the applied resolution, or nil while unresolved.
func (e *Exception) Resolution() *Resolution {
	return e.resolution
}

// ResolutionNotes returns notes recorded at resolution time.
func (e *Exception) ResolutionNotes() string {
	return e.resolutionNotes
}

// ResolvedBy returns the resolving user, or nil while unresolved.
func (e *Exception) ResolvedBy() *kernel.UUID {
	return e.resolvedBy
}

// ResolvedAt returns the resolution timestamp, or nil while unresolved.
func (e *Exception) ResolvedAt() *time.Time {
	return e.resolvedAt
}

// Resolve closes the exception with the given action. A second Resolve
// fails with EXCEPTION_ALREADY_RESOLVED and mutates nothing.
func (e *Exception) Resolve(resolution Resolution, notes string, resolvedBy kernel.UUID, now time.Time) error {
	if err := resolution.Validate(); err != nil {
		return err
	}
	if err := resolvedBy.Validate(); err != nil {
		return err
	}
	if e.status == Resolved {
		return errs.NewConflictError(CodeAlreadyResolved,
			fmt.Sprintf("exception %s is already resolved", e.id))
	}

	e.status = Resolved
	e.resolution = &resolution
	e.resolutionNotes = notes
	e.resolvedBy = &resolvedBy
	e.resolvedAt = &now
	return nil
}
