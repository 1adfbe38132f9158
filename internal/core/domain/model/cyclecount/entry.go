// Package cyclecount contains the cycle counting domain model: count
// entries comparing counted stock against the system snapshot, and the
// tolerance configuration deciding whether a variance auto-adjusts or
// awaits human review. Approved variances terminate in the same inventory
// ledger adjustment primitive used by exception resolution, applied
// exactly once per entry.
package cyclecount

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrEntryIsNotConstructed is returned when an Entry instance was not
// created through NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

// Conflict codes surfaced by the cycle count lifecycle.
const (
	CodeEntryNotPending          = "ENTRY_NOT_PENDING"
	CodeAdjustmentAlreadyApplied = "ADJUSTMENT_ALREADY_APPLIED"
)

// VarianceStatus is the review lifecycle of a count entry's variance.
type VarianceStatus int

const (
	// VarianceStatusUnknown catches uninitialized values.
	VarianceStatusUnknown VarianceStatus = iota

	// VariancePending awaits human review.
	VariancePending

	// VarianceAutoAdjusted was within tolerance and applied immediately.
	VarianceAutoAdjusted

	// VarianceApproved was reviewed and applied.
	VarianceApproved

	// VarianceRejected was reviewed and discarded; no ledger adjustment.
	VarianceRejected
)

func getVarianceStatusStrings() map[VarianceStatus]string {
	return map[VarianceStatus]string{
		VarianceStatusUnknown: "Unknown",
		VariancePending:       "Pending",
		VarianceAutoAdjusted:  "AutoAdjusted",
		VarianceApproved:      "Approved",
		VarianceRejected:      "Rejected",
	}
}

// String returns the human-readable name of the variance status.
func (s VarianceStatus) String() string {
	if str, ok := getVarianceStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the VarianceStatus is one of the defined states.
func (s VarianceStatus) Validate() error {
	if s < VariancePending || s > VarianceRejected {
		return errs.NewValueIsInvalidErrorWithCause("variance status is invalid",
			fmt.Errorf("%d is not a valid variance status", s))
	}
	return nil
}

// ZoneOfBin derives the warehouse zone from a bin location code: the
// leading segment before the first dash ("A-01-02" -> "A"). Zone-level
// tolerances match on this value.
func ZoneOfBin(binLocation string) string {
	if idx := strings.Index(binLocation, "-"); idx > 0 {
		return binLocation[:idx]
	}
	return binLocation
}

// Entry records one cycle count observation: the system quantity at count
// time, the counted quantity, and the review state of their variance. The
// ledger adjustment for an entry is applied at most once, guarded by
// adjustmentTransactionID being unset.
type Entry struct {
	id                      kernel.UUID
	planID                  kernel.UUID
	sku                     string
	binLocation             string
	systemQuantity          int
	countedQuantity         int
	countedBy               kernel.UUID
	countedAt               time.Time
	varianceStatus          VarianceStatus
	reviewedBy              *kernel.UUID
	adjustmentTransactionID *kernel.UUID
	isConstructed           bool
}

// NewEntry creates a count entry in Pending review state. The caller
// snapshots systemQuantity inside the same transaction that persists the
// entry so the variance is computed against a consistent ledger view.
func NewEntry(
	id kernel.UUID,
	planID kernel.UUID,
	sku string,
	binLocation string,
	systemQuantity int,
	countedQuantity int,
	countedBy kernel.UUID,
	countedAt time.Time,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := planID.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if binLocation == "" {
		return nil, errs.NewValueIsRequiredError("binLocation")
	}
	if systemQuantity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("systemQuantity",
			fmt.Errorf("%d is negative", systemQuantity))
	}
	if countedQuantity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("countedQuantity",
			fmt.Errorf("%d is negative", countedQuantity))
	}
	if err := countedBy.Validate(); err != nil {
		return nil, err
	}

	return &Entry{
		id:              id,
		planID:          planID,
		sku:             sku,
		binLocation:     binLocation,
		systemQuantity:  systemQuantity,
		countedQuantity: countedQuantity,
		countedBy:       countedBy,
		countedAt:       countedAt,
		varianceStatus:  VariancePending,
		isConstructed:   true,
	}, nil
}

// RestoreEntry reconstructs a count entry from persistence.
func RestoreEntry(
	id kernel.UUID,
	planID kernel.UUID,
	sku string,
	binLocation string,
	systemQuantity int,
	countedQuantity int,
	countedBy kernel.UUID,
	countedAt time.Time,
	varianceStatus VarianceStatus,
	reviewedBy *kernel.UUID,
	adjustmentTransactionID *kernel.UUID,
) (*Entry, error) {
	entry, err := NewEntry(id, planID, sku, binLocation, systemQuantity, countedQuantity, countedBy, countedAt)
	if err != nil {
		return nil, err
	}
	if err = varianceStatus.Validate(); err != nil {
		return nil, err
	}

	entry.varianceStatus = varianceStatus
	entry.reviewedBy = reviewedBy
	entry.adjustmentTransactionID = adjustmentTransactionID
	return entry, nil
}

// Validate ensures the Entry was constructed through a constructor.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// PlanID returns the owning cycle count plan.
func (e *Entry) PlanID() kernel.UUID {
	return e.planID
}

// SKU returns the counted stock keeping unit.
func (e *Entry) SKU() string {
	return e.sku
}

// BinLocation returns the counted bin.
func (e *Entry) BinLocation() string {
	return e.binLocation
}

// SystemQuantity returns the ledger quantity snapshotted at count time.
func (e *Entry) SystemQuantity() int {
	return e.systemQuantity
}

// CountedQuantity returns the physically counted quantity.
func (e *Entry) CountedQuantity() int {
	return e.countedQuantity
}

// CountedBy returns the user who performed the count.
func (e *Entry) CountedBy() kernel.UUID {
	return e.countedBy
}

// CountedAt returns when the count was recorded.
func (e *Entry) CountedAt() time.Time {
	return e.countedAt
}

// Variance returns counted minus system quantity.
func (e *Entry) Variance() int {
	return e.countedQuantity - e.systemQuantity
}

// VariancePercent returns |variance| / systemQuantity * 100, or 0 when
// the system quantity is 0.
func (e *Entry) VariancePercent() float64 {
	if e.systemQuantity == 0 {
		return 0
	}
	return math.Abs(float64(e.Variance())) / float64(e.systemQuantity) * 100
}

// VarianceStatus returns the review state of the variance.
func (e *Entry) VarianceStatus() VarianceStatus {
	return e.varianceStatus
}

// ReviewedBy returns the reviewing user, or nil while unreviewed.
func (e *Entry) ReviewedBy() *kernel.UUID {
	return e.reviewedBy
}

// AdjustmentTransactionID returns the ledger transaction applied for this
// entry, or nil if no adjustment has been applied.
func (e *Entry) AdjustmentTransactionID() *kernel.UUID {
	return e.adjustmentTransactionID
}

// NeedsAdjustment reports whether the entry has a non-zero variance whose
// ledger adjustment has not yet been applied.
func (e *Entry) NeedsAdjustment() bool {
	return e.Variance() != 0 && e.adjustmentTransactionID == nil
}

// MarkAutoAdjusted transitions Pending -> AutoAdjusted when the variance
// is within tolerance at creation time.
func (e *Entry) MarkAutoAdjusted() error {
	if e.varianceStatus != VariancePending {
		return errs.NewConflictError(CodeEntryNotPending,
			fmt.Sprintf("entry in status %s cannot be auto-adjusted", e.varianceStatus))
	}
	e.varianceStatus = VarianceAutoAdjusted
	return nil
}

// Approve transitions Pending -> Approved under human review.
func (e *Entry) Approve(reviewedBy kernel.UUID) error {
	if err := reviewedBy.Validate(); err != nil {
		return err
	}
	if e.varianceStatus != VariancePending {
		return errs.NewConflictError(CodeEntryNotPending,
			fmt.Sprintf("entry in status %s cannot be approved", e.varianceStatus))
	}

	e.varianceStatus = VarianceApproved
	e.reviewedBy = &reviewedBy
	return nil
}

// Reject transitions Pending -> Rejected; the variance is discarded and
// no ledger adjustment will ever be applied for this entry.
func (e *Entry) Reject(reviewedBy kernel.UUID) error {
	if err := reviewedBy.Validate(); err != nil {
		return err
	}
	if e.varianceStatus != VariancePending {
		return errs.NewConflictError(CodeEntryNotPending,
			fmt.Sprintf("entry in status %s cannot be rejected", e.varianceStatus))
	}

	e.varianceStatus = VarianceRejected
	e.reviewedBy = &reviewedBy
	return nil
}

// AttachAdjustment records the ledger transaction applied for this entry.
// The id is set at most once; a second attach conflicts, which is the
// exactly-once guard for adjustment application.
func (e *Entry) AttachAdjustment(transactionID kernel.UUID) error {
	if err := transactionID.Validate(); err != nil {
		return err
	}
	if e.adjustmentTransactionID != nil {
		return errs.NewConflictError(CodeAdjustmentAlreadyApplied,
			fmt.Sprintf("entry %s already has adjustment %s", e.id, e.adjustmentTransactionID))
	}

	e.adjustmentTransactionID = &transactionID
	return nil
}
