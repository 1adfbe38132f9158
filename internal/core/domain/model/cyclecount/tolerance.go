package cyclecount

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ErrToleranceIsNotConstructed is returned when a Tolerance instance was
// not created through NewTolerance or one of its scope helpers.
var ErrToleranceIsNotConstructed = errors.New("Tolerance must be created via NewTolerance")

// Tolerance configures how large a count variance may be before it needs
// human attention. A tolerance is scoped to a SKU, to a zone, or is the
// warehouse default; resolution order is SKU-specific, then
// zone-specific, then default.
//
// Thresholds are percentages of the system quantity:
//   - variancePercent <= AutoAdjustThreshold: adjust immediately;
//     a variance exactly at the threshold auto-adjusts
//   - variancePercent >= RequiresApprovalThreshold: supervisor approval
//     required before any adjustment
type Tolerance struct {
	sku                       *string
	zone                      *string
	autoAdjustThreshold       float64
	requiresApprovalThreshold float64
	isConstructed             bool
}

// NewTolerance creates a tolerance. sku and zone scope the tolerance and
// may both be nil for the warehouse default. Thresholds must be
// non-negative and autoAdjust must not exceed requiresApproval.
func NewTolerance(sku, zone *string, autoAdjustThreshold, requiresApprovalThreshold float64) (*Tolerance, error) {
	if autoAdjustThreshold < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("autoAdjustThreshold",
			fmt.Errorf("%f is negative", autoAdjustThreshold))
	}
	if requiresApprovalThreshold < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("requiresApprovalThreshold",
			fmt.Errorf("%f is negative", requiresApprovalThreshold))
	}
	if autoAdjustThreshold > requiresApprovalThreshold {
		return nil, errs.NewValueIsInvalidErrorWithCause("autoAdjustThreshold",
			fmt.Errorf("%f exceeds requiresApprovalThreshold %f", autoAdjustThreshold, requiresApprovalThreshold))
	}
	if sku != nil && *sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if zone != nil && *zone == "" {
		return nil, errs.NewValueIsRequiredError("zone")
	}

	return &Tolerance{
		sku:                       sku,
		zone:                      zone,
		autoAdjustThreshold:       autoAdjustThreshold,
		requiresApprovalThreshold: requiresApprovalThreshold,
		isConstructed:             true,
	}, nil
}

// NewDefaultTolerance creates the warehouse-wide fallback tolerance.
func NewDefaultTolerance(autoAdjustThreshold, requiresApprovalThreshold float64) (*Tolerance, error) {
	return NewTolerance(nil, nil, autoAdjustThreshold, requiresApprovalThreshold)
}

// Validate ensures the Tolerance was constructed through a constructor.
func (t *Tolerance) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrToleranceIsNotConstructed
	}
	return nil
}

// SKU returns the SKU scope, or nil if the tolerance is not SKU-specific.
func (t *Tolerance) SKU() *string {
	return t.sku
}

// Zone returns the zone scope, or nil if the tolerance is not zone-specific.
func (t *Tolerance) Zone() *string {
	return t.zone
}

// AutoAdjustThreshold returns the inclusive auto-adjust percentage bound.
func (t *Tolerance) AutoAdjustThreshold() float64 {
	return t.autoAdjustThreshold
}

// RequiresApprovalThreshold returns the approval-required percentage bound.
func (t *Tolerance) RequiresApprovalThreshold() float64 {
	return t.requiresApprovalThreshold
}
