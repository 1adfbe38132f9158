package services

import (
	"fulfillment/internal/core/domain/model/cyclecount"
)

// VariancePolicy is a domain service deciding the review route of a cycle
// count variance against a resolved tolerance.
//
// Business rules:
//   - The boundary is inclusive: a variance percent exactly at the
//     auto-adjust threshold still auto-adjusts; one unit above requires
//     manual review.
//   - A zero variance is trivially within any tolerance and auto-adjusts
//     (the caller skips the ledger call since there is nothing to apply).
//
// Example usage:
//
//	policy := services.NewVariancePolicy()
//	status, err := policy.Decide(entry, tolerance)
//	if status == cyclecount.VarianceAutoAdjusted {
//	    // apply the ledger adjustment immediately
//	}
type VariancePolicy struct{}

// NewVariancePolicy creates a new VariancePolicy instance.
func NewVariancePolicy() VariancePolicy {
	return VariancePolicy{}
}

// Decide returns VarianceAutoAdjusted when the entry's variance percent is
// within (inclusive of) the tolerance's auto-adjust threshold, and
// VariancePending otherwise.
func (p VariancePolicy) Decide(entry *cyclecount.Entry, tolerance *cyclecount.Tolerance) (cyclecount.VarianceStatus, error) {
	if err := entry.Validate(); err != nil {
		return cyclecount.VarianceStatusUnknown, err
	}
	if err := tolerance.Validate(); err != nil {
		return cyclecount.VarianceStatusUnknown, err
	}

	if entry.VariancePercent() <= tolerance.AutoAdjustThreshold() {
		return cyclecount.VarianceAutoAdjusted, nil
	}
	return cyclecount.VariancePending, nil
}
