package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type claimPhase int

const (
	pickingPhase claimPhase = iota
	packingPhase
)

// claimConflict turns a failed conditional claim into the conflict the
// caller reports. The row is re-read: a status transition check tells a
// claim held by someone else apart from a status that was never
// claimable, and a missing row surfaces as not-found.
func claimConflict(ctx context.Context, repo ports.OrderRepository, orderID kernel.UUID, phase claimPhase) error {
	aggregate, err := repo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	var transitionErr error
	if phase == pickingPhase {
		_, transitionErr = aggregate.Status().ClaimForPicking()
	} else {
		_, transitionErr = aggregate.Status().ClaimForPacking()
	}
	if transitionErr != nil {
		return transitionErr
	}

	// The row looks claimable again: the winner claimed and released
	// between our write and this re-read. Still a lost race.
	return errs.NewConflictError(order.CodeOrderAlreadyClaimed, "order was claimed concurrently")
}
