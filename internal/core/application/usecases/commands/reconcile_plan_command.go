package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReconcilePlanCommandIsNotConstructed = errors.New(
	"ReconcilePlanCommand must be created via NewReconcilePlanCommand constructor",
)

// ReconcilePlanCommand bulk-approves every pending entry of a cycle
// count plan.
type ReconcilePlanCommand struct { //nolint:recvcheck //using for validation
	planID     kernel.UUID
	reviewedBy kernel.UUID

	guard guard.ConstructorGuard
}

// NewReconcilePlanCommand creates a plan reconciliation command.
func NewReconcilePlanCommand(planID, reviewedBy kernel.UUID) (ReconcilePlanCommand, error) {
	command := ReconcilePlanCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setPlanID(planID),
		command.setReviewedBy(reviewedBy),
	); err != nil {
		return ReconcilePlanCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcilePlanCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePlanCommandIsNotConstructed)
}

// PlanID returns the plan being reconciled.
func (c ReconcilePlanCommand) PlanID() kernel.UUID {
	return c.planID
}

// ReviewedBy returns the reviewing user.
func (c ReconcilePlanCommand) ReviewedBy() kernel.UUID {
	return c.reviewedBy
}

func (c *ReconcilePlanCommand) setPlanID(planID kernel.UUID) error {
	if err := planID.Validate(); err != nil {
		return err
	}
	c.planID = planID
	return nil
}

func (c *ReconcilePlanCommand) setReviewedBy(reviewedBy kernel.UUID) error {
	if err := reviewedBy.Validate(); err != nil {
		return err
	}
	c.reviewedBy = reviewedBy
	return nil
}

// ReconcilePlanCommandHandler approves every pending entry of a plan in
// one transaction. Zero-variance entries are approved without a ledger
// call; the rest go through the same exactly-once adjustment path as a
// single-entry approval.
type ReconcilePlanCommandHandler struct {
	uowFactory CountUoWFactory
}

// NewReconcilePlanCommandHandler creates a handler for plan reconciliation.
func NewReconcilePlanCommandHandler(uowFactory CountUoWFactory) ReconcilePlanCommandHandler {
	return ReconcilePlanCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the reconciliation command.
func (h ReconcilePlanCommandHandler) Handle(ctx context.Context, cmd ReconcilePlanCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	countRepo := uow.CycleCountRepository()
	entries, err := countRepo.GetEntriesByPlan(ctx, cmd.PlanID())
	if err != nil {
		return err
	}

	ledger := NewLedger(uow.InventoryRepository())
	for _, entry := range entries {
		if entry.VarianceStatus() != cyclecount.VariancePending {
			continue
		}
		if err = entry.Approve(cmd.ReviewedBy()); err != nil {
			return err
		}
		if err = applyEntryAdjustment(ctx, ledger, entry, cmd.ReviewedBy()); err != nil {
			return err
		}
		if err = countRepo.UpdateEntry(ctx, entry); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
