package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateVarianceStatusCommandIsNotConstructed = errors.New(
	"UpdateVarianceStatusCommand must be created via NewUpdateVarianceStatusCommand constructor",
)

// UpdateVarianceStatusCommand reviews a pending count entry: Approved
// applies the ledger adjustment, Rejected discards the variance.
type UpdateVarianceStatusCommand struct { //nolint:recvcheck //using for validation
	entryID    kernel.UUID
	target     cyclecount.VarianceStatus
	reviewedBy kernel.UUID

	guard guard.ConstructorGuard
}

// NewUpdateVarianceStatusCommand creates a review command. Only Approved
// and Rejected are acceptable targets.
func NewUpdateVarianceStatusCommand(entryID kernel.UUID, target cyclecount.VarianceStatus, reviewedBy kernel.UUID) (UpdateVarianceStatusCommand, error) {
	command := UpdateVarianceStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setEntryID(entryID),
		command.setTarget(target),
		command.setReviewedBy(reviewedBy),
	); err != nil {
		return UpdateVarianceStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateVarianceStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVarianceStatusCommandIsNotConstructed)
}

// EntryID returns the entry under review.
func (c UpdateVarianceStatusCommand) EntryID() kernel.UUID {
	return c.entryID
}

// Target returns the requested review outcome.
func (c UpdateVarianceStatusCommand) Target() cyclecount.VarianceStatus {
	return c.target
}

// ReviewedBy returns the reviewing user.
func (c UpdateVarianceStatusCommand) ReviewedBy() kernel.UUID {
	return c.reviewedBy
}

func (c *UpdateVarianceStatusCommand) setEntryID(entryID kernel.UUID) error {
	if err := entryID.Validate(); err != nil {
		return err
	}
	c.entryID = entryID
	return nil
}

func (c *UpdateVarianceStatusCommand) setTarget(target cyclecount.VarianceStatus) error {
	if target != cyclecount.VarianceApproved && target != cyclecount.VarianceRejected {
		return errs.NewValueIsInvalidErrorWithCause("target",
			fmt.Errorf("%s is not a reviewable outcome", target))
	}
	c.target = target
	return nil
}

func (c *UpdateVarianceStatusCommand) setReviewedBy(reviewedBy kernel.UUID) error {
	if err := reviewedBy.Validate(); err != nil {
		return err
	}
	c.reviewedBy = reviewedBy
	return nil
}

// UpdateVarianceStatusCommandHandler reviews one entry under a row lock.
// Approval applies the ledger adjustment exactly once, guarded by the
// entry's unset adjustment transaction id. Rejection never adjusts.
type UpdateVarianceStatusCommandHandler struct {
	uowFactory CountUoWFactory
}

// NewUpdateVarianceStatusCommandHandler creates a handler for variance review.
func NewUpdateVarianceStatusCommandHandler(uowFactory CountUoWFactory) UpdateVarianceStatusCommandHandler {
	return UpdateVarianceStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the review command.
func (h UpdateVarianceStatusCommandHandler) Handle(ctx context.Context, cmd UpdateVarianceStatusCommand) error {
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
	entry, err := countRepo.GetEntryForUpdate(ctx, cmd.EntryID())
	if err != nil {
		return err
	}

	if cmd.Target() == cyclecount.VarianceRejected {
		if err = entry.Reject(cmd.ReviewedBy()); err != nil {
			return err
		}
	} else {
		if err = entry.Approve(cmd.ReviewedBy()); err != nil {
			return err
		}
		if err = applyEntryAdjustment(ctx, NewLedger(uow.InventoryRepository()), entry, cmd.ReviewedBy()); err != nil {
			return err
		}
	}

	if err = countRepo.UpdateEntry(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// applyEntryAdjustment applies an approved entry's variance to the ledger
// and records the transaction id on the entry. Entries with zero variance
// or an already attached adjustment are left alone.
func applyEntryAdjustment(ctx context.Context, ledger Ledger, entry *cyclecount.Entry, reviewedBy kernel.UUID) error {
	if !entry.NeedsAdjustment() {
		return nil
	}

	txnID, err := ledger.Adjust(ctx, inventory.TransactionCycleCountAdjustment,
		entry.SKU(), entry.BinLocation(), entry.Variance(), reviewedBy,
		fmt.Sprintf("cycle count approval, plan %s", entry.PlanID()), time.Now().UTC())
	if err != nil {
		return err
	}
	return entry.AttachAdjustment(txnID)
}
