package commands

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrAdjustApprovedEntriesCommandIsNotConstructed = errors.New(
	"AdjustApprovedEntriesCommand must be created via NewAdjustApprovedEntriesCommand constructor",
)

// AdjustApprovedEntriesCommand triggers a sweep over approved count
// entries that have no ledger adjustment attached. Normally approval
// and adjustment land in one transaction; this sweep is the safety net
// for rows approved outside the service, for example a bulk import or
// a manual data repair. Run periodically by the variance adjustment job.
type AdjustApprovedEntriesCommand struct {
	guard guard.ConstructorGuard
}

// NewAdjustApprovedEntriesCommand creates a parameterless sweep command.
func NewAdjustApprovedEntriesCommand() AdjustApprovedEntriesCommand {
	return AdjustApprovedEntriesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *AdjustApprovedEntriesCommand) Validate() error {
	return c.guard.Validate(ErrAdjustApprovedEntriesCommandIsNotConstructed)
}

// AdjustApprovedEntriesCommandHandler applies the missing ledger
// adjustment for every approved entry that lacks one, attributing the
// movement to the original reviewer.
type AdjustApprovedEntriesCommandHandler struct {
	uowFactory CountUoWFactory
}

// NewAdjustApprovedEntriesCommandHandler creates a handler for the sweep.
func NewAdjustApprovedEntriesCommandHandler(uowFactory CountUoWFactory) AdjustApprovedEntriesCommandHandler {
	return AdjustApprovedEntriesCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the sweep. Returns the number of adjusted entries.
func (h AdjustApprovedEntriesCommandHandler) Handle(ctx context.Context, cmd AdjustApprovedEntriesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	countRepo := uow.CycleCountRepository()
	entries, err := countRepo.GetApprovedUnadjustedEntries(ctx)
	if err != nil {
		return 0, err
	}

	ledger := NewLedger(uow.InventoryRepository())
	adjusted := 0
	for _, entry := range entries {
		reviewedBy := entry.ReviewedBy()
		if reviewedBy == nil || !entry.NeedsAdjustment() {
			continue
		}

		if err = applyEntryAdjustment(ctx, ledger, entry, *reviewedBy); err != nil {
			return 0, err
		}
		if err = countRepo.UpdateEntry(ctx, entry); err != nil {
			return 0, err
		}
		adjusted++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return adjusted, nil
}
