package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateCountEntryCommandIsNotConstructed = errors.New(
	"CreateCountEntryCommand must be created via NewCreateCountEntryCommand constructor",
)

// CreateCountEntryCommand records one cycle count observation.
type CreateCountEntryCommand struct { //nolint:recvcheck //using for validation
	entryID         kernel.UUID
	planID          kernel.UUID
	sku             string
	binLocation     string
	countedQuantity int
	countedBy       kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateCountEntryCommand creates a count entry command.
func NewCreateCountEntryCommand(
	entryID, planID kernel.UUID,
	sku, binLocation string,
	countedQuantity int,
	countedBy kernel.UUID,
) (CreateCountEntryCommand, error) {
	command := CreateCountEntryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setEntryID(entryID),
		command.setPlanID(planID),
		command.setSKU(sku),
		command.setBinLocation(binLocation),
		command.setCountedQuantity(countedQuantity),
		command.setCountedBy(countedBy),
	); err != nil {
		return CreateCountEntryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCountEntryCommand) Validate() error {
	return c.guard.Validate(ErrCreateCountEntryCommandIsNotConstructed)
}

// EntryID returns the identifier for the new entry.
func (c CreateCountEntryCommand) EntryID() kernel.UUID {
	return c.entryID
}

// PlanID returns the owning cycle count plan.
func (c CreateCountEntryCommand) PlanID() kernel.UUID {
	return c.planID
}

// SKU returns the counted stock keeping unit.
func (c CreateCountEntryCommand) SKU() string {
	return c.sku
}

// BinLocation returns the counted bin.
func (c CreateCountEntryCommand) BinLocation() string {
	return c.binLocation
}

// CountedQuantity returns the physically counted quantity.
func (c CreateCountEntryCommand) CountedQuantity() int {
	return c.countedQuantity
}

// CountedBy returns the counting user.
func (c CreateCountEntryCommand) CountedBy() kernel.UUID {
	return c.countedBy
}

func (c *CreateCountEntryCommand) setEntryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.entryID = id
	return nil
}

func (c *CreateCountEntryCommand) setPlanID(planID kernel.UUID) error {
	if err := planID.Validate(); err != nil {
		return err
	}
	c.planID = planID
	return nil
}

func (c *CreateCountEntryCommand) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	c.sku = sku
	return nil
}

func (c *CreateCountEntryCommand) setBinLocation(binLocation string) error {
	if binLocation == "" {
		return errs.NewValueIsRequiredError("binLocation")
	}
	c.binLocation = binLocation
	return nil
}

func (c *CreateCountEntryCommand) setCountedQuantity(countedQuantity int) error {
	if countedQuantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("countedQuantity",
			fmt.Errorf("%d is negative", countedQuantity))
	}
	c.countedQuantity = countedQuantity
	return nil
}

func (c *CreateCountEntryCommand) setCountedBy(countedBy kernel.UUID) error {
	if err := countedBy.Validate(); err != nil {
		return err
	}
	c.countedBy = countedBy
	return nil
}

// CreateCountEntryCommandHandler snapshots the ledger quantity, computes
// the variance against the count, resolves the tolerance (SKU-specific,
// then zone-specific, then the configured default), and either applies
// the adjustment immediately or parks the entry for review. Snapshot,
// decision, and adjustment share one transaction so the variance is
// computed against a consistent ledger view.
type CreateCountEntryCommandHandler struct {
	uowFactory       CountUoWFactory
	policy           services.VariancePolicy
	defaultTolerance *cyclecount.Tolerance
}

// NewCreateCountEntryCommandHandler creates a handler with the warehouse
// default tolerance used when no configured row matches.
func NewCreateCountEntryCommandHandler(uowFactory CountUoWFactory, defaultTolerance *cyclecount.Tolerance) CreateCountEntryCommandHandler {
	return CreateCountEntryCommandHandler{
		uowFactory:       uowFactory,
		policy:           services.NewVariancePolicy(),
		defaultTolerance: defaultTolerance,
	}
}

// Handle processes the count entry command.
func (h CreateCountEntryCommandHandler) Handle(ctx context.Context, cmd CreateCountEntryCommand) error {
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

	inventoryRepo := uow.InventoryRepository()
	systemQuantity := 0
	unit, err := inventoryRepo.Get(ctx, cmd.SKU(), cmd.BinLocation())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// A count of a bin the ledger never saw: system quantity is zero.
	case err != nil:
		return err
	default:
		systemQuantity = unit.Quantity()
	}

	now := time.Now().UTC()
	entry, err := cyclecount.NewEntry(
		cmd.EntryID(), cmd.PlanID(),
		cmd.SKU(), cmd.BinLocation(),
		systemQuantity, cmd.CountedQuantity(),
		cmd.CountedBy(), now,
	)
	if err != nil {
		return err
	}

	tolerance, err := h.resolveTolerance(ctx, uow, cmd.SKU(), cmd.BinLocation())
	if err != nil {
		return err
	}

	decision, err := h.policy.Decide(entry, tolerance)
	if err != nil {
		return err
	}

	if decision == cyclecount.VarianceAutoAdjusted {
		if err = entry.MarkAutoAdjusted(); err != nil {
			return err
		}
		if entry.NeedsAdjustment() {
			ledger := NewLedger(inventoryRepo)
			txnID, adjErr := ledger.Adjust(ctx, inventory.TransactionCycleCountAdjustment,
				cmd.SKU(), cmd.BinLocation(), entry.Variance(), cmd.CountedBy(),
				fmt.Sprintf("cycle count auto-adjust, plan %s", cmd.PlanID()), now)
			if adjErr != nil {
				return adjErr
			}
			if err = entry.AttachAdjustment(txnID); err != nil {
				return err
			}
		}
	}

	if err = uow.CycleCountRepository().AddEntry(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h CreateCountEntryCommandHandler) resolveTolerance(ctx context.Context, uow CountUoW, sku, binLocation string) (*cyclecount.Tolerance, error) {
	tolerance, err := uow.CycleCountRepository().ResolveTolerance(ctx, sku, cyclecount.ZoneOfBin(binLocation))
	if errors.Is(err, errs.ErrObjectNotFound) {
		return h.defaultTolerance, nil
	}
	if err != nil {
		return nil, err
	}
	return tolerance, nil
}
