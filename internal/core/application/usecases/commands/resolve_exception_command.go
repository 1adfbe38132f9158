package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrResolveExceptionCommandIsNotConstructed = errors.New(
	"ResolveExceptionCommand must be created via NewResolveExceptionCommand constructor",
)

// ResolveExceptionCommand closes an exception with one of the defined
// resolution actions. Action-specific parameters (substitute SKU, new
// quantity, new bin) are validated in the setter for the chosen action.
type ResolveExceptionCommand struct { //nolint:recvcheck //using for validation
	exceptionID    kernel.UUID
	resolution     exception.Resolution
	notes          string
	substituteSKU  string
	newQuantity    int
	newBinLocation string
	resolvedBy     kernel.UUID

	guard guard.ConstructorGuard
}

// NewResolveExceptionCommand creates a resolution command. substituteSKU
// is required for Substitute, newQuantity for AdjustQuantity, and
// newBinLocation for TransferBin.
func NewResolveExceptionCommand(
	exceptionID kernel.UUID,
	resolution exception.Resolution,
	notes, substituteSKU string,
	newQuantity int,
	newBinLocation string,
	resolvedBy kernel.UUID,
) (ResolveExceptionCommand, error) {
	command := ResolveExceptionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setExceptionID(exceptionID),
		command.setResolution(resolution, substituteSKU, newQuantity, newBinLocation),
		command.setResolvedBy(resolvedBy),
	); err != nil {
		return ResolveExceptionCommand{}, err
	}
	command.notes = notes

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveExceptionCommand) Validate() error {
	return c.guard.Validate(ErrResolveExceptionCommandIsNotConstructed)
}

// ExceptionID returns the exception being resolved.
func (c ResolveExceptionCommand) ExceptionID() kernel.UUID {
	return c.exceptionID
}

// Resolution returns the resolution action.
func (c ResolveExceptionCommand) Resolution() exception.Resolution {
	return c.resolution
}

// Notes returns optional resolution notes.
func (c ResolveExceptionCommand) Notes() string {
	return c.notes
}

// SubstituteSKU returns the substitute SKU for Substitute resolutions.
func (c ResolveExceptionCommand) SubstituteSKU() string {
	return c.substituteSKU
}

// NewQuantity returns the target quantity for AdjustQuantity resolutions.
func (c ResolveExceptionCommand) NewQuantity() int {
	return c.newQuantity
}

// NewBinLocation returns the target bin for TransferBin resolutions.
func (c ResolveExceptionCommand) NewBinLocation() string {
	return c.newBinLocation
}

// ResolvedBy returns the resolving user.
func (c ResolveExceptionCommand) ResolvedBy() kernel.UUID {
	return c.resolvedBy
}

func (c *ResolveExceptionCommand) setExceptionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.exceptionID = id
	return nil
}

func (c *ResolveExceptionCommand) setResolution(resolution exception.Resolution, substituteSKU string, newQuantity int, newBinLocation string) error {
	if err := resolution.Validate(); err != nil {
		return err
	}

	switch resolution {
	case exception.Substitute:
		if substituteSKU == "" {
			return errs.NewValueIsRequiredError("substituteSku")
		}
	case exception.AdjustQuantity:
		if newQuantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("newQuantity",
				fmt.Errorf("%d is not greater than 0", newQuantity))
		}
	case exception.TransferBin:
		if newBinLocation == "" {
			return errs.NewValueIsRequiredError("newBinLocation")
		}
	case exception.CancelItem, exception.CancelOrder, exception.MarkBackorder, exception.ResolutionUnknown:
	}

	c.resolution = resolution
	c.substituteSKU = substituteSKU
	c.newQuantity = newQuantity
	c.newBinLocation = newBinLocation
	return nil
}

func (c *ResolveExceptionCommand) setResolvedBy(resolvedBy kernel.UUID) error {
	if err := resolvedBy.Validate(); err != nil {
		return err
	}
	c.resolvedBy = resolvedBy
	return nil
}

// ResolveExceptionCommandHandler applies a resolution exactly once. The
// exception row is locked for update so concurrent resolutions
// serialize; the loser then fails the aggregate's already-resolved
// guard before any order or ledger mutation.
type ResolveExceptionCommandHandler struct {
	uowFactory ResolutionUoWFactory
}

// NewResolveExceptionCommandHandler creates a handler for exception resolution.
func NewResolveExceptionCommandHandler(uowFactory ResolutionUoWFactory) ResolveExceptionCommandHandler {
	return ResolveExceptionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the resolution command.
func (h ResolveExceptionCommandHandler) Handle(ctx context.Context, cmd ResolveExceptionCommand) error {
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

	ex, err := uow.ExceptionRepository().GetForUpdate(ctx, cmd.ExceptionID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = ex.Resolve(cmd.Resolution(), cmd.Notes(), cmd.ResolvedBy(), now); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, ex.OrderID())
	if err != nil {
		return err
	}

	ledger := NewLedger(uow.InventoryRepository())
	if err = h.applyResolution(ctx, cmd, ex, aggregate, ledger); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.ExceptionRepository().Update(ctx, ex); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// applyResolution dispatches the chosen action against the order and the
// ledger. Reservation bookkeeping follows the item: a cancelled item
// releases its unpicked remainder, a bin transfer moves it.
func (h ResolveExceptionCommandHandler) applyResolution(
	ctx context.Context,
	cmd ResolveExceptionCommand,
	ex *exception.Exception,
	aggregate *order.Order,
	ledger Ledger,
) error {
	reason := cmd.Notes()
	if reason == "" {
		reason = ex.Reason()
	}

	item, err := aggregate.ItemByID(ex.OrderItemID())
	if err != nil {
		return err
	}

	switch cmd.Resolution() {
	case exception.Substitute:
		return item.Substitute(cmd.SubstituteSKU(), cmd.Notes())

	case exception.CancelItem:
		if remaining := item.Quantity() - item.PickedQuantity(); remaining > 0 {
			if err = ledger.ReleaseReservation(ctx, item.SKU(), item.BinLocation(), remaining); err != nil {
				return err
			}
		}
		return item.Cancel(reason)

	case exception.CancelOrder:
		if err = releaseRemaining(ctx, ledger, aggregate); err != nil {
			return err
		}
		return aggregate.Cancel(reason)

	case exception.AdjustQuantity:
		oldQuantity := item.Quantity()
		if err = item.AdjustQuantity(cmd.NewQuantity()); err != nil {
			return err
		}
		if excess := oldQuantity - cmd.NewQuantity(); excess > 0 {
			return ledger.ReleaseReservation(ctx, item.SKU(), item.BinLocation(), excess)
		}
		return nil

	case exception.TransferBin:
		if remaining := item.Quantity() - item.PickedQuantity(); remaining > 0 {
			if err = ledger.ReleaseReservation(ctx, item.SKU(), item.BinLocation(), remaining); err != nil {
				return err
			}
			if err = ledger.Reserve(ctx, item.SKU(), cmd.NewBinLocation(), remaining); err != nil {
				return err
			}
		}
		return item.TransferBin(cmd.NewBinLocation())

	case exception.MarkBackorder:
		if err = releaseRemaining(ctx, ledger, aggregate); err != nil {
			return err
		}
		return aggregate.MarkBackorder()

	case exception.ResolutionUnknown:
	}
	return errs.NewValueIsInvalidError("resolution")
}
