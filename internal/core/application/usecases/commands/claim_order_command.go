package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand represents a picker's request for an exclusive claim
// on a pending order.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	pickerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand creates a claim command for the given order and picker.
func NewClaimOrderCommand(orderID, pickerID kernel.UUID) (ClaimOrderCommand, error) {
	command := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPickerID(pickerID),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// OrderID returns the order being claimed.
func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PickerID returns the claiming picker.
func (c ClaimOrderCommand) PickerID() kernel.UUID {
	return c.pickerID
}

func (c *ClaimOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ClaimOrderCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	c.pickerID = pickerID
	return nil
}

// ClaimOrderCommandHandler arbitrates concurrent claims. The accepting
// transition is a single conditional write in the repository; the
// database guarantees exactly one of N simultaneous claimers succeeds.
// The losers get a conflict derived from a re-read of the row, so the
// caller can distinguish a lost race (ORDER_ALREADY_CLAIMED) from a
// status that was never claimable.
type ClaimOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	maxActiveOrders int
}

// NewClaimOrderCommandHandler creates a handler enforcing the given
// per-picker active order limit.
func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory, maxActiveOrders int) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory:      uowFactory,
		maxActiveOrders: maxActiveOrders,
	}
}

// Handle processes the claim command.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) error {
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

	orderRepo := uow.OrderRepository()

	// The count and the claim below are not one atomic step: two claims
	// by the same picker racing past this check can land the picker one
	// order over the limit. The limit is admission control, not an
	// exclusivity guarantee, so the best-effort check is enough; only the
	// per-order claim itself must be exact, and that is the conditional
	// write in TryClaimForPicking.
	active, err := orderRepo.CountActiveByPicker(ctx, cmd.PickerID())
	if err != nil {
		return err
	}
	if active >= h.maxActiveOrders {
		return errs.NewConflictError(order.CodeMaxActiveOrders,
			fmt.Sprintf("picker already holds %d active orders", active))
	}

	claimed, err := orderRepo.TryClaimForPicking(ctx, cmd.OrderID(), cmd.PickerID())
	if err != nil {
		return err
	}
	if !claimed {
		return claimConflict(ctx, orderRepo, cmd.OrderID(), pickingPhase)
	}

	// The conditional write moved the row; reload the aggregate to emit
	// pick tasks for any item that lacks one.
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.EnsurePickTasks(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
