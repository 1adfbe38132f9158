package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUnclaimOrderCommandIsNotConstructed = errors.New(
	"UnclaimOrderCommand must be created via NewUnclaimOrderCommand constructor",
)

// UnclaimOrderCommand releases a picker's claim back to the pending pool.
// The reason is mandatory and persisted on the order for audit.
type UnclaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	pickerID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewUnclaimOrderCommand creates an unclaim command.
func NewUnclaimOrderCommand(orderID, pickerID kernel.UUID, reason string) (UnclaimOrderCommand, error) {
	command := UnclaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPickerID(pickerID),
		command.setReason(reason),
	); err != nil {
		return UnclaimOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UnclaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrUnclaimOrderCommandIsNotConstructed)
}

// OrderID returns the order being released.
func (c UnclaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PickerID returns the picker releasing the claim.
func (c UnclaimOrderCommand) PickerID() kernel.UUID {
	return c.pickerID
}

// Reason returns the audit reason for releasing the claim.
func (c UnclaimOrderCommand) Reason() string {
	return c.reason
}

func (c *UnclaimOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UnclaimOrderCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	c.pickerID = pickerID
	return nil
}

func (c *UnclaimOrderCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

// UnclaimOrderCommandHandler releases a picker claim: Picking -> Pending.
type UnclaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUnclaimOrderCommandHandler creates a handler for claim release.
func NewUnclaimOrderCommandHandler(uowFactory OrderUoWFactory) UnclaimOrderCommandHandler {
	return UnclaimOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the unclaim command.
func (h UnclaimOrderCommandHandler) Handle(ctx context.Context, cmd UnclaimOrderCommand) error {
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
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Unclaim(cmd.PickerID(), cmd.Reason()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
