package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUnclaimPackingCommandIsNotConstructed = errors.New(
	"UnclaimPackingCommand must be created via NewUnclaimPackingCommand constructor",
)

// UnclaimPackingCommand releases a packer's claim back to Picked,
// symmetric to the picker unclaim.
type UnclaimPackingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	packerID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewUnclaimPackingCommand creates a packing unclaim command.
func NewUnclaimPackingCommand(orderID, packerID kernel.UUID, reason string) (UnclaimPackingCommand, error) {
	command := UnclaimPackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPackerID(packerID),
		command.setReason(reason),
	); err != nil {
		return UnclaimPackingCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UnclaimPackingCommand) Validate() error {
	return c.guard.Validate(ErrUnclaimPackingCommandIsNotConstructed)
}

// OrderID returns the order being released.
func (c UnclaimPackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PackerID returns the packer releasing the claim.
func (c UnclaimPackingCommand) PackerID() kernel.UUID {
	return c.packerID
}

// Reason returns the audit reason for releasing the claim.
func (c UnclaimPackingCommand) Reason() string {
	return c.reason
}

func (c *UnclaimPackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UnclaimPackingCommand) setPackerID(packerID kernel.UUID) error {
	if err := packerID.Validate(); err != nil {
		return err
	}
	c.packerID = packerID
	return nil
}

func (c *UnclaimPackingCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

// UnclaimPackingCommandHandler releases a packer claim: Packing -> Picked.
type UnclaimPackingCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUnclaimPackingCommandHandler creates a handler for packing claim release.
func NewUnclaimPackingCommandHandler(uowFactory OrderUoWFactory) UnclaimPackingCommandHandler {
	return UnclaimPackingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the packing unclaim command.
func (h UnclaimPackingCommandHandler) Handle(ctx context.Context, cmd UnclaimPackingCommand) error {
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

	if err = aggregate.UnclaimPacking(cmd.PackerID(), cmd.Reason()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
