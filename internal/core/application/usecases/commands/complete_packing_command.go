package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompletePackingCommandIsNotConstructed = errors.New(
	"CompletePackingCommand must be created via NewCompletePackingCommand constructor",
)

// CompletePackingCommand finishes the packing phase: Packing -> Packed.
type CompletePackingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	packerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompletePackingCommand creates a packing completion command.
func NewCompletePackingCommand(orderID, packerID kernel.UUID) (CompletePackingCommand, error) {
	command := CompletePackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPackerID(packerID),
	); err != nil {
		return CompletePackingCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePackingCommand) Validate() error {
	return c.guard.Validate(ErrCompletePackingCommandIsNotConstructed)
}

// OrderID returns the order being packed.
func (c CompletePackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PackerID returns the packer completing the phase.
func (c CompletePackingCommand) PackerID() kernel.UUID {
	return c.packerID
}

func (c *CompletePackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CompletePackingCommand) setPackerID(packerID kernel.UUID) error {
	if err := packerID.Validate(); err != nil {
		return err
	}
	c.packerID = packerID
	return nil
}

// CompletePackingCommandHandler moves Packing -> Packed and clears the
// packer assignment.
type CompletePackingCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCompletePackingCommandHandler creates a handler for packing completion.
func NewCompletePackingCommandHandler(uowFactory OrderUoWFactory) CompletePackingCommandHandler {
	return CompletePackingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the packing completion command.
func (h CompletePackingCommandHandler) Handle(ctx context.Context, cmd CompletePackingCommand) error {
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

	if err = aggregate.CompletePacking(cmd.PackerID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
