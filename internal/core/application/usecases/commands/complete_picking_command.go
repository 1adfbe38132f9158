package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompletePickingCommandIsNotConstructed = errors.New(
	"CompletePickingCommand must be created via NewCompletePickingCommand constructor",
)

// CompletePickingCommand finishes the picking phase. Unless override is
// set, every item that is neither skipped nor cancelled must be fully
// picked.
type CompletePickingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	pickerID kernel.UUID
	override bool

	guard guard.ConstructorGuard
}

// NewCompletePickingCommand creates a completion command.
func NewCompletePickingCommand(orderID, pickerID kernel.UUID, override bool) (CompletePickingCommand, error) {
	command := CompletePickingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPickerID(pickerID),
	); err != nil {
		return CompletePickingCommand{}, err
	}
	command.override = override

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompletePickingCommand) Validate() error {
	return c.guard.Validate(ErrCompletePickingCommandIsNotConstructed)
}

// OrderID returns the order being completed.
func (c CompletePickingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PickerID returns the picker completing the phase.
func (c CompletePickingCommand) PickerID() kernel.UUID {
	return c.pickerID
}

// Override reports whether the completeness guard is bypassed.
func (c CompletePickingCommand) Override() bool {
	return c.override
}

func (c *CompletePickingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CompletePickingCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	c.pickerID = pickerID
	return nil
}

// CompletePickingCommandHandler moves Picking -> Picked and clears the
// picker assignment.
type CompletePickingCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCompletePickingCommandHandler creates a handler for picking completion.
func NewCompletePickingCommandHandler(uowFactory OrderUoWFactory) CompletePickingCommandHandler {
	return CompletePickingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
func (h CompletePickingCommandHandler) Handle(ctx context.Context, cmd CompletePickingCommand) error {
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

	if err = aggregate.CompletePicking(cmd.PickerID(), cmd.Override()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
