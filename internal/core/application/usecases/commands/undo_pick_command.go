package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUndoPickCommandIsNotConstructed = errors.New(
	"UndoPickCommand must be created via NewUndoPickCommand constructor",
)

// UndoPickCommand reverses previously recorded picks on a task. The
// reason is mandatory; the decrement fails rather than flooring.
type UndoPickCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	taskID   kernel.UUID
	pickerID kernel.UUID
	quantity int
	reason   string

	guard guard.ConstructorGuard
}

// NewUndoPickCommand creates an undo-pick command.
func NewUndoPickCommand(orderID, taskID, pickerID kernel.UUID, quantity int, reason string) (UndoPickCommand, error) {
	command := UndoPickCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTaskID(taskID),
		command.setPickerID(pickerID),
		command.setQuantity(quantity),
		command.setReason(reason),
	); err != nil {
		return UndoPickCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UndoPickCommand) Validate() error {
	return c.guard.Validate(ErrUndoPickCommandIsNotConstructed)
}

// OrderID returns the order being corrected.
func (c UndoPickCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TaskID returns the pick task being reversed.
func (c UndoPickCommand) TaskID() kernel.UUID {
	return c.taskID
}

// PickerID returns the picker reversing the pick.
func (c UndoPickCommand) PickerID() kernel.UUID {
	return c.pickerID
}

// Quantity returns the number of units to reverse.
func (c UndoPickCommand) Quantity() int {
	return c.quantity
}

// Reason returns the mandatory audit reason.
func (c UndoPickCommand) Reason() string {
	return c.reason
}

func (c *UndoPickCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UndoPickCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}
	c.taskID = taskID
	return nil
}

func (c *UndoPickCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	c.pickerID = pickerID
	return nil
}

func (c *UndoPickCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	c.quantity = quantity
	return nil
}

func (c *UndoPickCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

// UndoPickCommandHandler reverses a pick on the aggregate and mirrors
// the increment back into the ledger, re-establishing the reservation
// for the still-open order.
type UndoPickCommandHandler struct {
	uowFactory LedgerUoWFactory
}

// NewUndoPickCommandHandler creates a handler for pick reversal.
func NewUndoPickCommandHandler(uowFactory LedgerUoWFactory) UndoPickCommandHandler {
	return UndoPickCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the undo-pick command.
func (h UndoPickCommandHandler) Handle(ctx context.Context, cmd UndoPickCommand) error {
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
	if err = requirePicker(aggregate, cmd.PickerID()); err != nil {
		return err
	}

	item, err := aggregate.UndoPick(cmd.TaskID(), cmd.Quantity(), cmd.Reason())
	if err != nil {
		return err
	}

	ledger := NewLedger(uow.InventoryRepository())
	if _, err = ledger.ApplyUndoPick(ctx, item.SKU(), item.BinLocation(), cmd.Quantity(), cmd.PickerID(), cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
