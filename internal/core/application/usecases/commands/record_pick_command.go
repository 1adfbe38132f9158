package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordPickCommandIsNotConstructed = errors.New(
	"RecordPickCommand must be created via NewRecordPickCommand constructor",
)

// RecordPickCommand records picked units against a pick task.
type RecordPickCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	taskID   kernel.UUID
	pickerID kernel.UUID
	quantity int

	guard guard.ConstructorGuard
}

// NewRecordPickCommand creates a pick command; quantity must be positive.
func NewRecordPickCommand(orderID, taskID, pickerID kernel.UUID, quantity int) (RecordPickCommand, error) {
	command := RecordPickCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTaskID(taskID),
		command.setPickerID(pickerID),
		command.setQuantity(quantity),
	); err != nil {
		return RecordPickCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPickCommand) Validate() error {
	return c.guard.Validate(ErrRecordPickCommandIsNotConstructed)
}

// OrderID returns the order being picked.
func (c RecordPickCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TaskID returns the pick task being progressed.
func (c RecordPickCommand) TaskID() kernel.UUID {
	return c.taskID
}

// PickerID returns the picker recording the pick.
func (c RecordPickCommand) PickerID() kernel.UUID {
	return c.pickerID
}

// Quantity returns the number of units picked.
func (c RecordPickCommand) Quantity() int {
	return c.quantity
}

func (c *RecordPickCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RecordPickCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}
	c.taskID = taskID
	return nil
}

func (c *RecordPickCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	c.pickerID = pickerID
	return nil
}

func (c *RecordPickCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	c.quantity = quantity
	return nil
}

// RecordPickCommandHandler applies a pick to the aggregate and mirrors
// the applied (clamped) quantity into the inventory ledger in the same
// transaction: on-hand decrements and the matching reservation releases.
type RecordPickCommandHandler struct {
	uowFactory LedgerUoWFactory
}

// NewRecordPickCommandHandler creates a handler for pick recording.
func NewRecordPickCommandHandler(uowFactory LedgerUoWFactory) RecordPickCommandHandler {
	return RecordPickCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the pick command.
func (h RecordPickCommandHandler) Handle(ctx context.Context, cmd RecordPickCommand) error {
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

	now := time.Now().UTC()
	item, applied, err := aggregate.Pick(cmd.TaskID(), cmd.Quantity(), now)
	if err != nil {
		return err
	}

	if applied > 0 {
		ledger := NewLedger(uow.InventoryRepository())
		if _, err = ledger.ApplyPick(ctx, item.SKU(), item.BinLocation(), applied, cmd.PickerID(), now); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// requirePicker checks the requesting picker holds the order's claim.
func requirePicker(aggregate *order.Order, pickerID kernel.UUID) error {
	if aggregate.Picker() == nil || !aggregate.Picker().IsEqual(pickerID) {
		return errs.NewConflictError(order.CodeNotAssignedToPicker, "order is not assigned to this picker")
	}
	return nil
}
