package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSkipTaskCommandIsNotConstructed = errors.New(
	"SkipTaskCommand must be created via NewSkipTaskCommand constructor",
)

// SkipTaskCommand marks a pick task skipped with a mandatory reason.
// Skipped tasks stop blocking picking completion.
type SkipTaskCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	taskID   kernel.UUID
	pickerID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewSkipTaskCommand creates a skip command.
func NewSkipTaskCommand(orderID, taskID, pickerID kernel.UUID, reason string) (SkipTaskCommand, error) {
	command := SkipTaskCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTaskID(taskID),
		command.setPickerID(pickerID),
		command.setReason(reason),
	); err != nil {
		return SkipTaskCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SkipTaskCommand) Validate() error {
	return c.guard.Validate(ErrSkipTaskCommandIsNotConstructed)
}

// OrderID returns the order containing the task.
func (c SkipTaskCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TaskID returns the task being skipped.
func (c SkipTaskCommand) TaskID() kernel.UUID {
	return c.taskID
}

// PickerID returns the picker skipping the task.
func (c SkipTaskCommand) PickerID() kernel.UUID {
	return c.pickerID
}

// Reason returns the mandatory skip reason.
func (c SkipTaskCommand) Reason() string {
	return c.reason
}

func (c *SkipTaskCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *SkipTaskCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}
	c.taskID = taskID
	return nil
}

func (c *SkipTaskCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	c.pickerID = pickerID
	return nil
}

func (c *SkipTaskCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

// SkipTaskCommandHandler marks a task skipped on behalf of the
// assigned picker.
type SkipTaskCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSkipTaskCommandHandler creates a handler for task skipping.
func NewSkipTaskCommandHandler(uowFactory OrderUoWFactory) SkipTaskCommandHandler {
	return SkipTaskCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the skip command.
func (h SkipTaskCommandHandler) Handle(ctx context.Context, cmd SkipTaskCommand) error {
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

	if err = aggregate.SkipTask(cmd.TaskID(), cmd.Reason()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
