package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrRevertSkipCommandIsNotConstructed = errors.New(
	"RevertSkipCommand must be created via NewRevertSkipCommand constructor",
)

// RevertSkipCommand overwrites a skipped task back to an explicit
// caller-chosen status. The overwrite is idempotent.
type RevertSkipCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	taskID  kernel.UUID
	target  order.TaskStatus

	guard guard.ConstructorGuard
}

// NewRevertSkipCommand creates a revert-skip command targeting Pending,
// InProgress, or Completed.
func NewRevertSkipCommand(orderID, taskID kernel.UUID, target order.TaskStatus) (RevertSkipCommand, error) {
	command := RevertSkipCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTaskID(taskID),
		command.setTarget(target),
	); err != nil {
		return RevertSkipCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RevertSkipCommand) Validate() error {
	return c.guard.Validate(ErrRevertSkipCommandIsNotConstructed)
}

// OrderID returns the order containing the task.
func (c RevertSkipCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TaskID returns the task being reverted.
func (c RevertSkipCommand) TaskID() kernel.UUID {
	return c.taskID
}

// Target returns the status the task is restored to.
func (c RevertSkipCommand) Target() order.TaskStatus {
	return c.target
}

func (c *RevertSkipCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RevertSkipCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}
	c.taskID = taskID
	return nil
}

func (c *RevertSkipCommand) setTarget(target order.TaskStatus) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

// RevertSkipCommandHandler restores a skipped task's status.
type RevertSkipCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRevertSkipCommandHandler creates a handler for skip reversal.
func NewRevertSkipCommandHandler(uowFactory OrderUoWFactory) RevertSkipCommandHandler {
	return RevertSkipCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the revert-skip command.
func (h RevertSkipCommandHandler) Handle(ctx context.Context, cmd RevertSkipCommand) error {
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

	if err = aggregate.RevertSkip(cmd.TaskID(), cmd.Target()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
