package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrLogExceptionCommandIsNotConstructed = errors.New(
	"LogExceptionCommand must be created via NewLogExceptionCommand constructor",
)

// LogExceptionCommand records a fulfillment discrepancy against an order
// item. The exception id is generated by the caller so the HTTP layer can
// return it on 201.
type LogExceptionCommand struct { //nolint:recvcheck //using for validation
	exceptionID      kernel.UUID
	orderID          kernel.UUID
	orderItemID      kernel.UUID
	sku              string
	exceptionType    exception.Type
	quantityExpected int
	quantityActual   int
	reason           string
	reportedBy       kernel.UUID

	guard guard.ConstructorGuard
}

// NewLogExceptionCommand creates an exception logging command.
func NewLogExceptionCommand(
	exceptionID, orderID, orderItemID kernel.UUID,
	sku string,
	exceptionType exception.Type,
	quantityExpected, quantityActual int,
	reason string,
	reportedBy kernel.UUID,
) (LogExceptionCommand, error) {
	command := LogExceptionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setExceptionID(exceptionID),
		command.setOrderID(orderID),
		command.setOrderItemID(orderItemID),
		command.setSKU(sku),
		command.setType(exceptionType),
		command.setQuantities(quantityExpected, quantityActual),
		command.setReason(reason),
		command.setReportedBy(reportedBy),
	); err != nil {
		return LogExceptionCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c LogExceptionCommand) Validate() error {
	return c.guard.Validate(ErrLogExceptionCommandIsNotConstructed)
}

// ExceptionID returns the identifier for the new exception.
func (c LogExceptionCommand) ExceptionID() kernel.UUID {
	return c.exceptionID
}

// OrderID returns the affected order.
func (c LogExceptionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderItemID returns the affected order item.
func (c LogExceptionCommand) OrderItemID() kernel.UUID {
	return c.orderItemID
}

// SKU returns the affected stock keeping unit.
func (c LogExceptionCommand) SKU() string {
	return c.sku
}

// Type returns the discrepancy classification.
func (c LogExceptionCommand) Type() exception.Type {
	return c.exceptionType
}

// QuantityExpected returns the quantity the system expected.
func (c LogExceptionCommand) QuantityExpected() int {
	return c.quantityExpected
}

// QuantityActual returns the quantity actually found.
func (c LogExceptionCommand) QuantityActual() int {
	return c.quantityActual
}

// Reason returns the reporter's description.
func (c LogExceptionCommand) Reason() string {
	return c.reason
}

// ReportedBy returns the reporting user.
func (c LogExceptionCommand) ReportedBy() kernel.UUID {
	return c.reportedBy
}

func (c *LogExceptionCommand) setExceptionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.exceptionID = id
	return nil
}

func (c *LogExceptionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *LogExceptionCommand) setOrderItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	c.orderItemID = itemID
	return nil
}

func (c *LogExceptionCommand) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	c.sku = sku
	return nil
}

func (c *LogExceptionCommand) setType(exceptionType exception.Type) error {
	if err := exceptionType.Validate(); err != nil {
		return err
	}
	c.exceptionType = exceptionType
	return nil
}

func (c *LogExceptionCommand) setQuantities(expected, actual int) error {
	if expected < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantityExpected",
			fmt.Errorf("%d is negative", expected))
	}
	if actual < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantityActual",
			fmt.Errorf("%d is negative", actual))
	}
	c.quantityExpected = expected
	c.quantityActual = actual
	return nil
}

func (c *LogExceptionCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

func (c *LogExceptionCommand) setReportedBy(reportedBy kernel.UUID) error {
	if err := reportedBy.Validate(); err != nil {
		return err
	}
	c.reportedBy = reportedBy
	return nil
}

// LogExceptionCommandHandler verifies the referenced order and item exist
// and persists the exception in its initial status (Open, or Reviewing
// for short-pick backorder proposals).
type LogExceptionCommandHandler struct {
	uowFactory ExceptionUoWFactory
}

// NewLogExceptionCommandHandler creates a handler for exception logging.
func NewLogExceptionCommandHandler(uowFactory ExceptionUoWFactory) LogExceptionCommandHandler {
	return LogExceptionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the logging command.
func (h LogExceptionCommandHandler) Handle(ctx context.Context, cmd LogExceptionCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if _, err = aggregate.ItemByID(cmd.OrderItemID()); err != nil {
		return err
	}

	ex, err := exception.NewException(
		cmd.ExceptionID(), cmd.OrderID(), cmd.OrderItemID(),
		cmd.SKU(), cmd.Type(),
		cmd.QuantityExpected(), cmd.QuantityActual(),
		cmd.Reason(), cmd.ReportedBy(),
	)
	if err != nil {
		return err
	}

	if err = uow.ExceptionRepository().Add(ctx, ex); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
