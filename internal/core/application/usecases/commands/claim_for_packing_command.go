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

var ErrClaimForPackingCommandIsNotConstructed = errors.New(
	"ClaimForPackingCommand must be created via NewClaimForPackingCommand constructor",
)

// ClaimForPackingCommand represents a packer's request for an exclusive
// claim on a picked order.
type ClaimForPackingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	packerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimForPackingCommand creates a packing claim command.
func NewClaimForPackingCommand(orderID, packerID kernel.UUID) (ClaimForPackingCommand, error) {
	command := ClaimForPackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPackerID(packerID),
	); err != nil {
		return ClaimForPackingCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimForPackingCommand) Validate() error {
	return c.guard.Validate(ErrClaimForPackingCommandIsNotConstructed)
}

// OrderID returns the order being claimed.
func (c ClaimForPackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PackerID returns the claiming packer.
func (c ClaimForPackingCommand) PackerID() kernel.UUID {
	return c.packerID
}

func (c *ClaimForPackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ClaimForPackingCommand) setPackerID(packerID kernel.UUID) error {
	if err := packerID.Validate(); err != nil {
		return err
	}
	c.packerID = packerID
	return nil
}

// ClaimForPackingCommandHandler arbitrates packing claims with the same
// conditional-write pattern as the picking claim.
type ClaimForPackingCommandHandler struct {
	uowFactory      OrderUoWFactory
	maxActiveOrders int
}

// NewClaimForPackingCommandHandler creates a handler enforcing the given
// per-packer active order limit.
func NewClaimForPackingCommandHandler(uowFactory OrderUoWFactory, maxActiveOrders int) ClaimForPackingCommandHandler {
	return ClaimForPackingCommandHandler{
		uowFactory:      uowFactory,
		maxActiveOrders: maxActiveOrders,
	}
}

// Handle processes the packing claim command.
func (h ClaimForPackingCommandHandler) Handle(ctx context.Context, cmd ClaimForPackingCommand) error {
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

	// Best-effort admission check; see ClaimOrderCommandHandler.Handle for
	// why the count-then-claim race is tolerated.
	active, err := orderRepo.CountActiveByPacker(ctx, cmd.PackerID())
	if err != nil {
		return err
	}
	if active >= h.maxActiveOrders {
		return errs.NewConflictError(order.CodeMaxActiveOrders,
			fmt.Sprintf("packer already holds %d active orders", active))
	}

	claimed, err := orderRepo.TryClaimForPacking(ctx, cmd.OrderID(), cmd.PackerID())
	if err != nil {
		return err
	}
	if !claimed {
		return claimConflict(ctx, orderRepo, cmd.OrderID(), packingPhase)
	}

	return uow.Commit(ctx)
}
