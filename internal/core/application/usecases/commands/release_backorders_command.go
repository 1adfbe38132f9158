package commands

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReleaseBackordersCommandIsNotConstructed = errors.New(
	"ReleaseBackordersCommand must be created via NewReleaseBackordersCommand constructor",
)

// ReleaseBackordersCommand triggers a sweep over deferred orders,
// returning those whose stock has been replenished to the pending pool.
// Run periodically by the backorder release job.
type ReleaseBackordersCommand struct {
	guard guard.ConstructorGuard
}

// NewReleaseBackordersCommand creates a parameterless sweep command.
func NewReleaseBackordersCommand() ReleaseBackordersCommand {
	return ReleaseBackordersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ReleaseBackordersCommand) Validate() error {
	return c.guard.Validate(ErrReleaseBackordersCommandIsNotConstructed)
}

// ReleaseBackordersCommandHandler re-attempts the reservation of every
// backordered order, oldest first. An order whose lines all reserve
// returns to Pending; one that still cannot be covered keeps nothing
// reserved and stays deferred.
type ReleaseBackordersCommandHandler struct {
	uowFactory LedgerUoWFactory
}

// NewReleaseBackordersCommandHandler creates a handler for the sweep.
func NewReleaseBackordersCommandHandler(uowFactory LedgerUoWFactory) ReleaseBackordersCommandHandler {
	return ReleaseBackordersCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the sweep. Returns the number of released orders.
func (h ReleaseBackordersCommandHandler) Handle(ctx context.Context, cmd ReleaseBackordersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	backorders, err := orderRepo.GetAllInBackorderStatus(ctx)
	if err != nil {
		return 0, err
	}

	ledger := NewLedger(uow.InventoryRepository())
	released := 0
	for _, aggregate := range backorders {
		err = reserveAll(ctx, ledger, aggregate)
		if err != nil {
			var conflictErr *errs.ConflictError
			if errors.As(err, &conflictErr) {
				continue // still not enough stock, stays deferred
			}
			return 0, err
		}

		if err = aggregate.ReleaseBackorder(); err != nil {
			return 0, err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return 0, err
		}
		released++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return released, nil
}
