package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Ledger is the single write path for inventory quantities. Every
// adjustment writes the immutable InventoryTransaction record first, then
// applies the unit mutation under a row lock, all inside the caller's
// unit of work. The returned transaction id is what exactly-once guards
// (cycle count entries) record.
//
// Reservations are bookkeeping, not quantity changes, so Reserve and
// ReleaseReservation do not write transaction records.
type Ledger struct {
	inventoryRepo ports.InventoryRepository
}

// NewLedger creates a ledger over the given transaction-bound repository.
func NewLedger(inventoryRepo ports.InventoryRepository) Ledger {
	return Ledger{inventoryRepo: inventoryRepo}
}

// ApplyPick decrements on-hand quantity by qty and releases the matching
// reservation. Records a Pick transaction with signed quantity -qty.
func (l Ledger) ApplyPick(ctx context.Context, sku, binLocation string, qty int, actorID kernel.UUID, now time.Time) (kernel.UUID, error) {
	return l.apply(ctx, inventory.TransactionPick, sku, binLocation, -qty, actorID, "pick", now, func(unit *inventory.Unit) error {
		// Release before decrementing: AdjustDown clamps the reservation
		// to the new quantity, which would double-shrink it otherwise.
		if err := unit.Release(qty); err != nil {
			return err
		}
		return unit.AdjustDown(qty)
	})
}

// ApplyUndoPick reverses a pick: quantity returns to the shelf and the
// reservation is re-established for the still-open order.
func (l Ledger) ApplyUndoPick(ctx context.Context, sku, binLocation string, qty int, actorID kernel.UUID, reason string, now time.Time) (kernel.UUID, error) {
	return l.apply(ctx, inventory.TransactionUndoPick, sku, binLocation, qty, actorID, reason, now, func(unit *inventory.Unit) error {
		if err := unit.AdjustUp(qty); err != nil {
			return err
		}
		return unit.Reserve(qty)
	})
}

// Adjust applies a signed correction from exception resolution, cycle
// counting, or a manual supervisor action. Positive quantities adjust up,
// negative adjust down (flooring at zero).
func (l Ledger) Adjust(ctx context.Context, txType inventory.TransactionType, sku, binLocation string, signedQty int, actorID kernel.UUID, reason string, now time.Time) (kernel.UUID, error) {
	return l.apply(ctx, txType, sku, binLocation, signedQty, actorID, reason, now, func(unit *inventory.Unit) error {
		if signedQty > 0 {
			return unit.AdjustUp(signedQty)
		}
		return unit.AdjustDown(-signedQty)
	})
}

// Reserve sets aside qty units for an order. A missing unit row means no
// stock at all, reported as the same insufficient-stock conflict a
// too-small unit produces.
func (l Ledger) Reserve(ctx context.Context, sku, binLocation string, qty int) error {
	unit, err := l.inventoryRepo.GetForUpdate(ctx, sku, binLocation)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewConflictError(inventory.CodeInsufficientStock,
			"no stock for "+sku+" at "+binLocation)
	}
	if err != nil {
		return err
	}

	if err = unit.Reserve(qty); err != nil {
		return err
	}
	return l.inventoryRepo.Update(ctx, unit)
}

// ReleaseReservation returns qty reserved units to the available pool.
func (l Ledger) ReleaseReservation(ctx context.Context, sku, binLocation string, qty int) error {
	unit, err := l.inventoryRepo.GetForUpdate(ctx, sku, binLocation)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = unit.Release(qty); err != nil {
		return err
	}
	return l.inventoryRepo.Update(ctx, unit)
}

// apply writes the audit record, loads the unit under a row lock (creating
// a zero unit when the bin has no row yet, as when a count finds stock in
// an empty bin), runs the mutation and persists the unit.
func (l Ledger) apply(
	ctx context.Context,
	txType inventory.TransactionType,
	sku, binLocation string,
	signedQty int,
	actorID kernel.UUID,
	reason string,
	now time.Time,
	mutate func(unit *inventory.Unit) error,
) (kernel.UUID, error) {
	txn, err := inventory.NewTransaction(kernel.NewUUID(), txType, sku, signedQty, binLocation, actorID, reason, now)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = l.inventoryRepo.AddTransaction(ctx, txn); err != nil {
		return kernel.UUID{}, err
	}

	unit, err := l.inventoryRepo.GetForUpdate(ctx, sku, binLocation)
	isNew := errors.Is(err, errs.ErrObjectNotFound)
	if isNew {
		unit, err = inventory.NewUnit(sku, binLocation, 0)
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = mutate(unit); err != nil {
		return kernel.UUID{}, err
	}

	if isNew {
		err = l.inventoryRepo.Add(ctx, unit)
	} else {
		err = l.inventoryRepo.Update(ctx, unit)
	}
	if err != nil {
		return kernel.UUID{}, err
	}
	return txn.ID(), nil
}
