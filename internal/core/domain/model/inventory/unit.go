// Package inventory contains the inventory ledger's domain model: the
// per-SKU/per-bin InventoryUnit and the immutable InventoryTransaction
// audit record. The ledger is the single point of quantity truth: picks,
// undo-picks, exception resolutions, and cycle-count adjustments all
// terminate in its adjust-up/adjust-down primitives, and no other
// component writes quantity state directly.
package inventory

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ErrUnitIsNotConstructed is returned when a Unit instance was not created
// through NewUnit or RestoreUnit.
var ErrUnitIsNotConstructed = errors.New("Unit must be created via NewUnit or RestoreUnit")

// CodeInsufficientStock is the conflict code for a reservation that
// exceeds the available quantity.
const CodeInsufficientStock = "INSUFFICIENT_STOCK"

// Unit is the on-hand record for one (sku, binLocation) pair.
//
// Invariants: quantity >= reserved >= 0 and therefore Available() >= 0.
// AdjustDown floors at zero instead of failing: physical counts override
// ledger bookkeeping, so a decrement below zero records reality rather
// than rejecting it.
type Unit struct {
	sku           string
	binLocation   string
	quantity      int
	reserved      int
	isConstructed bool
}

// NewUnit creates an inventory unit with the given starting quantity and
// nothing reserved.
func NewUnit(sku, binLocation string, quantity int) (*Unit, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if binLocation == "" {
		return nil, errs.NewValueIsRequiredError("binLocation")
	}
	if quantity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", quantity))
	}

	return &Unit{
		sku:           sku,
		binLocation:   binLocation,
		quantity:      quantity,
		isConstructed: true,
	}, nil
}

// RestoreUnit reconstructs a unit from persistence and re-checks the
// quantity >= reserved >= 0 invariant.
func RestoreUnit(sku, binLocation string, quantity, reserved int) (*Unit, error) {
	unit, err := NewUnit(sku, binLocation, quantity)
	if err != nil {
		return nil, err
	}
	if reserved < 0 || reserved > quantity {
		return nil, errs.NewValueIsOutOfRangeError("reserved", reserved, 0, quantity)
	}

	unit.reserved = reserved
	return unit, nil
}

// Validate ensures the Unit was constructed through a constructor.
func (u *Unit) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUnitIsNotConstructed
	}
	return nil
}

// SKU returns the stock keeping unit.
func (u *Unit) SKU() string {
	return u.sku
}

// BinLocation returns the bin this unit tracks.
func (u *Unit) BinLocation() string {
	return u.binLocation
}

// Quantity returns the on-hand quantity.
func (u *Unit) Quantity() int {
	return u.quantity
}

// Reserved returns the quantity reserved for open orders.
func (u *Unit) Reserved() int {
	return u.reserved
}

// Available returns quantity minus reserved.
func (u *Unit) Available() int {
	return u.quantity - u.reserved
}

// AdjustUp increases the on-hand quantity by qty.
func (u *Unit) AdjustUp(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	u.quantity += qty
	return nil
}

// AdjustDown decreases the on-hand quantity by qty, flooring at zero.
// The floor is deliberate policy, not silent truncation: a physical count
// below the ledger's bookkeeping wins. Reserved is clamped down with the
// quantity so the quantity >= reserved invariant survives.
func (u *Unit) AdjustDown(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty",
			fmt.Errorf("%d is not greater than 0", qty))
	}

	u.quantity -= qty
	if u.quantity < 0 {
		u.quantity = 0
	}
	if u.reserved > u.quantity {
		u.reserved = u.quantity
	}
	return nil
}

// Reserve sets aside qty units for an order. Fails with an
// INSUFFICIENT_STOCK conflict when fewer than qty units are available.
func (u *Unit) Reserve(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if u.Available() < qty {
		return errs.NewConflictError(CodeInsufficientStock,
			fmt.Sprintf("%d units requested but only %d available for %s at %s", qty, u.Available(), u.sku, u.binLocation))
	}

	u.reserved += qty
	return nil
}

// Release returns qty reserved units to the available pool, flooring the
// reservation at zero.
func (u *Unit) Release(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("qty",
			fmt.Errorf("%d is not greater than 0", qty))
	}

	u.reserved -= qty
	if u.reserved < 0 {
		u.reserved = 0
	}
	return nil
}
