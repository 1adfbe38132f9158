package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// ItemStatus is the derived lifecycle of an order item. Except for
// ItemCancelled, which is sticky, it follows pickedQuantity.
type ItemStatus int

const (
	// ItemStatusUnknown catches uninitialized values.
	ItemStatusUnknown ItemStatus = iota

	// ItemPending means nothing has been picked yet.
	ItemPending

	// ItemPartialPicked means 0 < pickedQuantity < quantity.
	ItemPartialPicked

	// ItemFullyPicked means pickedQuantity reached quantity.
	ItemFullyPicked

	// ItemCancelled means the item was cancelled through exception
	// resolution and is excluded from fulfillment.
	ItemCancelled
)

func getItemStatusStrings() map[ItemStatus]string {
	return map[ItemStatus]string{
		ItemStatusUnknown: "Unknown",
		ItemPending:       "Pending",
		ItemPartialPicked: "PartialPicked",
		ItemFullyPicked:   "FullyPicked",
		ItemCancelled:     "Cancelled",
	}
}

// String returns the human-readable name of the item status.
func (s ItemStatus) String() string {
	if str, ok := getItemStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the ItemStatus is one of the defined states.
func (s ItemStatus) Validate() error {
	if s < ItemPending || s > ItemCancelled {
		return errs.NewValueIsInvalidErrorWithCause("item status is invalid",
			fmt.Errorf("%d is not a valid item status", s))
	}
	return nil
}

// Item is a single line of an order: a SKU, an ordered quantity, and the
// bin it is picked from. Invariant: 0 <= pickedQuantity <= quantity at
// all times, including after undo.
type Item struct {
	id             kernel.UUID
	sku            string
	quantity       int
	pickedQuantity int
	binLocation    string
	status         ItemStatus
	substituteSKU  *string
	notes          string
	cancelReason   string
	isConstructed  bool
}

// NewItem creates an order item in Pending status with nothing picked.
// SKU and bin location are required; quantity must be positive.
func NewItem(id kernel.UUID, sku string, quantity int, binLocation string) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if binLocation == "" {
		return nil, errs.NewValueIsRequiredError("binLocation")
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return &Item{
		id:            id,
		sku:           sku,
		quantity:      quantity,
		binLocation:   binLocation,
		status:        ItemPending,
		isConstructed: true,
	}, nil
}

// RestoreItem reconstructs an item from persistence and re-checks its
// invariants.
func RestoreItem(
	id kernel.UUID,
	sku string,
	quantity int,
	pickedQuantity int,
	binLocation string,
	status ItemStatus,
	substituteSKU *string,
	notes string,
	cancelReason string,
) (*Item, error) {
	item, err := NewItem(id, sku, quantity, binLocation)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if pickedQuantity < 0 || pickedQuantity > quantity {
		return nil, errs.NewValueIsOutOfRangeError("pickedQuantity", pickedQuantity, 0, quantity)
	}

	item.pickedQuantity = pickedQuantity
	item.status = status
	item.substituteSKU = substituteSKU
	item.notes = notes
	item.cancelReason = cancelReason
	return item, nil
}

// Validate ensures the Item was constructed through NewItem or RestoreItem.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// SKU returns the stock keeping unit of the item.
func (i *Item) SKU() string {
	return i.sku
}

// Quantity returns the ordered quantity.
func (i *Item) Quantity() int {
	return i.quantity
}

// PickedQuantity returns the quantity picked so far.
func (i *Item) PickedQuantity() int {
	return i.pickedQuantity
}

// BinLocation returns the bin the item is picked from.
func (i *Item) BinLocation() string {
	return i.binLocation
}

// Status returns the item's lifecycle status.
func (i *Item) Status() ItemStatus {
	return i.status
}

// SubstituteSKU returns the substitute SKU, or nil if none was assigned.
func (i *Item) SubstituteSKU() *string {
	return i.substituteSKU
}

// Notes returns free-form notes recorded during exception resolution.
func (i *Item) Notes() string {
	return i.notes
}

// CancelReason returns the reason the item was cancelled, if any.
func (i *Item) CancelReason() string {
	return i.cancelReason
}

// IsFullyPicked reports whether pickedQuantity reached the ordered quantity.
func (i *Item) IsFullyPicked() bool {
	return i.pickedQuantity >= i.quantity
}

// RecordPick increments pickedQuantity by quantity, clamped so it never
// exceeds the ordered quantity, and refreshes the derived status. Returns
// the quantity actually applied after clamping, which is what the
// inventory ledger must be decremented by.
func (i *Item) RecordPick(quantity int) (int, error) {
	if quantity <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if i.status == ItemCancelled {
		return 0, errs.NewConflictError(CodeTaskNotPickable, "item is cancelled")
	}

	applied := quantity
	if i.pickedQuantity+applied > i.quantity {
		applied = i.quantity - i.pickedQuantity
	}
	i.pickedQuantity += applied
	i.refreshStatus()
	return applied, nil
}

// UndoPick decrements pickedQuantity by quantity. Fails with a
// CANNOT_DECREMENT conflict if the result would go negative; the caller
// must not be left guessing whether a partial decrement happened.
func (i *Item) UndoPick(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if i.pickedQuantity-quantity < 0 {
		return errs.NewConflictError(CodeCannotDecrement,
			fmt.Sprintf("cannot decrement picked quantity %d by %d", i.pickedQuantity, quantity))
	}

	i.pickedQuantity -= quantity
	i.refreshStatus()
	return nil
}

// Cancel marks the item cancelled with the given reason. Cancelled is
// sticky: subsequent picks are rejected and status is no longer derived.
func (i *Item) Cancel(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	i.status = ItemCancelled
	i.cancelReason = reason
	return nil
}

// Substitute records a substitute SKU and optional notes on the item.
func (i *Item) Substitute(substituteSKU, notes string) error {
	if substituteSKU == "" {
		return errs.NewValueIsRequiredError("substituteSku")
	}
	i.substituteSKU = &substituteSKU
	if notes != "" {
		i.notes = notes
	}
	return nil
}

// AdjustQuantity overwrites the ordered quantity, clamping pickedQuantity
// down if the new quantity is below what was already picked.
func (i *Item) AdjustQuantity(newQuantity int) error {
	if newQuantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("newQuantity",
			fmt.Errorf("%d is not greater than 0", newQuantity))
	}
	i.quantity = newQuantity
	if i.pickedQuantity > newQuantity {
		i.pickedQuantity = newQuantity
	}
	i.refreshStatus()
	return nil
}

// TransferBin moves the item to a different bin location.
func (i *Item) TransferBin(newBinLocation string) error {
	if newBinLocation == "" {
		return errs.NewValueIsRequiredError("newBinLocation")
	}
	i.binLocation = newBinLocation
	return nil
}

// refreshStatus recomputes the derived status. Cancelled is sticky.
func (i *Item) refreshStatus() {
	if i.status == ItemCancelled {
		return
	}
	switch {
	case i.pickedQuantity == 0:
		i.status = ItemPending
	case i.pickedQuantity < i.quantity:
		i.status = ItemPartialPicked
	default:
		i.status = ItemFullyPicked
	}
}
