package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
)

// InventoryRepository defines the persistence contract for the inventory
// ledger: per-SKU/per-bin units and their immutable transaction records.
type InventoryRepository interface {
	// Add persists a new inventory unit.
	Add(ctx context.Context, unit *inventory.Unit) error

	// Update persists changes to an existing inventory unit.
	Update(ctx context.Context, unit *inventory.Unit) error

	// Get retrieves the unit for a (sku, binLocation) pair.
	Get(ctx context.Context, sku string, binLocation string) (*inventory.Unit, error)

	// GetForUpdate retrieves the unit with a row lock so the adjustment
	// applied by the caller serializes against concurrent adjustments of
	// the same unit. Must run inside an active transaction.
	GetForUpdate(ctx context.Context, sku string, binLocation string) (*inventory.Unit, error)

	// AddTransaction appends an immutable audit record. The record is
	// written in the same transaction as the ledger mutation it describes.
	AddTransaction(ctx context.Context, txn *inventory.Transaction) error
}
