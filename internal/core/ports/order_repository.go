// Package ports defines repository and transaction interfaces for the
// fulfillment domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving and claiming order entities
// with their items and pick tasks.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including
	// its items and pick tasks.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with all items and pick tasks.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// TryClaimForPicking performs the claim race arbitration as a single
	// conditional write: the order row moves to Picking with the given
	// picker only if it is still Pending and unassigned. Returns false
	// without error when the condition did not match; the caller re-reads
	// the row to tell a lost race from an unclaimable status.
	//
	// Under concurrent claims for the same order, the database guarantees
	// exactly one caller observes true.
	TryClaimForPicking(ctx context.Context, id kernel.UUID, pickerID kernel.UUID) (bool, error)

	// TryClaimForPacking is the packing-phase counterpart: Picked and
	// unassigned moves to Packing with the given packer.
	TryClaimForPacking(ctx context.Context, id kernel.UUID, packerID kernel.UUID) (bool, error)

	// CountActiveByPicker returns how many orders the picker currently
	// holds in Picking status. Used to enforce the per-picker claim limit.
	CountActiveByPicker(ctx context.Context, pickerID kernel.UUID) (int, error)

	// CountActiveByPacker returns how many orders the packer currently
	// holds in Packing status; same limit, packing phase.
	CountActiveByPacker(ctx context.Context, packerID kernel.UUID) (int, error)

	// GetAllInBackorderStatus retrieves all deferred orders, oldest first,
	// for the backorder release sweep.
	GetAllInBackorderStatus(ctx context.Context) ([]*order.Order, error)
}
