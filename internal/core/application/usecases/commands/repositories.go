// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// InventoryRepoFactory provides access to the inventory repository within a transaction.
	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	// ExceptionRepoFactory provides access to the exception repository within a transaction.
	ExceptionRepoFactory interface {
		ExceptionRepository() ports.ExceptionRepository
	}

	// CycleCountRepoFactory provides access to the cycle count repository within a transaction.
	CycleCountRepoFactory interface {
		CycleCountRepository() ports.CycleCountRepository
	}

	// OrderUoW manages transactions for order-only operations:
	// claim, unclaim, skip, complete, ship.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LedgerUoW manages transactions that touch both the order aggregate
	// and the inventory ledger: create, pick, undo-pick, cancel,
	// backorder release. The ledger mutation and the order mutation
	// commit or roll back together.
	LedgerUoW interface {
		TxManager
		OrderRepoFactory
		InventoryRepoFactory
	}

	// LedgerUoWFactory creates new ledger unit of work instances.
	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// ExceptionUoW manages transactions for logging exceptions. The order
	// repository is included to verify the referenced order and item exist.
	ExceptionUoW interface {
		TxManager
		ExceptionRepoFactory
		OrderRepoFactory
	}

	// ExceptionUoWFactory creates new exception unit of work instances.
	ExceptionUoWFactory interface {
		Create() ExceptionUoW
	}

	// ResolutionUoW manages exception resolution: the exception row, the
	// affected order, and any resulting ledger adjustment change in one
	// transaction.
	ResolutionUoW interface {
		TxManager
		ExceptionRepoFactory
		OrderRepoFactory
		InventoryRepoFactory
	}

	// ResolutionUoWFactory creates new resolution unit of work instances.
	ResolutionUoWFactory interface {
		Create() ResolutionUoW
	}

	// CountUoW manages cycle count transactions: entries, tolerance
	// lookups, and ledger adjustments.
	CountUoW interface {
		TxManager
		CycleCountRepoFactory
		InventoryRepoFactory
	}

	// CountUoWFactory creates new cycle count unit of work instances.
	CountUoWFactory interface {
		Create() CountUoW
	}
)
