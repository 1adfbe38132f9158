package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"
)

// ExceptionRepository defines the persistence contract for order
// exception aggregates.
type ExceptionRepository interface {
	// Add persists a newly logged exception.
	Add(ctx context.Context, ex *exception.Exception) error

	// Update persists changes to an existing exception.
	Update(ctx context.Context, ex *exception.Exception) error

	// Get retrieves an exception by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*exception.Exception, error)

	// GetForUpdate retrieves an exception with a row lock so concurrent
	// resolutions of the same exception serialize; the loser then fails
	// the aggregate's already-resolved guard. Must run inside an active
	// transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*exception.Exception, error)

	// GetAllUnresolved retrieves exceptions in Open or Reviewing status,
	// oldest first.
	GetAllUnresolved(ctx context.Context) ([]*exception.Exception, error)
}
