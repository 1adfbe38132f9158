package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery retrieves every order that is still in flight,
// meaning any status except the terminal Shipped and Cancelled. The read
// model carries claim information so a dispatcher can see which worker
// holds which order.
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a parameterless query for the active
// order list.
func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse is one in-flight order in the listing.
// ItemCount and PickedItemCount summarize the lines without loading them.
type GetActiveOrdersQueryResponse struct {
	ID              kernel.UUID
	Status          string
	Priority        int
	PickerID        *kernel.UUID
	PackerID        *kernel.UUID
	ItemCount       int
	PickedItemCount int
}
