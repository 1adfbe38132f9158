// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries bypass the aggregates and read optimized models straight from
// the database.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves a full order snapshot: the order row plus its
// line items and pick tasks, with picking progress computed over the
// items.
type GetOrderQuery struct {
	guard guard.ConstructorGuard

	orderID kernel.UUID
}

// NewGetOrderQuery creates a query for a single order snapshot.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		guard:   guard.NewConstructorGuard(),
		orderID: orderID,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to fetch.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the order snapshot read model.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	Status        string
	Priority      int
	PickerID      *kernel.UUID
	PackerID      *kernel.UUID
	UnclaimReason string
	CancelReason  string
	Progress      int
	Items         []OrderItemResponse
	Tasks         []PickTaskResponse
}

// OrderItemResponse is one order line in the snapshot.
type OrderItemResponse struct {
	ID             kernel.UUID
	SKU            string
	Quantity       int
	PickedQuantity int
	BinLocation    string
	Status         string
	SubstituteSKU  *string
	Notes          string
	CancelReason   string
}

// PickTaskResponse is one pick task in the snapshot.
type PickTaskResponse struct {
	ID          kernel.UUID
	ItemID      kernel.UUID
	Status      string
	SkipReason  string
	CompletedAt *time.Time
}
