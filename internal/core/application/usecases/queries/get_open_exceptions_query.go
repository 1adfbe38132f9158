package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOpenExceptionsQueryIsNotConstructed = errors.New(
		"GetOpenExceptionsQuery must be created via NewGetOpenExceptionsQuery constructor",
	)
)

// GetOpenExceptionsQuery retrieves every unresolved pick exception, the
// supervisor's triage worklist.
type GetOpenExceptionsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOpenExceptionsQuery creates a parameterless query for the
// unresolved exception list.
func NewGetOpenExceptionsQuery() GetOpenExceptionsQuery {
	return GetOpenExceptionsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOpenExceptionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenExceptionsQueryIsNotConstructed)
}

// GetOpenExceptionsQueryResponse is one unresolved exception in the
// worklist.
type GetOpenExceptionsQueryResponse struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	OrderItemID      kernel.UUID
	SKU              string
	Type             string
	QuantityExpected int
	QuantityActual   int
	Reason           string
	ReportedBy       kernel.UUID
	Status           string
}
