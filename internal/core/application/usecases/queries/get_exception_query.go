package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetExceptionQueryIsNotConstructed = errors.New(
		"GetExceptionQuery must be created via NewGetExceptionQuery constructor",
	)
)

// GetExceptionQuery retrieves a single pick exception with its resolution
// details, if resolved.
type GetExceptionQuery struct {
	guard guard.ConstructorGuard

	exceptionID kernel.UUID
}

// NewGetExceptionQuery creates a query for a single exception.
func NewGetExceptionQuery(exceptionID kernel.UUID) (GetExceptionQuery, error) {
	if err := exceptionID.Validate(); err != nil {
		return GetExceptionQuery{}, err
	}

	return GetExceptionQuery{
		guard:       guard.NewConstructorGuard(),
		exceptionID: exceptionID,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetExceptionQuery) Validate() error {
	return q.guard.Validate(ErrGetExceptionQueryIsNotConstructed)
}

// ExceptionID returns the identifier of the exception to fetch.
func (q GetExceptionQuery) ExceptionID() kernel.UUID {
	return q.exceptionID
}

// GetExceptionQueryResponse is the full exception read model. Resolution
// fields are nil or empty until the exception resolves.
type GetExceptionQueryResponse struct {
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
	Resolution       *string
	ResolutionNotes  string
	ResolvedBy       *kernel.UUID
	ResolvedAt       *time.Time
}
