package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetCountEntryQueryIsNotConstructed = errors.New(
		"GetCountEntryQuery must be created via NewGetCountEntryQuery constructor",
	)
)

// GetCountEntryQuery retrieves one cycle count entry with its variance
// review state.
type GetCountEntryQuery struct {
	guard guard.ConstructorGuard

	entryID kernel.UUID
}

// NewGetCountEntryQuery creates a query for a single count entry.
func NewGetCountEntryQuery(entryID kernel.UUID) (GetCountEntryQuery, error) {
	if err := entryID.Validate(); err != nil {
		return GetCountEntryQuery{}, err
	}

	return GetCountEntryQuery{
		guard:   guard.NewConstructorGuard(),
		entryID: entryID,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCountEntryQuery) Validate() error {
	return q.guard.Validate(ErrGetCountEntryQueryIsNotConstructed)
}

// EntryID returns the identifier of the entry to fetch.
func (q GetCountEntryQuery) EntryID() kernel.UUID {
	return q.entryID
}

// GetCountEntryQueryResponse is the count entry read model. Variance and
// VariancePercent are derived from the stored quantities the same way the
// aggregate derives them.
type GetCountEntryQueryResponse struct {
	ID                      kernel.UUID
	PlanID                  kernel.UUID
	SKU                     string
	BinLocation             string
	SystemQuantity          int
	CountedQuantity         int
	CountedBy               kernel.UUID
	CountedAt               time.Time
	Variance                int
	VariancePercent         float64
	VarianceStatus          string
	ReviewedBy              *kernel.UUID
	AdjustmentTransactionID *kernel.UUID
}
