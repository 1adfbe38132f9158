package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetPlanEntriesQueryIsNotConstructed = errors.New(
		"GetPlanEntriesQuery must be created via NewGetPlanEntriesQuery constructor",
	)
)

// GetPlanEntriesQuery retrieves every count entry recorded under one
// cycle count plan.
type GetPlanEntriesQuery struct {
	guard guard.ConstructorGuard

	planID kernel.UUID
}

// NewGetPlanEntriesQuery creates a query for a plan's count entries.
func NewGetPlanEntriesQuery(planID kernel.UUID) (GetPlanEntriesQuery, error) {
	if err := planID.Validate(); err != nil {
		return GetPlanEntriesQuery{}, err
	}

	return GetPlanEntriesQuery{
		guard:  guard.NewConstructorGuard(),
		planID: planID,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPlanEntriesQuery) Validate() error {
	return q.guard.Validate(ErrGetPlanEntriesQueryIsNotConstructed)
}

// PlanID returns the identifier of the plan whose entries are fetched.
func (q GetPlanEntriesQuery) PlanID() kernel.UUID {
	return q.planID
}
