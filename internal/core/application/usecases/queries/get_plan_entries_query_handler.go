package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetPlanEntriesQueryHandler lists a plan's count entries with direct SQL.
type GetPlanEntriesQueryHandler struct {
	db *gorm.DB
}

// NewGetPlanEntriesQueryHandler creates a handler for plan entry listings.
func NewGetPlanEntriesQueryHandler(db *gorm.DB) GetPlanEntriesQueryHandler {
	return GetPlanEntriesQueryHandler{db: db}
}

// Handle executes the query. An unknown plan yields an empty list, not an
// error; plans have no row of their own, they exist through their entries.
func (h GetPlanEntriesQueryHandler) Handle(
	ctx context.Context,
	query GetPlanEntriesQuery,
) ([]GetCountEntryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetCountEntryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(
		countEntrySelect+` WHERE plan_id = ? ORDER BY counted_at, id`, query.PlanID().Bytes(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		entry, scanErr := scanCountEntry(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
