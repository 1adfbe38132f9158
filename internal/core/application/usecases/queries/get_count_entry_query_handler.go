package queries

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCountEntryQueryHandler reads one count entry row with direct SQL.
type GetCountEntryQueryHandler struct {
	db *gorm.DB
}

// NewGetCountEntryQueryHandler creates a handler for single-entry queries.
func NewGetCountEntryQueryHandler(db *gorm.DB) GetCountEntryQueryHandler {
	return GetCountEntryQueryHandler{db: db}
}

// Handle executes the query. Returns an ObjectNotFoundError when no
// entry exists under the requested identifier.
func (h GetCountEntryQueryHandler) Handle(
	ctx context.Context,
	query GetCountEntryQuery,
) (GetCountEntryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCountEntryQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(
		countEntrySelect+` WHERE id = ?`, query.EntryID().Bytes(),
	).Row()

	response, err := scanCountEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetCountEntryQueryResponse{}, errs.NewObjectNotFoundError("count entry", query.EntryID().String())
		}
		return GetCountEntryQueryResponse{}, err
	}

	return response, nil
}

const countEntrySelect = `
	SELECT
		id,
		plan_id,
		sku,
		bin_location,
		system_quantity,
		counted_quantity,
		counted_by,
		counted_at,
		variance_status,
		reviewed_by,
		adjustment_transaction_id
	FROM count_entries`

// scanCountEntry maps one count_entries row onto the read model. The
// scan argument abstracts over sql.Row and sql.Rows.
func scanCountEntry(scan func(dest ...any) error) (GetCountEntryQueryResponse, error) {
	var response GetCountEntryQueryResponse
	var id, planID, countedBy uuid.UUID
	var reviewedBy, adjustmentID *uuid.UUID
	var varianceStatus int

	err := scan(
		&id,
		&planID,
		&response.SKU,
		&response.BinLocation,
		&response.SystemQuantity,
		&response.CountedQuantity,
		&countedBy,
		&response.CountedAt,
		&varianceStatus,
		&reviewedBy,
		&adjustmentID,
	)
	if err != nil {
		return GetCountEntryQueryResponse{}, err
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetCountEntryQueryResponse{}, err
	}
	response.PlanID, err = kernel.UUIDFromBytes(planID[:])
	if err != nil {
		return GetCountEntryQueryResponse{}, err
	}
	response.CountedBy, err = kernel.UUIDFromBytes(countedBy[:])
	if err != nil {
		return GetCountEntryQueryResponse{}, err
	}
	response.ReviewedBy, err = optionalUUID(reviewedBy)
	if err != nil {
		return GetCountEntryQueryResponse{}, err
	}
	response.AdjustmentTransactionID, err = optionalUUID(adjustmentID)
	if err != nil {
		return GetCountEntryQueryResponse{}, err
	}

	response.VarianceStatus = cyclecount.VarianceStatus(varianceStatus).String()
	response.Variance = response.CountedQuantity - response.SystemQuantity
	if response.SystemQuantity != 0 {
		response.VariancePercent = math.Abs(float64(response.Variance)) /
			float64(response.SystemQuantity) * 100
	}

	return response, nil
}
