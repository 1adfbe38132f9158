package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetExceptionQueryHandler reads one exception row with direct SQL.
type GetExceptionQueryHandler struct {
	db *gorm.DB
}

// NewGetExceptionQueryHandler creates a handler for single-exception queries.
func NewGetExceptionQueryHandler(db *gorm.DB) GetExceptionQueryHandler {
	return GetExceptionQueryHandler{db: db}
}

// Handle executes the query. Returns an ObjectNotFoundError when no
// exception exists under the requested identifier.
func (h GetExceptionQueryHandler) Handle(
	ctx context.Context,
	query GetExceptionQuery,
) (GetExceptionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetExceptionQueryResponse{}, err
	}

	var response GetExceptionQueryResponse
	var id, orderID, orderItemID, reportedBy uuid.UUID
	var resolvedBy *uuid.UUID
	var exceptionType, status int
	var resolution *int
	var resolvedAt *time.Time

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			order_item_id,
			sku,
			type,
			quantity_expected,
			quantity_actual,
			reason,
			reported_by,
			status,
			resolution,
			resolution_notes,
			resolved_by,
			resolved_at
		FROM exceptions
		WHERE id = ?
	`, query.ExceptionID().Bytes()).Row()

	err := row.Scan(
		&id,
		&orderID,
		&orderItemID,
		&response.SKU,
		&exceptionType,
		&response.QuantityExpected,
		&response.QuantityActual,
		&response.Reason,
		&reportedBy,
		&status,
		&resolution,
		&response.ResolutionNotes,
		&resolvedBy,
		&resolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetExceptionQueryResponse{}, errs.NewObjectNotFoundError("exception", query.ExceptionID().String())
		}
		return GetExceptionQueryResponse{}, err
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetExceptionQueryResponse{}, err
	}
	response.OrderID, err = kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return GetExceptionQueryResponse{}, err
	}
	response.OrderItemID, err = kernel.UUIDFromBytes(orderItemID[:])
	if err != nil {
		return GetExceptionQueryResponse{}, err
	}
	response.ReportedBy, err = kernel.UUIDFromBytes(reportedBy[:])
	if err != nil {
		return GetExceptionQueryResponse{}, err
	}
	response.ResolvedBy, err = optionalUUID(resolvedBy)
	if err != nil {
		return GetExceptionQueryResponse{}, err
	}

	response.Type = exception.Type(exceptionType).String()
	response.Status = exception.Status(status).String()
	if resolution != nil {
		name := exception.Resolution(*resolution).String()
		response.Resolution = &name
	}
	response.ResolvedAt = resolvedAt

	return response, nil
}
