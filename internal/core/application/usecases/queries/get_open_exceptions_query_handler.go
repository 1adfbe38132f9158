package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenExceptionsQueryHandler lists unresolved exceptions with direct SQL.
type GetOpenExceptionsQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenExceptionsQueryHandler creates a handler for the exception
// worklist query.
func NewGetOpenExceptionsQueryHandler(db *gorm.DB) GetOpenExceptionsQueryHandler {
	return GetOpenExceptionsQueryHandler{db: db}
}

// Handle executes the query. Both Open and Reviewing exceptions are
// returned; only Resolved ones are filtered out.
func (h GetOpenExceptionsQueryHandler) Handle(
	ctx context.Context,
	query GetOpenExceptionsQuery,
) ([]GetOpenExceptionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	exceptions := make([]GetOpenExceptionsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
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
			status
		FROM exceptions
		WHERE status != ?
		ORDER BY id
	`, exception.Resolved).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetOpenExceptionsQueryResponse
		var id, orderID, orderItemID, reportedBy uuid.UUID
		var exceptionType, status int

		err = rows.Scan(
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
		)
		if err != nil {
			return nil, err
		}

		response.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		response.OrderID, err = kernel.UUIDFromBytes(orderID[:])
		if err != nil {
			return nil, err
		}
		response.OrderItemID, err = kernel.UUIDFromBytes(orderItemID[:])
		if err != nil {
			return nil, err
		}
		response.ReportedBy, err = kernel.UUIDFromBytes(reportedBy[:])
		if err != nil {
			return nil, err
		}

		response.Type = exception.Type(exceptionType).String()
		response.Status = exception.Status(status).String()
		exceptions = append(exceptions, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return exceptions, nil
}
