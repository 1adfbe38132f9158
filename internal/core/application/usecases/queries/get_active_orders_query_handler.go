package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler lists in-flight orders with direct SQL,
// aggregating the line items in the database rather than in memory.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are ordered most urgent first, with
// the order identifier as a stable tie breaker.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.status,
			o.priority,
			o.picker_id,
			o.packer_id,
			COUNT(i.id) AS item_count,
			COALESCE(SUM(CASE WHEN i.picked_quantity >= i.quantity THEN 1 ELSE 0 END), 0) AS picked_item_count
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.status NOT IN (?, ?)
		GROUP BY o.id, o.status, o.priority, o.picker_id, o.packer_id
		ORDER BY o.priority DESC, o.id
	`, order.Shipped, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetActiveOrdersQueryResponse
		var id uuid.UUID
		var pickerID, packerID *uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&status,
			&response.Priority,
			&pickerID,
			&packerID,
			&response.ItemCount,
			&response.PickedItemCount,
		)
		if err != nil {
			return nil, err
		}

		response.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		response.Status = order.Status(status).String()

		response.PickerID, err = optionalUUID(pickerID)
		if err != nil {
			return nil, err
		}
		response.PackerID, err = optionalUUID(packerID)
		if err != nil {
			return nil, err
		}

		orders = append(orders, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
