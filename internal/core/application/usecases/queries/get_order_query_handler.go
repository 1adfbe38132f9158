package queries

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler assembles the order snapshot from the orders,
// order_items and pick_tasks tables with direct SQL.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order snapshot queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns an ObjectNotFoundError when no
// order exists under the requested identifier.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.fetchOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Items, err = h.fetchItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Tasks, err = h.fetchTasks(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Progress = progressOf(response.Items)
	return response, nil
}

func (h GetOrderQueryHandler) fetchOrder(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	var response GetOrderQueryResponse
	var id uuid.UUID
	var pickerID, packerID *uuid.UUID
	var status int

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			priority,
			picker_id,
			packer_id,
			unclaim_reason,
			cancel_reason
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	err := row.Scan(
		&id,
		&status,
		&response.Priority,
		&pickerID,
		&packerID,
		&response.UnclaimReason,
		&response.CancelReason,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return GetOrderQueryResponse{}, err
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.Status = order.Status(status).String()

	response.PickerID, err = optionalUUID(pickerID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.PackerID, err = optionalUUID(packerID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) fetchItems(ctx context.Context, orderID kernel.UUID) ([]OrderItemResponse, error) {
	items := make([]OrderItemResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sku,
			quantity,
			picked_quantity,
			bin_location,
			status,
			substitute_sku,
			notes,
			cancel_reason
		FROM order_items
		WHERE order_id = ?
		ORDER BY sku, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemResponse
		var id uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&item.SKU,
			&item.Quantity,
			&item.PickedQuantity,
			&item.BinLocation,
			&status,
			&item.SubstituteSKU,
			&item.Notes,
			&item.CancelReason,
		)
		if err != nil {
			return nil, err
		}

		item.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		item.Status = order.ItemStatus(status).String()
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) fetchTasks(ctx context.Context, orderID kernel.UUID) ([]PickTaskResponse, error) {
	tasks := make([]PickTaskResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			item_id,
			status,
			skip_reason,
			completed_at
		FROM pick_tasks
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var task PickTaskResponse
		var id, itemID uuid.UUID
		var status int
		var completedAt *time.Time

		err = rows.Scan(&id, &itemID, &status, &task.SkipReason, &completedAt)
		if err != nil {
			return nil, err
		}

		task.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		task.ItemID, err = kernel.UUIDFromBytes(itemID[:])
		if err != nil {
			return nil, err
		}
		task.Status = order.TaskStatus(status).String()
		task.CompletedAt = completedAt
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// progressOf mirrors the aggregate's progress arithmetic: the share of
// fully picked items, rounded to whole percent.
func progressOf(items []OrderItemResponse) int {
	if len(items) == 0 {
		return 0
	}

	completed := 0
	for _, item := range items {
		if item.PickedQuantity >= item.Quantity {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(items))))
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}

	converted, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
