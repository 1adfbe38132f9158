package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps domain errors onto HTTP statuses: validation
// failures to 400, missing objects to 404, business conflicts to 409
// with the machine-readable code, everything else to 500.
func respondError(ctx echo.Context, err error) error {
	var conflict *errs.ConflictError
	if errors.As(err, &conflict) {
		return ctx.JSON(http.StatusConflict, errorResponse{Code: conflict.Code, Message: conflict.Message})
	}

	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.JSON(http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}

	var required *errs.ValueIsRequiredError
	var invalid *errs.ValueIsInvalidError
	var outOfRange *errs.ValueIsOutOfRangeError
	if errors.As(err, &required) || errors.As(err, &invalid) || errors.As(err, &outOfRange) {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
	}

	ctx.Logger().Error(err)
	return ctx.JSON(http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "internal server error"})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

// request bodies

type createOrderRequest struct {
	Priority int                      `json:"priority" validate:"gte=0"`
	Items    []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderItemRequest struct {
	SKU         string `json:"sku" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
	BinLocation string `json:"bin_location" validate:"required"`
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type recordPickRequest struct {
	TaskID   string `json:"task_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type undoPickRequest struct {
	TaskID   string `json:"task_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Reason   string `json:"reason" validate:"required"`
}

type skipTaskRequest struct {
	TaskID string `json:"task_id" validate:"required,uuid"`
	Reason string `json:"reason" validate:"required"`
}

type revertSkipRequest struct {
	TaskID string `json:"task_id" validate:"required,uuid"`
	Target string `json:"target" validate:"required"`
}

type completePickingRequest struct {
	Override bool `json:"override"`
}

type logExceptionRequest struct {
	OrderID          string `json:"order_id" validate:"required,uuid"`
	OrderItemID      string `json:"order_item_id" validate:"required,uuid"`
	SKU              string `json:"sku" validate:"required"`
	Type             string `json:"type" validate:"required"`
	QuantityExpected int    `json:"quantity_expected" validate:"gte=0"`
	QuantityActual   int    `json:"quantity_actual" validate:"gte=0"`
	Reason           string `json:"reason" validate:"required"`
}

type resolveExceptionRequest struct {
	Action         string `json:"action" validate:"required"`
	Notes          string `json:"notes"`
	SubstituteSKU  string `json:"substitute_sku"`
	NewQuantity    int    `json:"new_quantity"`
	NewBinLocation string `json:"new_bin_location"`
}

type createCountEntryRequest struct {
	PlanID          string `json:"plan_id" validate:"required,uuid"`
	SKU             string `json:"sku" validate:"required"`
	BinLocation     string `json:"bin_location" validate:"required"`
	CountedQuantity int    `json:"counted_quantity" validate:"gte=0"`
}

type updateVarianceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// enum parsing; request bodies carry the canonical names the read side
// serializes.

func parseExceptionType(raw string) (exception.Type, error) {
	types := map[string]exception.Type{
		"ShortPick":          exception.ShortPick,
		"ShortPickBackorder": exception.ShortPickBackorder,
		"Damage":             exception.Damage,
		"Substitution":       exception.Substitution,
		"WrongItem":          exception.WrongItem,
		"QuantityMismatch":   exception.QuantityMismatch,
	}
	if exType, ok := types[raw]; ok {
		return exType, nil
	}
	return exception.TypeUnknown, errs.NewValueIsInvalidErrorWithCause("type",
		errors.New(raw+" is not a valid exception type"))
}

func parseResolution(raw string) (exception.Resolution, error) {
	resolutions := map[string]exception.Resolution{
		"Substitute":     exception.Substitute,
		"CancelItem":     exception.CancelItem,
		"CancelOrder":    exception.CancelOrder,
		"AdjustQuantity": exception.AdjustQuantity,
		"TransferBin":    exception.TransferBin,
		"Backorder":      exception.MarkBackorder,
	}
	if resolution, ok := resolutions[raw]; ok {
		return resolution, nil
	}
	return exception.ResolutionUnknown, errs.NewValueIsInvalidErrorWithCause("action",
		errors.New(raw+" is not a valid resolution action"))
}

func parseTaskStatus(raw string) (order.TaskStatus, error) {
	statuses := map[string]order.TaskStatus{
		"Pending":    order.TaskPending,
		"InProgress": order.TaskInProgress,
		"Completed":  order.TaskCompleted,
	}
	if status, ok := statuses[raw]; ok {
		return status, nil
	}
	return order.TaskStatusUnknown, errs.NewValueIsInvalidErrorWithCause("target",
		errors.New(raw+" is not a valid revert target"))
}

func parseVarianceStatus(raw string) (cyclecount.VarianceStatus, error) {
	statuses := map[string]cyclecount.VarianceStatus{
		"Approved": cyclecount.VarianceApproved,
		"Rejected": cyclecount.VarianceRejected,
	}
	if status, ok := statuses[raw]; ok {
		return status, nil
	}
	return cyclecount.VarianceStatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		errors.New(raw+" is not a valid review outcome"))
}

// read-model responses

type orderResponse struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Priority      int                `json:"priority"`
	PickerID      *string            `json:"picker_id"`
	PackerID      *string            `json:"packer_id"`
	UnclaimReason string             `json:"unclaim_reason,omitempty"`
	CancelReason  string             `json:"cancel_reason,omitempty"`
	Progress      int                `json:"progress"`
	Items         []orderItemPayload `json:"items"`
	Tasks         []pickTaskPayload  `json:"tasks"`
}

type orderItemPayload struct {
	ID             string  `json:"id"`
	SKU            string  `json:"sku"`
	Quantity       int     `json:"quantity"`
	PickedQuantity int     `json:"picked_quantity"`
	BinLocation    string  `json:"bin_location"`
	Status         string  `json:"status"`
	SubstituteSKU  *string `json:"substitute_sku,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	CancelReason   string  `json:"cancel_reason,omitempty"`
}

type pickTaskPayload struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"item_id"`
	Status      string     `json:"status"`
	SkipReason  string     `json:"skip_reason,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type activeOrderResponse struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	Priority        int     `json:"priority"`
	PickerID        *string `json:"picker_id"`
	PackerID        *string `json:"packer_id"`
	ItemCount       int     `json:"item_count"`
	PickedItemCount int     `json:"picked_item_count"`
}

type openExceptionResponse struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	OrderItemID      string `json:"order_item_id"`
	SKU              string `json:"sku"`
	Type             string `json:"type"`
	QuantityExpected int    `json:"quantity_expected"`
	QuantityActual   int    `json:"quantity_actual"`
	Reason           string `json:"reason"`
	ReportedBy       string `json:"reported_by"`
	Status           string `json:"status"`
}

type exceptionResponse struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"order_id"`
	OrderItemID      string     `json:"order_item_id"`
	SKU              string     `json:"sku"`
	Type             string     `json:"type"`
	QuantityExpected int        `json:"quantity_expected"`
	QuantityActual   int        `json:"quantity_actual"`
	Reason           string     `json:"reason"`
	ReportedBy       string     `json:"reported_by"`
	Status           string     `json:"status"`
	Resolution       *string    `json:"resolution,omitempty"`
	ResolutionNotes  string     `json:"resolution_notes,omitempty"`
	ResolvedBy       *string    `json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

type countEntryResponse struct {
	ID                      string    `json:"id"`
	PlanID                  string    `json:"plan_id"`
	SKU                     string    `json:"sku"`
	BinLocation             string    `json:"bin_location"`
	SystemQuantity          int       `json:"system_quantity"`
	CountedQuantity         int       `json:"counted_quantity"`
	CountedBy               string    `json:"counted_by"`
	CountedAt               time.Time `json:"counted_at"`
	Variance                int       `json:"variance"`
	VariancePercent         float64   `json:"variance_percent"`
	VarianceStatus          string    `json:"variance_status"`
	ReviewedBy              *string   `json:"reviewed_by,omitempty"`
	AdjustmentTransactionID *string   `json:"adjustment_transaction_id,omitempty"`
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	raw := id.String()
	return &raw
}

func toOrderResponse(snapshot queries.GetOrderQueryResponse) orderResponse {
	items := make([]orderItemPayload, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, orderItemPayload{
			ID:             item.ID.String(),
			SKU:            item.SKU,
			Quantity:       item.Quantity,
			PickedQuantity: item.PickedQuantity,
			BinLocation:    item.BinLocation,
			Status:         item.Status,
			SubstituteSKU:  item.SubstituteSKU,
			Notes:          item.Notes,
			CancelReason:   item.CancelReason,
		})
	}

	tasks := make([]pickTaskPayload, 0, len(snapshot.Tasks))
	for _, task := range snapshot.Tasks {
		tasks = append(tasks, pickTaskPayload{
			ID:          task.ID.String(),
			ItemID:      task.ItemID.String(),
			Status:      task.Status,
			SkipReason:  task.SkipReason,
			CompletedAt: task.CompletedAt,
		})
	}

	return orderResponse{
		ID:            snapshot.ID.String(),
		Status:        snapshot.Status,
		Priority:      snapshot.Priority,
		PickerID:      optionalID(snapshot.PickerID),
		PackerID:      optionalID(snapshot.PackerID),
		UnclaimReason: snapshot.UnclaimReason,
		CancelReason:  snapshot.CancelReason,
		Progress:      snapshot.Progress,
		Items:         items,
		Tasks:         tasks,
	}
}

func toExceptionResponse(snapshot queries.GetExceptionQueryResponse) exceptionResponse {
	return exceptionResponse{
		ID:               snapshot.ID.String(),
		OrderID:          snapshot.OrderID.String(),
		OrderItemID:      snapshot.OrderItemID.String(),
		SKU:              snapshot.SKU,
		Type:             snapshot.Type,
		QuantityExpected: snapshot.QuantityExpected,
		QuantityActual:   snapshot.QuantityActual,
		Reason:           snapshot.Reason,
		ReportedBy:       snapshot.ReportedBy.String(),
		Status:           snapshot.Status,
		Resolution:       snapshot.Resolution,
		ResolutionNotes:  snapshot.ResolutionNotes,
		ResolvedBy:       optionalID(snapshot.ResolvedBy),
		ResolvedAt:       snapshot.ResolvedAt,
	}
}

func toCountEntryResponse(snapshot queries.GetCountEntryQueryResponse) countEntryResponse {
	return countEntryResponse{
		ID:                      snapshot.ID.String(),
		PlanID:                  snapshot.PlanID.String(),
		SKU:                     snapshot.SKU,
		BinLocation:             snapshot.BinLocation,
		SystemQuantity:          snapshot.SystemQuantity,
		CountedQuantity:         snapshot.CountedQuantity,
		CountedBy:               snapshot.CountedBy.String(),
		CountedAt:               snapshot.CountedAt,
		Variance:                snapshot.Variance,
		VariancePercent:         snapshot.VariancePercent,
		VarianceStatus:          snapshot.VarianceStatus,
		ReviewedBy:              optionalID(snapshot.ReviewedBy),
		AdjustmentTransactionID: optionalID(snapshot.AdjustmentTransactionID),
	}
}
