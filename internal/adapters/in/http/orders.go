package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// respondOrder reloads the order through the read side and writes it with
// the given status. Mutation endpoints answer with the updated snapshot so
// clients never need a follow-up GET to learn the transition outcome.
func (s *Server) respondOrder(ctx echo.Context, status int, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(status, toOrderResponse(snapshot))
}

func (s *Server) handleCreateOrder(ctx echo.Context) error {
	var body createOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	items := make([]commands.ItemSpec, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, commands.ItemSpec{
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			BinLocation: item.BinLocation,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, body.Priority, items)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusCreated, orderID)
}

func (s *Server) handleClaimOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, userID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.ClaimOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleUnclaimOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body reasonRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUnclaimOrderCommand(orderID, userID(ctx), body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.UnclaimOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleRecordPick(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body recordPickRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	taskID, err := kernel.UUIDFromString(body.TaskID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRecordPickCommand(orderID, taskID, userID(ctx), body.Quantity)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.RecordPick.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleUndoPick(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body undoPickRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	taskID, err := kernel.UUIDFromString(body.TaskID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUndoPickCommand(orderID, taskID, userID(ctx), body.Quantity, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.UndoPick.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleSkipTask(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body skipTaskRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	taskID, err := kernel.UUIDFromString(body.TaskID)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSkipTaskCommand(orderID, taskID, userID(ctx), body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.SkipTask.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleRevertSkip(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body revertSkipRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	taskID, err := kernel.UUIDFromString(body.TaskID)
	if err != nil {
		return respondError(ctx, err)
	}

	target, err := parseTaskStatus(body.Target)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRevertSkipCommand(orderID, taskID, target)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.RevertSkip.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleCompletePicking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	// Body is optional; completing without an override is the common case.
	var body completePickingRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}

	cmd, err := commands.NewCompletePickingCommand(orderID, userID(ctx), body.Override)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.CompletePicking.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleClaimForPacking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewClaimForPackingCommand(orderID, userID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.ClaimForPacking.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleUnclaimPacking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body reasonRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUnclaimPackingCommand(orderID, userID(ctx), body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.UnclaimPacking.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleCompletePacking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCompletePackingCommand(orderID, userID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.CompletePacking.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleShipOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewShipOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.ShipOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleCancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body reasonRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, body.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) handleGetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(snapshot))
}

func (s *Server) handleGetActiveOrders(ctx echo.Context) error {
	result, err := s.handlers.GetActiveOrders.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]activeOrderResponse, 0, len(result))
	for _, row := range result {
		response = append(response, activeOrderResponse{
			ID:              row.ID.String(),
			Status:          row.Status,
			Priority:        row.Priority,
			PickerID:        optionalID(row.PickerID),
			PackerID:        optionalID(row.PackerID),
			ItemCount:       row.ItemCount,
			PickedItemCount: row.PickedItemCount,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}
