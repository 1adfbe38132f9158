package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// respondException reloads the exception through the read side and writes
// it with the given status.
func (s *Server) respondException(ctx echo.Context, status int, exceptionID kernel.UUID) error {
	query, err := queries.NewGetExceptionQuery(exceptionID)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.GetException.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(status, toExceptionResponse(snapshot))
}

func (s *Server) handleLogException(ctx echo.Context) error {
	var body logExceptionRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(body.OrderID)
	if err != nil {
		return respondError(ctx, err)
	}
	orderItemID, err := kernel.UUIDFromString(body.OrderItemID)
	if err != nil {
		return respondError(ctx, err)
	}
	exType, err := parseExceptionType(body.Type)
	if err != nil {
		return respondError(ctx, err)
	}

	exceptionID := kernel.NewUUID()
	cmd, err := commands.NewLogExceptionCommand(
		exceptionID, orderID, orderItemID,
		body.SKU, exType,
		body.QuantityExpected, body.QuantityActual,
		body.Reason, userID(ctx),
	)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.LogException.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondException(ctx, http.StatusOK, exceptionID)
}

func (s *Server) handleResolveException(ctx echo.Context) error {
	exceptionID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body resolveExceptionRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	resolution, err := parseResolution(body.Action)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewResolveExceptionCommand(
		exceptionID, resolution,
		body.Notes, body.SubstituteSKU,
		body.NewQuantity, body.NewBinLocation,
		userID(ctx),
	)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.ResolveException.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondException(ctx, http.StatusOK, exceptionID)
}

func (s *Server) handleGetOpenExceptions(ctx echo.Context) error {
	result, err := s.handlers.GetOpenExceptions.Handle(ctx.Request().Context(), queries.NewGetOpenExceptionsQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]openExceptionResponse, 0, len(result))
	for _, row := range result {
		response = append(response, openExceptionResponse{
			ID:               row.ID.String(),
			OrderID:          row.OrderID.String(),
			OrderItemID:      row.OrderItemID.String(),
			SKU:              row.SKU,
			Type:             row.Type,
			QuantityExpected: row.QuantityExpected,
			QuantityActual:   row.QuantityActual,
			Reason:           row.Reason,
			ReportedBy:       row.ReportedBy.String(),
			Status:           row.Status,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}
