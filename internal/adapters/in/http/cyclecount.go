package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// respondCountEntry reloads the count entry through the read side and
// writes it with the given status.
func (s *Server) respondCountEntry(ctx echo.Context, status int, entryID kernel.UUID) error {
	query, err := queries.NewGetCountEntryQuery(entryID)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.handlers.GetCountEntry.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(status, toCountEntryResponse(snapshot))
}

func (s *Server) handleCreateCountEntry(ctx echo.Context) error {
	var body createCountEntryRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	planID, err := kernel.UUIDFromString(body.PlanID)
	if err != nil {
		return respondError(ctx, err)
	}

	entryID := kernel.NewUUID()
	cmd, err := commands.NewCreateCountEntryCommand(
		entryID, planID,
		body.SKU, body.BinLocation,
		body.CountedQuantity, userID(ctx),
	)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.CreateCountEntry.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondCountEntry(ctx, http.StatusCreated, entryID)
}

func (s *Server) handleUpdateVarianceStatus(ctx echo.Context) error {
	entryID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var body updateVarianceStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "malformed request body"})
	}
	if err := ctx.Validate(&body); err != nil {
		return respondError(ctx, err)
	}

	target, err := parseVarianceStatus(body.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateVarianceStatusCommand(entryID, target, userID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.UpdateVarianceStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return s.respondCountEntry(ctx, http.StatusOK, entryID)
}

func (s *Server) handleReconcilePlan(ctx echo.Context) error {
	planID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewReconcilePlanCommand(planID, userID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	if err := s.handlers.ReconcilePlan.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetPlanEntriesQuery(planID)
	if err != nil {
		return respondError(ctx, err)
	}
	entries, err := s.handlers.GetPlanEntries.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]countEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toCountEntryResponse(entry))
	}
	return ctx.JSON(http.StatusOK, response)
}
