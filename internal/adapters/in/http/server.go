// Package http exposes the fulfillment workflows over a REST surface.
// Handlers translate requests into commands and queries, and map domain
// errors onto HTTP status codes; no business rules live here.
package http

import (
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handlers bundles every command and query handler the server routes to.
type Handlers struct {
	CreateOrder          commands.CreateOrderCommandHandler
	ClaimOrder           commands.ClaimOrderCommandHandler
	UnclaimOrder         commands.UnclaimOrderCommandHandler
	RecordPick           commands.RecordPickCommandHandler
	UndoPick             commands.UndoPickCommandHandler
	SkipTask             commands.SkipTaskCommandHandler
	RevertSkip           commands.RevertSkipCommandHandler
	CompletePicking      commands.CompletePickingCommandHandler
	ClaimForPacking      commands.ClaimForPackingCommandHandler
	UnclaimPacking       commands.UnclaimPackingCommandHandler
	CompletePacking      commands.CompletePackingCommandHandler
	ShipOrder            commands.ShipOrderCommandHandler
	CancelOrder          commands.CancelOrderCommandHandler
	LogException         commands.LogExceptionCommandHandler
	ResolveException     commands.ResolveExceptionCommandHandler
	CreateCountEntry     commands.CreateCountEntryCommandHandler
	UpdateVarianceStatus commands.UpdateVarianceStatusCommandHandler
	ReconcilePlan        commands.ReconcilePlanCommandHandler

	GetOrder          queries.GetOrderQueryHandler
	GetActiveOrders   queries.GetActiveOrdersQueryHandler
	GetOpenExceptions queries.GetOpenExceptionsQueryHandler
	GetException      queries.GetExceptionQueryHandler
	GetCountEntry     queries.GetCountEntryQueryHandler
	GetPlanEntries    queries.GetPlanEntriesQueryHandler
}

// Server wires the REST routes to the application layer.
type Server struct {
	handlers Handlers
}

// NewServer creates a new HTTP server over the given handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes mounts all routes under /api/v1 and installs the
// request validator and auth-context middleware.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = &requestValidator{validate: validator.New()}

	api := e.Group("/api/v1", authContext)

	api.POST("/orders", s.handleCreateOrder, requireRole(RoleSupervisor, RoleAdmin))
	api.GET("/orders/active", s.handleGetActiveOrders)
	api.GET("/orders/:id", s.handleGetOrder)
	api.POST("/orders/:id/claim", s.handleClaimOrder, requireRole(RolePicker))
	api.POST("/orders/:id/unclaim", s.handleUnclaimOrder, requireRole(RolePicker))
	api.POST("/orders/:id/pick", s.handleRecordPick, requireRole(RolePicker))
	api.POST("/orders/:id/undo-pick", s.handleUndoPick, requireRole(RolePicker))
	api.POST("/orders/:id/skip-task", s.handleSkipTask, requireRole(RolePicker))
	api.POST("/orders/:id/revert-skip", s.handleRevertSkip, requireRole(RolePicker))
	api.POST("/orders/:id/complete", s.handleCompletePicking, requireRole(RolePicker))
	api.POST("/orders/:id/claim-for-packing", s.handleClaimForPacking, requireRole(RolePacker))
	api.POST("/orders/:id/unclaim-packing", s.handleUnclaimPacking, requireRole(RolePacker))
	api.POST("/orders/:id/complete-packing", s.handleCompletePacking, requireRole(RolePacker))
	api.POST("/orders/:id/ship", s.handleShipOrder, requireRole(RoleSupervisor, RoleAdmin))
	api.POST("/orders/:id/cancel", s.handleCancelOrder, requireRole(RoleSupervisor, RoleAdmin))

	api.POST("/exceptions/log", s.handleLogException)
	api.GET("/exceptions/open", s.handleGetOpenExceptions)
	api.POST("/exceptions/:id/resolve", s.handleResolveException, requireRole(RoleSupervisor, RoleAdmin))

	api.POST("/cycle-count/entries", s.handleCreateCountEntry)
	api.PATCH("/cycle-count/entries/:id/variance", s.handleUpdateVarianceStatus, requireRole(RoleSupervisor, RoleAdmin))
	api.POST("/cycle-count/plans/:id/reconcile", s.handleReconcilePlan, requireRole(RoleSupervisor, RoleAdmin))
}

// requestValidator adapts go-playground/validator to echo's Validator
// interface. Violations surface as 400s through the shared error mapper.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}
