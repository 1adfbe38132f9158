package http

import (
	"net/http"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Worker roles injected by the upstream auth proxy. The proxy
// authenticates and forwards identity in headers; this service only
// enforces the role matrix.
const (
	RolePicker     = "PICKER"
	RolePacker     = "PACKER"
	RoleSupervisor = "SUPERVISOR"
	RoleAdmin      = "ADMIN"
)

const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"

	contextKeyUserID   = "auth.userID"
	contextKeyUserRole = "auth.userRole"
)

// authContext pulls the caller's identity out of the proxy headers and
// stores it on the request context. Requests without a valid identity
// are rejected before reaching any handler.
func authContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		rawID := ctx.Request().Header.Get(headerUserID)
		if rawID == "" {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "missing " + headerUserID + " header",
			})
		}

		userID, err := kernel.UUIDFromString(rawID)
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "invalid " + headerUserID + " header",
			})
		}

		ctx.Set(contextKeyUserID, userID)
		ctx.Set(contextKeyUserRole, ctx.Request().Header.Get(headerUserRole))
		return next(ctx)
	}
}

// requireRole builds a middleware allowing only the listed roles.
func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			role, _ := ctx.Get(contextKeyUserRole).(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(ctx)
				}
			}

			return ctx.JSON(http.StatusForbidden, errorResponse{
				Code:    "FORBIDDEN",
				Message: "role " + role + " may not perform this operation",
			})
		}
	}
}

// userID returns the authenticated caller set by authContext.
func userID(ctx echo.Context) kernel.UUID {
	id, _ := ctx.Get(contextKeyUserID).(kernel.UUID)
	return id
}
