package orgs

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// RegisterRoutes registers all organization routes.
func RegisterRoutes(e *echo.Echo, h *Handler, service OrgService, authService auth.AuthService) {
	api := e.Group("/api/orgs")

	// The role endpoint sits outside RequireAuth: it answers unauthenticated
	// callers with its own fixed body instead of the generic error shape.
	api.GET("/:orgID/role", h.Role)

	authed := api.Group("", auth.RequireAuth(authService))
	authed.POST("", h.Create)
	authed.GET("", h.List)

	// Any resolved role may view the org itself.
	authed.GET("/:orgID", h.Get,
		RequireOrgAccess(service, GateOptions{RequireRole: true}))

	// Membership management is admin-only and closed to clients.
	members := authed.Group("/:orgID/members",
		RequireOrgAccess(service, GateOptions{RequireRole: true, RequireAdmin: true, TeamOnly: true}))
	members.GET("", h.ListMembers)
	members.POST("", h.AddMember)
	members.PUT("/:userID", h.UpdateMemberRole)
	members.DELETE("/:userID", h.RemoveMember)
}
