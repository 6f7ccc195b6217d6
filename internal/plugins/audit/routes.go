package audit

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
)

// RegisterRoutes registers the audit routes. The trail records privileged
// actions, so reading it is itself admin-only.
func RegisterRoutes(e *echo.Echo, h *Handler, orgService orgs.OrgService, authService auth.AuthService) {
	g := e.Group("/api/orgs/:orgID/audit",
		auth.RequireAuth(authService),
		orgs.RequireOrgAccess(orgService, orgs.GateOptions{
			RequireRole:  true,
			RequireAdmin: true,
			TeamOnly:     true,
		}))

	g.GET("", h.Activity)
}
