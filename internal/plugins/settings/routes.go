package settings

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
)

// RegisterRoutes registers the org settings routes. Settings hold upstream
// URLs and manual data values, so all access is admin-only.
func RegisterRoutes(e *echo.Echo, h *Handler, orgService orgs.OrgService, authService auth.AuthService) {
	g := e.Group("/api/orgs/:orgID/settings",
		auth.RequireAuth(authService),
		orgs.RequireOrgAccess(orgService, orgs.GateOptions{
			RequireRole:  true,
			RequireAdmin: true,
			TeamOnly:     true,
		}))

	g.GET("", h.List)
	g.PUT("/:key", h.Set)
	g.DELETE("/:key", h.Delete)
}
