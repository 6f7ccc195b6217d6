package storagesync

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
)

// RegisterRoutes registers the storage integration routes. Managing the
// external storage link is an admin concern throughout, status included.
func RegisterRoutes(e *echo.Echo, h *Handler, orgService orgs.OrgService, authService auth.AuthService) {
	g := e.Group("/api/orgs/:orgID/storage",
		auth.RequireAuth(authService),
		orgs.RequireOrgAccess(orgService, orgs.GateOptions{
			RequireRole:  true,
			RequireAdmin: true,
			TeamOnly:     true,
		}))

	g.GET("", h.Status)
	g.POST("", h.SaveAccount)
	g.DELETE("", h.Disconnect)
}
