package fielddata

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
)

// RegisterRoutes registers the field data routes. Collaborators get access
// alongside the team: a subcontractor on site needs the weather as much as
// an employee does.
func RegisterRoutes(e *echo.Echo, h *Handler, orgService orgs.OrgService, authService auth.AuthService) {
	g := e.Group("/api/orgs/:orgID/fielddata",
		auth.RequireAuth(authService),
		orgs.RequireOrgAccess(orgService, orgs.GateOptions{
			RequireRole:        true,
			TeamOnly:           true,
			AllowCollaborators: true,
		}))

	g.GET("/:plugin", h.Get)
}
