package projects

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
)

// RegisterRoutes registers the project routes. Every role class may view
// projects (a client checking job progress is the product's point); writes
// stay with the team, collaborators included.
func RegisterRoutes(e *echo.Echo, h *Handler, orgService orgs.OrgService, authService auth.AuthService) {
	g := e.Group("/api/orgs/:orgID/projects", auth.RequireAuth(authService))

	view := orgs.RequireOrgAccess(orgService, orgs.GateOptions{RequireRole: true})
	g.GET("", h.List, view)
	g.GET("/:projectID", h.Get, view)

	write := orgs.RequireOrgAccess(orgService, orgs.GateOptions{
		RequireRole:        true,
		TeamOnly:           true,
		AllowCollaborators: true,
	})
	g.POST("", h.Create, write)
	g.PUT("/:projectID", h.Update, write)
}
