package visits

import (
	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
)

// RegisterRoutes registers the visit routes. Viewing is open to every
// resolved role; scheduling and crew management belong to the team, with
// collaborators included since subcontractors run their own visits.
func RegisterRoutes(e *echo.Echo, h *Handler, orgService orgs.OrgService, authService auth.AuthService) {
	view := orgs.RequireOrgAccess(orgService, orgs.GateOptions{RequireRole: true})
	write := orgs.RequireOrgAccess(orgService, orgs.GateOptions{
		RequireRole:        true,
		TeamOnly:           true,
		AllowCollaborators: true,
	})

	e.GET("/api/orgs/:orgID/projects/:projectID/visits", h.ListByProject,
		auth.RequireAuth(authService), view)

	g := e.Group("/api/orgs/:orgID/visits", auth.RequireAuth(authService))
	g.GET("/:visitID", h.Get, view)
	g.POST("", h.Create, write)
	g.PUT("/:visitID", h.Update, write)
	g.DELETE("/:visitID", h.Delete, write)
	g.POST("/:visitID/crew", h.InviteCrew, write)

	// RSVP is the invitee acting on their own row, so team gating is
	// enough; the repository rejects responses from the uninvited.
	g.PUT("/:visitID/rsvp", h.RSVP, write)
}
