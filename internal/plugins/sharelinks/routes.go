package sharelinks

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/middleware"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
)

// RegisterRoutes registers all share link routes.
func RegisterRoutes(e *echo.Echo, h *Handler, orgService orgs.OrgService, authService auth.AuthService) {
	// Public verification door. Tokens are unguessable, but the password
	// check is brute-forceable, so the endpoint is rate limited.
	public := e.Group("/api/links")
	public.POST("/verify", h.Verify, middleware.RateLimit(20, time.Minute))
	public.POST("/accept", h.AcceptInvite,
		auth.RequireAuth(authService), middleware.RateLimit(20, time.Minute))

	// Link management inside an org.
	links := e.Group("/api/orgs/:orgID/links", auth.RequireAuth(authService))

	// The whole team may see the (masked) link list.
	links.GET("", h.List,
		orgs.RequireOrgAccess(orgService, orgs.GateOptions{RequireRole: true, TeamOnly: true}))

	admin := orgs.RequireOrgAccess(orgService, orgs.GateOptions{RequireRole: true, RequireAdmin: true, TeamOnly: true})
	links.POST("/review", h.CreateReviewLink, admin)
	links.POST("/invite", h.CreateInvite, admin)
	links.DELETE("/:linkID", h.Revoke, admin)
}
