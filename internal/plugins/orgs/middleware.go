package orgs

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// contextKeyOrg is the Echo context key for the resolved org context.
const contextKeyOrg = "org_context"

// errMissingOrgContext indicates a handler ran without RequireOrgAccess.
var errMissingOrgContext = errors.New("org context missing: RequireOrgAccess middleware not applied")

// OrgContext holds the resolved organization, the caller's access decision,
// and the grant issued by the authorization gate. Injected into the Echo
// context by RequireOrgAccess for downstream handlers.
type OrgContext struct {
	Org      *Org
	Decision *AccessDecision
	Grant    *Grant
}

// RequireOrgAccess returns middleware that resolves the organization from
// the :orgID URL parameter and the caller's effective role, then runs the
// authorization gate with the given options. All I/O happens here, in the
// resolver; the gate itself is a pure function.
//
// Must be applied AFTER auth.RequireAuth.
func RequireOrgAccess(service OrgService, opts GateOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			orgID := c.Param("orgID")
			if orgID == "" {
				return echo.NewHTTPError(400, "organization ID is required")
			}

			session := auth.GetSession(c)

			// Verify the org exists before resolving roles against it.
			org, err := service.GetByID(c.Request().Context(), orgID)
			if err != nil {
				return err
			}

			decision, err := service.ResolveAccess(c.Request().Context(), orgID, session)
			if err != nil {
				// Resolver failures are store outages, not denials.
				return err
			}

			var userID string
			if session != nil {
				userID = session.UserID
			}

			grant, err := Authorize(userID, decision, opts)
			if err != nil {
				return err
			}

			c.Set(contextKeyOrg, &OrgContext{
				Org:      org,
				Decision: decision,
				Grant:    grant,
			})
			return next(c)
		}
	}
}

// GetOrgContext retrieves the org context from the Echo context.
// Returns nil if RequireOrgAccess middleware was not applied.
func GetOrgContext(c echo.Context) *OrgContext {
	oc, ok := c.Get(contextKeyOrg).(*OrgContext)
	if !ok {
		return nil
	}
	return oc
}
