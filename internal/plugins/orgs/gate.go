package orgs

import (
	"github.com/jobdeck/jobdeck/internal/apperror"
)

// GateOptions declares what an operation class requires of the caller.
// Collaborator access is a per-operation decision, not a global flag:
// some team surfaces (project lists, field data) admit collaborators,
// others (member management, integrations) do not.
type GateOptions struct {
	// RequireRole demands some resolved role -- a durable membership or an
	// account-level hint. Used by view surfaces open to every role class,
	// clients included.
	RequireRole bool

	// RequireAdmin restricts the operation to owner/admin roles.
	RequireAdmin bool

	// TeamOnly blocks client-role callers outright and requires team
	// standing (or collaborator standing when AllowCollaborators is set).
	TeamOnly bool

	// AllowCollaborators lets collaborator-role callers through a
	// TeamOnly gate. Ignored when TeamOnly is false.
	AllowCollaborators bool
}

// Grant is what a passing gate hands back for downstream use.
type Grant struct {
	UserID string
	Role   string
	OrgID  string
}

// Authorize is the pure decision function at the core of every guarded
// route: no I/O, fully determined by the resolved decision and the gate
// options, and therefore unit-testable without a backing store.
//
// Denial taxonomy:
//   - nil decision: no identity was resolved at all -> 401 unauthenticated
//     (distinct from "resolved but low-privilege")
//   - client caller on a TeamOnly operation -> 403, client reason
//   - missing team standing on a TeamOnly operation -> 403, insufficient role
//   - RequireAdmin without admin standing -> 403, insufficient role
func Authorize(userID string, decision *AccessDecision, opts GateOptions) (*Grant, error) {
	if decision == nil {
		return nil, apperror.NewUnauthorized("authentication required")
	}

	if opts.RequireRole && decision.Role == "" {
		return nil, apperror.NewForbidden("no role in this organization")
	}

	if opts.TeamOnly {
		if decision.IsClient {
			return nil, apperror.NewForbidden("client accounts cannot perform this action")
		}
		allowed := decision.IsTeam || (opts.AllowCollaborators && decision.IsCollaborator)
		if !allowed {
			return nil, apperror.NewForbidden("insufficient role for this action")
		}
	}

	if opts.RequireAdmin && !decision.IsAdmin {
		return nil, apperror.NewForbidden("insufficient role for this action")
	}

	return &Grant{
		UserID: userID,
		Role:   decision.Role,
		OrgID:  decision.OrgID,
	}, nil
}
