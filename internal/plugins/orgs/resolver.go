package orgs

import (
	"context"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// Role resolution is a two-tier lookup modeled as an explicit chain of
// sources, first authoritative hit wins:
//
//  1. the durable org_members row -- authoritative but costs a query
//  2. the provisioning-time role hint on the session -- free, possibly stale
//
// The chain keeps the precedence rule in one auditable place instead of
// nested conditionals. A missing membership row is a valid state, not an
// error; only a store outage fails resolution, and it fails loudly so a
// caller can never mistake "could not check" for "checked and denied".

// roleSource is one tier of the resolution chain.
type roleSource interface {
	// lookup returns the role and resolved org scope for the identity.
	// found=false means this source has no answer and the chain continues.
	// A non-nil error aborts the chain.
	lookup(ctx context.Context, orgID string, session *auth.Session) (role, resolvedOrg string, found bool, err error)
}

// membershipSource resolves against the durable org_members record.
type membershipSource struct {
	repo MembershipRepository
}

func (s *membershipSource) lookup(ctx context.Context, orgID string, session *auth.Session) (string, string, bool, error) {
	role, found, err := s.repo.FindRole(ctx, orgID, session.UserID)
	if err != nil {
		return "", "", false, apperror.NewUnavailable(err)
	}
	if !found {
		return "", "", false, nil
	}
	return role, orgID, true, nil
}

// hintSource resolves against the account-level role hint carried on the
// session claim. It never resolves an org scope: the hint is stamped at
// provisioning time and knows nothing about the requested organization.
// Ownership requires a durable membership row, so an owner hint is capped
// to admin.
type hintSource struct{}

func (s *hintSource) lookup(_ context.Context, _ string, session *auth.Session) (string, string, bool, error) {
	if session.AppRole == nil || *session.AppRole == "" {
		return "", "", false, nil
	}
	role := *session.AppRole
	if role == RoleOwner {
		role = RoleAdmin
	}
	return role, "", true, nil
}

// RoleResolver computes a caller's AccessDecision for an organization.
type RoleResolver struct {
	chain []roleSource
}

// NewRoleResolver builds the standard two-tier resolver over the given
// membership repository.
func NewRoleResolver(repo MembershipRepository) *RoleResolver {
	return &RoleResolver{
		chain: []roleSource{
			&membershipSource{repo: repo},
			&hintSource{},
		},
	}
}

// Resolve walks the source chain and derives the category flags for the
// first role found. A nil session yields a nil decision (unauthenticated);
// an authenticated caller with no role anywhere yields a non-nil decision
// with no flags set. Resolution performs reads only.
func (r *RoleResolver) Resolve(ctx context.Context, orgID string, session *auth.Session) (*AccessDecision, error) {
	if session == nil {
		return nil, nil
	}

	for _, source := range r.chain {
		role, resolvedOrg, found, err := source.lookup(ctx, orgID, session)
		if err != nil {
			return nil, err
		}
		if found {
			return decisionFor(role, resolvedOrg), nil
		}
	}

	// Authenticated but roleless: a valid least-privileged state.
	return &AccessDecision{}, nil
}
