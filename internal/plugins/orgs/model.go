// Package orgs manages organizations (tenant boundaries) and their role-based
// membership system. An organization is the top-level unit that owns projects,
// share links, integrations, and field-data caches.
//
// The package also owns access-role resolution (two-tier: durable membership
// record first, provisioning-time role hint second) and the authorization
// gate that turns a resolved AccessDecision into an allow/deny for a given
// operation class.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package orgs

import (
	"context"
	"time"
)

// --- Role System ---

// Role literals stored in the org_members.role column. Roles are plain
// strings rather than ordered integers because the category flags derived
// from them (team / collaborator / client) are not a single hierarchy:
// a collaborator is neither above nor below a client.
const (
	RoleOwner        = "owner"
	RoleAdmin        = "admin"
	RoleMember       = "member"
	RoleCollaborator = "collaborator"
	RoleClient       = "client"
)

// roleFlags is the category-flag set derived from a role literal.
type roleFlags struct {
	IsAdmin        bool
	IsOwner        bool
	IsClient       bool
	IsCollaborator bool
	IsTeam         bool
}

// roleTable is the single declaration site mapping every known role literal
// to its category flags. Any role not present here resolves to the zero
// value -- least privileged, no special access. Adding a new role means
// adding exactly one row.
var roleTable = map[string]roleFlags{
	RoleOwner:        {IsAdmin: true, IsOwner: true, IsTeam: true},
	RoleAdmin:        {IsAdmin: true, IsTeam: true},
	RoleMember:       {IsTeam: true},
	RoleCollaborator: {IsCollaborator: true},
	RoleClient:       {IsClient: true},
}

// ValidRole reports whether s is a known role literal.
func ValidRole(s string) bool {
	_, ok := roleTable[s]
	return ok
}

// AssignableRoles lists the roles an admin may grant through member
// management or invite links. Owner is excluded: ownership moves only
// through an explicit transfer.
func AssignableRoles() []string {
	return []string{RoleAdmin, RoleMember, RoleCollaborator, RoleClient}
}

// --- Access Decision ---

// AccessDecision is the derived (never persisted) result of resolving a
// caller's effective role within an organization. Empty Role means the
// caller has no resolved role; empty OrgID means the role came from the
// account-level hint rather than a durable membership row.
type AccessDecision struct {
	Role  string `json:"role"`
	OrgID string `json:"org_id"`

	IsAdmin        bool `json:"is_admin"`
	IsOwner        bool `json:"is_owner"`
	IsClient       bool `json:"is_client"`
	IsCollaborator bool `json:"is_collaborator"`
	IsTeam         bool `json:"is_team"`
}

// decisionFor builds an AccessDecision from a role literal and org scope
// using the role table. Unknown roles produce a decision with no flags set.
func decisionFor(role, orgID string) *AccessDecision {
	flags := roleTable[role]
	return &AccessDecision{
		Role:           role,
		OrgID:          orgID,
		IsAdmin:        flags.IsAdmin,
		IsOwner:        flags.IsOwner,
		IsClient:       flags.IsClient,
		IsCollaborator: flags.IsCollaborator,
		IsTeam:         flags.IsTeam,
	}
}

// --- Domain Models ---

// Org represents a tenant organization.
type Org struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member represents a user's durable membership in an organization.
// Unique per (org, user) pair; this row is authoritative over any
// account-level role hint.
type Member struct {
	OrgID    string    `json:"org_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Joined from users table for display purposes.
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// --- Cross-Plugin Interfaces ---

// UserFinder finds users for membership operations. Avoids importing the
// auth plugin's repository directly. Implemented by UserFinderAdapter which
// wraps auth.UserRepository.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*MemberUser, error)
	FindUserByID(ctx context.Context, id string) (*MemberUser, error)
}

// MemberUser is the minimal user info needed for membership operations.
type MemberUser struct {
	ID          string
	Email       string
	DisplayName string
}

// AuditRecorder records privileged actions to the audit trail. Implemented
// by the audit plugin; may be nil when auditing is not wired (tests).
type AuditRecorder interface {
	Record(ctx context.Context, orgID, actorID, action, detail string)
}

// --- Request DTOs (bound from HTTP requests) ---

// CreateOrgRequest holds the data for creating an organization.
type CreateOrgRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// AddMemberRequest holds the data for adding a member to an organization.
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin member collaborator client"`
}

// UpdateRoleRequest holds the data for changing a member's role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member collaborator client"`
}

// RoleResponse is the wire shape of the role endpoint. Role is a pointer so
// an unresolved role serializes as JSON null rather than "".
type RoleResponse struct {
	Role    *string `json:"role"`
	IsAdmin bool    `json:"is_admin"`
	IsOwner bool    `json:"is_owner"`
}
