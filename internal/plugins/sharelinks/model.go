// Package sharelinks implements tokenized share links: review links that
// expose a project to outside viewers, and invite links that grant an
// organization role on acceptance.
//
// Tokens are 256-bit random values handed out exactly once at creation.
// Persistence only ever sees the SHA-256 hash; every lookup goes through
// the hash, so a wrong token dies at the lookup without touching any other
// check. Links may additionally be bound to a password, stored as an
// scrypt record.
package sharelinks

import (
	"context"
	"time"
)

// Link kinds.
const (
	KindReview = "review"
	KindInvite = "invite"
)

// ShareLink is the persisted link record. TokenHash and PasswordHash never
// leave the server.
type ShareLink struct {
	ID           string     `json:"id"`
	OrgID        string     `json:"org_id"`
	Kind         string     `json:"kind"`
	TokenHash    string     `json:"-"`
	TokenPrefix  string     `json:"token_prefix"`
	Label        string     `json:"label"`
	PasswordHash string     `json:"-"`
	ProjectID    *string    `json:"project_id,omitempty"`
	InviteRole   *string    `json:"invite_role,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// Expired reports whether the link's expiry has passed at the given instant.
// A nil ExpiresAt never expires.
func (l *ShareLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Active reports whether the link is usable: not revoked and not expired.
func (l *ShareLink) Active(now time.Time) bool {
	return l.RevokedAt == nil && !l.Expired(now)
}

// LinkInfo is the list-view shape. It exposes the display prefix and a
// protection flag, never the hashes.
type LinkInfo struct {
	ID                string     `json:"id"`
	Kind              string     `json:"kind"`
	TokenPrefix       string     `json:"token_prefix"`
	Label             string     `json:"label"`
	PasswordProtected bool       `json:"password_protected"`
	ProjectID         *string    `json:"project_id,omitempty"`
	InviteRole        *string    `json:"invite_role,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	RevokedAt         *time.Time `json:"revoked_at,omitempty"`
}

// CreatedLink is returned once, at creation, and is the only place the raw
// token ever appears.
type CreatedLink struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Token     string     `json:"token"`
	Masked    string     `json:"masked_token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ReviewAccess is what a successful verification grants: enough scope to
// serve the shared project, nothing more.
type ReviewAccess struct {
	OrgID     string  `json:"org_id"`
	ProjectID *string `json:"project_id,omitempty"`
	Label     string  `json:"label"`
}

// MembershipGranter upserts a membership row when an invite is accepted.
// Implemented by the orgs service; the invite link itself is the authority
// for the grant, so no actor check happens here.
type MembershipGranter interface {
	GrantMembership(ctx context.Context, orgID, userID, role string) error
}

// AuditRecorder records link lifecycle events. May be nil in tests.
type AuditRecorder interface {
	Record(ctx context.Context, orgID, actorID, action, detail string)
}

// --- Request DTOs ---

// CreateReviewLinkRequest holds the data for creating a review link.
type CreateReviewLinkRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
	Label     string `json:"label" validate:"required,min=1,max=120"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=4,max=128"`
	ExpiresIn int    `json:"expires_in_hours,omitempty" validate:"omitempty,min=1,max=8760"`
}

// CreateInviteRequest holds the data for creating an invite link.
type CreateInviteRequest struct {
	Role      string `json:"role" validate:"required,oneof=admin member collaborator client"`
	Label     string `json:"label" validate:"required,min=1,max=120"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=4,max=128"`
	ExpiresIn int    `json:"expires_in_hours,omitempty" validate:"omitempty,min=1,max=8760"`
}

// VerifyRequest holds the data for the public verification endpoint.
type VerifyRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password,omitempty"`
}

// AcceptInviteRequest holds the data for accepting an invite link.
type AcceptInviteRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password,omitempty"`
}
