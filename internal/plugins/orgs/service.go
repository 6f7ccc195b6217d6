package orgs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
	"github.com/jobdeck/jobdeck/internal/sanitize"
)

// CreateOrgInput is the validated input for creating an organization.
type CreateOrgInput struct {
	Name string
}

// OrgService handles business logic for organizations and memberships.
// It owns slug generation, membership rules, and access resolution.
type OrgService interface {
	// Org operations
	Create(ctx context.Context, userID string, input CreateOrgInput) (*Org, error)
	GetByID(ctx context.Context, id string) (*Org, error)
	ListForUser(ctx context.Context, userID string) ([]Org, error)

	// Access resolution
	ResolveAccess(ctx context.Context, orgID string, session *auth.Session) (*AccessDecision, error)

	// Membership
	AddMember(ctx context.Context, orgID, actorID, email, role string) error
	UpdateMemberRole(ctx context.Context, orgID, actorID, targetUserID, role string) error
	RemoveMember(ctx context.Context, orgID, actorID, targetUserID string) error
	ListMembers(ctx context.Context, orgID string) ([]Member, error)

	// GrantMembership upserts a membership row without actor checks. Used
	// by invite-link acceptance, where the invite itself is the authority.
	GrantMembership(ctx context.Context, orgID, userID, role string) error
}

// orgService implements OrgService.
type orgService struct {
	repo     OrgRepository
	members  MembershipRepository
	users    UserFinder
	resolver *RoleResolver
	audit    AuditRecorder // May be nil when auditing is not wired.
}

// NewOrgService creates a new org service with the given dependencies.
func NewOrgService(repo OrgRepository, members MembershipRepository, users UserFinder, audit AuditRecorder) OrgService {
	return &orgService{
		repo:     repo,
		members:  members,
		users:    users,
		resolver: NewRoleResolver(members),
		audit:    audit,
	}
}

// --- Org operations ---

// Create creates a new organization and adds the creator as its owner.
func (s *orgService) Create(ctx context.Context, userID string, input CreateOrgInput) (*Org, error) {
	name := sanitize.Text(input.Name)
	if name == "" {
		return nil, apperror.NewBadRequest("organization name is required")
	}
	if len(name) > 120 {
		return nil, apperror.NewBadRequest("organization name must be at most 120 characters")
	}

	slug, err := s.generateSlug(ctx, name)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating slug: %w", err))
	}

	now := time.Now().UTC()
	org := &Org{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating org: %w", err))
	}

	// Auto-add the creator as owner.
	member := &Member{
		OrgID:    org.ID,
		UserID:   userID,
		Role:     RoleOwner,
		JoinedAt: now,
	}
	if err := s.members.Upsert(ctx, member); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("adding owner member: %w", err))
	}

	slog.Info("org created",
		slog.String("org_id", org.ID),
		slog.String("slug", org.Slug),
		slog.String("user_id", userID),
	)

	return org, nil
}

func (s *orgService) GetByID(ctx context.Context, id string) (*Org, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *orgService) ListForUser(ctx context.Context, userID string) ([]Org, error) {
	orgs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing orgs: %w", err))
	}
	return orgs, nil
}

// --- Access resolution ---

// ResolveAccess computes the caller's effective role and category flags for
// the given org. See RoleResolver for precedence rules. A store outage comes
// back as a 503 apperror, never as a silent denial.
func (s *orgService) ResolveAccess(ctx context.Context, orgID string, session *auth.Session) (*AccessDecision, error) {
	return s.resolver.Resolve(ctx, orgID, session)
}

// --- Membership ---

// AddMember adds a user to an organization by their email address.
// The owner role cannot be assigned this way.
func (s *orgService) AddMember(ctx context.Context, orgID, actorID, email, role string) error {
	if !ValidRole(role) {
		return apperror.NewBadRequest("invalid role")
	}
	if role == RoleOwner {
		return apperror.NewBadRequest("cannot add a member as owner")
	}

	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return apperror.NewBadRequest("no user found with that email")
	}

	// Reject if already a member: role changes go through UpdateMemberRole
	// so they are auditable as such.
	_, found, err := s.members.FindRole(ctx, orgID, user.ID)
	if err != nil {
		return apperror.NewUnavailable(err)
	}
	if found {
		return apperror.NewConflict("user is already a member of this organization")
	}

	member := &Member{
		OrgID:    orgID,
		UserID:   user.ID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.members.Upsert(ctx, member); err != nil {
		return apperror.NewInternal(fmt.Errorf("adding member: %w", err))
	}

	s.recordAudit(ctx, orgID, actorID, "member.add", fmt.Sprintf("user %s as %s", user.ID, role))
	slog.Info("member added to org",
		slog.String("org_id", orgID),
		slog.String("user_id", user.ID),
		slog.String("role", role),
	)
	return nil
}

// UpdateMemberRole changes a member's role. The owner's role cannot be
// changed, and nobody can be promoted to owner through this path.
func (s *orgService) UpdateMemberRole(ctx context.Context, orgID, actorID, targetUserID, role string) error {
	if !ValidRole(role) {
		return apperror.NewBadRequest("invalid role")
	}
	if role == RoleOwner {
		return apperror.NewBadRequest("cannot promote to owner")
	}

	current, found, err := s.members.FindRole(ctx, orgID, targetUserID)
	if err != nil {
		return apperror.NewUnavailable(err)
	}
	if !found {
		return apperror.NewNotFound("user is not a member of this organization")
	}
	if current == RoleOwner {
		return apperror.NewBadRequest("cannot change the owner's role")
	}

	member := &Member{
		OrgID:    orgID,
		UserID:   targetUserID,
		Role:     role,
		JoinedAt: time.Now().UTC(), // Ignored on update; the row keeps its original joined_at.
	}
	if err := s.members.Upsert(ctx, member); err != nil {
		return apperror.NewInternal(fmt.Errorf("updating role: %w", err))
	}

	s.recordAudit(ctx, orgID, actorID, "member.role_change", fmt.Sprintf("user %s: %s -> %s", targetUserID, current, role))
	slog.Info("member role updated",
		slog.String("org_id", orgID),
		slog.String("user_id", targetUserID),
		slog.String("new_role", role),
	)
	return nil
}

// RemoveMember removes a user from an organization. The owner cannot be removed.
func (s *orgService) RemoveMember(ctx context.Context, orgID, actorID, targetUserID string) error {
	current, found, err := s.members.FindRole(ctx, orgID, targetUserID)
	if err != nil {
		return apperror.NewUnavailable(err)
	}
	if !found {
		return apperror.NewNotFound("user is not a member of this organization")
	}
	if current == RoleOwner {
		return apperror.NewBadRequest("cannot remove the organization owner")
	}

	if err := s.members.Remove(ctx, orgID, targetUserID); err != nil {
		return apperror.NewInternal(fmt.Errorf("removing member: %w", err))
	}

	s.recordAudit(ctx, orgID, actorID, "member.remove", "user "+targetUserID)
	slog.Info("member removed from org",
		slog.String("org_id", orgID),
		slog.String("user_id", targetUserID),
	)
	return nil
}

func (s *orgService) ListMembers(ctx context.Context, orgID string) ([]Member, error) {
	members, err := s.members.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing members: %w", err))
	}
	return members, nil
}

// GrantMembership adds a membership row for a user with no existing role.
// Callers (invite acceptance) have already established the authority to
// grant the role. Existing memberships are left untouched: re-accepting an
// invite never changes the role the member already holds.
func (s *orgService) GrantMembership(ctx context.Context, orgID, userID, role string) error {
	if !ValidRole(role) || role == RoleOwner {
		return apperror.NewBadRequest("invalid role")
	}

	_, found, err := s.members.FindRole(ctx, orgID, userID)
	if err != nil {
		return apperror.NewUnavailable(err)
	}
	if found {
		return nil
	}

	member := &Member{
		OrgID:    orgID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.members.Upsert(ctx, member); err != nil {
		return apperror.NewInternal(fmt.Errorf("granting membership: %w", err))
	}

	slog.Info("membership granted",
		slog.String("org_id", orgID),
		slog.String("user_id", userID),
		slog.String("role", role),
	)
	return nil
}

// recordAudit writes an audit entry when a recorder is wired.
func (s *orgService) recordAudit(ctx context.Context, orgID, actorID, action, detail string) {
	if s.audit != nil {
		s.audit.Record(ctx, orgID, actorID, action, detail)
	}
}

// --- Slug generation ---

// slugRe matches runs of characters that are not allowed in a slug.
var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a name to a URL-safe slug: lowercase alphanumerics
// separated by single hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "org"
	}
	return slug
}

// maxSlugAttempts bounds the numbered-suffix search before falling back to
// a random suffix.
const maxSlugAttempts = 100

// generateSlug creates a unique slug for an org. If the base slug is taken,
// appends -2, -3, etc. After maxSlugAttempts, falls back to a random suffix.
func (s *orgService) generateSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	slug := base

	for i := 2; i < maxSlugAttempts+2; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	// Fallback: append random suffix to guarantee uniqueness.
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random slug suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s", base, hex.EncodeToString(b)), nil
}
