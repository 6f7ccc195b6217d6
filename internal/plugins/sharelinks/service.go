package sharelinks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/orgs"
	"github.com/jobdeck/jobdeck/internal/sanitize"
)

// ShareLinkService handles the share link lifecycle.
type ShareLinkService interface {
	CreateReviewLink(ctx context.Context, orgID, actorID string, req CreateReviewLinkRequest) (*CreatedLink, error)
	CreateInvite(ctx context.Context, orgID, actorID string, req CreateInviteRequest) (*CreatedLink, error)

	// VerifyAccess checks a raw review token (and password, when bound)
	// and returns the granted scope. Verification is idempotent: a link
	// survives any number of verifications unchanged.
	VerifyAccess(ctx context.Context, rawToken, password string) (*ReviewAccess, error)

	// AcceptInvite verifies an invite token and grants the invited role to
	// the authenticated user.
	AcceptInvite(ctx context.Context, rawToken, password, userID string) error

	List(ctx context.Context, orgID string) ([]LinkInfo, error)
	Revoke(ctx context.Context, orgID, actorID, linkID string) error
}

type shareLinkService struct {
	repo      ShareLinkRepository
	granter   MembershipGranter
	audit     AuditRecorder // May be nil when auditing is not wired.
	inviteTTL time.Duration
	now       func() time.Time
}

// NewShareLinkService creates a new share link service. inviteTTL is the
// default lifetime of invite links when the creator does not set one.
func NewShareLinkService(repo ShareLinkRepository, granter MembershipGranter, audit AuditRecorder, inviteTTL time.Duration) ShareLinkService {
	return &shareLinkService{
		repo:      repo,
		granter:   granter,
		audit:     audit,
		inviteTTL: inviteTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// --- Creation ---

func (s *shareLinkService) CreateReviewLink(ctx context.Context, orgID, actorID string, req CreateReviewLinkRequest) (*CreatedLink, error) {
	var expiresAt *time.Time
	if req.ExpiresIn > 0 {
		t := s.now().Add(time.Duration(req.ExpiresIn) * time.Hour)
		expiresAt = &t
	}

	projectID := req.ProjectID
	link, created, err := s.create(ctx, &ShareLink{
		OrgID:     orgID,
		Kind:      KindReview,
		Label:     sanitize.Text(req.Label),
		ProjectID: &projectID,
		CreatedBy: actorID,
		ExpiresAt: expiresAt,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, orgID, actorID, "sharelink.review.create",
		fmt.Sprintf("link %s (%s) for project %s", link.ID, link.TokenPrefix, projectID))
	return created, nil
}

func (s *shareLinkService) CreateInvite(ctx context.Context, orgID, actorID string, req CreateInviteRequest) (*CreatedLink, error) {
	if !orgs.ValidRole(req.Role) || req.Role == orgs.RoleOwner {
		return nil, apperror.NewBadRequest("invalid invite role")
	}

	ttl := s.inviteTTL
	if req.ExpiresIn > 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Hour
	}
	expiresAt := s.now().Add(ttl)

	role := req.Role
	link, created, err := s.create(ctx, &ShareLink{
		OrgID:      orgID,
		Kind:       KindInvite,
		Label:      sanitize.Text(req.Label),
		InviteRole: &role,
		CreatedBy:  actorID,
		ExpiresAt:  &expiresAt,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, orgID, actorID, "sharelink.invite.create",
		fmt.Sprintf("link %s (%s) granting role %s", link.ID, link.TokenPrefix, role))
	return created, nil
}

// create fills in the token material and persists the link. The raw token
// exists only in the returned CreatedLink.
func (s *shareLinkService) create(ctx context.Context, link *ShareLink, password string) (*ShareLink, *CreatedLink, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, nil, apperror.NewInternal(err)
	}

	link.ID = uuid.NewString()
	link.TokenHash = HashToken(token)
	link.TokenPrefix = MaskToken(token)
	link.CreatedAt = s.now()

	if password != "" {
		hash, err := HashPassword(password)
		if err != nil {
			return nil, nil, apperror.NewInternal(err)
		}
		link.PasswordHash = hash
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, nil, apperror.NewInternal(err)
	}

	return link, &CreatedLink{
		ID:        link.ID,
		Kind:      link.Kind,
		Token:     token,
		Masked:    link.TokenPrefix,
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// --- Verification ---

// verify runs the full check sequence for a raw token: hash lookup first
// (a wrong token never reaches the later checks), then revocation and
// expiry, then the password binding. Read-only.
func (s *shareLinkService) verify(ctx context.Context, rawToken, password string) (*ShareLink, error) {
	link, err := s.repo.FindByTokenHash(ctx, HashToken(rawToken))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid link token")
		}
		return nil, apperror.NewInternal(err)
	}

	if link.RevokedAt != nil {
		return nil, apperror.NewUnauthorized("invalid link token")
	}
	if link.Expired(s.now()) {
		return nil, apperror.NewUnauthorized("link has expired")
	}

	if !VerifyPassword(password, link.PasswordHash) {
		return nil, apperror.NewUnauthorized("invalid password")
	}

	return link, nil
}

func (s *shareLinkService) VerifyAccess(ctx context.Context, rawToken, password string) (*ReviewAccess, error) {
	link, err := s.verify(ctx, rawToken, password)
	if err != nil {
		return nil, err
	}
	if link.Kind != KindReview {
		return nil, apperror.NewBadRequest("not a review link")
	}

	return &ReviewAccess{
		OrgID:     link.OrgID,
		ProjectID: link.ProjectID,
		Label:     link.Label,
	}, nil
}

func (s *shareLinkService) AcceptInvite(ctx context.Context, rawToken, password, userID string) error {
	link, err := s.verify(ctx, rawToken, password)
	if err != nil {
		return err
	}
	if link.Kind != KindInvite || link.InviteRole == nil {
		return apperror.NewBadRequest("not an invite link")
	}

	if err := s.granter.GrantMembership(ctx, link.OrgID, userID, *link.InviteRole); err != nil {
		return err
	}

	s.recordAudit(ctx, link.OrgID, userID, "sharelink.invite.accept",
		fmt.Sprintf("link %s granted role %s", link.ID, *link.InviteRole))
	return nil
}

// --- Management ---

func (s *shareLinkService) List(ctx context.Context, orgID string) ([]LinkInfo, error) {
	links, err := s.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing links: %w", err))
	}

	infos := make([]LinkInfo, 0, len(links))
	for _, link := range links {
		infos = append(infos, LinkInfo{
			ID:                link.ID,
			Kind:              link.Kind,
			TokenPrefix:       link.TokenPrefix,
			Label:             link.Label,
			PasswordProtected: IsPasswordProtected(link.PasswordHash),
			ProjectID:         link.ProjectID,
			InviteRole:        link.InviteRole,
			CreatedAt:         link.CreatedAt,
			ExpiresAt:         link.ExpiresAt,
			RevokedAt:         link.RevokedAt,
		})
	}
	return infos, nil
}

func (s *shareLinkService) Revoke(ctx context.Context, orgID, actorID, linkID string) error {
	if err := s.repo.Revoke(ctx, orgID, linkID, s.now()); err != nil {
		return err
	}
	s.recordAudit(ctx, orgID, actorID, "sharelink.revoke", fmt.Sprintf("link %s", linkID))
	return nil
}

func (s *shareLinkService) recordAudit(ctx context.Context, orgID, actorID, action, detail string) {
	if s.audit != nil {
		s.audit.Record(ctx, orgID, actorID, action, detail)
	}
}
