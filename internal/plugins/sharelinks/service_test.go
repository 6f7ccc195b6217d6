package sharelinks

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// --- Mocks ---

// memLinkRepo is an in-memory ShareLinkRepository tracking writes so tests
// can assert verification never mutates.
type memLinkRepo struct {
	links  map[string]*ShareLink // keyed by token hash
	writes int
}

func newMemLinkRepo() *memLinkRepo {
	return &memLinkRepo{links: map[string]*ShareLink{}}
}

func (m *memLinkRepo) Create(ctx context.Context, link *ShareLink) error {
	copied := *link
	m.links[link.TokenHash] = &copied
	m.writes++
	return nil
}

func (m *memLinkRepo) FindByID(ctx context.Context, orgID, id string) (*ShareLink, error) {
	for _, link := range m.links {
		if link.OrgID == orgID && link.ID == id {
			copied := *link
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("link not found")
}

func (m *memLinkRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*ShareLink, error) {
	link, ok := m.links[tokenHash]
	if !ok {
		return nil, apperror.NewNotFound("link not found")
	}
	copied := *link
	return &copied, nil
}

func (m *memLinkRepo) ListByOrg(ctx context.Context, orgID string) ([]ShareLink, error) {
	var out []ShareLink
	for _, link := range m.links {
		if link.OrgID == orgID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (m *memLinkRepo) Revoke(ctx context.Context, orgID, id string, at time.Time) error {
	for _, link := range m.links {
		if link.OrgID == orgID && link.ID == id && link.RevokedAt == nil {
			link.RevokedAt = &at
			m.writes++
			return nil
		}
	}
	return apperror.NewNotFound("link not found or already revoked")
}

// mockGranter implements MembershipGranter, recording grants.
type mockGranter struct {
	grants []string // "orgID/userID/role"
}

func (m *mockGranter) GrantMembership(ctx context.Context, orgID, userID, role string) error {
	m.grants = append(m.grants, orgID+"/"+userID+"/"+role)
	return nil
}

func newTestService(repo *memLinkRepo, granter *mockGranter) ShareLinkService {
	return NewShareLinkService(repo, granter, nil, 168*time.Hour)
}

// assertUnauthorized checks that err is a 401 with the given message.
func assertUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", appErr.Code)
	}
	if appErr.Message != message {
		t.Errorf("expected message %q, got %q", message, appErr.Message)
	}
}

// --- Creation ---

func TestCreateReviewLink(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestService(repo, &mockGranter{})

	created, err := svc.CreateReviewLink(context.Background(), "org-1", "admin-1", CreateReviewLinkRequest{
		ProjectID: "proj-1",
		Label:     "Client walkthrough",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(created.Token) != 64 {
		t.Errorf("expected a 64-char raw token, got %d chars", len(created.Token))
	}
	if created.Masked != MaskToken(created.Token) {
		t.Errorf("masked echo %q does not match token", created.Masked)
	}

	// The store holds only the hash, keyed by it.
	stored, err := repo.FindByTokenHash(context.Background(), HashToken(created.Token))
	if err != nil {
		t.Fatalf("link not findable by token hash: %v", err)
	}
	if stored.TokenHash == created.Token {
		t.Error("raw token must never be persisted")
	}
	if stored.PasswordHash != "" {
		t.Error("link without password must have empty password record")
	}
}

func TestCreateInviteRejectsOwnerRole(t *testing.T) {
	svc := newTestService(newMemLinkRepo(), &mockGranter{})

	_, err := svc.CreateInvite(context.Background(), "org-1", "admin-1", CreateInviteRequest{
		Role:  "owner",
		Label: "Sneaky invite",
	})
	if err == nil {
		t.Fatal("expected owner invites to be rejected")
	}
}

// --- Verification ---

func TestVerifyAccessFullSequence(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestService(repo, &mockGranter{})

	created, err := svc.CreateReviewLink(context.Background(), "org-1", "admin-1", CreateReviewLinkRequest{
		ProjectID: "proj-1",
		Label:     "Site photos",
		Password:  "sunflower",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writesAfterCreate := repo.writes

	// Right token, right password: access granted.
	access, err := svc.VerifyAccess(context.Background(), created.Token, "sunflower")
	if err != nil {
		t.Fatalf("expected access, got %v", err)
	}
	if access.OrgID != "org-1" || access.ProjectID == nil || *access.ProjectID != "proj-1" {
		t.Errorf("unexpected access scope: %+v", access)
	}

	// Right token, wrong password: denied at the password check.
	_, err = svc.VerifyAccess(context.Background(), created.Token, "rosebud")
	assertUnauthorized(t, err, "invalid password")

	// Wrong token: denied at the hash lookup, password never consulted.
	_, err = svc.VerifyAccess(context.Background(), "deadbeef", "sunflower")
	assertUnauthorized(t, err, "invalid link token")

	// Verification mutated nothing, so it repeats forever.
	if repo.writes != writesAfterCreate {
		t.Errorf("verification must not write; got %d extra writes", repo.writes-writesAfterCreate)
	}
	if _, err := svc.VerifyAccess(context.Background(), created.Token, "sunflower"); err != nil {
		t.Errorf("repeated verification must still pass: %v", err)
	}
}

func TestVerifyAccessUnprotectedLink(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestService(repo, &mockGranter{})

	created, err := svc.CreateReviewLink(context.Background(), "org-1", "admin-1", CreateReviewLinkRequest{
		ProjectID: "proj-1",
		Label:     "Open link",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.VerifyAccess(context.Background(), created.Token, ""); err != nil {
		t.Errorf("unprotected link must verify without password: %v", err)
	}
	if _, err := svc.VerifyAccess(context.Background(), created.Token, "ignored"); err != nil {
		t.Errorf("unprotected link must ignore supplied password: %v", err)
	}
}

func TestVerifyAccessExpiredAndRevoked(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestService(repo, &mockGranter{})

	created, err := svc.CreateReviewLink(context.Background(), "org-1", "admin-1", CreateReviewLinkRequest{
		ProjectID: "proj-1",
		Label:     "Short lived",
		ExpiresIn: 1,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Backdate the expiry.
	link := repo.links[HashToken(created.Token)]
	past := time.Now().UTC().Add(-time.Minute)
	link.ExpiresAt = &past

	_, err = svc.VerifyAccess(context.Background(), created.Token, "")
	assertUnauthorized(t, err, "link has expired")

	// Revocation denies even an unexpired link.
	created2, err := svc.CreateReviewLink(context.Background(), "org-1", "admin-1", CreateReviewLinkRequest{
		ProjectID: "proj-1",
		Label:     "Revoked",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.Revoke(context.Background(), "org-1", "admin-1", created2.ID); err != nil {
		t.Fatalf("expected revoke to succeed, got %v", err)
	}
	_, err = svc.VerifyAccess(context.Background(), created2.Token, "")
	assertUnauthorized(t, err, "invalid link token")
}

// --- Invites ---

func TestAcceptInviteGrantsRole(t *testing.T) {
	repo := newMemLinkRepo()
	granter := &mockGranter{}
	svc := newTestService(repo, granter)

	created, err := svc.CreateInvite(context.Background(), "org-1", "admin-1", CreateInviteRequest{
		Role:  "collaborator",
		Label: "Subcontractor invite",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.AcceptInvite(context.Background(), created.Token, "", "user-9"); err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
	if len(granter.grants) != 1 || granter.grants[0] != "org-1/user-9/collaborator" {
		t.Errorf("unexpected grants: %v", granter.grants)
	}

	// An invite token is not a review door.
	if _, err := svc.VerifyAccess(context.Background(), created.Token, ""); err == nil {
		t.Error("invite token must not grant review access")
	}
	// And a review token is not an invite.
	review, err := svc.CreateReviewLink(context.Background(), "org-1", "admin-1", CreateReviewLinkRequest{
		ProjectID: "proj-1",
		Label:     "Review",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.AcceptInvite(context.Background(), review.Token, "", "user-9"); err == nil {
		t.Error("review token must not grant a membership")
	}
}

// --- List ---

func TestListNeverExposesHashes(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestService(repo, &mockGranter{})

	created, err := svc.CreateReviewLink(context.Background(), "org-1", "admin-1", CreateReviewLinkRequest{
		ProjectID: "proj-1",
		Label:     "Listed",
		Password:  "hunter2pass",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	infos, err := svc.List(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected one link, got %d", len(infos))
	}
	info := infos[0]
	if info.TokenPrefix != MaskToken(created.Token) {
		t.Errorf("expected masked prefix, got %q", info.TokenPrefix)
	}
	if !info.PasswordProtected {
		t.Error("expected protection flag on a password-bound link")
	}
}
