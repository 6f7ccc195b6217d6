package visits

import (
	"context"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// mockVisitRepo implements VisitRepository for testing.
type mockVisitRepo struct {
	createFn           func(ctx context.Context, visit *Visit) error
	findByIDFn         func(ctx context.Context, orgID, id string) (*Visit, error)
	addCrewFn          func(ctx context.Context, visitID, userID, status string) error
	updateCrewStatusFn func(ctx context.Context, visitID, userID, status string, respondedAt time.Time) error
}

func (m *mockVisitRepo) Create(ctx context.Context, visit *Visit) error {
	if m.createFn != nil {
		return m.createFn(ctx, visit)
	}
	return nil
}

func (m *mockVisitRepo) FindByID(ctx context.Context, orgID, id string) (*Visit, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, orgID, id)
	}
	return nil, apperror.NewNotFound("visit not found")
}

func (m *mockVisitRepo) ListByProject(ctx context.Context, orgID, projectID string) ([]Visit, error) {
	return nil, nil
}

func (m *mockVisitRepo) Update(ctx context.Context, visit *Visit) error { return nil }

func (m *mockVisitRepo) Delete(ctx context.Context, orgID, id string) error { return nil }

func (m *mockVisitRepo) AddCrew(ctx context.Context, visitID, userID, status string) error {
	if m.addCrewFn != nil {
		return m.addCrewFn(ctx, visitID, userID, status)
	}
	return nil
}

func (m *mockVisitRepo) UpdateCrewStatus(ctx context.Context, visitID, userID, status string, respondedAt time.Time) error {
	if m.updateCrewStatusFn != nil {
		return m.updateCrewStatusFn(ctx, visitID, userID, status, respondedAt)
	}
	return nil
}

func (m *mockVisitRepo) ListCrew(ctx context.Context, visitID string) ([]CrewMember, error) {
	return nil, nil
}

func TestCreateVisit(t *testing.T) {
	var created *Visit
	repo := &mockVisitRepo{
		createFn: func(ctx context.Context, visit *Visit) error {
			created = visit
			return nil
		},
	}
	svc := NewVisitService(repo)

	date := "2026-09-15"
	visit, err := svc.Create(context.Background(), "org-1", "user-1", CreateVisitRequest{
		ProjectID:    "proj-1",
		Title:        "  Foundation inspection <script>x</script> ",
		ScheduledFor: &date,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if visit.Status != StatusPlanned {
		t.Errorf("new visits start planned, got %q", visit.Status)
	}
	if created.Title != "Foundation inspection" {
		t.Errorf("title must be sanitized and trimmed, got %q", created.Title)
	}
}

func TestCreateVisitEmptyTitle(t *testing.T) {
	svc := NewVisitService(&mockVisitRepo{})

	_, err := svc.Create(context.Background(), "org-1", "user-1", CreateVisitRequest{
		ProjectID: "proj-1",
		Title:     "<b></b>",
	})
	if err == nil {
		t.Fatal("expected a sanitized-to-empty title to be rejected")
	}
}

func TestInviteCrewRequiresVisitInOrg(t *testing.T) {
	invited := 0
	repo := &mockVisitRepo{
		findByIDFn: func(ctx context.Context, orgID, id string) (*Visit, error) {
			if orgID != "org-1" {
				return nil, apperror.NewNotFound("visit not found")
			}
			return &Visit{ID: id, OrgID: orgID, Status: StatusPlanned}, nil
		},
		addCrewFn: func(ctx context.Context, visitID, userID, status string) error {
			if status != RSVPInvited {
				t.Errorf("new crew must start as invited, got %q", status)
			}
			invited++
			return nil
		},
	}
	svc := NewVisitService(repo)

	if err := svc.InviteCrew(context.Background(), "org-1", "visit-1", []string{"u1", "u2"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if invited != 2 {
		t.Errorf("expected 2 invitations, got %d", invited)
	}

	// A visit in another org is invisible to this one.
	if err := svc.InviteCrew(context.Background(), "org-2", "visit-1", []string{"u1"}); err == nil {
		t.Error("expected cross-org invite to fail")
	}
}

func TestRSVPOnlyWhilePlanned(t *testing.T) {
	repo := &mockVisitRepo{
		findByIDFn: func(ctx context.Context, orgID, id string) (*Visit, error) {
			return &Visit{ID: id, OrgID: orgID, Status: StatusCancelled}, nil
		},
	}
	svc := NewVisitService(repo)

	err := svc.RSVP(context.Background(), "org-1", "visit-1", "user-1", RSVPAccepted)
	if err == nil {
		t.Fatal("expected RSVP on a cancelled visit to be rejected")
	}
}
