package orgs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// assertDenied checks that err is an AppError with the given status code
// and user-facing message.
func assertDenied(t *testing.T, err error, code int, message string) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != code {
		t.Errorf("expected status %d, got %d", code, appErr.Code)
	}
	if appErr.Message != message {
		t.Errorf("expected message %q, got %q", message, appErr.Message)
	}
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	grant, err := Authorize("", nil, GateOptions{TeamOnly: true})
	if grant != nil {
		t.Fatalf("expected no grant, got %+v", grant)
	}
	assertDenied(t, err, http.StatusUnauthorized, "authentication required")
}

func TestAuthorizeClientDistinctFromUnauthenticated(t *testing.T) {
	// A client is authenticated and resolved; denying it must look
	// different from denying an anonymous caller.
	grant, err := Authorize("user-1", decisionFor(RoleClient, "org-1"), GateOptions{TeamOnly: true})
	if grant != nil {
		t.Fatalf("expected no grant, got %+v", grant)
	}
	assertDenied(t, err, http.StatusForbidden, "client accounts cannot perform this action")
}

func TestAuthorizeRequireRole(t *testing.T) {
	// Roleless but authenticated caller hits a view surface.
	_, err := Authorize("user-1", &AccessDecision{}, GateOptions{RequireRole: true})
	assertDenied(t, err, http.StatusForbidden, "no role in this organization")

	// Any resolved role passes, clients included.
	grant, err := Authorize("user-1", decisionFor(RoleClient, "org-1"), GateOptions{RequireRole: true})
	if err != nil {
		t.Fatalf("expected grant, got %v", err)
	}
	if grant.Role != RoleClient {
		t.Errorf("expected role %q on grant, got %q", RoleClient, grant.Role)
	}
}

func TestAuthorizeTeamOnly(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		opts    GateOptions
		allowed bool
	}{
		{"owner passes", RoleOwner, GateOptions{TeamOnly: true}, true},
		{"admin passes", RoleAdmin, GateOptions{TeamOnly: true}, true},
		{"member passes", RoleMember, GateOptions{TeamOnly: true}, true},
		{"collaborator blocked by default", RoleCollaborator, GateOptions{TeamOnly: true}, false},
		{"collaborator passes when allowed", RoleCollaborator, GateOptions{TeamOnly: true, AllowCollaborators: true}, true},
		{"client blocked even when collaborators allowed", RoleClient, GateOptions{TeamOnly: true, AllowCollaborators: true}, false},
		{"unknown role blocked", "superuser", GateOptions{TeamOnly: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grant, err := Authorize("user-1", decisionFor(tt.role, "org-1"), tt.opts)
			if tt.allowed {
				if err != nil {
					t.Fatalf("expected grant, got %v", err)
				}
				if grant.UserID != "user-1" || grant.OrgID != "org-1" {
					t.Errorf("grant missing identity or scope: %+v", grant)
				}
			} else {
				if err == nil {
					t.Fatalf("expected denial, got grant %+v", grant)
				}
				var appErr *apperror.AppError
				if !errors.As(err, &appErr) || appErr.Code != http.StatusForbidden {
					t.Errorf("expected 403 denial, got %v", err)
				}
			}
		})
	}
}

func TestAuthorizeRequireAdmin(t *testing.T) {
	for _, role := range []string{RoleOwner, RoleAdmin} {
		if _, err := Authorize("user-1", decisionFor(role, "org-1"), GateOptions{RequireAdmin: true}); err != nil {
			t.Errorf("expected %s to pass admin gate, got %v", role, err)
		}
	}
	for _, role := range []string{RoleMember, RoleCollaborator, RoleClient} {
		_, err := Authorize("user-1", decisionFor(role, "org-1"), GateOptions{RequireAdmin: true})
		assertDenied(t, err, http.StatusForbidden, "insufficient role for this action")
	}
}

func TestAuthorizeHintScopedGrant(t *testing.T) {
	// A grant derived from an account-level hint carries no org scope.
	grant, err := Authorize("user-1", decisionFor(RoleAdmin, ""), GateOptions{RequireAdmin: true, TeamOnly: true})
	if err != nil {
		t.Fatalf("expected grant, got %v", err)
	}
	if grant.OrgID != "" {
		t.Errorf("expected empty org scope on hint-derived grant, got %q", grant.OrgID)
	}
}
