package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// perPage is the number of audit entries shown per page in the activity feed.
const perPage = 50

// AuditService handles business logic for the audit log.
type AuditService interface {
	// Record writes one privileged-action entry. Fire-and-forget: a failed
	// audit write is logged but never blocks the action being audited.
	// Satisfies the AuditRecorder interfaces of the other plugins.
	Record(ctx context.Context, orgID, actorID, action, detail string)

	// Activity returns a paginated activity feed for an org. Pages are
	// 1-indexed; invalid page numbers clamp to 1. Returns entries and the
	// total entry count.
	Activity(ctx context.Context, orgID string, page int) ([]AuditEntry, int, error)
}

// auditService implements AuditService.
type auditService struct {
	repo   AuditRepository
	logger *slog.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(repo AuditRepository, logger *slog.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, orgID, actorID, action, detail string) {
	if orgID == "" || actorID == "" || action == "" {
		s.logger.Warn("dropping incomplete audit entry",
			"org_id", orgID, "actor_id", actorID, "action", action)
		return
	}

	entry := &AuditEntry{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		ActorID:   actorID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry",
			"org_id", orgID, "action", action, "error", err)
	}
}

func (s *auditService) Activity(ctx context.Context, orgID string, page int) ([]AuditEntry, int, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * perPage
	entries, total, err := s.repo.ListByOrg(ctx, orgID, perPage, offset)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}
	return entries, total, nil
}
