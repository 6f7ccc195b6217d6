package visits

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/sanitize"
)

// VisitService handles business logic for site visits.
type VisitService interface {
	Create(ctx context.Context, orgID, actorID string, req CreateVisitRequest) (*Visit, error)
	Get(ctx context.Context, orgID, id string) (*Visit, error)
	ListByProject(ctx context.Context, orgID, projectID string) ([]Visit, error)
	Update(ctx context.Context, orgID, id string, req UpdateVisitRequest) (*Visit, error)
	Delete(ctx context.Context, orgID, id string) error

	InviteCrew(ctx context.Context, orgID, visitID string, userIDs []string) error
	RSVP(ctx context.Context, orgID, visitID, userID, status string) error
}

type visitService struct {
	repo VisitRepository
}

// NewVisitService creates a new visit service.
func NewVisitService(repo VisitRepository) VisitService {
	return &visitService{repo: repo}
}

func (s *visitService) Create(ctx context.Context, orgID, actorID string, req CreateVisitRequest) (*Visit, error) {
	now := time.Now().UTC()
	visit := &Visit{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		ProjectID:    req.ProjectID,
		Title:        sanitize.Text(req.Title),
		Notes:        sanitize.Text(req.Notes),
		ScheduledFor: req.ScheduledFor,
		Status:       StatusPlanned,
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if visit.Title == "" {
		return nil, apperror.NewBadRequest("visit title is required")
	}

	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating visit: %w", err))
	}
	return visit, nil
}

// Get returns one visit with its crew loaded.
func (s *visitService) Get(ctx context.Context, orgID, id string) (*Visit, error) {
	visit, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	crew, err := s.repo.ListCrew(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	visit.Crew = crew
	return visit, nil
}

func (s *visitService) ListByProject(ctx context.Context, orgID, projectID string) ([]Visit, error) {
	visits, err := s.repo.ListByProject(ctx, orgID, projectID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return visits, nil
}

func (s *visitService) Update(ctx context.Context, orgID, id string, req UpdateVisitRequest) (*Visit, error) {
	visit, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	visit.Title = sanitize.Text(req.Title)
	visit.Notes = sanitize.Text(req.Notes)
	visit.ScheduledFor = req.ScheduledFor
	visit.Status = req.Status
	visit.UpdatedAt = time.Now().UTC()
	if visit.Title == "" {
		return nil, apperror.NewBadRequest("visit title is required")
	}

	if err := s.repo.Update(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *visitService) Delete(ctx context.Context, orgID, id string) error {
	return s.repo.Delete(ctx, orgID, id)
}

// InviteCrew adds users to a visit's expected crew. Already invited users
// keep their existing response.
func (s *visitService) InviteCrew(ctx context.Context, orgID, visitID string, userIDs []string) error {
	if _, err := s.repo.FindByID(ctx, orgID, visitID); err != nil {
		return err
	}

	for _, userID := range userIDs {
		if err := s.repo.AddCrew(ctx, visitID, userID, RSVPInvited); err != nil {
			return apperror.NewInternal(fmt.Errorf("inviting crew member %s: %w", userID, err))
		}
	}
	return nil
}

// RSVP records a crew member's response to their own invitation.
func (s *visitService) RSVP(ctx context.Context, orgID, visitID, userID, status string) error {
	visit, err := s.repo.FindByID(ctx, orgID, visitID)
	if err != nil {
		return err
	}
	if !visit.IsPlanned() {
		return apperror.NewBadRequest("visit is no longer planned")
	}

	return s.repo.UpdateCrewStatus(ctx, visitID, userID, status, time.Now().UTC())
}
