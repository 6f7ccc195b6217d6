package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/sanitize"
)

// ProjectService handles business logic for projects.
type ProjectService interface {
	Create(ctx context.Context, orgID, actorID string, req CreateProjectRequest) (*Project, error)
	Get(ctx context.Context, orgID, id string) (*Project, error)
	List(ctx context.Context, orgID string) ([]Project, error)
	Update(ctx context.Context, orgID, id string, req UpdateProjectRequest) (*Project, error)
}

type projectService struct {
	repo ProjectRepository
}

// NewProjectService creates a new project service.
func NewProjectService(repo ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) Create(ctx context.Context, orgID, actorID string, req CreateProjectRequest) (*Project, error) {
	now := time.Now().UTC()
	project := &Project{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Name:        sanitize.Text(req.Name),
		Description: sanitize.Text(req.Description),
		Status:      StatusActive,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.Name == "" {
		return nil, apperror.NewBadRequest("project name is required")
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating project: %w", err))
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, orgID, id string) (*Project, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

func (s *projectService) List(ctx context.Context, orgID string) ([]Project, error) {
	projects, err := s.repo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return projects, nil
}

func (s *projectService) Update(ctx context.Context, orgID, id string, req UpdateProjectRequest) (*Project, error) {
	project, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	project.Name = sanitize.Text(req.Name)
	project.Description = sanitize.Text(req.Description)
	project.Status = req.Status
	project.UpdatedAt = time.Now().UTC()
	if project.Name == "" {
		return nil, apperror.NewBadRequest("project name is required")
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
