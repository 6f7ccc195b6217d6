package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// ProjectRepository handles project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, orgID, id string) (*Project, error)
	ListByOrg(ctx context.Context, orgID string) ([]Project, error)
	Update(ctx context.Context, project *Project) error
}

// projectRepository implements ProjectRepository with hand-written MariaDB
// queries.
type projectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new MariaDB-backed project repository.
func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *Project) error {
	query := `INSERT INTO projects (id, org_id, name, description, status, created_by, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.OrgID, project.Name, project.Description,
		project.Status, project.CreatedBy, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, orgID, id string) (*Project, error) {
	query := `SELECT id, org_id, name, description, status, created_by, created_at, updated_at
	          FROM projects WHERE org_id = ? AND id = ?`

	var project Project
	err := r.db.QueryRowContext(ctx, query, orgID, id).Scan(
		&project.ID, &project.OrgID, &project.Name, &project.Description,
		&project.Status, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding project: %w", err)
	}
	return &project, nil
}

func (r *projectRepository) ListByOrg(ctx context.Context, orgID string) ([]Project, error) {
	query := `SELECT id, org_id, name, description, status, created_by, created_at, updated_at
	          FROM projects WHERE org_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.Description,
			&p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, project *Project) error {
	query := `UPDATE projects SET name = ?, description = ?, status = ?, updated_at = ?
	          WHERE org_id = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, query,
		project.Name, project.Description, project.Status, project.UpdatedAt,
		project.OrgID, project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking project update: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("project not found")
	}
	return nil
}
