package visits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// VisitRepository handles visit and crew persistence.
type VisitRepository interface {
	Create(ctx context.Context, visit *Visit) error
	FindByID(ctx context.Context, orgID, id string) (*Visit, error)
	ListByProject(ctx context.Context, orgID, projectID string) ([]Visit, error)
	Update(ctx context.Context, visit *Visit) error
	Delete(ctx context.Context, orgID, id string) error

	AddCrew(ctx context.Context, visitID, userID, status string) error
	UpdateCrewStatus(ctx context.Context, visitID, userID, status string, respondedAt time.Time) error
	ListCrew(ctx context.Context, visitID string) ([]CrewMember, error)
}

// visitRepository implements VisitRepository with hand-written MariaDB
// queries.
type visitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new MariaDB-backed visit repository.
func NewVisitRepository(db *sql.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *Visit) error {
	query := `INSERT INTO visits (id, org_id, project_id, title, notes, scheduled_for, status, created_by, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		visit.ID, visit.OrgID, visit.ProjectID, visit.Title, visit.Notes,
		visit.ScheduledFor, visit.Status, visit.CreatedBy, visit.CreatedAt, visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting visit: %w", err)
	}
	return nil
}

func (r *visitRepository) FindByID(ctx context.Context, orgID, id string) (*Visit, error) {
	query := `SELECT id, org_id, project_id, title, notes, scheduled_for, status, created_by, created_at, updated_at
	          FROM visits WHERE org_id = ? AND id = ?`

	var visit Visit
	err := r.db.QueryRowContext(ctx, query, orgID, id).Scan(
		&visit.ID, &visit.OrgID, &visit.ProjectID, &visit.Title, &visit.Notes,
		&visit.ScheduledFor, &visit.Status, &visit.CreatedBy, &visit.CreatedAt, &visit.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("visit not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) ListByProject(ctx context.Context, orgID, projectID string) ([]Visit, error) {
	query := `SELECT id, org_id, project_id, title, notes, scheduled_for, status, created_by, created_at, updated_at
	          FROM visits WHERE org_id = ? AND project_id = ?
	          ORDER BY scheduled_for IS NULL, scheduled_for, created_at`

	rows, err := r.db.QueryContext(ctx, query, orgID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.OrgID, &v.ProjectID, &v.Title, &v.Notes,
			&v.ScheduledFor, &v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning visit row: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (r *visitRepository) Update(ctx context.Context, visit *Visit) error {
	query := `UPDATE visits SET title = ?, notes = ?, scheduled_for = ?, status = ?, updated_at = ?
	          WHERE org_id = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, query,
		visit.Title, visit.Notes, visit.ScheduledFor, visit.Status, visit.UpdatedAt,
		visit.OrgID, visit.ID,
	)
	if err != nil {
		return fmt.Errorf("updating visit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking visit update: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("visit not found")
	}
	return nil
}

func (r *visitRepository) Delete(ctx context.Context, orgID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE org_id = ? AND id = ?`, orgID, id)
	if err != nil {
		return fmt.Errorf("deleting visit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking visit deletion: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("visit not found")
	}
	return nil
}

// --- Crew ---

func (r *visitRepository) AddCrew(ctx context.Context, visitID, userID, status string) error {
	query := `INSERT INTO visit_crew (visit_id, user_id, status)
	          VALUES (?, ?, ?)
	          ON DUPLICATE KEY UPDATE visit_id = visit_id`

	if _, err := r.db.ExecContext(ctx, query, visitID, userID, status); err != nil {
		return fmt.Errorf("adding crew member: %w", err)
	}
	return nil
}

func (r *visitRepository) UpdateCrewStatus(ctx context.Context, visitID, userID, status string, respondedAt time.Time) error {
	query := `UPDATE visit_crew SET status = ?, responded_at = ? WHERE visit_id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, status, respondedAt, visitID, userID)
	if err != nil {
		return fmt.Errorf("updating crew status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking crew update: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("not invited to this visit")
	}
	return nil
}

func (r *visitRepository) ListCrew(ctx context.Context, visitID string) ([]CrewMember, error) {
	query := `SELECT vc.visit_id, vc.user_id, vc.status, vc.responded_at,
	                 COALESCE(u.display_name, '')
	          FROM visit_crew vc
	          LEFT JOIN users u ON u.id = vc.user_id
	          WHERE vc.visit_id = ?
	          ORDER BY u.display_name`

	rows, err := r.db.QueryContext(ctx, query, visitID)
	if err != nil {
		return nil, fmt.Errorf("listing crew: %w", err)
	}
	defer rows.Close()

	var crew []CrewMember
	for rows.Next() {
		var m CrewMember
		if err := rows.Scan(&m.VisitID, &m.UserID, &m.Status, &m.RespondedAt, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("scanning crew row: %w", err)
		}
		crew = append(crew, m)
	}
	return crew, rows.Err()
}
