package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// AuditRepository handles audit log persistence. Insert and read only;
// there is no update or delete path.
type AuditRepository interface {
	Log(ctx context.Context, entry *AuditEntry) error
	ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]AuditEntry, int, error)
}

// auditRepository implements AuditRepository with hand-written MariaDB
// queries.
type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new MariaDB-backed audit repository.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *AuditEntry) error {
	query := `INSERT INTO audit_log (id, org_id, actor_id, action, detail, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OrgID, entry.ActorID, entry.Action, entry.Detail, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]AuditEntry, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM audit_log WHERE org_id = ?`
	if err := r.db.QueryRowContext(ctx, countQuery, orgID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit entries: %w", err)
	}

	query := `SELECT a.id, a.org_id, a.actor_id, a.action, a.detail, a.created_at,
	                 COALESCE(u.display_name, '')
	          FROM audit_log a
	          LEFT JOIN users u ON u.id = a.actor_id
	          WHERE a.org_id = ?
	          ORDER BY a.created_at DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.OrgID, &e.ActorID, &e.Action, &e.Detail,
			&e.CreatedAt, &e.ActorName); err != nil {
			return nil, 0, fmt.Errorf("scanning audit row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
