package sharelinks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// ShareLinkRepository handles share link persistence. All reads that start
// from a raw token go through FindByTokenHash; there is deliberately no way
// to look a link up by its raw token.
type ShareLinkRepository interface {
	Create(ctx context.Context, link *ShareLink) error
	FindByID(ctx context.Context, orgID, id string) (*ShareLink, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*ShareLink, error)
	ListByOrg(ctx context.Context, orgID string) ([]ShareLink, error)
	Revoke(ctx context.Context, orgID, id string, at time.Time) error
}

// shareLinkRepository implements ShareLinkRepository with hand-written
// MariaDB queries.
type shareLinkRepository struct {
	db *sql.DB
}

// NewShareLinkRepository creates a new MariaDB-backed share link repository.
func NewShareLinkRepository(db *sql.DB) ShareLinkRepository {
	return &shareLinkRepository{db: db}
}

const linkColumns = `id, org_id, kind, token_hash, token_prefix, label,
	password_hash, project_id, invite_role, created_by, created_at,
	expires_at, revoked_at`

func (r *shareLinkRepository) Create(ctx context.Context, link *ShareLink) error {
	query := `
		INSERT INTO share_links (` + linkColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		link.ID, link.OrgID, link.Kind, link.TokenHash, link.TokenPrefix,
		link.Label, link.PasswordHash, link.ProjectID, link.InviteRole,
		link.CreatedBy, link.CreatedAt, link.ExpiresAt, link.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting share link: %w", err)
	}
	return nil
}

func (r *shareLinkRepository) FindByID(ctx context.Context, orgID, id string) (*ShareLink, error) {
	query := `SELECT ` + linkColumns + ` FROM share_links WHERE org_id = ? AND id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, orgID, id))
}

func (r *shareLinkRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*ShareLink, error) {
	query := `SELECT ` + linkColumns + ` FROM share_links WHERE token_hash = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tokenHash))
}

func (r *shareLinkRepository) ListByOrg(ctx context.Context, orgID string) ([]ShareLink, error) {
	query := `SELECT ` + linkColumns + ` FROM share_links
		WHERE org_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing share links: %w", err)
	}
	defer rows.Close()

	var links []ShareLink
	for rows.Next() {
		var link ShareLink
		if err := scanLink(rows.Scan, &link); err != nil {
			return nil, fmt.Errorf("scanning share link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *shareLinkRepository) Revoke(ctx context.Context, orgID, id string, at time.Time) error {
	query := `UPDATE share_links SET revoked_at = ?
		WHERE org_id = ? AND id = ? AND revoked_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, at, orgID, id)
	if err != nil {
		return fmt.Errorf("revoking share link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking revocation: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("link not found or already revoked")
	}
	return nil
}

func (r *shareLinkRepository) scanOne(row *sql.Row) (*ShareLink, error) {
	var link ShareLink
	if err := scanLink(row.Scan, &link); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("link not found")
		}
		return nil, fmt.Errorf("finding share link: %w", err)
	}
	return &link, nil
}

// scanLink reads one row into a ShareLink. Works for both sql.Row and
// sql.Rows through the shared Scan signature.
func scanLink(scan func(dest ...any) error, link *ShareLink) error {
	return scan(
		&link.ID, &link.OrgID, &link.Kind, &link.TokenHash, &link.TokenPrefix,
		&link.Label, &link.PasswordHash, &link.ProjectID, &link.InviteRole,
		&link.CreatedBy, &link.CreatedAt, &link.ExpiresAt, &link.RevokedAt,
	)
}
