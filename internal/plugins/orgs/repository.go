package orgs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// OrgRepository defines the data access contract for organizations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type OrgRepository interface {
	Create(ctx context.Context, org *Org) error
	FindByID(ctx context.Context, id string) (*Org, error)
	ListByUser(ctx context.Context, userID string) ([]Org, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// MembershipRepository defines the data access contract for the durable
// (org, user) -> role record.
type MembershipRepository interface {
	// FindRole returns the member's role within the org. found=false with a
	// nil error means no membership row exists -- a valid state, distinct
	// from a query failure.
	FindRole(ctx context.Context, orgID, userID string) (role string, found bool, err error)

	// Upsert creates or updates the membership row for (org, user).
	Upsert(ctx context.Context, member *Member) error

	Remove(ctx context.Context, orgID, userID string) error
	ListByOrg(ctx context.Context, orgID string) ([]Member, error)
	CountByRole(ctx context.Context, orgID, role string) (int, error)
}

// orgRepository implements OrgRepository with hand-written MariaDB queries.
type orgRepository struct {
	db *sql.DB
}

// NewOrgRepository creates a new org repository backed by the given DB pool.
func NewOrgRepository(db *sql.DB) OrgRepository {
	return &orgRepository{db: db}
}

// Create inserts a new organization row.
func (r *orgRepository) Create(ctx context.Context, org *Org) error {
	query := `INSERT INTO orgs (id, name, slug, created_by, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		org.ID,
		org.Name,
		org.Slug,
		org.CreatedBy,
		org.CreatedAt,
		org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting org: %w", err)
	}

	return nil
}

// FindByID retrieves an organization by its UUID.
// Returns apperror.NotFound if no org exists with this ID.
func (r *orgRepository) FindByID(ctx context.Context, id string) (*Org, error) {
	query := `SELECT id, name, slug, created_by, created_at, updated_at
	          FROM orgs WHERE id = ?`

	org := &Org{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.CreatedBy,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("organization not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying org by id: %w", err)
	}

	return org, nil
}

// ListByUser returns all organizations the user holds a membership in,
// newest first.
func (r *orgRepository) ListByUser(ctx context.Context, userID string) ([]Org, error) {
	query := `SELECT o.id, o.name, o.slug, o.created_by, o.created_at, o.updated_at
	          FROM orgs o
	          JOIN org_members m ON m.org_id = o.id
	          WHERE m.user_id = ?
	          ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orgs for user: %w", err)
	}
	defer rows.Close()

	var orgs []Org
	for rows.Next() {
		var org Org
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedBy, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning org row: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating org rows: %w", err)
	}

	return orgs, nil
}

// SlugExists checks whether an org already uses the given slug.
func (r *orgRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM orgs WHERE slug = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking slug existence: %w", err)
	}

	return exists, nil
}

// membershipRepository implements MembershipRepository against MariaDB.
type membershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository creates a membership repository backed by the
// given DB pool.
func NewMembershipRepository(db *sql.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// FindRole looks up the role for (org, user). Absence of a row is reported
// via found=false with a nil error so callers can distinguish "not a member"
// from "the membership store is down".
func (r *membershipRepository) FindRole(ctx context.Context, orgID, userID string) (string, bool, error) {
	query := `SELECT role FROM org_members WHERE org_id = ? AND user_id = ?`

	var role string
	err := r.db.QueryRowContext(ctx, query, orgID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying membership role: %w", err)
	}

	return role, true, nil
}

// Upsert creates the membership row, or updates the role if the (org, user)
// pair already exists. The unique key on (org_id, user_id) guarantees one
// row per pair.
func (r *membershipRepository) Upsert(ctx context.Context, member *Member) error {
	query := `INSERT INTO org_members (org_id, user_id, role, joined_at)
	          VALUES (?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE role = VALUES(role)`

	_, err := r.db.ExecContext(ctx, query,
		member.OrgID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting membership: %w", err)
	}

	return nil
}

// Remove deletes the membership row for (org, user).
func (r *membershipRepository) Remove(ctx context.Context, orgID, userID string) error {
	query := `DELETE FROM org_members WHERE org_id = ? AND user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, orgID, userID); err != nil {
		return fmt.Errorf("removing membership: %w", err)
	}

	return nil
}

// ListByOrg returns all members of an org with display info joined from the
// users table, owners first, then by join date.
func (r *membershipRepository) ListByOrg(ctx context.Context, orgID string) ([]Member, error) {
	query := `SELECT m.org_id, m.user_id, m.role, m.joined_at, u.display_name, u.email
	          FROM org_members m
	          JOIN users u ON u.id = m.user_id
	          WHERE m.org_id = ?
	          ORDER BY FIELD(m.role, 'owner', 'admin', 'member', 'collaborator', 'client'), m.joined_at`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing org members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.OrgID, &m.UserID, &m.Role, &m.JoinedAt, &m.DisplayName, &m.Email); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

// CountByRole counts members of an org holding the given role.
func (r *membershipRepository) CountByRole(ctx context.Context, orgID, role string) (int, error) {
	query := `SELECT COUNT(*) FROM org_members WHERE org_id = ? AND role = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, orgID, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting members by role: %w", err)
	}

	return count, nil
}
