package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jobdeck/jobdeck/internal/apperror"
)

// SettingsRepository handles org setting persistence.
type SettingsRepository interface {
	// Get retrieves one setting. found=false with a nil error means the
	// setting was never written.
	Get(ctx context.Context, orgID, key string) (value string, found bool, err error)

	// Set upserts a setting value.
	Set(ctx context.Context, setting *OrgSetting) error

	Delete(ctx context.Context, orgID, key string) error
	ListByOrg(ctx context.Context, orgID string) ([]OrgSetting, error)
}

// settingsRepository implements SettingsRepository with hand-written
// MariaDB queries.
type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new MariaDB-backed settings repository.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, orgID, key string) (string, bool, error) {
	query := `SELECT setting_value FROM org_settings WHERE org_id = ? AND setting_key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, query, orgID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %q: %w", key, err)
	}
	return value, true, nil
}

func (r *settingsRepository) Set(ctx context.Context, setting *OrgSetting) error {
	query := `INSERT INTO org_settings (org_id, setting_key, setting_value, updated_by, updated_at)
	          VALUES (?, ?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE
	            setting_value = VALUES(setting_value),
	            updated_by = VALUES(updated_by),
	            updated_at = VALUES(updated_at)`

	_, err := r.db.ExecContext(ctx, query,
		setting.OrgID, setting.Key, setting.Value, setting.UpdatedBy, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting setting %q: %w", setting.Key, err)
	}
	return nil
}

func (r *settingsRepository) Delete(ctx context.Context, orgID, key string) error {
	query := `DELETE FROM org_settings WHERE org_id = ? AND setting_key = ?`

	result, err := r.db.ExecContext(ctx, query, orgID, key)
	if err != nil {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking setting deletion: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound(fmt.Sprintf("setting %q not found", key))
	}
	return nil
}

func (r *settingsRepository) ListByOrg(ctx context.Context, orgID string) ([]OrgSetting, error) {
	query := `SELECT org_id, setting_key, setting_value, updated_by, updated_at
	          FROM org_settings WHERE org_id = ? ORDER BY setting_key`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	var settings []OrgSetting
	for rows.Next() {
		var s OrgSetting
		if err := rows.Scan(&s.OrgID, &s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning setting row: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
