package storagesync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// StorageAccountRepository handles storage account persistence. One account
// per org.
type StorageAccountRepository interface {
	// Find returns the org's account. found=false with a nil error means
	// no provider is connected.
	Find(ctx context.Context, orgID string) (account *StorageAccount, found bool, err error)

	Save(ctx context.Context, account *StorageAccount) error
	Delete(ctx context.Context, orgID string) error
}

// storageAccountRepository implements StorageAccountRepository with
// hand-written MariaDB queries.
type storageAccountRepository struct {
	db *sql.DB
}

// NewStorageAccountRepository creates a new MariaDB-backed repository.
func NewStorageAccountRepository(db *sql.DB) StorageAccountRepository {
	return &storageAccountRepository{db: db}
}

func (r *storageAccountRepository) Find(ctx context.Context, orgID string) (*StorageAccount, bool, error) {
	query := `SELECT org_id, provider, account_id, account_email, access_token,
	                 connected_by, connected_at
	          FROM storage_accounts WHERE org_id = ?`

	var account StorageAccount
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(
		&account.OrgID, &account.Provider, &account.AccountID, &account.AccountEmail,
		&account.AccessToken, &account.ConnectedBy, &account.ConnectedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying storage account: %w", err)
	}
	return &account, true, nil
}

func (r *storageAccountRepository) Save(ctx context.Context, account *StorageAccount) error {
	query := `INSERT INTO storage_accounts
	            (org_id, provider, account_id, account_email, access_token, connected_by, connected_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		account.OrgID, account.Provider, account.AccountID, account.AccountEmail,
		account.AccessToken, account.ConnectedBy, account.ConnectedAt,
	)
	if err != nil {
		return fmt.Errorf("saving storage account: %w", err)
	}
	return nil
}

func (r *storageAccountRepository) Delete(ctx context.Context, orgID string) error {
	query := `DELETE FROM storage_accounts WHERE org_id = ?`

	result, err := r.db.ExecContext(ctx, query, orgID)
	if err != nil {
		return fmt.Errorf("deleting storage account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking storage account deletion: %w", err)
	}
	if affected == 0 {
		return &SyncError{Status: 404, Code: CodeNotConnected, Message: "no storage account connected"}
	}
	return nil
}
