package storagesync

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

// mockAccountRepo implements StorageAccountRepository over a map.
type mockAccountRepo struct {
	accounts map[string]*StorageAccount
	findErr  error
}

func (m *mockAccountRepo) Find(ctx context.Context, orgID string) (*StorageAccount, bool, error) {
	if m.findErr != nil {
		return nil, false, m.findErr
	}
	account, ok := m.accounts[orgID]
	return account, ok, nil
}

func (m *mockAccountRepo) Save(ctx context.Context, account *StorageAccount) error {
	m.accounts[account.OrgID] = account
	return nil
}

func (m *mockAccountRepo) Delete(ctx context.Context, orgID string) error {
	if _, ok := m.accounts[orgID]; !ok {
		return &SyncError{Status: 404, Code: CodeNotConnected, Message: "no storage account connected"}
	}
	delete(m.accounts, orgID)
	return nil
}

func assertSyncError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("expected SyncError, got %v", err)
	}
	if syncErr.Status != status {
		t.Errorf("expected status %d, got %d", status, syncErr.Status)
	}
	if syncErr.Code != code {
		t.Errorf("expected code %q, got %q", code, syncErr.Code)
	}
}

func TestSaveAccountAndStatus(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]*StorageAccount{}}
	svc := NewSyncService(repo, nil)

	status, err := svc.Status(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status.Connected {
		t.Error("expected disconnected status for a fresh org")
	}

	req := SaveAccountRequest{
		Provider:     "dropbox",
		AccountID:    "dbid:123",
		AccountEmail: "ops@example.com",
		AccessToken:  "sl.token",
	}
	if err := svc.SaveAccount(context.Background(), "org-1", "admin-1", req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	status, err = svc.Status(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !status.Connected || status.Provider != "dropbox" || status.AccountEmail != "ops@example.com" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestSaveAccountRejectsDoubleConnect(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]*StorageAccount{}}
	svc := NewSyncService(repo, nil)

	req := SaveAccountRequest{Provider: "dropbox", AccountID: "a", AccountEmail: "a@example.com", AccessToken: "t"}
	if err := svc.SaveAccount(context.Background(), "org-1", "admin-1", req); err != nil {
		t.Fatalf("expected first connect to succeed, got %v", err)
	}

	err := svc.SaveAccount(context.Background(), "org-1", "admin-1", req)
	assertSyncError(t, err, http.StatusConflict, CodeAlreadyConnected)
}

func TestSaveAccountRejectsUnknownProvider(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]*StorageAccount{}}
	svc := NewSyncService(repo, nil)

	req := SaveAccountRequest{Provider: "floppynet", AccountID: "a", AccountEmail: "a@example.com", AccessToken: "t"}
	err := svc.SaveAccount(context.Background(), "org-1", "admin-1", req)
	assertSyncError(t, err, http.StatusBadRequest, CodeInvalidProvider)
}

func TestDisconnect(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]*StorageAccount{
		"org-1": {OrgID: "org-1", Provider: "dropbox"},
	}}
	svc := NewSyncService(repo, nil)

	if err := svc.Disconnect(context.Background(), "org-1", "admin-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := svc.Disconnect(context.Background(), "org-1", "admin-1")
	assertSyncError(t, err, http.StatusNotFound, CodeNotConnected)
}

func TestStatusLookupFailure(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]*StorageAccount{}, findErr: errors.New("db down")}
	svc := NewSyncService(repo, nil)

	_, err := svc.Status(context.Background(), "org-1")
	assertSyncError(t, err, http.StatusServiceUnavailable, CodeProviderFailure)
}
