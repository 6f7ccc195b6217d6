package storagesync

import (
	"context"
	"net/http"
	"time"
)

// SyncService handles the storage integration lifecycle for an org.
type SyncService interface {
	Status(ctx context.Context, orgID string) (*SyncStatus, error)
	SaveAccount(ctx context.Context, orgID, actorID string, req SaveAccountRequest) error
	Disconnect(ctx context.Context, orgID, actorID string) error
}

// AuditRecorder records integration changes. May be nil in tests.
type AuditRecorder interface {
	Record(ctx context.Context, orgID, actorID, action, detail string)
}

type syncService struct {
	repo  StorageAccountRepository
	audit AuditRecorder
}

// NewSyncService creates a new storage sync service.
func NewSyncService(repo StorageAccountRepository, audit AuditRecorder) SyncService {
	return &syncService{repo: repo, audit: audit}
}

func (s *syncService) Status(ctx context.Context, orgID string) (*SyncStatus, error) {
	account, found, err := s.repo.Find(ctx, orgID)
	if err != nil {
		return nil, &SyncError{Status: http.StatusServiceUnavailable, Code: CodeProviderFailure, Message: "storage account lookup failed"}
	}
	if !found {
		return &SyncStatus{Connected: false}, nil
	}
	connectedAt := account.ConnectedAt
	return &SyncStatus{
		Connected:    true,
		Provider:     account.Provider,
		AccountEmail: account.AccountEmail,
		ConnectedAt:  &connectedAt,
	}, nil
}

func (s *syncService) SaveAccount(ctx context.Context, orgID, actorID string, req SaveAccountRequest) error {
	if !supportedProviders[req.Provider] {
		return &SyncError{Status: http.StatusBadRequest, Code: CodeInvalidProvider, Message: "unsupported storage provider"}
	}

	_, found, err := s.repo.Find(ctx, orgID)
	if err != nil {
		return &SyncError{Status: http.StatusServiceUnavailable, Code: CodeProviderFailure, Message: "storage account lookup failed"}
	}
	if found {
		// Reconnecting goes through an explicit disconnect first, so a
		// half-finished OAuth retry cannot silently swap accounts.
		return &SyncError{Status: http.StatusConflict, Code: CodeAlreadyConnected, Message: "a storage account is already connected"}
	}

	account := &StorageAccount{
		OrgID:        orgID,
		Provider:     req.Provider,
		AccountID:    req.AccountID,
		AccountEmail: req.AccountEmail,
		AccessToken:  req.AccessToken,
		ConnectedBy:  actorID,
		ConnectedAt:  time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, account); err != nil {
		return err
	}

	s.recordAudit(ctx, orgID, actorID, "storagesync.connect", req.Provider+" account "+req.AccountEmail)
	return nil
}

func (s *syncService) Disconnect(ctx context.Context, orgID, actorID string) error {
	if err := s.repo.Delete(ctx, orgID); err != nil {
		return err
	}
	s.recordAudit(ctx, orgID, actorID, "storagesync.disconnect", "")
	return nil
}

func (s *syncService) recordAudit(ctx context.Context, orgID, actorID, action, detail string) {
	if s.audit != nil {
		s.audit.Record(ctx, orgID, actorID, action, detail)
	}
}
