// Package storagesync connects an organization to an external storage
// provider for field media sync. The OAuth dance happens outside this
// service; what arrives here is the already-exchanged account grant, which
// the org keeps until an admin disconnects it.
package storagesync

import (
	"fmt"
	"time"
)

// SyncError is the typed failure for storage operations. It carries the
// HTTP status to respond with and a stable machine-readable code clients
// can branch on.
type SyncError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	return fmt.Sprintf("storagesync: %s (%d %s)", e.Message, e.Status, e.Code)
}

// Stable error codes.
const (
	CodeNotConnected     = "not_connected"
	CodeAlreadyConnected = "already_connected"
	CodeInvalidProvider  = "invalid_provider"
	CodeProviderFailure  = "provider_failure"
)

// StorageAccount is the persisted provider grant for an org. AccessToken
// never leaves the server.
type StorageAccount struct {
	OrgID        string    `json:"org_id"`
	Provider     string    `json:"provider"`
	AccountID    string    `json:"account_id"`
	AccountEmail string    `json:"account_email"`
	AccessToken  string    `json:"-"`
	ConnectedBy  string    `json:"connected_by"`
	ConnectedAt  time.Time `json:"connected_at"`
}

// SyncStatus is the wire shape of the status endpoint.
type SyncStatus struct {
	Connected    bool       `json:"connected"`
	Provider     string     `json:"provider,omitempty"`
	AccountEmail string     `json:"account_email,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
}

// supportedProviders is the closed set of providers this service speaks.
var supportedProviders = map[string]bool{
	"dropbox": true,
	"gdrive":  true,
}

// SaveAccountRequest holds the post-OAuth account grant.
type SaveAccountRequest struct {
	Provider     string `json:"provider" validate:"required"`
	AccountID    string `json:"account_id" validate:"required"`
	AccountEmail string `json:"account_email" validate:"required,email"`
	AccessToken  string `json:"access_token" validate:"required"`
}
