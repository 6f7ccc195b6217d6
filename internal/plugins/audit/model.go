// Package audit keeps an append-only trail of privileged actions within an
// organization: role changes, link lifecycle events, storage connects and
// disconnects. Entries are written through from the services that perform
// the action and are never updated or deleted.
package audit

import "time"

// AuditEntry is one recorded privileged action.
type AuditEntry struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined from users for display.
	ActorName string `json:"actor_name,omitempty"`
}
