// Package projects manages the job records an organization's field work
// hangs off: the attachment point for review links, media sync runs, and
// field data lookups. Business semantics stay thin on purpose; the plugin
// exists so other plugins have something real to scope to.
package projects

import "time"

// Project statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Project is one job record within an organization.
type Project struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProjectRequest holds the data for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=160"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// UpdateProjectRequest holds the data for updating a project.
type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=160"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Status      string `json:"status" validate:"required,oneof=active archived"`
}
