// Package visits manages scheduled site visits for a project: when a crew
// goes out, who is expected on site, and whether they confirmed. Visits are
// the scheduling backbone the field data layer and review links hang off.
package visits

import "time"

// Visit status constants.
const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Crew RSVP status constants.
const (
	RSVPInvited   = "invited"
	RSVPAccepted  = "accepted"
	RSVPDeclined  = "declined"
	RSVPTentative = "tentative"
)

// Visit represents one scheduled site visit for a project.
type Visit struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	ProjectID    string    `json:"project_id"`
	Title        string    `json:"title"`
	Notes        string    `json:"notes,omitempty"`
	ScheduledFor *string   `json:"scheduled_for,omitempty"` // YYYY-MM-DD format.
	Status       string    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Joined data (not always populated).
	Crew []CrewMember `json:"crew,omitempty"`
}

// IsPlanned returns true if the visit hasn't happened yet.
func (v *Visit) IsPlanned() bool {
	return v.Status == StatusPlanned
}

// CrewMember represents a user's RSVP status for a visit.
type CrewMember struct {
	VisitID     string     `json:"visit_id"`
	UserID      string     `json:"user_id"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	// Joined data.
	DisplayName string `json:"display_name,omitempty"`
}

// --- Request DTOs ---

// CreateVisitRequest holds the data for scheduling a visit.
type CreateVisitRequest struct {
	ProjectID    string  `json:"project_id" validate:"required"`
	Title        string  `json:"title" validate:"required,min=2,max=200"`
	Notes        string  `json:"notes,omitempty" validate:"max=2000"`
	ScheduledFor *string `json:"scheduled_for,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateVisitRequest holds the data for updating a visit.
type UpdateVisitRequest struct {
	Title        string  `json:"title" validate:"required,min=2,max=200"`
	Notes        string  `json:"notes,omitempty" validate:"max=2000"`
	ScheduledFor *string `json:"scheduled_for,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status       string  `json:"status" validate:"required,oneof=planned completed cancelled"`
}

// InviteCrewRequest holds the crew members to invite.
type InviteCrewRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,required"`
}

// RSVPRequest holds a crew member's response.
type RSVPRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined tentative"`
}
