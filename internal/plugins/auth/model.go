// Package auth handles user authentication, session management, and password
// security for Jobdeck. It provides registration, login, logout, and session
// validation via opaque bearer tokens stored in Redis.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package auth

import (
	"time"
)

// User represents a registered Jobdeck user. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use this
// struct directly.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	AppRole      *string    `json:"app_role,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// AppRole is the account-level role hint stamped onto the user at
// provisioning time (e.g. "admin" for the tenant's bootstrap account).
// It is a cheap claim carried on every session and can go stale relative
// to later membership changes -- the durable membership record in the orgs
// plugin always takes precedence when one exists.

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /api/auth/register.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest holds the data submitted to POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string

	// AppRole optionally stamps a provisioning-time role hint on the
	// account. Only used by provisioning flows, never by self-signup.
	AppRole *string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// --- Session ---

// Session represents an authenticated user session stored in Redis.
// The session token is the key, and this struct is the value (JSON-encoded).
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AppRole   *string   `json:"app_role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
