package orgs

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// Handler handles HTTP requests for organizations and memberships.
// Handlers are thin: they bind the request, call the service, and render the
// response. No business logic lives here.
type Handler struct {
	service OrgService
	auth    auth.AuthService
}

// NewHandler creates a new orgs handler.
func NewHandler(service OrgService, authService auth.AuthService) *Handler {
	return &Handler{service: service, auth: authService}
}

// Create creates a new organization (POST /api/orgs).
func (h *Handler) Create(c echo.Context) error {
	var req CreateOrgRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	org, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreateOrgInput{Name: req.Name})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, org)
}

// List returns the caller's organizations (GET /api/orgs).
func (h *Handler) List(c echo.Context) error {
	orgs, err := h.service.ListForUser(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orgs)
}

// Get returns one organization (GET /api/orgs/:orgID).
func (h *Handler) Get(c echo.Context) error {
	oc := GetOrgContext(c)
	if oc == nil {
		return apperror.NewInternal(errMissingOrgContext)
	}
	return c.JSON(http.StatusOK, oc.Org)
}

// Role is the role endpoint (GET /api/orgs/:orgID/role). It is registered
// WITHOUT auth middleware because its unauthenticated response shape is part
// of the API contract: 401 with {"role": null, "is_admin": false} rather
// than the generic error body.
func (h *Handler) Role(c echo.Context) error {
	ctx := c.Request().Context()

	var session *auth.Session
	if token := auth.BearerToken(c); token != "" {
		session, _ = h.auth.ValidateSession(ctx, token)
	}
	if session == nil {
		return c.JSON(http.StatusUnauthorized, RoleResponse{Role: nil, IsAdmin: false})
	}

	decision, err := h.service.ResolveAccess(ctx, c.Param("orgID"), session)
	if err != nil {
		return err
	}

	resp := RoleResponse{IsAdmin: decision.IsAdmin, IsOwner: decision.IsOwner}
	if decision.Role != "" {
		role := decision.Role
		resp.Role = &role
	}
	return c.JSON(http.StatusOK, resp)
}

// ListMembers returns all members of the org (GET /api/orgs/:orgID/members).
func (h *Handler) ListMembers(c echo.Context) error {
	members, err := h.service.ListMembers(c.Request().Context(), c.Param("orgID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// AddMember adds a member by email (POST /api/orgs/:orgID/members).
func (h *Handler) AddMember(c echo.Context) error {
	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.AddMember(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), req.Email, req.Role)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// UpdateMemberRole changes a member's role (PUT /api/orgs/:orgID/members/:userID).
func (h *Handler) UpdateMemberRole(c echo.Context) error {
	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.UpdateMemberRole(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), c.Param("userID"), req.Role)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveMember removes a member (DELETE /api/orgs/:orgID/members/:userID).
func (h *Handler) RemoveMember(c echo.Context) error {
	err := h.service.RemoveMember(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), c.Param("userID"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
