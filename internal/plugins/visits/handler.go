package visits

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// Handler handles HTTP requests for site visits.
type Handler struct {
	service VisitService
}

// NewHandler creates a new visit handler.
func NewHandler(service VisitService) *Handler {
	return &Handler{service: service}
}

// Create schedules a visit (POST /api/orgs/:orgID/visits).
func (h *Handler) Create(c echo.Context) error {
	var req CreateVisitRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	visit, err := h.service.Create(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, visit)
}

// ListByProject lists a project's visits (GET /api/orgs/:orgID/projects/:projectID/visits).
func (h *Handler) ListByProject(c echo.Context) error {
	visits, err := h.service.ListByProject(c.Request().Context(), c.Param("orgID"), c.Param("projectID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visits)
}

// Get returns one visit with its crew (GET /api/orgs/:orgID/visits/:visitID).
func (h *Handler) Get(c echo.Context) error {
	visit, err := h.service.Get(c.Request().Context(), c.Param("orgID"), c.Param("visitID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visit)
}

// Update updates a visit (PUT /api/orgs/:orgID/visits/:visitID).
func (h *Handler) Update(c echo.Context) error {
	var req UpdateVisitRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	visit, err := h.service.Update(c.Request().Context(), c.Param("orgID"), c.Param("visitID"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visit)
}

// Delete removes a visit (DELETE /api/orgs/:orgID/visits/:visitID).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("orgID"), c.Param("visitID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// InviteCrew invites users to a visit (POST /api/orgs/:orgID/visits/:visitID/crew).
func (h *Handler) InviteCrew(c echo.Context) error {
	var req InviteCrewRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.InviteCrew(c.Request().Context(), c.Param("orgID"), c.Param("visitID"), req.UserIDs)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RSVP records the caller's response (PUT /api/orgs/:orgID/visits/:visitID/rsvp).
func (h *Handler) RSVP(c echo.Context) error {
	var req RSVPRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.RSVP(c.Request().Context(), c.Param("orgID"), c.Param("visitID"), auth.GetUserID(c), req.Status)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
