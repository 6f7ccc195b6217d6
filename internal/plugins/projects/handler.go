package projects

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// Handler handles HTTP requests for projects.
type Handler struct {
	service ProjectService
}

// NewHandler creates a new project handler.
func NewHandler(service ProjectService) *Handler {
	return &Handler{service: service}
}

// Create creates a project (POST /api/orgs/:orgID/projects).
func (h *Handler) Create(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.Create(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// List returns the org's projects (GET /api/orgs/:orgID/projects).
func (h *Handler) List(c echo.Context) error {
	projects, err := h.service.List(c.Request().Context(), c.Param("orgID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Get returns one project (GET /api/orgs/:orgID/projects/:projectID).
func (h *Handler) Get(c echo.Context) error {
	project, err := h.service.Get(c.Request().Context(), c.Param("orgID"), c.Param("projectID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Update updates a project (PUT /api/orgs/:orgID/projects/:projectID).
func (h *Handler) Update(c echo.Context) error {
	var req UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.service.Update(c.Request().Context(), c.Param("orgID"), c.Param("projectID"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}
