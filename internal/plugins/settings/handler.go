package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// Handler handles HTTP requests for org settings.
type Handler struct {
	service SettingsService
}

// NewHandler creates a new settings handler.
func NewHandler(service SettingsService) *Handler {
	return &Handler{service: service}
}

// List returns all settings for the org (GET /api/orgs/:orgID/settings).
func (h *Handler) List(c echo.Context) error {
	settings, err := h.service.List(c.Request().Context(), c.Param("orgID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// Set writes one setting (PUT /api/orgs/:orgID/settings/:key).
func (h *Handler) Set(c echo.Context) error {
	var req SetSettingRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.Set(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), c.Param("key"), req.Value)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one setting (DELETE /api/orgs/:orgID/settings/:key).
func (h *Handler) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), c.Param("orgID"), c.Param("key"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
