package storagesync

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// Handler handles HTTP requests for the storage integration. Unlike the
// rest of the API, failures are rendered locally: a SyncError carries its
// own status and code, anything else collapses to a plain 500. The wire
// shape is {"error": ..., "code": ...}, code omitted for untyped failures.
type Handler struct {
	service SyncService
}

// NewHandler creates a new storage sync handler.
func NewHandler(service SyncService) *Handler {
	return &Handler{service: service}
}

// syncErrorBody is the error wire shape.
type syncErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError renders a storage failure.
func writeError(c echo.Context, err error) error {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return c.JSON(syncErr.Status, syncErrorBody{Error: syncErr.Message, Code: syncErr.Code})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, syncErrorBody{Error: "storage operation failed"})
}

// Status reports the org's connection state (GET /api/orgs/:orgID/storage).
func (h *Handler) Status(c echo.Context) error {
	status, err := h.service.Status(c.Request().Context(), c.Param("orgID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

// SaveAccount stores the post-OAuth grant (POST /api/orgs/:orgID/storage).
func (h *Handler) SaveAccount(c echo.Context) error {
	var req SaveAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, syncErrorBody{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.SaveAccount(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// Disconnect removes the grant (DELETE /api/orgs/:orgID/storage).
func (h *Handler) Disconnect(c echo.Context) error {
	err := h.service.Disconnect(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
