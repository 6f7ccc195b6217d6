package audit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the audit log.
type Handler struct {
	service AuditService
}

// NewHandler creates a new audit handler.
func NewHandler(service AuditService) *Handler {
	return &Handler{service: service}
}

// activityResponse is the paginated feed shape.
type activityResponse struct {
	Entries []AuditEntry `json:"entries"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

// Activity returns the org's activity feed (GET /api/orgs/:orgID/audit).
func (h *Handler) Activity(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	entries, total, err := h.service.Activity(c.Request().Context(), c.Param("orgID"), page)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []AuditEntry{}
	}

	return c.JSON(http.StatusOK, activityResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}
