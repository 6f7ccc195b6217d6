package fielddata

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for field data.
type Handler struct {
	service FieldDataService
}

// NewHandler creates a new field data handler.
func NewHandler(service FieldDataService) *Handler {
	return &Handler{service: service}
}

// Get serves one plugin's data (GET /api/orgs/:orgID/fielddata/:plugin).
// Query parameters pass through to the fetcher (coordinates, region).
func (h *Handler) Get(c echo.Context) error {
	params := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.service.Get(c.Request().Context(), c.Param("orgID"), c.Param("plugin"), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
