package sharelinks

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobdeck/jobdeck/internal/apperror"
	"github.com/jobdeck/jobdeck/internal/plugins/auth"
)

// Handler handles HTTP requests for share links.
type Handler struct {
	service ShareLinkService
}

// NewHandler creates a new share link handler.
func NewHandler(service ShareLinkService) *Handler {
	return &Handler{service: service}
}

// CreateReviewLink creates a review link (POST /api/orgs/:orgID/links/review).
func (h *Handler) CreateReviewLink(c echo.Context) error {
	var req CreateReviewLinkRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.CreateReviewLink(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// CreateInvite creates an invite link (POST /api/orgs/:orgID/links/invite).
func (h *Handler) CreateInvite(c echo.Context) error {
	var req CreateInviteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.CreateInvite(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// List returns the org's links, masked (GET /api/orgs/:orgID/links).
func (h *Handler) List(c echo.Context) error {
	infos, err := h.service.List(c.Request().Context(), c.Param("orgID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, infos)
}

// Revoke revokes a link (DELETE /api/orgs/:orgID/links/:linkID).
func (h *Handler) Revoke(c echo.Context) error {
	err := h.service.Revoke(c.Request().Context(), c.Param("orgID"), auth.GetUserID(c), c.Param("linkID"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Verify is the public review-link door (POST /api/links/verify).
func (h *Handler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	access, err := h.service.VerifyAccess(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, access)
}

// AcceptInvite grants the invited role to the caller (POST /api/links/accept).
func (h *Handler) AcceptInvite(c echo.Context) error {
	var req AcceptInviteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.AcceptInvite(c.Request().Context(), req.Token, req.Password, auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
