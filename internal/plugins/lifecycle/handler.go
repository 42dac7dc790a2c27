package lifecycle

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler handles lifecycle event HTTP requests.
type Handler struct {
	service LifecycleService
}

// NewHandler creates a new lifecycle handler.
func NewHandler(service LifecycleService) *Handler {
	return &Handler{service: service}
}

// createdRequest is the body of a wiki created event.
type createdRequest struct {
	Private bool `json:"private"`
}

// Created handles POST /api/v1/wikis/:wiki/created.
func (h *Handler) Created(c echo.Context) error {
	var req createdRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.OnCreate(c.Request().Context(), c.Param("wiki"), req.Private); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetPrivate handles POST /api/v1/wikis/:wiki/private.
func (h *Handler) SetPrivate(c echo.Context) error {
	if err := h.service.OnSetPrivate(c.Request().Context(), c.Param("wiki")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetPublic handles POST /api/v1/wikis/:wiki/public.
func (h *Handler) SetPublic(c echo.Context) error {
	if err := h.service.OnSetPublic(c.Request().Context(), c.Param("wiki")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
