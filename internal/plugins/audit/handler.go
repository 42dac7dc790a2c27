package audit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the wiki log. Handlers are thin: bind
// request, call service, render response.
type Handler struct {
	service AuditService
}

// NewHandler creates a new audit handler.
func NewHandler(service AuditService) *Handler {
	return &Handler{service: service}
}

// WikiLog returns a page of lifecycle events (GET /wikis/:wiki/log?page=N).
func (h *Handler) WikiLog(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	result, err := h.service.GetWikiLog(c.Request().Context(), c.Param("wiki"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
