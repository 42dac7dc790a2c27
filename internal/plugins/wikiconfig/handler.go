package wikiconfig

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/managewiki/internal/modules"
)

// Handler serves built snapshots and the table registration map.
type Handler struct {
	builder Builder
	flags   modules.Flags
}

// NewHandler creates a new wiki config handler.
func NewHandler(builder Builder, flags modules.Flags) *Handler {
	return &Handler{builder: builder, flags: flags}
}

// GetConfig builds the snapshot of one wiki (GET /api/v1/wikis/:wiki/config).
func (h *Handler) GetConfig(c echo.Context) error {
	snap, err := h.builder.Build(c.Request().Context(), BuildInput{
		WikiID:       c.Param("wiki"),
		LanguageCode: c.QueryParam("lang"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// ListTables returns the per-wiki tables to provision (GET /api/v1/tables).
func (h *Handler) ListTables(c echo.Context) error {
	tables := map[string]string{}
	RegisterTables(h.flags, tables)
	return c.JSON(http.StatusOK, tables)
}
