package namespaces

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler handles namespace-related HTTP requests.
type Handler struct {
	service NamespaceService
}

// NewHandler creates a new namespace handler.
func NewHandler(service NamespaceService) *Handler {
	return &Handler{service: service}
}

// ListNamespaces handles GET /api/v1/wikis/:wiki/namespaces.
func (h *Handler) ListNamespaces(c echo.Context) error {
	rows, err := h.service.List(c.Request().Context(), c.Param("wiki"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// GetNamespace handles GET /api/v1/wikis/:wiki/namespaces/:nsID.
func (h *Handler) GetNamespace(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("nsID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid namespace ID")
	}

	row, err := h.service.Get(c.Request().Context(), c.Param("wiki"), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, row)
}

// PutNamespace handles PUT /api/v1/wikis/:wiki/namespaces/:nsID.
func (h *Handler) PutNamespace(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("nsID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid namespace ID")
	}

	var input NamespaceInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	row, err := h.service.AddNamespace(c.Request().Context(), c.Param("wiki"), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, row)
}
