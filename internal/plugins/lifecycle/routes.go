package lifecycle

import "github.com/labstack/echo/v4"

// RegisterRoutes adds lifecycle event routes to the authenticated API group.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.POST("/wikis/:wiki/created", h.Created)
	api.POST("/wikis/:wiki/private", h.SetPrivate)
	api.POST("/wikis/:wiki/public", h.SetPublic)
}
