package wikiconfig

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the wiki config routes on the API group.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/tables", h.ListTables)
	api.GET("/wikis/:wiki/config", h.GetConfig)
}
