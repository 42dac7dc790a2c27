package audit

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the wiki log on the authenticated API group.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/wikis/:wiki/log", h.WikiLog)
}
