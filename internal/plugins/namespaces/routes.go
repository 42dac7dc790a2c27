package namespaces

import "github.com/labstack/echo/v4"

// RegisterRoutes adds namespace routes to the authenticated API group.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/wikis/:wiki/namespaces", h.ListNamespaces)
	api.GET("/wikis/:wiki/namespaces/:nsID", h.GetNamespace)
	api.PUT("/wikis/:wiki/namespaces/:nsID", h.PutNamespace)
}
