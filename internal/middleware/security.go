package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIHeaders returns middleware that sets response headers for the JSON
// API. Snapshots are rebuilt on every call and must not be cached by
// intermediaries.
func APIHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("Cache-Control", "no-store")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")

			return next(c)
		}
	}
}
