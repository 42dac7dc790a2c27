// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (DB pool, Redis client, Echo instance,
// farm rules) and wires the plugins together.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/managewiki/internal/apperror"
	"github.com/keyxmakerx/managewiki/internal/config"
	"github.com/keyxmakerx/managewiki/internal/localisation"
	"github.com/keyxmakerx/managewiki/internal/middleware"
	"github.com/keyxmakerx/managewiki/internal/modules"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Farm holds the static farm rules.
	Farm *config.Farm

	// Flags are the enabled capabilities.
	Flags modules.Flags

	// DB is the MariaDB connection pool shared by all registries.
	DB *sql.DB

	// Redis backs localisation tables and the migration job queue.
	Redis *redis.Client

	// Localisation resolves namespace display names.
	Localisation localisation.Lookup

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, farm *config.Farm, flags modules.Flags, db *sql.DB, rdb *redis.Client, l10n localisation.Lookup) *App {
	e := echo.New()

	// We log our own startup line.
	e.HideBanner = true
	e.HidePort = true

	middleware.TrustedProxies(e, cfg.TrustedProxies)

	app := &App{
		Config:       cfg,
		Farm:         farm,
		Flags:        flags,
		DB:           db,
		Redis:        rdb,
		Localisation: l10n,
		Echo:         e,
	}

	// Recovery must be outermost to catch panics from all other middleware.
	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger())

	e.HTTPErrorHandler = app.errorHandler

	return app
}

// errorHandler maps domain errors (AppError) and Echo errors to JSON
// responses. Internal causes are logged, never sent.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}
	c.JSON(code, map[string]string{
		"error":   http.StatusText(code),
		"message": message,
	})
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting ManageWiki server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
