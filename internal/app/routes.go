package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/managewiki/internal/middleware"
	"github.com/keyxmakerx/managewiki/internal/modules"
	"github.com/keyxmakerx/managewiki/internal/plugins/audit"
	"github.com/keyxmakerx/managewiki/internal/plugins/lifecycle"
	"github.com/keyxmakerx/managewiki/internal/plugins/namespaces"
	"github.com/keyxmakerx/managewiki/internal/plugins/permissions"
	"github.com/keyxmakerx/managewiki/internal/plugins/settings"
	"github.com/keyxmakerx/managewiki/internal/plugins/wikiconfig"
)

// RegisterRoutes wires the registries into the plugins and mounts every
// route. This is the single place where routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo
	defaultDB := a.Farm.DefaultDatabase

	// --- Registries ---
	settingsRepo := settings.NewSettingsRepository(a.DB)
	extensionRegistry := settings.NewExtensionRegistry(settingsRepo)
	namespaceRegistry := namespaces.NewRegistry(
		namespaces.NewNamespaceRepository(a.DB),
		namespaces.NewRedisJobQueue(a.Redis),
		defaultDB,
	)
	permissionRegistry := permissions.NewRegistry(permissions.NewPermissionRepository(a.DB), defaultDB)
	seeder := permissions.NewSeeder(permissionRegistry, a.Farm.PermissionsDefaultPrivateGroup)

	// --- Services ---
	auditService := audit.NewAuditService(audit.NewAuditRepository(a.DB))
	builder := wikiconfig.NewBuilder(wikiconfig.Deps{
		Flags:        a.Flags,
		Farm:         a.Farm,
		Settings:     settingsRepo,
		Extensions:   extensionRegistry,
		Namespaces:   namespaceRegistry,
		Permissions:  permissionRegistry,
		Localisation: a.Localisation,
	})
	lifecycleService := lifecycle.NewLifecycleService(lifecycle.Deps{
		Flags:       a.Flags,
		Farm:        a.Farm,
		Extensions:  extensionRegistry,
		Namespaces:  namespaceRegistry,
		Permissions: permissionRegistry,
		Seeder:      seeder,
		Audit:       auditService,
	})
	namespaceService := namespaces.NewNamespaceService(namespaceRegistry)

	// --- Public Routes ---
	e.GET("/healthz", a.healthz)

	// --- API Routes ---
	api := e.Group("/api/v1", middleware.APIHeaders(), middleware.RequireAPIKey(a.Config.AdminAPIKeyHash))

	wikiconfig.RegisterRoutes(api, wikiconfig.NewHandler(builder, a.Flags))
	lifecycle.RegisterRoutes(api, lifecycle.NewHandler(lifecycleService))
	audit.RegisterRoutes(api, audit.NewHandler(auditService))
	if a.Flags.IsEnabled(modules.Namespaces) {
		namespaces.RegisterRoutes(api, namespaces.NewHandler(namespaceService))
	}
}

// healthz reports whether MariaDB and Redis answer.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "mariadb": "ok", "redis": "ok"}
	code := http.StatusOK
	if err := a.DB.PingContext(ctx); err != nil {
		status["mariadb"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		status["redis"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}
