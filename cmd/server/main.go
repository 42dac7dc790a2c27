// Package main is the entry point for the ManageWiki server. It loads
// configuration and farm rules, establishes database connections, wires
// the registries into the API, and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyxmakerx/managewiki/internal/app"
	"github.com/keyxmakerx/managewiki/internal/config"
	"github.com/keyxmakerx/managewiki/internal/database"
	"github.com/keyxmakerx/managewiki/internal/localisation"
	"github.com/keyxmakerx/managewiki/internal/modules"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	farm, err := config.LoadFarm(cfg.FarmConfigPath)
	if err != nil {
		slog.Error("failed to load farm rules",
			slog.String("path", cfg.FarmConfigPath),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
	flags, err := modules.ParseFlags(farm.Modules)
	if err != nil {
		slog.Error("invalid module list", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting ManageWiki",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.Any("modules", farm.Modules),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- Connect to MariaDB ---
	db, err := database.NewMariaDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to MariaDB", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to MariaDB")

	if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Connect to Redis ---
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("connected to Redis")

	// --- Localisation ---
	l10n := localisation.NewRedisStore(rdb, cfg.Localisation.CacheTTL)
	go l10n.Start()
	defer l10n.Stop()
	if path := cfg.Localisation.ImportPath; path != "" {
		if err := localisation.ImportFile(ctx, l10n, path); err != nil {
			slog.Error("failed to import localisation", slog.String("path", path), slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("imported localisation", slog.String("path", path))
	}

	// --- Create Application ---
	application := app.New(cfg, farm, flags, db, rdb, l10n)
	application.RegisterRoutes()

	// --- Graceful Shutdown ---
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// setupLogging configures the global slog logger. Development uses text
// format for readability. Production uses JSON for log aggregation.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
