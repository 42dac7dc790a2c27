// Package lifecycle reacts to wiki lifecycle events (created, set private,
// set public) by seeding or adjusting the wiki's stored defaults. Each
// entry point is a no-op for disabled capabilities.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/keyxmakerx/managewiki/internal/apperror"
	"github.com/keyxmakerx/managewiki/internal/config"
	"github.com/keyxmakerx/managewiki/internal/modules"
	"github.com/keyxmakerx/managewiki/internal/plugins/audit"
	"github.com/keyxmakerx/managewiki/internal/plugins/namespaces"
	"github.com/keyxmakerx/managewiki/internal/plugins/permissions"
	"github.com/keyxmakerx/managewiki/internal/plugins/settings"
)

// LifecycleService handles wiki lifecycle events.
type LifecycleService interface {
	// OnCreate seeds default permissions, extensions and namespaces.
	OnCreate(ctx context.Context, wiki string, private bool) error

	// OnSetPrivate applies the private-wiki permission defaults.
	OnSetPrivate(ctx context.Context, wiki string) error

	// OnSetPublic removes the default private group if the wiki has it.
	OnSetPublic(ctx context.Context, wiki string) error
}

// Deps are the collaborators of the lifecycle service. Registries of
// disabled capabilities may be nil.
type Deps struct {
	Flags       modules.Flags
	Farm        *config.Farm
	Extensions  settings.ExtensionRegistry
	Namespaces  namespaces.Registry
	Permissions permissions.Registry
	Seeder      permissions.Seeder

	// Audit records completed events. Optional.
	Audit audit.AuditService
}

// lifecycleService implements LifecycleService.
type lifecycleService struct {
	Deps
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(deps Deps) LifecycleService {
	if deps.Farm == nil {
		deps.Farm = &config.Farm{DefaultDatabase: config.DefaultDatabase}
	}
	return &lifecycleService{Deps: deps}
}

// OnCreate seeds a new wiki. Namespaces are committed one at a time, so a
// failure leaves the earlier ones in place; re-running overwrites them.
func (s *lifecycleService) OnCreate(ctx context.Context, wiki string, private bool) error {
	if err := requireWiki(wiki); err != nil {
		return err
	}

	if s.Flags.IsEnabled(modules.Permissions) {
		if err := s.Seeder.SeedDefaults(ctx, wiki, private); err != nil {
			return apperror.NewInternal(fmt.Errorf("seeding permissions: %w", err))
		}
	}

	if s.Flags.IsEnabled(modules.Extensions) && len(s.Farm.ExtensionsDefault) > 0 {
		mod := s.Extensions.ForWiki(wiki)
		mod.Add(s.Farm.ExtensionsDefault...)
		if err := mod.Commit(ctx); err != nil {
			return apperror.NewInternal(fmt.Errorf("seeding extensions: %w", err))
		}
	}

	if s.Flags.IsEnabled(modules.Namespaces) {
		template, err := s.Namespaces.Template(ctx)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("reading namespace template: %w", err))
		}

		mod := s.Namespaces.ForWiki(wiki)
		mod.DisableMigrationJob()
		for _, row := range template {
			if err := mod.Modify(ctx, row.ID, row, false); err != nil {
				return apperror.NewInternal(fmt.Errorf("seeding namespace %d: %w", row.ID, err))
			}
			if err := mod.Commit(ctx); err != nil {
				return apperror.NewInternal(fmt.Errorf("committing namespace %d: %w", row.ID, err))
			}
		}
		slog.Info("default namespaces seeded",
			slog.String("wiki", wiki),
			slog.Int("count", len(template)),
		)
	}

	slog.Info("wiki created",
		slog.String("wiki", wiki),
		slog.Bool("private", private),
	)
	s.record(ctx, wiki, audit.ActionWikiCreated, map[string]any{"private": private})
	return nil
}

// OnSetPrivate delegates to the default-permission seeder.
func (s *lifecycleService) OnSetPrivate(ctx context.Context, wiki string) error {
	if err := requireWiki(wiki); err != nil {
		return err
	}
	if !s.Flags.IsEnabled(modules.Permissions) {
		return nil
	}
	if err := s.Seeder.SeedPrivateDefaults(ctx, wiki); err != nil {
		return apperror.NewInternal(fmt.Errorf("seeding private permissions: %w", err))
	}
	s.record(ctx, wiki, audit.ActionWikiPrivate, map[string]any{"group": s.Farm.PermissionsDefaultPrivateGroup})
	return nil
}

// OnSetPublic removes the default private group.
func (s *lifecycleService) OnSetPublic(ctx context.Context, wiki string) error {
	if err := requireWiki(wiki); err != nil {
		return err
	}
	group := s.Farm.PermissionsDefaultPrivateGroup
	if !s.Flags.IsEnabled(modules.Permissions) || group == "" {
		return nil
	}

	mod := s.Permissions.ForWiki(wiki)
	exists, err := mod.Exists(ctx, group)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("checking group %s: %w", group, err))
	}
	if !exists {
		return nil
	}

	if err := mod.Remove(ctx, group); err != nil {
		return apperror.NewInternal(fmt.Errorf("removing group %s: %w", group, err))
	}
	if err := mod.Commit(ctx); err != nil {
		return apperror.NewInternal(fmt.Errorf("removing group %s: %w", group, err))
	}
	slog.Info("private group removed",
		slog.String("wiki", wiki),
		slog.String("group", group),
	)
	s.record(ctx, wiki, audit.ActionWikiPublic, map[string]any{"group": group})
	return nil
}

// record writes a log entry. Failures are logged by the audit service and
// never fail the event.
func (s *lifecycleService) record(ctx context.Context, wiki, action string, details map[string]any) {
	if s.Audit == nil {
		return
	}
	_ = s.Audit.Log(ctx, &audit.LogEntry{Wiki: wiki, Action: action, Details: details})
}

func requireWiki(wiki string) error {
	if strings.TrimSpace(wiki) == "" {
		return apperror.NewBadRequest("wiki id is required")
	}
	return nil
}
