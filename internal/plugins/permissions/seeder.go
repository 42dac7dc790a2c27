package permissions

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
)

// sysopGroup is the group allowed to manage the private group.
const sysopGroup = "sysop"

// Seeder writes the default permission groups of new and private wikis.
type Seeder interface {
	// SeedDefaults copies the template groups to wiki. When private is set
	// the private-wiki defaults are applied as well.
	SeedDefaults(ctx context.Context, wiki string, private bool) error

	// SeedPrivateDefaults creates the configured private group and lets
	// sysops manage its membership. No-op when no private group is set.
	SeedPrivateDefaults(ctx context.Context, wiki string) error
}

// seeder implements Seeder.
type seeder struct {
	registry     Registry
	privateGroup string
}

// NewSeeder creates a seeder. privateGroup may be empty.
func NewSeeder(registry Registry, privateGroup string) Seeder {
	return &seeder{registry: registry, privateGroup: privateGroup}
}

func (s *seeder) SeedDefaults(ctx context.Context, wiki string, private bool) error {
	template, err := s.registry.Template(ctx)
	if err != nil {
		return fmt.Errorf("reading permission template: %w", err)
	}

	mod := s.registry.ForWiki(wiki)
	for _, row := range template {
		if err := mod.Modify(ctx, cloneRow(row)); err != nil {
			return err
		}
	}
	if err := mod.Commit(ctx); err != nil {
		return fmt.Errorf("seeding permissions for %s: %w", wiki, err)
	}

	slog.Info("default permissions seeded",
		slog.String("wiki", wiki),
		slog.Int("groups", len(template)),
		slog.Bool("private", private),
	)

	if private {
		return s.SeedPrivateDefaults(ctx, wiki)
	}
	return nil
}

func (s *seeder) SeedPrivateDefaults(ctx context.Context, wiki string) error {
	if s.privateGroup == "" {
		return nil
	}

	group := PermissionGroupRow{Group: s.privateGroup, Permissions: []string{"read"}}
	template, err := s.registry.Template(ctx)
	if err != nil {
		return fmt.Errorf("reading permission template: %w", err)
	}
	for _, row := range template {
		if row.Group == s.privateGroup {
			group = cloneRow(row)
			break
		}
	}

	mod := s.registry.ForWiki(wiki)
	if err := mod.Modify(ctx, group); err != nil {
		return err
	}

	sysop, ok, err := mod.Get(ctx, sysopGroup)
	if err != nil {
		return err
	}
	if !ok {
		sysop = PermissionGroupRow{Group: sysopGroup}
	}
	sysop.AddGroups = appendUnique(sysop.AddGroups, s.privateGroup)
	sysop.RemoveGroups = appendUnique(sysop.RemoveGroups, s.privateGroup)
	if err := mod.Modify(ctx, sysop); err != nil {
		return err
	}

	if err := mod.Commit(ctx); err != nil {
		return fmt.Errorf("seeding private group for %s: %w", wiki, err)
	}
	slog.Info("private group seeded",
		slog.String("wiki", wiki),
		slog.String("group", s.privateGroup),
	)
	return nil
}

// appendUnique appends values missing from list, keeping list's order.
func appendUnique(list []string, values ...string) []string {
	seen := mapset.NewThreadUnsafeSet(list...)
	out := append([]string{}, list...)
	for _, v := range values {
		if seen.Add(v) {
			out = append(out, v)
		}
	}
	return out
}

// cloneRow copies the list fields so staged rows never alias the template.
func cloneRow(row PermissionGroupRow) PermissionGroupRow {
	row.Permissions = append([]string{}, row.Permissions...)
	row.AddGroups = append([]string{}, row.AddGroups...)
	row.RemoveGroups = append([]string{}, row.RemoveGroups...)
	row.AddGroupsToSelf = append([]string{}, row.AddGroupsToSelf...)
	row.RemoveGroupsFromSelf = append([]string{}, row.RemoveGroupsFromSelf...)
	return row
}
