package permissions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Registry hands out per-wiki permission modules and the default template.
type Registry interface {
	// ListForWiki returns the decoded rows of a wiki, skipping malformed ones.
	ListForWiki(ctx context.Context, wiki string) ([]PermissionGroupRow, error)

	// Template returns the default group set, independent of any wiki.
	Template(ctx context.Context) ([]PermissionGroupRow, error)

	// ForWiki returns a staging module for one wiki.
	ForWiki(wiki string) WikiPermissions
}

// WikiPermissions stages group changes for one wiki until Commit.
type WikiPermissions interface {
	// Exists reports whether the group is stored or staged.
	Exists(ctx context.Context, group string) (bool, error)

	// Get returns the stored or staged definition of group.
	Get(ctx context.Context, group string) (PermissionGroupRow, bool, error)

	// Modify stages a full group definition.
	Modify(ctx context.Context, row PermissionGroupRow) error

	// Remove stages deletion of a group. Unknown groups are ignored.
	Remove(ctx context.Context, group string) error

	// Commit persists staged changes in one transaction and clears them.
	Commit(ctx context.Context) error
}

// registry implements Registry.
type registry struct {
	repo      PermissionRepository
	defaultDB string
}

// NewRegistry creates a permission registry reading templates from defaultDB.
func NewRegistry(repo PermissionRepository, defaultDB string) Registry {
	return &registry{repo: repo, defaultDB: defaultDB}
}

func (r *registry) ListForWiki(ctx context.Context, wiki string) ([]PermissionGroupRow, error) {
	raws, err := r.repo.ListRaw(ctx, wiki)
	if err != nil {
		return nil, err
	}
	rows := make([]PermissionGroupRow, 0, len(raws))
	for _, raw := range raws {
		row, err := DecodePermissionRow(raw)
		if err != nil {
			slog.Debug("skipping malformed permission row",
				slog.String("wiki", wiki),
				slog.Any("error", err),
			)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *registry) Template(ctx context.Context) ([]PermissionGroupRow, error) {
	return r.ListForWiki(ctx, r.defaultDB)
}

func (r *registry) ForWiki(wiki string) WikiPermissions {
	return &wikiPermissions{
		registry: r,
		wiki:     wiki,
		upserts:  map[string]PermissionGroupRow{},
		deletes:  map[string]bool{},
	}
}

// wikiPermissions implements WikiPermissions.
type wikiPermissions struct {
	registry *registry
	wiki     string

	// current is loaded lazily on first use.
	current map[string]PermissionGroupRow

	upserts map[string]PermissionGroupRow
	deletes map[string]bool
}

func (m *wikiPermissions) load(ctx context.Context) error {
	if m.current != nil {
		return nil
	}
	rows, err := m.registry.ListForWiki(ctx, m.wiki)
	if err != nil {
		return fmt.Errorf("loading permissions for %s: %w", m.wiki, err)
	}
	m.current = make(map[string]PermissionGroupRow, len(rows))
	for _, row := range rows {
		m.current[row.Group] = row
	}
	return nil
}

func (m *wikiPermissions) Exists(ctx context.Context, group string) (bool, error) {
	_, ok, err := m.Get(ctx, group)
	return ok, err
}

func (m *wikiPermissions) Get(ctx context.Context, group string) (PermissionGroupRow, bool, error) {
	if err := m.load(ctx); err != nil {
		return PermissionGroupRow{}, false, err
	}
	row, ok := m.current[group]
	return row, ok, nil
}

func (m *wikiPermissions) Modify(ctx context.Context, row PermissionGroupRow) error {
	if row.Group == "" {
		return fmt.Errorf("permission group name is required")
	}
	if err := m.load(ctx); err != nil {
		return err
	}
	delete(m.deletes, row.Group)
	m.upserts[row.Group] = row
	m.current[row.Group] = row
	return nil
}

func (m *wikiPermissions) Remove(ctx context.Context, group string) error {
	if err := m.load(ctx); err != nil {
		return err
	}
	if _, ok := m.current[group]; !ok {
		return nil
	}
	delete(m.upserts, group)
	delete(m.current, group)
	m.deletes[group] = true
	return nil
}

func (m *wikiPermissions) Commit(ctx context.Context) error {
	if len(m.upserts) == 0 && len(m.deletes) == 0 {
		return nil
	}

	upserts := make([]PermissionGroupRow, 0, len(m.upserts))
	for _, row := range m.upserts {
		upserts = append(upserts, row)
	}
	sort.Slice(upserts, func(i, j int) bool { return upserts[i].Group < upserts[j].Group })

	deletes := make([]string, 0, len(m.deletes))
	for group := range m.deletes {
		deletes = append(deletes, group)
	}
	sort.Strings(deletes)

	if err := m.registry.repo.Save(ctx, m.wiki, upserts, deletes); err != nil {
		return err
	}
	m.upserts = map[string]PermissionGroupRow{}
	m.deletes = map[string]bool{}
	return nil
}
