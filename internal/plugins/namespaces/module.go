package namespaces

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Registry hands out per-wiki namespace modules and the default template.
type Registry interface {
	// ListForWiki returns the decoded rows of a wiki, skipping malformed ones.
	ListForWiki(ctx context.Context, wiki string) ([]NamespaceRow, error)

	// Template returns the default namespace set, independent of any wiki.
	Template(ctx context.Context) ([]NamespaceRow, error)

	// ForWiki returns a staging module for one wiki.
	ForWiki(wiki string) WikiNamespaces
}

// WikiNamespaces stages namespace changes for one wiki until Commit.
type WikiNamespaces interface {
	// Get returns the stored or staged definition of namespace id.
	Get(ctx context.Context, id int) (NamespaceRow, bool, error)

	// Modify stages a full namespace definition for id. With maintainPrefix
	// the "$1" token in the name is replaced by the wiki's project
	// namespace name.
	Modify(ctx context.Context, id int, row NamespaceRow, maintainPrefix bool) error

	// Remove stages deletion of namespace id.
	Remove(ctx context.Context, id int) error

	// DisableMigrationJob suppresses page migration jobs for staged changes.
	DisableMigrationJob()

	// Commit persists staged changes in one transaction and clears them.
	Commit(ctx context.Context) error
}

// registry implements Registry.
type registry struct {
	repo      NamespaceRepository
	jobs      JobQueue
	defaultDB string
}

// NewRegistry creates a registry. jobs may be nil, in which case migration
// jobs are logged and dropped.
func NewRegistry(repo NamespaceRepository, jobs JobQueue, defaultDB string) Registry {
	return &registry{repo: repo, jobs: jobs, defaultDB: defaultDB}
}

// ListForWiki returns the decoded rows of a wiki.
func (r *registry) ListForWiki(ctx context.Context, wiki string) ([]NamespaceRow, error) {
	raws, err := r.repo.ListRaw(ctx, wiki)
	if err != nil {
		return nil, err
	}
	rows := make([]NamespaceRow, 0, len(raws))
	for _, raw := range raws {
		row, err := DecodeNamespaceRow(raw)
		if err != nil {
			slog.Debug("skipping malformed namespace row",
				slog.String("wiki", wiki),
				slog.Any("error", err),
			)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Template returns the rows of the default pseudo-wiki.
func (r *registry) Template(ctx context.Context) ([]NamespaceRow, error) {
	return r.ListForWiki(ctx, r.defaultDB)
}

// ForWiki returns a staging module for wiki.
func (r *registry) ForWiki(wiki string) WikiNamespaces {
	return &wikiNamespaces{
		registry: r,
		wiki:     wiki,
		upserts:  map[int]NamespaceRow{},
		deletes:  map[int]bool{},
	}
}

// wikiNamespaces implements WikiNamespaces.
type wikiNamespaces struct {
	registry *registry
	wiki     string

	// current is loaded lazily on first use.
	current map[int]NamespaceRow

	upserts           map[int]NamespaceRow
	deletes           map[int]bool
	jobs              []MigrationJob
	migrationDisabled bool
}

func (m *wikiNamespaces) load(ctx context.Context) error {
	if m.current != nil {
		return nil
	}
	rows, err := m.registry.ListForWiki(ctx, m.wiki)
	if err != nil {
		return fmt.Errorf("loading namespaces for %s: %w", m.wiki, err)
	}
	m.current = make(map[int]NamespaceRow, len(rows))
	for _, row := range rows {
		m.current[row.ID] = row
	}
	return nil
}

// Get returns the current definition of namespace id.
func (m *wikiNamespaces) Get(ctx context.Context, id int) (NamespaceRow, bool, error) {
	if err := m.load(ctx); err != nil {
		return NamespaceRow{}, false, err
	}
	row, ok := m.current[id]
	return row, ok, nil
}

// Modify stages row as the definition of namespace id.
func (m *wikiNamespaces) Modify(ctx context.Context, id int, row NamespaceRow, maintainPrefix bool) error {
	if err := m.load(ctx); err != nil {
		return err
	}

	row.ID = id
	if maintainPrefix && strings.Contains(row.Name, "$1") {
		project := m.projectName()
		if project == "" {
			return fmt.Errorf("namespace %d: cannot substitute prefix, %s has no project namespace", id, m.wiki)
		}
		row.Name = strings.ReplaceAll(row.Name, "$1", project)
	}

	if existing, ok := m.current[id]; ok && existing.Name != row.Name {
		m.jobs = append(m.jobs, MigrationJob{
			Wiki:        m.wiki,
			NamespaceID: id,
			OldName:     existing.Name,
			NewName:     row.Name,
			Action:      ActionRename,
		})
	}

	delete(m.deletes, id)
	m.upserts[id] = row
	m.current[id] = row
	return nil
}

// projectName returns the staged or stored name of the project namespace.
func (m *wikiNamespaces) projectName() string {
	if row, ok := m.current[NSProject]; ok {
		return row.Name
	}
	return ""
}

// Remove stages deletion of namespace id.
func (m *wikiNamespaces) Remove(ctx context.Context, id int) error {
	if err := m.load(ctx); err != nil {
		return err
	}
	existing, ok := m.current[id]
	if !ok {
		return nil
	}
	m.jobs = append(m.jobs, MigrationJob{
		Wiki:        m.wiki,
		NamespaceID: id,
		OldName:     existing.Name,
		Action:      ActionRemove,
	})
	delete(m.upserts, id)
	delete(m.current, id)
	m.deletes[id] = true
	return nil
}

// DisableMigrationJob suppresses migration jobs for this module.
func (m *wikiNamespaces) DisableMigrationJob() {
	m.migrationDisabled = true
}

// Commit writes staged changes and queues migration jobs.
func (m *wikiNamespaces) Commit(ctx context.Context) error {
	if len(m.upserts) == 0 && len(m.deletes) == 0 {
		return nil
	}

	upserts := make([]NamespaceRow, 0, len(m.upserts))
	for _, row := range m.upserts {
		upserts = append(upserts, row)
	}
	sort.Slice(upserts, func(i, j int) bool { return upserts[i].ID < upserts[j].ID })

	deletes := make([]int, 0, len(m.deletes))
	for id := range m.deletes {
		deletes = append(deletes, id)
	}
	sort.Ints(deletes)

	if err := m.registry.repo.Save(ctx, m.wiki, upserts, deletes); err != nil {
		return err
	}

	jobs := m.jobs
	m.upserts = map[int]NamespaceRow{}
	m.deletes = map[int]bool{}
	m.jobs = nil

	if m.migrationDisabled {
		return nil
	}
	for _, job := range jobs {
		if m.registry.jobs == nil {
			slog.Warn("no migration queue configured, dropping job",
				slog.String("wiki", job.Wiki),
				slog.Int("namespace_id", job.NamespaceID),
			)
			continue
		}
		if err := m.registry.jobs.Enqueue(ctx, job); err != nil {
			return err
		}
	}
	return nil
}
