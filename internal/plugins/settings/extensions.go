package settings

import (
	"context"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
)

// ExtensionRegistry reads extension lists and hands out per-wiki modules.
type ExtensionRegistry interface {
	// ListNames returns the enabled extensions of a wiki.
	ListNames(ctx context.Context, wiki string) ([]string, error)

	// ForWiki returns a staging module for one wiki.
	ForWiki(wiki string) WikiExtensions
}

// WikiExtensions stages extension changes for one wiki until Commit.
type WikiExtensions interface {
	// Add stages enabling the named extensions.
	Add(names ...string)

	// Remove stages disabling the named extensions.
	Remove(names ...string)

	// Commit merges the staged changes into the stored list.
	Commit(ctx context.Context) error
}

// extensionRegistry implements ExtensionRegistry.
type extensionRegistry struct {
	repo SettingsRepository
}

// NewExtensionRegistry creates an extension registry over repo.
func NewExtensionRegistry(repo SettingsRepository) ExtensionRegistry {
	return &extensionRegistry{repo: repo}
}

func (r *extensionRegistry) ListNames(ctx context.Context, wiki string) ([]string, error) {
	return r.repo.ListExtensions(ctx, wiki)
}

func (r *extensionRegistry) ForWiki(wiki string) WikiExtensions {
	return &wikiExtensions{
		repo:    r.repo,
		wiki:    wiki,
		removes: mapset.NewThreadUnsafeSet[string](),
	}
}

// wikiExtensions implements WikiExtensions.
type wikiExtensions struct {
	repo    SettingsRepository
	wiki    string
	adds    []string
	removes mapset.Set[string]
}

func (m *wikiExtensions) Add(names ...string) {
	for _, name := range names {
		m.removes.Remove(name)
	}
	m.adds = append(m.adds, names...)
}

func (m *wikiExtensions) Remove(names ...string) {
	m.removes.Append(names...)
}

// Commit keeps the stored order, appends new names and drops removed ones.
func (m *wikiExtensions) Commit(ctx context.Context) error {
	if len(m.adds) == 0 && m.removes.IsEmpty() {
		return nil
	}

	current, err := m.repo.ListExtensions(ctx, m.wiki)
	if err != nil {
		return err
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	merged := make([]string, 0, len(current)+len(m.adds))
	for _, name := range append(current, m.adds...) {
		if name == "" || m.removes.Contains(name) || !seen.Add(name) {
			continue
		}
		merged = append(merged, name)
	}

	if err := m.repo.SaveExtensions(ctx, m.wiki, merged); err != nil {
		return err
	}
	slog.Info("extensions updated",
		slog.String("wiki", m.wiki),
		slog.Int("count", len(merged)),
	)

	m.adds = nil
	m.removes.Clear()
	return nil
}
