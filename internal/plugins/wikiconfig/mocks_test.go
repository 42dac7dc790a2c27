package wikiconfig

import (
	"context"

	"github.com/keyxmakerx/managewiki/internal/plugins/namespaces"
	"github.com/keyxmakerx/managewiki/internal/plugins/permissions"
	"github.com/keyxmakerx/managewiki/internal/plugins/settings"
)

// mockNamespaceRegistry implements namespaces.Registry for testing.
type mockNamespaceRegistry struct {
	listFn func(ctx context.Context, wiki string) ([]namespaces.NamespaceRow, error)
}

func (m *mockNamespaceRegistry) ListForWiki(ctx context.Context, wiki string) ([]namespaces.NamespaceRow, error) {
	if m.listFn != nil {
		return m.listFn(ctx, wiki)
	}
	return nil, nil
}

func (m *mockNamespaceRegistry) Template(ctx context.Context) ([]namespaces.NamespaceRow, error) {
	return nil, nil
}

func (m *mockNamespaceRegistry) ForWiki(wiki string) namespaces.WikiNamespaces {
	return nil
}

// mockPermissionRegistry implements permissions.Registry for testing.
type mockPermissionRegistry struct {
	listFn func(ctx context.Context, wiki string) ([]permissions.PermissionGroupRow, error)
}

func (m *mockPermissionRegistry) ListForWiki(ctx context.Context, wiki string) ([]permissions.PermissionGroupRow, error) {
	if m.listFn != nil {
		return m.listFn(ctx, wiki)
	}
	return nil, nil
}

func (m *mockPermissionRegistry) Template(ctx context.Context) ([]permissions.PermissionGroupRow, error) {
	return nil, nil
}

func (m *mockPermissionRegistry) ForWiki(wiki string) permissions.WikiPermissions {
	return nil
}

// mockSettingsRepo implements settings.SettingsRepository for testing.
type mockSettingsRepo struct {
	listAllFn func(ctx context.Context, wiki string) (map[string]any, error)
}

func (m *mockSettingsRepo) ListAll(ctx context.Context, wiki string) (map[string]any, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, wiki)
	}
	return map[string]any{}, nil
}

func (m *mockSettingsRepo) ListExtensions(ctx context.Context, wiki string) ([]string, error) {
	return []string{}, nil
}

func (m *mockSettingsRepo) SaveExtensions(ctx context.Context, wiki string, names []string) error {
	return nil
}

// mockExtensionRegistry implements settings.ExtensionRegistry for testing.
type mockExtensionRegistry struct {
	names []string
	err   error
}

func (m *mockExtensionRegistry) ListNames(ctx context.Context, wiki string) ([]string, error) {
	return m.names, m.err
}

func (m *mockExtensionRegistry) ForWiki(wiki string) settings.WikiExtensions {
	return nil
}

// mockLookup implements localisation.Lookup for testing.
type mockLookup struct {
	tables map[string]map[int]string
	err    error
	calls  []string
}

func (m *mockLookup) NamespaceNames(ctx context.Context, languageCode string) (map[int]string, error) {
	m.calls = append(m.calls, languageCode)
	if m.err != nil {
		return nil, m.err
	}
	table, ok := m.tables[languageCode]
	if !ok {
		return nil, nil
	}
	out := make(map[int]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out, nil
}

func rows(list ...namespaces.NamespaceRow) func(ctx context.Context, wiki string) ([]namespaces.NamespaceRow, error) {
	return func(ctx context.Context, wiki string) ([]namespaces.NamespaceRow, error) {
		return list, nil
	}
}

func groups(list ...permissions.PermissionGroupRow) func(ctx context.Context, wiki string) ([]permissions.PermissionGroupRow, error) {
	return func(ctx context.Context, wiki string) ([]permissions.PermissionGroupRow, error) {
		return list, nil
	}
}
