package wikiconfig

import (
	"log/slog"
	"slices"

	"github.com/keyxmakerx/managewiki/internal/config"
)

// snapshotBuilder accumulates one Snapshot. Namespace-derived settings go
// through the add*Setting methods, which keep each variable in the shape
// its rule type demands.
type snapshotBuilder struct {
	wiki string
	snap Snapshot
}

func newSnapshotBuilder(wiki string) *snapshotBuilder {
	return &snapshotBuilder{wiki: wiki}
}

// setSettings installs the stored settings verbatim.
func (b *snapshotBuilder) setSettings(settings map[string]any) {
	if settings == nil {
		settings = map[string]any{}
	}
	b.snap.Settings = settings
}

// setExtensions installs the stored extension list.
func (b *snapshotBuilder) setExtensions(names []string) {
	if names == nil {
		names = []string{}
	}
	b.snap.Extensions = names
}

func (b *snapshotBuilder) settings() map[string]any {
	if b.snap.Settings == nil {
		b.snap.Settings = map[string]any{}
	}
	return b.snap.Settings
}

// addCheckSetting adds id to the id list under variable, once.
func (b *snapshotBuilder) addCheckSetting(variable string, id int) {
	settings := b.settings()
	ids, ok := idList(settings[variable])
	if !ok {
		b.replaced(variable, settings[variable])
		ids = []int{}
	}
	if !slices.Contains(ids, id) {
		ids = append(ids, id)
	}
	settings[variable] = ids
}

// addIndexedSetting sets variable[id] = value.
func (b *snapshotBuilder) addIndexedSetting(variable string, id int, value any) {
	settings := b.settings()
	m, ok := indexed(settings[variable])
	if !ok {
		b.replaced(variable, settings[variable])
		m = map[int]any{}
	}
	m[id] = value
	settings[variable] = m
}

// setConstantSetting overwrites variable with the normalized value.
func (b *snapshotBuilder) setConstantSetting(variable string, value any) {
	b.settings()[variable] = normalizeConstant(value)
}

// ensureSettingContainer makes variable present as an empty container of
// the rule's shape unless it already holds a value.
func (b *snapshotBuilder) ensureSettingContainer(rule config.AdditionalSettingRule) {
	settings := b.settings()
	if truthy(settings[rule.Variable]) {
		return
	}
	if rule.Type == config.RuleTypeCheck {
		settings[rule.Variable] = []int{}
		return
	}
	settings[rule.Variable] = map[int]any{}
}

// applyRule records a truthy resolved value for namespace id.
func (b *snapshotBuilder) applyRule(rule config.AdditionalSettingRule, id int, value any) {
	switch {
	case rule.Type == config.RuleTypeCheck:
		b.addCheckSetting(rule.Variable, id)
	case rule.Type == config.RuleTypeVEStyle:
		b.addIndexedSetting(rule.Variable, id, true)
	case rule.Constant:
		b.setConstantSetting(rule.Variable, value)
	default:
		b.addIndexedSetting(rule.Variable, id, value)
	}
}

func (b *snapshotBuilder) replaced(variable string, old any) {
	slog.Debug("replacing stored setting with namespace-derived value",
		slog.String("wiki", b.wiki),
		slog.String("variable", variable),
		slog.Any("stored", old),
	)
}

// addNamespace records a namespace under its display name. A later
// namespace with the same display name replaces the earlier one.
func (b *snapshotBuilder) addNamespace(name string, info NamespaceInfo) {
	if b.snap.Namespaces == nil {
		b.snap.Namespaces = map[string]NamespaceInfo{}
	}
	if prev, ok := b.snap.Namespaces[name]; ok {
		slog.Warn("duplicate namespace display name",
			slog.String("wiki", b.wiki),
			slog.String("name", name),
			slog.Int("replaced_id", prev.ID),
			slog.Int("id", info.ID),
		)
	}
	b.snap.Namespaces[name] = info
}

// addPermissionGroup records the merged definition of group.
func (b *snapshotBuilder) addPermissionGroup(group string, info PermissionInfo) {
	if b.snap.Permissions == nil {
		b.snap.Permissions = map[string]PermissionInfo{}
	}
	b.snap.Permissions[group] = info
}

// hasPermissionGroup reports whether group was already recorded.
func (b *snapshotBuilder) hasPermissionGroup(group string) bool {
	_, ok := b.snap.Permissions[group]
	return ok
}

func (b *snapshotBuilder) snapshot() *Snapshot {
	snap := b.snap
	return &snap
}
