package wikiconfig

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/keyxmakerx/managewiki/internal/apperror"
	"github.com/keyxmakerx/managewiki/internal/config"
	"github.com/keyxmakerx/managewiki/internal/localisation"
	"github.com/keyxmakerx/managewiki/internal/modules"
	"github.com/keyxmakerx/managewiki/internal/plugins/namespaces"
	"github.com/keyxmakerx/managewiki/internal/plugins/permissions"
	"github.com/keyxmakerx/managewiki/internal/plugins/settings"
)

// defaultLanguage is used when a build names no language, and is the
// language whose names are added as aliases.
const defaultLanguage = "en"

// Builder assembles configuration snapshots. Building never writes to
// storage.
type Builder interface {
	Build(ctx context.Context, in BuildInput) (*Snapshot, error)
}

// Deps are the collaborators of a Builder. Registries of disabled
// capabilities may be nil.
type Deps struct {
	Flags        modules.Flags
	Farm         *config.Farm
	Settings     settings.SettingsRepository
	Extensions   settings.ExtensionRegistry
	Namespaces   namespaces.Registry
	Permissions  permissions.Registry
	Localisation localisation.Lookup
}

// builder implements Builder.
type builder struct {
	Deps
}

// NewBuilder creates a snapshot builder.
func NewBuilder(deps Deps) Builder {
	if deps.Farm == nil {
		deps.Farm = &config.Farm{DefaultDatabase: config.DefaultDatabase}
	}
	return &builder{Deps: deps}
}

// Build reads the wiki's stored configuration and merges in the farm rules.
// Sections are read independently; there is no atomicity across them.
func (b *builder) Build(ctx context.Context, in BuildInput) (*Snapshot, error) {
	if strings.TrimSpace(in.WikiID) == "" {
		return nil, apperror.NewBadRequest("wiki id is required")
	}
	lang := in.LanguageCode
	if lang == "" {
		lang = defaultLanguage
	}

	sb := newSnapshotBuilder(in.WikiID)

	if b.Flags.IsEnabled(modules.Settings) {
		stored, err := b.Settings.ListAll(ctx, in.WikiID)
		if err != nil {
			return nil, apperror.Ensure(err)
		}
		sb.setSettings(stored)
	}

	if b.Flags.IsEnabled(modules.Extensions) {
		names, err := b.Extensions.ListNames(ctx, in.WikiID)
		if err != nil {
			return nil, apperror.Ensure(err)
		}
		sb.setExtensions(names)
	}

	if b.Flags.IsEnabled(modules.Namespaces) {
		if err := b.buildNamespaces(ctx, sb, in.WikiID, lang); err != nil {
			return nil, err
		}
	}

	if b.Flags.IsEnabled(modules.Permissions) {
		if err := b.buildPermissions(ctx, sb, in.WikiID); err != nil {
			return nil, err
		}
	}

	return sb.snapshot(), nil
}

// buildNamespaces resolves display names and aliases for every stored
// namespace and applies the farm's additional-setting rules.
func (b *builder) buildNamespaces(ctx context.Context, sb *snapshotBuilder, wiki, lang string) error {
	rows, err := b.Namespaces.ListForWiki(ctx, wiki)
	if err != nil {
		return apperror.Ensure(fmt.Errorf("listing namespaces for %s: %w", wiki, err))
	}
	sb.snap.Namespaces = map[string]NamespaceInfo{}

	var metaName, metaTalkName string
	for _, row := range rows {
		switch {
		case row.ID == namespaces.NSProject && metaName == "":
			metaName = row.Name
		case row.ID == namespaces.NSProjectTalk && metaTalkName == "":
			metaTalkName = row.Name
		}
	}

	localised, english := b.localisedNames(ctx, lang, metaName, metaTalkName)

	for _, row := range rows {
		// A localised entry wins even when empty; NS_MAIN is "" in every language.
		name := row.Name
		if l, ok := localised[row.ID]; ok {
			name = l
		}

		aliases := mapset.NewThreadUnsafeSet[string]()
		aliasList := make([]string, 0, len(row.Aliases)+1)
		for _, alias := range row.Aliases {
			if alias = normalizeName(alias); aliases.Add(alias) {
				aliasList = append(aliasList, alias)
			}
		}
		if alias, ok := english[row.ID]; ok && aliases.Add(alias) {
			aliasList = append(aliasList, alias)
		}

		sb.addNamespace(name, NamespaceInfo{
			ID:           row.ID,
			Core:         row.Core,
			Searchable:   row.Searchable,
			Subpages:     row.Subpages,
			Content:      row.Content,
			ContentModel: row.ContentModel,
			Protection:   Protection(row.Protection),
			Aliases:      aliasList,
			Additional:   row.Additional,
		})

		if row.ID == namespaces.NSSpecial {
			slog.Debug("not applying additional settings to stored special namespace row",
				slog.String("wiki", wiki),
			)
			continue
		}
		for _, rule := range b.Farm.NamespacesAdditional {
			if !rule.Only.Allows(row.ID) {
				continue
			}
			value, ok := resolveRuleValue(rule, row.ID, row.Additional)
			if !ok {
				continue
			}
			if truthy(value) {
				sb.applyRule(rule, row.ID, value)
				continue
			}
			if !rule.Constant {
				sb.ensureSettingContainer(rule)
			}
		}
	}

	// The special namespace only takes values keyed by its own id, never
	// the "default" entry.
	for _, rule := range b.Farm.NamespacesAdditional {
		value, ok := rule.OverrideDefault.ForNamespace(namespaces.NSSpecial)
		if !ok || !truthy(value) || !rule.Only.Allows(namespaces.NSSpecial) {
			continue
		}
		sb.applyRule(rule, namespaces.NSSpecial, value)
	}
	return nil
}

// localisedNames returns the display-name table for lang, with the project
// talk name's "$1" substituted, and the English table used for aliases.
// Either may be nil when localisation is unavailable.
func (b *builder) localisedNames(ctx context.Context, lang, metaName, metaTalkName string) (localised, english map[int]string) {
	localised, ok := localisation.TryNamespaceNames(ctx, b.Localisation, lang)
	if !ok {
		return nil, nil
	}

	project := localised[namespaces.NSProject]
	if project == "" {
		project = metaName
	}
	talk := localised[namespaces.NSProjectTalk]
	if talk == "" {
		talk = metaTalkName
	}
	if talk != "" {
		localised[namespaces.NSProjectTalk] = strings.ReplaceAll(talk, "$1", project)
	}

	if lang != defaultLanguage {
		english, _ = localisation.TryNamespaceNames(ctx, b.Localisation, defaultLanguage)
	}
	return localised, english
}

// resolveRuleValue picks the value of rule for namespace id: the namespace's
// own additional value, then the entry keyed by id, then the "default"
// entry. A scalar override applies as is. ok is false when nothing resolves.
func resolveRuleValue(rule config.AdditionalSettingRule, id int, additional map[string]any) (any, bool) {
	if v, ok := additional[rule.Variable]; ok && v != nil {
		return v, true
	}
	if !rule.OverrideDefault.Indexed() {
		return rule.OverrideDefault.Scalar(), true
	}
	if v, ok := rule.OverrideDefault.ForNamespace(id); ok {
		return v, true
	}
	if id == namespaces.NSSpecial {
		return nil, false
	}
	return rule.OverrideDefault.Default()
}

// buildPermissions merges stored groups with the farm's rights, add-group
// and remove-group tables.
func (b *builder) buildPermissions(ctx context.Context, sb *snapshotBuilder, wiki string) error {
	rows, err := b.Permissions.ListForWiki(ctx, wiki)
	if err != nil {
		return apperror.Ensure(fmt.Errorf("listing permissions for %s: %w", wiki, err))
	}
	sb.snap.Permissions = map[string]PermissionInfo{}

	for _, row := range rows {
		grant, revoke := b.rightFlags(row.Group)

		perms := union(row.Permissions, grant)
		if len(revoke) > 0 {
			perms = difference(perms, revoke)
		}

		sb.addPermissionGroup(row.Group, PermissionInfo{
			Permissions:  perms,
			AddGroups:    union(row.AddGroups, b.Farm.PermissionsAdditionalAddGroups[row.Group]),
			RemoveGroups: union(row.RemoveGroups, b.Farm.PermissionsAdditionalRemoveGroups[row.Group]),
			AddSelf:      orEmpty(row.AddGroupsToSelf),
			RemoveSelf:   orEmpty(row.RemoveGroupsFromSelf),
			Autopromote:  row.Autopromote,
		})
	}

	for _, entry := range b.Farm.PermissionsAdditionalRights {
		if sb.hasPermissionGroup(entry.Group) {
			continue
		}
		grant, _ := b.rightFlags(entry.Group)
		sb.addPermissionGroup(entry.Group, PermissionInfo{
			Permissions:  union(nil, grant),
			AddGroups:    union(nil, b.Farm.PermissionsAdditionalAddGroups[entry.Group]),
			RemoveGroups: union(nil, b.Farm.PermissionsAdditionalRemoveGroups[entry.Group]),
			AddSelf:      []string{},
			RemoveSelf:   []string{},
			Autopromote:  []any{},
		})
	}
	return nil
}

// rightFlags splits the farm's rights for group into granted and revoked.
func (b *builder) rightFlags(group string) (grant, revoke []string) {
	entry, ok := b.Farm.PermissionsAdditionalRights.Lookup(group)
	if !ok {
		return nil, nil
	}
	for _, flag := range entry.Rights {
		if flag.Grant {
			grant = append(grant, flag.Right)
		} else {
			revoke = append(revoke, flag.Right)
		}
	}
	return grant, revoke
}

// union returns the distinct elements of a followed by those of b, in order.
func union(a, b []string) []string {
	seen := mapset.NewThreadUnsafeSetWithSize[string](len(a) + len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if seen.Add(s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// difference returns list without the elements of remove, in order.
func difference(list, remove []string) []string {
	drop := mapset.NewThreadUnsafeSet(remove...)
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !drop.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

