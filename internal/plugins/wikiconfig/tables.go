package wikiconfig

import (
	"github.com/keyxmakerx/managewiki/internal/modules"
)

// RegisterTables adds the per-wiki tables of the enabled capabilities to
// tables (table name -> wiki id column). Existing entries are kept.
func RegisterTables(flags modules.Flags, tables map[string]string) {
	if flags.IsEnabled(modules.Extensions) || flags.IsEnabled(modules.Settings) {
		register(tables, modules.Settings)
	}
	if flags.IsEnabled(modules.Permissions) {
		register(tables, modules.Permissions)
	}
	if flags.IsEnabled(modules.Namespaces) {
		register(tables, modules.Namespaces)
	}
}

func register(tables map[string]string, id modules.ID) {
	if m := modules.Find(id); m != nil {
		tables[m.Table] = m.KeyColumn
	}
}
