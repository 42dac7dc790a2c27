// Package modules defines the capability registry for ManageWiki.
// Capabilities are independently enable-able subsystems (settings,
// extensions, namespaces, permissions). The farm config decides which are
// on; everything else asks Flags before touching the related storage.
package modules

import (
	"fmt"
	"strings"
)

// ID identifies one capability.
type ID string

const (
	// Settings stores per-wiki configuration variables.
	Settings ID = "settings"

	// Extensions stores the per-wiki list of enabled extensions.
	Extensions ID = "extensions"

	// Namespaces stores per-wiki namespace definitions.
	Namespaces ID = "namespaces"

	// Permissions stores per-wiki user groups and their rights.
	Permissions ID = "permissions"
)

// ModuleInfo holds metadata about a registered capability.
type ModuleInfo struct {
	// ID is the unique machine-readable identifier (e.g., "namespaces").
	ID ID

	// Name is the human-readable display name.
	Name string

	// Table is the storage table backing the capability.
	Table string

	// KeyColumn is the column holding the wiki id in Table.
	KeyColumn string
}

// Registry returns the list of all known capabilities.
func Registry() []ModuleInfo {
	return []ModuleInfo{
		{ID: Settings, Name: "Settings", Table: "mw_settings", KeyColumn: "s_dbname"},
		{ID: Extensions, Name: "Extensions", Table: "mw_settings", KeyColumn: "s_dbname"},
		{ID: Namespaces, Name: "Namespaces", Table: "mw_namespaces", KeyColumn: "ns_dbname"},
		{ID: Permissions, Name: "Permissions", Table: "mw_permissions", KeyColumn: "perm_dbname"},
	}
}

// Find returns the module info for a given ID, or nil if not found.
func Find(id ID) *ModuleInfo {
	for _, m := range Registry() {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// Flags is the set of enabled capabilities.
type Flags map[ID]bool

// NewFlags enables the given capabilities.
func NewFlags(ids ...ID) Flags {
	f := make(Flags, len(ids))
	for _, id := range ids {
		f[id] = true
	}
	return f
}

// ParseFlags builds Flags from config names, rejecting unknown capabilities.
func ParseFlags(names []string) (Flags, error) {
	f := make(Flags, len(names))
	for _, name := range names {
		id := ID(strings.ToLower(strings.TrimSpace(name)))
		if Find(id) == nil {
			return nil, fmt.Errorf("unknown module %q", name)
		}
		f[id] = true
	}
	return f, nil
}

// IsEnabled reports whether a capability is on.
func (f Flags) IsEnabled(id ID) bool {
	return f[id]
}
