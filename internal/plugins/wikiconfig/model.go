// Package wikiconfig builds the consolidated configuration snapshot of a
// wiki (settings, extensions, namespaces, permission groups) from the
// per-wiki registries and the farm's static rules, and registers the
// per-wiki tables the farm must provision.
package wikiconfig

import "encoding/json"

// Snapshot is the built configuration of one wiki. A nil section means the
// capability is disabled for the farm.
type Snapshot struct {
	Settings    map[string]any            `json:"settings"`
	Extensions  []string                  `json:"extensions"`
	Namespaces  map[string]NamespaceInfo  `json:"namespaces"`
	Permissions map[string]PermissionInfo `json:"permissions"`
}

// NamespaceInfo describes one namespace under its resolved display name.
type NamespaceInfo struct {
	ID           int            `json:"id"`
	Core         bool           `json:"core"`
	Searchable   bool           `json:"searchable"`
	Subpages     bool           `json:"subpages"`
	Content      bool           `json:"content"`
	ContentModel string         `json:"contentmodel"`
	Protection   Protection     `json:"protection"`
	Aliases      []string       `json:"aliases"`
	Additional   map[string]any `json:"additional"`
}

// Protection is the right required to edit a namespace. It encodes as JSON
// false when no protection is set.
type Protection string

// MarshalJSON implements json.Marshaler.
func (p Protection) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("false"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts a string or false.
func (p *Protection) UnmarshalJSON(data []byte) error {
	if string(data) == "false" || string(data) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = Protection(s)
	return nil
}

// PermissionInfo is the merged definition of one user group.
type PermissionInfo struct {
	Permissions  []string `json:"permissions"`
	AddGroups    []string `json:"addgroups"`
	RemoveGroups []string `json:"removegroups"`
	AddSelf      []string `json:"addself"`
	RemoveSelf   []string `json:"removeself"`
	Autopromote  any      `json:"autopromote"`
}

// BuildInput identifies the wiki to build and its content language.
type BuildInput struct {
	WikiID       string
	LanguageCode string
}
