// Package namespaces manages per-wiki namespace definitions stored in
// mw_namespaces. A wiki's namespaces are edited through a staging WikiNamespaces
// (Modify/Remove, then Commit); renames and removals queue a page
// migration job unless the caller disabled it. The pseudo-wiki
// config.DefaultDatabase holds the template copied into new wikis.
package namespaces

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Well-known namespace ids.
const (
	NSSpecial     = -1
	NSMain        = 0
	NSProject     = 4
	NSProjectTalk = 5
)

// NamespaceRow is one decoded mw_namespaces row.
type NamespaceRow struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Core         bool           `json:"core"`
	Searchable   bool           `json:"searchable"`
	Subpages     bool           `json:"subpages"`
	Content      bool           `json:"content"`
	ContentModel string         `json:"contentmodel"`
	Protection   string         `json:"protection"`
	Aliases      []string       `json:"aliases"`
	Additional   map[string]any `json:"additional"`
}

// RawNamespaceRow is a row as scanned from the database, before the JSON
// columns are decoded.
type RawNamespaceRow struct {
	ID           int64
	Name         string
	Core         bool
	Searchable   bool
	Subpages     bool
	Content      bool
	ContentModel string
	Protection   string
	Aliases      []byte
	Additional   []byte
}

// DecodeNamespaceRow decodes the JSON columns of raw. Empty or NULL payloads
// decode to empty containers.
func DecodeNamespaceRow(raw RawNamespaceRow) (NamespaceRow, error) {
	row := NamespaceRow{
		ID:           int(raw.ID),
		Name:         raw.Name,
		Core:         raw.Core,
		Searchable:   raw.Searchable,
		Subpages:     raw.Subpages,
		Content:      raw.Content,
		ContentModel: raw.ContentModel,
		Protection:   raw.Protection,
		Aliases:      []string{},
		Additional:   map[string]any{},
	}

	if payload := jsonOrDefault(raw.Aliases, "[]"); payload != "null" {
		if err := json.Unmarshal([]byte(payload), &row.Aliases); err != nil {
			return NamespaceRow{}, fmt.Errorf("namespace %d: decoding aliases: %w", raw.ID, err)
		}
	}
	if payload := jsonOrDefault(raw.Additional, "{}"); payload != "null" && payload != "[]" {
		if err := json.Unmarshal([]byte(payload), &row.Additional); err != nil {
			return NamespaceRow{}, fmt.Errorf("namespace %d: decoding additional settings: %w", raw.ID, err)
		}
	}
	if row.Aliases == nil {
		row.Aliases = []string{}
	}
	if row.Additional == nil {
		row.Additional = map[string]any{}
	}
	return row, nil
}

// encode renders the JSON columns of row for storage.
func (r NamespaceRow) encode() (aliases, additional []byte, err error) {
	a := r.Aliases
	if a == nil {
		a = []string{}
	}
	aliases, err = json.Marshal(a)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding aliases: %w", err)
	}
	add := r.Additional
	if add == nil {
		add = map[string]any{}
	}
	additional, err = json.Marshal(add)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding additional settings: %w", err)
	}
	return aliases, additional, nil
}

func jsonOrDefault(b []byte, def string) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return def
	}
	return s
}

// NamespaceInput is the validated input for writing a single namespace.
type NamespaceInput struct {
	Name         string `json:"name"`
	Searchable   bool   `json:"searchable"`
	Subpages     bool   `json:"subpages"`
	Content      bool   `json:"content"`
	ContentModel string `json:"contentmodel"`
	Protection   string `json:"protection"`
	Core         bool   `json:"core"`
}

// MigrationJob asks the page mover to follow a namespace change.
type MigrationJob struct {
	Wiki        string `json:"wiki"`
	NamespaceID int    `json:"namespace_id"`
	OldName     string `json:"old_name"`
	NewName     string `json:"new_name,omitempty"`
	Action      string `json:"action"`
}

// Migration job actions.
const (
	ActionRename = "rename"
	ActionRemove = "remove"
)
