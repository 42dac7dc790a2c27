// Package permissions manages per-wiki user groups stored in mw_permissions
// and seeds the defaults a new (or newly private) wiki starts with.
package permissions

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PermissionGroupRow is one decoded mw_permissions row.
type PermissionGroupRow struct {
	Group                string   `json:"group"`
	Permissions          []string `json:"permissions"`
	AddGroups            []string `json:"addgroups"`
	RemoveGroups         []string `json:"removegroups"`
	AddGroupsToSelf      []string `json:"addself"`
	RemoveGroupsFromSelf []string `json:"removeself"`

	// Autopromote is opaque structured criteria; nil means none.
	Autopromote any `json:"autopromote"`
}

// RawPermissionRow is a row as scanned from the database, before the JSON
// columns are decoded.
type RawPermissionRow struct {
	Group                string
	Permissions          []byte
	AddGroups            []byte
	RemoveGroups         []byte
	AddGroupsToSelf      []byte
	RemoveGroupsFromSelf []byte
	Autopromote          []byte
}

// DecodePermissionRow decodes the JSON columns of raw. Empty or NULL list
// payloads decode to empty lists; an empty autopromote payload decodes to nil.
func DecodePermissionRow(raw RawPermissionRow) (PermissionGroupRow, error) {
	row := PermissionGroupRow{Group: raw.Group}
	if strings.TrimSpace(raw.Group) == "" {
		return row, fmt.Errorf("permission row without group name")
	}

	lists := []struct {
		column string
		data   []byte
		dst    *[]string
	}{
		{"perm_permissions", raw.Permissions, &row.Permissions},
		{"perm_addgroups", raw.AddGroups, &row.AddGroups},
		{"perm_removegroups", raw.RemoveGroups, &row.RemoveGroups},
		{"perm_addgroupstoself", raw.AddGroupsToSelf, &row.AddGroupsToSelf},
		{"perm_removegroupsfromself", raw.RemoveGroupsFromSelf, &row.RemoveGroupsFromSelf},
	}
	for _, l := range lists {
		payload := strings.TrimSpace(string(l.data))
		if payload != "" && payload != "null" {
			if err := json.Unmarshal([]byte(payload), l.dst); err != nil {
				return row, fmt.Errorf("group %s: decoding %s: %w", raw.Group, l.column, err)
			}
		}
		if *l.dst == nil {
			*l.dst = []string{}
		}
	}

	if payload := strings.TrimSpace(string(raw.Autopromote)); payload != "" && payload != "null" && payload != "[]" {
		if err := json.Unmarshal([]byte(payload), &row.Autopromote); err != nil {
			return row, fmt.Errorf("group %s: decoding perm_autopromote: %w", raw.Group, err)
		}
	}
	return row, nil
}

// encodeList renders a string list column, never as JSON null.
func encodeList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

// encodeAutopromote renders the autopromote column; nil stays SQL NULL.
func encodeAutopromote(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
