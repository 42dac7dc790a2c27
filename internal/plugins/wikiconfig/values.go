package wikiconfig

import (
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// truthy reports whether v counts as set: nil, false, zero numbers, "",
// "0" and empty lists or maps do not.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32:
		return rv.Float() != 0
	}
	return true
}

// normalizeName replaces spaces and colons with underscores.
func normalizeName(s string) string {
	return strings.NewReplacer(" ", "_", ":", "_").Replace(s)
}

// normalizeConstant normalizes string constants; other values are kept.
func normalizeConstant(v any) any {
	if s, ok := v.(string); ok {
		return normalizeName(s)
	}
	return v
}

// asID converts a decoded number or numeric string to a namespace id.
func asID(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(t)
		return i, err == nil
	}
	return 0, false
}

// idList converts an existing setting into a check-type id list. ok is false
// when v has no list shape.
func idList(v any) (ids []int, ok bool) {
	switch t := v.(type) {
	case nil:
		return []int{}, true
	case []int:
		return t, true
	case []any:
		ids = make([]int, 0, len(t))
		for _, e := range t {
			if id, ok := asID(e); ok {
				ids = append(ids, id)
			}
		}
		return ids, true
	case map[int]any:
		ids = make([]int, 0, len(t))
		keys := make([]int, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if id, ok := asID(t[k]); ok {
				ids = append(ids, id)
			}
		}
		return ids, true
	case map[string]any:
		ids = make([]int, 0, len(t))
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if id, ok := asID(t[k]); ok {
				ids = append(ids, id)
			}
		}
		return ids, true
	}
	return nil, false
}

// indexed converts an existing setting into a per-namespace map. Lists are
// keyed by position; map keys that are not ids are dropped.
func indexed(v any) (m map[int]any, ok bool) {
	switch t := v.(type) {
	case nil:
		return map[int]any{}, true
	case map[int]any:
		return t, true
	case map[string]any:
		m = make(map[int]any, len(t))
		for k, e := range t {
			if id, err := strconv.Atoi(k); err == nil {
				m[id] = e
			}
		}
		return m, true
	case []any:
		m = make(map[int]any, len(t))
		for i, e := range t {
			m[i] = e
		}
		return m, true
	case []int:
		m = make(map[int]any, len(t))
		for i, e := range t {
			m[i] = e
		}
		return m, true
	}
	return nil, false
}
