package wikiconfig

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero int", 0, false},
		{"int", 3, true},
		{"zero float", 0.0, false},
		{"float", 1.5, true},
		{"empty string", "", false},
		{"zero string", "0", false},
		{"string", "no", true},
		{"empty list", []any{}, false},
		{"list", []any{false}, true},
		{"empty map", map[string]any{}, false},
		{"map", map[int]any{1: true}, true},
		{"zero number", json.Number("0"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truthy(tt.value); got != tt.want {
				t.Errorf("truthy(%#v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	if got := normalizeName("Help talk:Old name"); got != "Help_talk_Old_name" {
		t.Errorf("unexpected %q", got)
	}
	if got := normalizeConstant(42); got != 42 {
		t.Errorf("expected non-strings untouched, got %v", got)
	}
}

func TestIDList(t *testing.T) {
	got, ok := idList([]any{float64(0), "2", "main", 1.5})
	if !ok || !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("unexpected list %v (ok=%v)", got, ok)
	}
	got, ok = idList(map[string]any{"1": float64(14), "0": float64(4)})
	if !ok || !reflect.DeepEqual(got, []int{4, 14}) {
		t.Errorf("expected values in key order, got %v", got)
	}
	if _, ok := idList("scalar"); ok {
		t.Error("expected scalar to be rejected")
	}
}

func TestIndexed(t *testing.T) {
	got, ok := indexed(map[string]any{"4": "a", "x": "b"})
	if !ok || len(got) != 1 || got[4] != "a" {
		t.Errorf("unexpected map %v", got)
	}
	got, ok = indexed([]any{"a", "b"})
	if !ok || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected list keyed by position, got %v", got)
	}
	if _, ok := indexed(true); ok {
		t.Error("expected bool to be rejected")
	}
}

func TestProtectionJSON(t *testing.T) {
	data, err := json.Marshal(NamespaceInfo{Protection: ""})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	json.Unmarshal(data, &decoded)
	if decoded["protection"] != false {
		t.Errorf("expected false, got %v", decoded["protection"])
	}

	data, _ = json.Marshal(Protection("editinterface"))
	if string(data) != `"editinterface"` {
		t.Errorf("unexpected encoding %s", data)
	}

	var p Protection
	if err := json.Unmarshal([]byte("false"), &p); err != nil || p != "" {
		t.Errorf("expected false to decode as empty, got %q (err=%v)", p, err)
	}
}
