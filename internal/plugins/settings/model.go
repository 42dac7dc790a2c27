// Package settings manages the per-wiki row of mw_settings: the stored
// configuration variables (s_settings, a JSON object) and the list of enabled
// extensions (s_extensions, a JSON array). A wiki without a row has no
// settings and no extensions.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeSettings decodes an s_settings payload. Empty payloads and the
// legacy empty-array encoding decode to an empty map.
func decodeSettings(data []byte) (map[string]any, error) {
	result := map[string]any{}
	payload := strings.TrimSpace(string(data))
	if payload == "" || payload == "null" || payload == "[]" {
		return result, nil
	}
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decoding s_settings: %w", err)
	}
	return result, nil
}

// decodeExtensions decodes an s_extensions payload.
func decodeExtensions(data []byte) ([]string, error) {
	result := []string{}
	payload := strings.TrimSpace(string(data))
	if payload == "" || payload == "null" {
		return result, nil
	}
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decoding s_extensions: %w", err)
	}
	if result == nil {
		result = []string{}
	}
	return result, nil
}
