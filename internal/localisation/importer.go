package localisation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Writer stores a language table.
type Writer interface {
	Put(ctx context.Context, languageCode string, names map[int]string) error
}

// ImportFile loads a YAML document of the form
//
//	en:
//	  4: Project
//	  5: $1_talk
//
// and writes every language table through w.
func ImportFile(ctx context.Context, w Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading localisation file %s: %w", path, err)
	}
	return Import(ctx, w, data)
}

// Import decodes YAML tables from data and writes them through w in
// language-code order.
func Import(ctx context.Context, w Writer, data []byte) error {
	var tables map[string]map[int]string
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("decoding localisation tables: %w", err)
	}

	codes := make([]string, 0, len(tables))
	for code := range tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if err := w.Put(ctx, code, tables[code]); err != nil {
			return err
		}
	}
	slog.Info("localisation imported", slog.Int("languages", len(codes)))
	return nil
}
