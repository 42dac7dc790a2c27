// Package localisation resolves language-specific namespace display names.
// Tables live in Redis as one hash per language (namespace id -> name) and
// are fronted by an in-process TTL cache. Readers that must not fail use
// TryNamespaceNames, which logs lookup faults and reports "no localisation".
package localisation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownLanguage is returned when no table exists for a language code.
var ErrUnknownLanguage = errors.New("localisation: unknown language")

// Lookup returns the namespace-name table for a language code.
type Lookup interface {
	NamespaceNames(ctx context.Context, languageCode string) (map[int]string, error)
}

// TryNamespaceNames calls l and swallows any failure, including a panic in
// the backing store. The returned map is owned by the caller.
func TryNamespaceNames(ctx context.Context, l Lookup, languageCode string) (names map[int]string, ok bool) {
	if l == nil {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("caught panic loading namespace localisation",
				slog.String("language", languageCode),
				slog.Any("panic", r),
			)
			names, ok = nil, false
		}
	}()

	names, err := l.NamespaceNames(ctx, languageCode)
	if err != nil {
		slog.Error("caught error loading namespace localisation",
			slog.String("language", languageCode),
			slog.Any("error", err),
		)
		return nil, false
	}
	if names == nil {
		names = map[int]string{}
	}
	return names, true
}

// unknownLanguage wraps ErrUnknownLanguage with the offending code.
func unknownLanguage(code string) error {
	return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
}
