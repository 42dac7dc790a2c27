package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SettingsRepository defines the data access contract for mw_settings.
type SettingsRepository interface {
	// ListAll returns the stored configuration variables of a wiki. A wiki
	// without a row yields an empty map.
	ListAll(ctx context.Context, wiki string) (map[string]any, error)

	// ListExtensions returns the enabled extensions of a wiki in stored order.
	ListExtensions(ctx context.Context, wiki string) ([]string, error)

	// SaveExtensions replaces the extension list of a wiki, creating the row
	// if needed.
	SaveExtensions(ctx context.Context, wiki string, names []string) error
}

// settingsRepository implements SettingsRepository using MariaDB.
type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository backed by MariaDB.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// ListAll reads and decodes s_settings.
func (r *settingsRepository) ListAll(ctx context.Context, wiki string) (map[string]any, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT s_settings FROM mw_settings WHERE s_dbname = ?`, wiki,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying settings for %s: %w", wiki, err)
	}

	settings, err := decodeSettings(raw)
	if err != nil {
		return nil, fmt.Errorf("wiki %s: %w", wiki, err)
	}
	return settings, nil
}

// ListExtensions reads and decodes s_extensions.
func (r *settingsRepository) ListExtensions(ctx context.Context, wiki string) ([]string, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT s_extensions FROM mw_settings WHERE s_dbname = ?`, wiki,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying extensions for %s: %w", wiki, err)
	}

	names, err := decodeExtensions(raw)
	if err != nil {
		return nil, fmt.Errorf("wiki %s: %w", wiki, err)
	}
	return names, nil
}

// SaveExtensions upserts s_extensions using INSERT ... ON DUPLICATE KEY UPDATE.
func (r *settingsRepository) SaveExtensions(ctx context.Context, wiki string, names []string) error {
	if names == nil {
		names = []string{}
	}
	encoded, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encoding extensions: %w", err)
	}

	query := `INSERT INTO mw_settings (s_dbname, s_settings, s_extensions)
	          VALUES (?, '{}', ?)
	          ON DUPLICATE KEY UPDATE s_extensions = VALUES(s_extensions)`

	if _, err := r.db.ExecContext(ctx, query, wiki, encoded); err != nil {
		return fmt.Errorf("saving extensions for %s: %w", wiki, err)
	}
	return nil
}
