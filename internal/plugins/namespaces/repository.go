package namespaces

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/keyxmakerx/managewiki/internal/database"
)

// NamespaceRepository defines the data access contract for mw_namespaces.
type NamespaceRepository interface {
	// ListRaw returns every row of a wiki, undecoded, ordered by id.
	ListRaw(ctx context.Context, wiki string) ([]RawNamespaceRow, error)

	// Save applies upserts and deletes for one wiki in a single transaction.
	Save(ctx context.Context, wiki string, upserts []NamespaceRow, deletes []int) error
}

// namespaceRepository implements NamespaceRepository with MariaDB.
type namespaceRepository struct {
	db *sql.DB
}

// NewNamespaceRepository creates a new namespace repository.
func NewNamespaceRepository(db *sql.DB) NamespaceRepository {
	return &namespaceRepository{db: db}
}

// ListRaw returns all namespace rows for a wiki.
func (r *namespaceRepository) ListRaw(ctx context.Context, wiki string) ([]RawNamespaceRow, error) {
	query := `SELECT ns_namespace_id, ns_namespace_name, ns_core, ns_searchable, ns_subpages,
	                 ns_content, ns_content_model, ns_protection, ns_aliases, ns_additional
	          FROM mw_namespaces WHERE ns_dbname = ? ORDER BY ns_namespace_id`

	rows, err := r.db.QueryContext(ctx, query, wiki)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces for %s: %w", wiki, err)
	}
	defer rows.Close()

	var result []RawNamespaceRow
	for rows.Next() {
		var raw RawNamespaceRow
		var protection sql.NullString
		if err := rows.Scan(&raw.ID, &raw.Name, &raw.Core, &raw.Searchable, &raw.Subpages,
			&raw.Content, &raw.ContentModel, &protection, &raw.Aliases, &raw.Additional); err != nil {
			return nil, fmt.Errorf("scanning namespace: %w", err)
		}
		raw.Protection = protection.String
		result = append(result, raw)
	}
	return result, rows.Err()
}

// Save upserts and deletes namespace rows atomically.
func (r *namespaceRepository) Save(ctx context.Context, wiki string, upserts []NamespaceRow, deletes []int) error {
	upsert := `INSERT INTO mw_namespaces (ns_dbname, ns_namespace_id, ns_namespace_name, ns_searchable,
	                                      ns_subpages, ns_content, ns_content_model, ns_protection,
	                                      ns_aliases, ns_core, ns_additional)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               ns_namespace_name = VALUES(ns_namespace_name),
	               ns_searchable = VALUES(ns_searchable),
	               ns_subpages = VALUES(ns_subpages),
	               ns_content = VALUES(ns_content),
	               ns_content_model = VALUES(ns_content_model),
	               ns_protection = VALUES(ns_protection),
	               ns_aliases = VALUES(ns_aliases),
	               ns_core = VALUES(ns_core),
	               ns_additional = VALUES(ns_additional)`

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, row := range upserts {
			aliases, additional, err := row.encode()
			if err != nil {
				return fmt.Errorf("namespace %d: %w", row.ID, err)
			}
			if _, err := tx.ExecContext(ctx, upsert,
				wiki, row.ID, row.Name, row.Searchable,
				row.Subpages, row.Content, row.ContentModel, row.Protection,
				aliases, row.Core, additional,
			); err != nil {
				return fmt.Errorf("upserting namespace %d for %s: %w", row.ID, wiki, err)
			}
		}
		for _, id := range deletes {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM mw_namespaces WHERE ns_dbname = ? AND ns_namespace_id = ?`, wiki, id,
			); err != nil {
				return fmt.Errorf("deleting namespace %d for %s: %w", id, wiki, err)
			}
		}
		return nil
	})
}
