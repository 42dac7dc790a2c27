package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// AuditRepository defines the data access contract for the wiki log.
type AuditRepository interface {
	// Log inserts a new entry and sets its ID.
	Log(ctx context.Context, entry *LogEntry) error

	// ListByWiki returns entries for a wiki, most recent first, along with
	// the total count for pagination.
	ListByWiki(ctx context.Context, wiki string, limit, offset int) ([]LogEntry, int, error)
}

// auditRepository implements AuditRepository with MariaDB queries.
type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new repository backed by the given DB pool.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log inserts a new entry. Nil details are stored as SQL NULL.
func (r *auditRepository) Log(ctx context.Context, entry *LogEntry) error {
	query := `INSERT INTO mw_log (log_dbname, log_action, log_details, log_created_at)
	          VALUES (?, ?, ?, ?)`

	var detailsJSON []byte
	if entry.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshaling log details: %w", err)
		}
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query, entry.Wiki, entry.Action, detailsJSON, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting log entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListByWiki returns a page of entries for wiki.
func (r *auditRepository) ListByWiki(ctx context.Context, wiki string, limit, offset int) ([]LogEntry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mw_log WHERE log_dbname = ?`, wiki,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting log entries: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT log_id, log_dbname, log_action, log_details, log_created_at
		 FROM mw_log WHERE log_dbname = ?
		 ORDER BY log_created_at DESC, log_id DESC
		 LIMIT ? OFFSET ?`,
		wiki, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing log entries: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.Wiki, &e.Action, &details, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning log entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, 0, fmt.Errorf("decoding log details %d: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
