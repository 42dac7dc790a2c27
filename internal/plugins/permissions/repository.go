package permissions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/keyxmakerx/managewiki/internal/database"
)

// PermissionRepository defines the data access contract for mw_permissions.
type PermissionRepository interface {
	// ListRaw returns every group row of a wiki, undecoded, ordered by group.
	ListRaw(ctx context.Context, wiki string) ([]RawPermissionRow, error)

	// Save applies upserts and deletes for one wiki in a single transaction.
	Save(ctx context.Context, wiki string, upserts []PermissionGroupRow, deletes []string) error
}

// permissionRepository implements PermissionRepository with MariaDB.
type permissionRepository struct {
	db *sql.DB
}

// NewPermissionRepository creates a new permission repository.
func NewPermissionRepository(db *sql.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

// ListRaw returns all permission group rows for a wiki.
func (r *permissionRepository) ListRaw(ctx context.Context, wiki string) ([]RawPermissionRow, error) {
	query := `SELECT perm_group, perm_permissions, perm_addgroups, perm_removegroups,
	                 perm_addgroupstoself, perm_removegroupsfromself, perm_autopromote
	          FROM mw_permissions WHERE perm_dbname = ? ORDER BY perm_group`

	rows, err := r.db.QueryContext(ctx, query, wiki)
	if err != nil {
		return nil, fmt.Errorf("listing permissions for %s: %w", wiki, err)
	}
	defer rows.Close()

	var result []RawPermissionRow
	for rows.Next() {
		var raw RawPermissionRow
		if err := rows.Scan(&raw.Group, &raw.Permissions, &raw.AddGroups, &raw.RemoveGroups,
			&raw.AddGroupsToSelf, &raw.RemoveGroupsFromSelf, &raw.Autopromote); err != nil {
			return nil, fmt.Errorf("scanning permission group: %w", err)
		}
		result = append(result, raw)
	}
	return result, rows.Err()
}

// Save upserts and deletes permission groups atomically.
func (r *permissionRepository) Save(ctx context.Context, wiki string, upserts []PermissionGroupRow, deletes []string) error {
	upsert := `INSERT INTO mw_permissions (perm_dbname, perm_group, perm_permissions, perm_addgroups,
	                                       perm_removegroups, perm_addgroupstoself,
	                                       perm_removegroupsfromself, perm_autopromote)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               perm_permissions = VALUES(perm_permissions),
	               perm_addgroups = VALUES(perm_addgroups),
	               perm_removegroups = VALUES(perm_removegroups),
	               perm_addgroupstoself = VALUES(perm_addgroupstoself),
	               perm_removegroupsfromself = VALUES(perm_removegroupsfromself),
	               perm_autopromote = VALUES(perm_autopromote)`

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, row := range upserts {
			args := []any{wiki, row.Group}
			for _, list := range [][]string{row.Permissions, row.AddGroups, row.RemoveGroups,
				row.AddGroupsToSelf, row.RemoveGroupsFromSelf} {
				encoded, err := encodeList(list)
				if err != nil {
					return fmt.Errorf("group %s: %w", row.Group, err)
				}
				args = append(args, encoded)
			}
			autopromote, err := encodeAutopromote(row.Autopromote)
			if err != nil {
				return fmt.Errorf("group %s: encoding autopromote: %w", row.Group, err)
			}
			args = append(args, autopromote)

			if _, err := tx.ExecContext(ctx, upsert, args...); err != nil {
				return fmt.Errorf("upserting group %s for %s: %w", row.Group, wiki, err)
			}
		}
		for _, group := range deletes {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM mw_permissions WHERE perm_dbname = ? AND perm_group = ?`, wiki, group,
			); err != nil {
				return fmt.Errorf("deleting group %s for %s: %w", group, wiki, err)
			}
		}
		return nil
	})
}
