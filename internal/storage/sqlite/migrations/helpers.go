// Package migrations holds the ordered, probe-keyed schema upgrade steps for
// the sqlite backend. Each step detects whether it has already been applied
// and is a no-op in that case, so the whole list can run on every open.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// DB is the subset of *sql.Conn / *sql.Tx the steps need. Steps run inside the
// caller's transaction and never begin or commit one themselves.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// columnExists checks if a column exists in a table using pragma_table_info.
func columnExists(ctx context.Context, db DB, table, column string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s.%s column: %w", table, column, err)
	}
	return exists, nil
}

// TableExists checks if a table exists in sqlite_master.
func TableExists(ctx context.Context, db DB, table string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s table: %w", table, err)
	}
	return exists, nil
}
