package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/steveyegge/dictum/internal/debug"
	"github.com/steveyegge/dictum/internal/storage/sqlite/migrations"
)

// Migration is one ordered upgrade step. Applied probes for the marker the
// step introduces; Run must itself be safe to repeat.
type Migration struct {
	Name    string
	Applied func(ctx context.Context, db migrations.DB) (bool, error)
	Run     func(ctx context.Context, db migrations.DB) error
}

// migrationsList is applied in order. The current shape is the terminal state
// of this list.
var migrationsList = []Migration{
	{"decision_classification_columns", migrations.DecisionClassificationApplied, migrations.MigrateDecisionClassificationColumns},
	{"link_kinds_and_reason", migrations.LinkReasonApplied, migrations.MigrateLinkKindsAndReason},
}

// ListMigrations returns the registered migration names in order.
func ListMigrations() []string {
	names := make([]string, len(migrationsList))
	for i, m := range migrationsList {
		names[i] = m.Name
	}
	return names
}

// EnsureCurrent brings the database to the current schema.
//
// A database without a decisions table gets the current schema directly.
// Otherwise every pending step runs on one connection inside a single
// IMMEDIATE transaction, so callers see either the old shape or the current
// one. Foreign keys are switched off for the duration because the link table
// rebuild drops a referenced table; SQLite ignores that pragma inside a
// transaction, so it is set before BEGIN and restored after COMMIT.
func EnsureCurrent(ctx context.Context, db *sql.DB) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return wrapDBError("acquire connection for migrations", err)
	}
	defer func() { _ = conn.Close() }()

	exists, err := migrations.TableExists(ctx, conn, "decisions")
	if err != nil {
		return wrapDBError("probe schema", err)
	}
	if !exists {
		debug.Logf("creating schema")
		if _, err := conn.ExecContext(ctx, schema); err != nil {
			return wrapDBError("initialize schema", err)
		}
		return nil
	}

	pending, err := pendingMigrations(ctx, conn)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		// Indexes may be missing on databases written by older builds.
		if _, err := conn.ExecContext(ctx, schema); err != nil {
			return wrapDBError("ensure indexes", err)
		}
		return nil
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return wrapDBError("disable foreign keys", err)
	}
	defer func() { _, _ = conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys = ON") }()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return wrapDBError("begin migration transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK")
		}
	}()

	for _, m := range pending {
		debug.Logf("running migration %s", m.Name)
		if err := m.Run(ctx, conn); err != nil {
			return wrapDBError(fmt.Sprintf("migration %s", m.Name), err)
		}
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return wrapDBError("ensure indexes", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return wrapDBError("commit migrations", err)
	}
	committed = true
	return nil
}

func pendingMigrations(ctx context.Context, db migrations.DB) ([]Migration, error) {
	var pending []Migration
	for _, m := range migrationsList {
		applied, err := m.Applied(ctx, db)
		if err != nil {
			return nil, wrapDBError(fmt.Sprintf("probe migration %s", m.Name), err)
		}
		if !applied {
			pending = append(pending, m)
		}
	}
	return pending, nil
}
