package migrations

import (
	"context"
	"fmt"
)

// LinkReasonApplied reports whether the links table already has the reason
// column, which only exists on the widened table.
func LinkReasonApplied(ctx context.Context, db DB) (bool, error) {
	return columnExists(ctx, db, "links", "reason")
}

// MigrateLinkKindsAndReason rebuilds the links table so its CHECK constraint
// accepts entails and excludes and so it carries an optional reason.
//
// SQLite cannot alter a CHECK constraint in place, so the table is copied into
// links_new, dropped and renamed. Foreign keys must be off while this runs (the
// caller disables them before starting the transaction). Rows are copied in
// rowid order so insertion order, which breaks created_at ties, survives.
func MigrateLinkKindsAndReason(ctx context.Context, db DB) error {
	applied, err := LinkReasonApplied(ctx, db)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	_, err = db.ExecContext(ctx, `SAVEPOINT link_kinds_and_reason`)
	if err != nil {
		return err
	}
	savepointReleased := false
	defer func() {
		if !savepointReleased {
			_, _ = db.ExecContext(ctx, `ROLLBACK TO SAVEPOINT link_kinds_and_reason`)
		}
	}()

	steps := []struct {
		what string
		sql  string
	}{
		{"create links_new", `
			CREATE TABLE links_new (
				source_id TEXT NOT NULL,
				target_id TEXT NOT NULL,
				kind TEXT NOT NULL CHECK(kind IN ('refines', 'supports', 'supersedes', 'conflicts', 'requires', 'entails', 'excludes')),
				created_at TEXT NOT NULL,
				reason TEXT,
				PRIMARY KEY (source_id, target_id, kind),
				FOREIGN KEY (source_id) REFERENCES decisions(id),
				FOREIGN KEY (target_id) REFERENCES decisions(id)
			)`},
		{"copy links", `
			INSERT INTO links_new (source_id, target_id, kind, created_at)
			SELECT source_id, target_id, kind, created_at
			FROM links
			ORDER BY rowid`},
		{"drop old links", `DROP TABLE links`},
		{"rename links_new", `ALTER TABLE links_new RENAME TO links`},
		{"create source index", `CREATE INDEX IF NOT EXISTS idx_links_source ON links(source_id)`},
		{"create target index", `CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_id)`},
		{"create kind index", `CREATE INDEX IF NOT EXISTS idx_links_kind ON links(kind)`},
	}
	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.sql); err != nil {
			return fmt.Errorf("failed to %s: %w", step.what, err)
		}
	}

	if _, err := db.ExecContext(ctx, `RELEASE SAVEPOINT link_kinds_and_reason`); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	savepointReleased = true

	return nil
}
