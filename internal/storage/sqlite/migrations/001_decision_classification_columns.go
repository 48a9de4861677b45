package migrations

import (
	"context"
	"fmt"
)

// classificationColumns are added in this order so an upgraded table ends up
// with the same column order as a freshly created one.
var classificationColumns = []struct {
	name string
	ddl  string
}{
	{"kind", `ALTER TABLE decisions ADD COLUMN kind TEXT NOT NULL DEFAULT 'choice' CHECK(kind IN ('principle', 'constraint', 'assumption', 'choice', 'rule', 'goal'))`},
	{"weight", `ALTER TABLE decisions ADD COLUMN weight TEXT NOT NULL DEFAULT 'should' CHECK(weight IN ('must', 'should', 'may'))`},
	{"rebuttal", `ALTER TABLE decisions ADD COLUMN rebuttal TEXT`},
	{"scope", `ALTER TABLE decisions ADD COLUMN scope TEXT`},
}

// DecisionClassificationApplied reports whether scope, the newest of the
// classification columns, is present.
func DecisionClassificationApplied(ctx context.Context, db DB) (bool, error) {
	return columnExists(ctx, db, "decisions", "scope")
}

// MigrateDecisionClassificationColumns adds kind, weight, rebuttal and scope to
// a decisions table created before they existed. Existing rows take the column
// defaults (choice, should, NULL, NULL). Columns already present are skipped.
func MigrateDecisionClassificationColumns(ctx context.Context, db DB) error {
	for _, col := range classificationColumns {
		exists, err := columnExists(ctx, db, "decisions", col.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.ExecContext(ctx, col.ddl); err != nil {
			return fmt.Errorf("failed to add %s column: %w", col.name, err)
		}
	}
	return nil
}
