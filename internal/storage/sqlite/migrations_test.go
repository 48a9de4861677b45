package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/storage/sqlite/migrations"
	"github.com/steveyegge/dictum/internal/types"
)

// oldSchema is the shape written before kind/weight/rebuttal/scope and before
// links carried a reason or the entails/excludes kinds.
const oldSchema = `
CREATE TABLE decisions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT,
    level TEXT NOT NULL CHECK(level IN ('strategic', 'tactical', 'operational')),
    status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'superseded', 'deprecated', 'draft')),
    superseded_by TEXT,
    author TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE links (
    source_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('refines', 'supports', 'supersedes', 'conflicts', 'requires')),
    created_at TEXT NOT NULL,
    PRIMARY KEY (source_id, target_id, kind),
    FOREIGN KEY (source_id) REFERENCES decisions(id),
    FOREIGN KEY (target_id) REFERENCES decisions(id)
);
CREATE TABLE labels (
    decision_id TEXT NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (decision_id, label),
    FOREIGN KEY (decision_id) REFERENCES decisions(id)
);
INSERT INTO decisions VALUES ('d-1', 'Serve restaurants', 'body one', 'strategic', 'active', NULL, 'ann', '2024-01-15T10:30:00Z', '2024-01-15T10:30:00Z');
INSERT INTO decisions VALUES ('d-2', 'Use SQLite', NULL, 'tactical', 'superseded', 'd-3', 'bob', '2024-01-16T10:30:00Z', '2024-01-17T10:30:00Z');
INSERT INTO decisions VALUES ('d-3', 'Use SQLite with WAL', NULL, 'operational', 'active', NULL, 'bob', '2024-01-17T10:30:00Z', '2024-01-17T10:30:00Z');
INSERT INTO links VALUES ('d-2', 'd-1', 'refines', '2024-01-16T10:30:00Z');
INSERT INTO links VALUES ('d-3', 'd-2', 'supersedes', '2024-01-17T10:30:00Z');
INSERT INTO links VALUES ('d-3', 'd-1', 'refines', '2024-01-17T10:30:00Z');
INSERT INTO labels VALUES ('d-1', 'product');
INSERT INTO labels VALUES ('d-3', 'storage');
`

func openOldDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dictum.db")
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(oldSchema)
	require.NoError(t, err)
	return db, path
}

// snapshot renders the schema and every row so two states can be compared
// byte for byte.
func snapshot(t *testing.T, db *sql.DB) string {
	t.Helper()
	var b strings.Builder

	rows, err := db.Query(`SELECT type, name, tbl_name, COALESCE(sql, '') FROM sqlite_master ORDER BY type, name`)
	require.NoError(t, err)
	for rows.Next() {
		var typ, name, tbl, ddl string
		require.NoError(t, rows.Scan(&typ, &name, &tbl, &ddl))
		fmt.Fprintf(&b, "%s %s %s\n%s\n", typ, name, tbl, ddl)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	for _, table := range []string{"decisions", "links", "labels"} {
		dataRows, err := db.Query(`SELECT * FROM ` + table + ` ORDER BY rowid`)
		require.NoError(t, err)
		cols, err := dataRows.Columns()
		require.NoError(t, err)
		fmt.Fprintf(&b, "%s %v\n", table, cols)
		for dataRows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			require.NoError(t, dataRows.Scan(ptrs...))
			fmt.Fprintf(&b, "%v\n", vals)
		}
		require.NoError(t, dataRows.Err())
		require.NoError(t, dataRows.Close())
	}
	return b.String()
}

func TestMigrationFromOldSchema(t *testing.T) {
	db, path := openOldDB(t)
	require.NoError(t, db.Close())

	s := newTestStore(t, path)
	ctx := context.Background()

	d1, err := s.GetDecision(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, types.KindChoice, d1.Kind)
	assert.Equal(t, types.WeightShould, d1.Weight)
	assert.Nil(t, d1.Rebuttal)
	assert.Nil(t, d1.Scope)
	assert.Equal(t, "body one", types.Deref(d1.Body))
	assert.Equal(t, []string{"product"}, d1.Labels)

	d2, err := s.GetDecision(ctx, "d-2")
	require.NoError(t, err)
	assert.Equal(t, types.StatusSuperseded, d2.Status)
	assert.Equal(t, "d-3", types.Deref(d2.SupersededBy))

	links, err := s.GetIncidentLinks(ctx, "d-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "d-2", links[0].SourceID)
	assert.Equal(t, "d-3", links[1].SourceID)
	for _, l := range links {
		assert.Nil(t, l.Reason)
	}

	edges, err := s.GetRefinesEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Edge{{Source: "d-2", Target: "d-1"}, {Source: "d-3", Target: "d-1"}}, edges)

	// Widened kinds and reason are accepted after the rebuild.
	require.NoError(t, s.InsertLink(ctx, &types.Link{
		SourceID: "d-3", TargetID: "d-1", Kind: types.LinkEntails,
		Reason: types.StringPtr("wal implies local"),
	}))

	// New columns accept values.
	d4 := makeDecision("d-4", 1)
	d4.Kind, d4.Weight = types.KindRule, types.WeightMust
	d4.Scope = types.StringPtr("db")
	insertDecisions(t, s, d4)
	got, err := s.GetDecision(ctx, "d-4")
	require.NoError(t, err)
	assert.Equal(t, d4, got)
}

func TestMigrationIdempotent(t *testing.T) {
	db, _ := openOldDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureCurrent(ctx, db))
	once := snapshot(t, db)

	require.NoError(t, EnsureCurrent(ctx, db))
	twice := snapshot(t, db)

	assert.Equal(t, once, twice)

	pending, err := pendingMigrations(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMigrationRestoresForeignKeys(t *testing.T) {
	db, _ := openOldDB(t)
	db.SetMaxOpenConns(1)
	ctx := context.Background()

	require.NoError(t, EnsureCurrent(ctx, db))

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	var fkViolations int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pragma_foreign_key_check`).Scan(&fkViolations))
	assert.Zero(t, fkViolations)
}

func TestMigrationPartiallyUpgraded(t *testing.T) {
	db, _ := openOldDB(t)
	ctx := context.Background()

	// A database that already gained kind but nothing else.
	_, err := db.Exec(`ALTER TABLE decisions ADD COLUMN kind TEXT NOT NULL DEFAULT 'choice'`)
	require.NoError(t, err)

	require.NoError(t, EnsureCurrent(ctx, db))

	var cols []string
	rows, err := db.Query(`SELECT name FROM pragma_table_info('decisions') ORDER BY cid`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	assert.Equal(t, []string{
		"id", "title", "body", "level", "status", "superseded_by", "author",
		"created_at", "updated_at", "kind", "weight", "rebuttal", "scope",
	}, cols)
}

func TestMigrationFailureLeavesOldShape(t *testing.T) {
	db, _ := openOldDB(t)
	ctx := context.Background()
	before := snapshot(t, db)

	orig := migrationsList
	t.Cleanup(func() { migrationsList = orig })
	migrationsList = []Migration{
		orig[0],
		{
			Name:    "always_fails",
			Applied: func(context.Context, migrations.DB) (bool, error) { return false, nil },
			Run: func(context.Context, migrations.DB) error {
				return errors.New("boom")
			},
		},
	}

	err := EnsureCurrent(ctx, db)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorage)
	assert.Contains(t, err.Error(), "always_fails")

	var kindCols int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('decisions') WHERE name = 'kind'`).Scan(&kindCols))
	assert.Zero(t, kindCols)
	assert.Equal(t, before, snapshot(t, db))

	// The real list still upgrades the same database afterwards.
	migrationsList = orig
	require.NoError(t, EnsureCurrent(ctx, db))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('decisions') WHERE name = 'kind'`).Scan(&kindCols))
	assert.Equal(t, 1, kindCols)
}

func TestFreshSchemaNeedsNoMigration(t *testing.T) {
	s := newTestStore(t, "")
	pending, err := pendingMigrations(context.Background(), s.UnderlyingDB())
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, []string{"decision_classification_columns", "link_kinds_and_reason"}, ListMigrations())
}
