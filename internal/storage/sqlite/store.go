// Package sqlite implements the storage interface using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	// Import SQLite driver (pure Go, registers as "sqlite")
	_ "modernc.org/sqlite"

	"github.com/steveyegge/dictum/internal/debug"
	"github.com/steveyegge/dictum/internal/storage"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	closed atomic.Bool // Tracks whether Close() has been called
}

var _ storage.Storage = (*SQLiteStorage)(nil)

// nowFunc is the clock for updated_at bumps. Tests replace it.
var nowFunc = time.Now

// openDB is the driver entry point. Tests replace it to inject failures.
var openDB = sql.Open

// New opens the database at path, enables WAL journaling and brings the schema
// to the current shape before returning. ":memory:" opens a private in-memory
// database (used in tests).
func New(ctx context.Context, path string) (*SQLiteStorage, error) {
	isInMemory := path == ":memory:"

	var connStr string
	if isInMemory {
		connStr = "file::memory:?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	} else {
		// Ensure directory exists for file-based databases
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		connStr = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := openDB("sqlite", connStr)
	if err != nil {
		return nil, &storage.StorageError{Op: "open database", Err: err}
	}

	// One invocation, one connection: in-memory databases are per connection,
	// and migrations toggle a per-connection pragma.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if !isInMemory {
		// WAL is persistent in the file, so setting it once per open is enough.
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, &storage.StorageError{Op: "enable WAL mode", Err: err}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &storage.StorageError{Op: "ping database", Err: err}
	}

	if err := EnsureCurrent(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	absPath := path
	if !isInMemory {
		absPath, err = filepath.Abs(path)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
	}
	debug.Logf("opened %s", absPath)

	return &SQLiteStorage{db: db, dbPath: absPath}, nil
}

// Close closes the database connection.
// It checkpoints the WAL so the main database file holds every committed write.
func (s *SQLiteStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if !strings.HasPrefix(s.dbPath, ":memory:") {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return s.db.Close()
}

// Path returns the absolute path to the database file
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// IsClosed returns true if Close() has been called on this storage
func (s *SQLiteStorage) IsClosed() bool {
	return s.closed.Load()
}

// UnderlyingDB returns the underlying *sql.DB connection for extensions and tests.
// Do not close it; use Close on the storage instead.
func (s *SQLiteStorage) UnderlyingDB() *sql.DB {
	return s.db
}
