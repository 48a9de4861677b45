// Package dictum manages the on-disk store location: the .dictum directory
// holding the database, its configuration and a .gitignore.
package dictum

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steveyegge/dictum/internal/config"
	"github.com/steveyegge/dictum/internal/debug"
	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/storage/sqlite"
)

// Layout of a store directory.
const (
	DirName       = ".dictum"
	DBName        = "dictum.db"
	GitignoreName = ".gitignore"

	// EnvDir points directly at a .dictum directory, skipping discovery.
	EnvDir = "DICTUM_DIR"
)

// gitignore keeps the database and its WAL/SHM side files out of version
// control; config.toml stays tracked.
const gitignore = "dictum.db\ndictum.db-wal\ndictum.db-shm\n"

// FindDir locates the store directory. DICTUM_DIR wins when set; otherwise
// start and each of its ancestors is checked for a .dictum directory.
func FindDir(start string) (string, error) {
	if env := os.Getenv(EnvDir); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", EnvDir, err)
		}
		if isDir(abs) {
			return abs, nil
		}
		return "", storage.ErrNotInitialized
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}
	// Resolve symlinks so the same tree reached two ways finds the same store.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	for {
		candidate := filepath.Join(dir, DirName)
		if isDir(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", storage.ErrNotInitialized
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Init creates base/.dictum with a fresh database, the default config.toml
// and the .gitignore. It refuses to touch an existing directory.
func Init(ctx context.Context, base string) (string, error) {
	dir, err := filepath.Abs(filepath.Join(base, DirName))
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); err == nil {
		return "", &storage.AlreadyInitializedError{Path: dir}
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := populate(ctx, dir); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}
	debug.Logf("initialized %s", dir)
	return dir, nil
}

func populate(ctx context.Context, dir string) error {
	store, err := sqlite.New(ctx, filepath.Join(dir, DBName))
	if err != nil {
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}
	if err := config.Write(dir, config.Default()); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, GitignoreName), []byte(gitignore), 0o600); err != nil {
		return fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return nil
}

// Workspace is an opened store directory.
type Workspace struct {
	Dir    string
	Config config.Config
	Store  *sqlite.SQLiteStorage
}

// Open loads config.toml and opens the database in dir.
func Open(ctx context.Context, dir string) (*Workspace, error) {
	if !isDir(dir) {
		return nil, storage.ErrNotInitialized
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.New(ctx, filepath.Join(dir, DBName))
	if err != nil {
		return nil, err
	}
	return &Workspace{Dir: dir, Config: cfg, Store: store}, nil
}

// OpenFrom discovers the store directory from start and opens it.
func OpenFrom(ctx context.Context, start string) (*Workspace, error) {
	dir, err := FindDir(start)
	if err != nil {
		return nil, err
	}
	return Open(ctx, dir)
}

// DBPath returns the database file path.
func (w *Workspace) DBPath() string {
	return filepath.Join(w.Dir, DBName)
}

// Close releases the database.
func (w *Workspace) Close() error {
	if w == nil || w.Store == nil {
		return nil
	}
	return w.Store.Close()
}

// IsNotInitialized reports whether err means no store directory was found.
func IsNotInitialized(err error) bool {
	return errors.Is(err, storage.ErrNotInitialized)
}
