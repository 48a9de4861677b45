// Package dictum provides a minimal public API for programs that want to read
// or record decisions without going through the dictum CLI.
//
// Most integrations should shell out to `dictum context --json`. This package
// exports only the types and entry points needed to use the store directly.
package dictum

import (
	"context"

	"github.com/steveyegge/dictum/internal/decision"
	"github.com/steveyegge/dictum/internal/dictum"
	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/storage/sqlite"
	"github.com/steveyegge/dictum/internal/types"
)

// Core types for working with decisions
type (
	Decision   = types.Decision
	Link       = types.Link
	Level      = types.Level
	Kind       = types.Kind
	Weight     = types.Weight
	Status     = types.Status
	LinkKind   = types.LinkKind
	ListFilter = types.ListFilter
	AddParams  = decision.AddParams
	Snapshot   = decision.Snapshot
)

// Status constants
const (
	StatusActive     = types.StatusActive
	StatusSuperseded = types.StatusSuperseded
	StatusDeprecated = types.StatusDeprecated
	StatusDraft      = types.StatusDraft
)

// Storage is the persistence interface behind a Service.
type Storage = storage.Storage

// Service records and retires decisions.
type Service = decision.Service

// NewSQLiteStorage opens a dictum database file for programmatic access.
func NewSQLiteStorage(ctx context.Context, dbPath string) (Storage, error) {
	return sqlite.New(ctx, dbPath)
}

// Handle is an opened store directory with its service.
type Handle struct {
	*Service
	ws *dictum.Workspace
}

// Dir returns the .dictum directory backing the handle.
func (h *Handle) Dir() string { return h.ws.Dir }

// Close releases the database.
func (h *Handle) Close() error { return h.ws.Close() }

// Open discovers the .dictum directory from start, the same way the CLI does,
// and returns a service configured with its id prefix.
func Open(ctx context.Context, start string) (*Handle, error) {
	ws, err := dictum.OpenFrom(ctx, start)
	if err != nil {
		return nil, err
	}
	return &Handle{Service: decision.NewService(ws.Store, ws.Config.Prefix), ws: ws}, nil
}

// Init creates a .dictum directory under base.
func Init(ctx context.Context, base string) (string, error) {
	return dictum.Init(ctx, base)
}

// IsNotInitialized reports whether err means no .dictum directory was found.
func IsNotInitialized(err error) bool {
	return dictum.IsNotInitialized(err)
}
