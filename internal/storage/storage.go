// Package storage provides shared types for decision storage.
//
// The concrete storage implementation lives in the sqlite sub-package.
// This package holds the interface and the error taxonomy that are referenced
// by both the sqlite implementation and its consumers (cmd/dictum, etc.).
package storage

import (
	"context"

	"github.com/steveyegge/dictum/internal/types"
)

// Storage is the interface satisfied by *sqlite.SQLiteStorage.
// Consumers depend on this interface rather than on the concrete type so that
// alternative implementations can be substituted.
//
// Each method is a single logical operation. Multi-step workflows (insert a
// decision, then its labels, then its parent link) are sequences of calls,
// not a transaction: a crash between them can leave a decision without its labels.
type Storage interface {
	// Decisions
	InsertDecision(ctx context.Context, d *types.Decision) error
	GetDecision(ctx context.Context, id string) (*types.Decision, error)
	ListDecisions(ctx context.Context, filter types.ListFilter) ([]*types.Decision, error)
	SearchDecisions(ctx context.Context, query string) ([]*types.Decision, error)
	UpdateStatus(ctx context.Context, id string, status types.Status, supersededBy *string) error

	// Links
	InsertLink(ctx context.Context, link *types.Link) error
	DeleteLink(ctx context.Context, sourceID string, kind types.LinkKind, targetID string) error
	GetIncidentLinks(ctx context.Context, decisionID string) ([]*types.Link, error)
	GetRefinesEdges(ctx context.Context) ([]types.Edge, error)

	// Labels
	AddLabel(ctx context.Context, decisionID, label string) error
	RemoveLabel(ctx context.Context, decisionID, label string) error
	GetLabels(ctx context.Context, decisionID string) ([]string, error)

	// Lifecycle
	Path() string
	Close() error
}
