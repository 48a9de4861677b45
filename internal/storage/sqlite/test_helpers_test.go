package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steveyegge/dictum/internal/types"
)

// newTestStore opens a private in-memory store that is closed on cleanup.
// Pass a path (e.g. t.TempDir()+"/dictum.db") for file-backed tests.
func newTestStore(t *testing.T, dbPath string) *SQLiteStorage {
	t.Helper()

	if dbPath == "" {
		dbPath = ":memory:"
	}
	store, err := New(context.Background(), dbPath)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

// freezeClock pins nowFunc for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = orig })
}

// makeDecision builds a valid decision whose created_at is minute n after a
// fixed base, so ids sort and timestamps order predictably.
func makeDecision(id string, n int) *types.Decision {
	ts := types.FormatTime(time.Date(2025, 1, 1, 0, n, 0, 0, time.UTC))
	return &types.Decision{
		ID:        id,
		Title:     fmt.Sprintf("Decision %s", id),
		Level:     types.LevelTactical,
		Status:    types.StatusActive,
		Author:    "test",
		CreatedAt: ts,
		UpdatedAt: ts,
		Kind:      types.KindChoice,
		Weight:    types.WeightShould,
	}
}

func insertDecisions(t *testing.T, s *SQLiteStorage, ds ...*types.Decision) {
	t.Helper()
	for _, d := range ds {
		require.NoError(t, s.InsertDecision(context.Background(), d))
		for _, l := range d.Labels {
			require.NoError(t, s.AddLabel(context.Background(), d.ID, l))
		}
	}
}

func ids(ds []*types.Decision) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}
