package sqlite

import (
	"context"
	"strings"

	"github.com/steveyegge/dictum/internal/types"
)

// labelBatchSize caps the IN list when loading labels for many decisions.
const labelBatchSize = 500

// AddLabel attaches label to a decision. Adding an existing label is a no-op.
func (s *SQLiteStorage) AddLabel(ctx context.Context, decisionID, label string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO labels (decision_id, label) VALUES (?, ?)
	`, decisionID, label)
	return wrapDBErrorf(err, "add label %q to %s", label, decisionID)
}

// RemoveLabel detaches label from a decision. Removing a missing label is a no-op.
func (s *SQLiteStorage) RemoveLabel(ctx context.Context, decisionID, label string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM labels WHERE decision_id = ? AND label = ?
	`, decisionID, label)
	return wrapDBErrorf(err, "remove label %q from %s", label, decisionID)
}

// GetLabels returns the labels of a decision in lexicographic order, or nil.
func (s *SQLiteStorage) GetLabels(ctx context.Context, decisionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label FROM labels WHERE decision_id = ? ORDER BY label
	`, decisionID)
	if err != nil {
		return nil, wrapDBErrorf(err, "get labels for %s", decisionID)
	}
	defer func() { _ = rows.Close() }()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, wrapDBErrorf(err, "scan label for %s", decisionID)
		}
		labels = append(labels, label)
	}
	return labels, wrapDBErrorf(rows.Err(), "get labels for %s", decisionID)
}

// attachLabels loads labels for every decision in a few batched queries
// instead of one query per decision.
func (s *SQLiteStorage) attachLabels(ctx context.Context, decisions []*types.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	byID := make(map[string]*types.Decision, len(decisions))
	for _, d := range decisions {
		byID[d.ID] = d
	}

	for start := 0; start < len(decisions); start += labelBatchSize {
		end := min(start+labelBatchSize, len(decisions))
		batch := decisions[start:end]

		placeholders := make([]string, len(batch))
		args := make([]any, len(batch))
		for i, d := range batch {
			placeholders[i] = "?"
			args[i] = d.ID
		}

		// #nosec G201 -- only placeholders are interpolated
		query := `SELECT decision_id, label FROM labels WHERE decision_id IN (` +
			strings.Join(placeholders, ", ") + `) ORDER BY decision_id, label`
		if err := s.scanLabels(ctx, query, args, byID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) scanLabels(ctx context.Context, query string, args []any, byID map[string]*types.Decision) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return wrapDBError("load labels", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, label string
		if err := rows.Scan(&id, &label); err != nil {
			return wrapDBError("scan labels", err)
		}
		if d, ok := byID[id]; ok {
			d.Labels = append(d.Labels, label)
		}
	}
	return wrapDBError("load labels", rows.Err())
}
