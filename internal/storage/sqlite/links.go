package sqlite

import (
	"context"
	"database/sql"

	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/types"
)

// InsertLink stores a directed edge. It rejects self-links and duplicate
// (source, target, kind) triples. Endpoint existence is the caller's check.
// An empty CreatedAt is stamped with the current time in the stored row only.
func (s *SQLiteStorage) InsertLink(ctx context.Context, link *types.Link) error {
	if link.SourceID == link.TargetID {
		return storage.ErrSelfLink
	}
	if err := link.Validate(); err != nil {
		return err
	}
	createdAt := link.CreatedAt
	if createdAt == "" {
		createdAt = types.FormatTime(nowFunc())
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO links (source_id, target_id, kind, created_at, reason)
		VALUES (?, ?, ?, ?, ?)
	`, link.SourceID, link.TargetID, string(link.Kind), createdAt, link.Reason)
	if err != nil {
		if isUniqueViolation(err) {
			return wrapDBErrorf(storage.ErrLinkAlreadyExists, "link %s %s %s", link.SourceID, link.Kind, link.TargetID)
		}
		return wrapDBErrorf(err, "insert link %s %s %s", link.SourceID, link.Kind, link.TargetID)
	}
	return nil
}

// DeleteLink removes the edge identified by (source, kind, target).
func (s *SQLiteStorage) DeleteLink(ctx context.Context, sourceID string, kind types.LinkKind, targetID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM links WHERE source_id = ? AND kind = ? AND target_id = ?
	`, sourceID, string(kind), targetID)
	if err != nil {
		return wrapDBErrorf(err, "delete link %s %s %s", sourceID, kind, targetID)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return wrapDBErrorf(err, "delete link %s %s %s", sourceID, kind, targetID)
	}
	if rows == 0 {
		return wrapDBErrorf(storage.ErrLinkNotFound, "%s %s %s", sourceID, kind, targetID)
	}
	return nil
}

// GetIncidentLinks returns every link with decisionID at either end, oldest
// first. Links created in the same instant keep insertion order.
func (s *SQLiteStorage) GetIncidentLinks(ctx context.Context, decisionID string) ([]*types.Link, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, target_id, kind, created_at, reason
		FROM links
		WHERE source_id = ? OR target_id = ?
		ORDER BY created_at, rowid
	`, decisionID, decisionID)
	if err != nil {
		return nil, wrapDBErrorf(err, "get links for %s", decisionID)
	}
	defer func() { _ = rows.Close() }()

	var links []*types.Link
	for rows.Next() {
		var (
			link   types.Link
			kind   string
			reason sql.NullString
		)
		if err := rows.Scan(&link.SourceID, &link.TargetID, &kind, &link.CreatedAt, &reason); err != nil {
			return nil, wrapDBErrorf(err, "scan link for %s", decisionID)
		}
		link.Kind = types.LinkKind(kind)
		link.Reason = nullString(reason)
		links = append(links, &link)
	}
	return links, wrapDBErrorf(rows.Err(), "get links for %s", decisionID)
}

// GetRefinesEdges returns every refines link as (source, target), oldest first.
// This is the edge list the hierarchy view consumes.
func (s *SQLiteStorage) GetRefinesEdges(ctx context.Context) ([]types.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_id, target_id
		FROM links
		WHERE kind = ?
		ORDER BY created_at, rowid
	`, string(types.LinkRefines))
	if err != nil {
		return nil, wrapDBError("get refines edges", err)
	}
	defer func() { _ = rows.Close() }()

	var edges []types.Edge
	for rows.Next() {
		var e types.Edge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			return nil, wrapDBError("scan refines edge", err)
		}
		edges = append(edges, e)
	}
	return edges, wrapDBError("get refines edges", rows.Err())
}
