package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/steveyegge/dictum/internal/storage"
	"github.com/steveyegge/dictum/internal/types"
)

// InsertDecision persists every scalar field of d. Labels are not written;
// callers add them with AddLabel.
func (s *SQLiteStorage) InsertDecision(ctx context.Context, d *types.Decision) error {
	if err := d.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (`+decisionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID, d.Title, d.Body, string(d.Level), string(d.Status), d.SupersededBy, d.Author,
		d.CreatedAt, d.UpdatedAt, string(d.Kind), string(d.Weight), d.Rebuttal, d.Scope,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return wrapDBErrorf(storage.ErrDuplicateID, "insert decision %s", d.ID)
		}
		return wrapDBErrorf(err, "insert decision %s", d.ID)
	}
	return nil
}

// GetDecision returns the decision with its labels sorted lexicographically.
func (s *SQLiteStorage) GetDecision(ctx context.Context, id string) (*types.Decision, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+decisionColumns+` FROM decisions WHERE id = ?`, id)
	d, err := scanDecision(row)
	if isNoRows(err) {
		return nil, &storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrapDBErrorf(err, "get decision %s", id)
	}

	labels, err := s.GetLabels(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Labels = labels
	return d, nil
}

// ListDecisions returns the decisions matching every set field of filter,
// newest first.
func (s *SQLiteStorage) ListDecisions(ctx context.Context, filter types.ListFilter) ([]*types.Decision, error) {
	whereClauses := []string{}
	args := []any{}

	if filter.Level != nil {
		whereClauses = append(whereClauses, "level = ?")
		args = append(args, string(*filter.Level))
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Kind != nil {
		whereClauses = append(whereClauses, "kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.Weight != nil {
		whereClauses = append(whereClauses, "weight = ?")
		args = append(args, string(*filter.Weight))
	}
	if filter.Scope != nil {
		whereClauses = append(whereClauses, "scope = ?")
		args = append(args, *filter.Scope)
	}
	if filter.Label != nil {
		whereClauses = append(whereClauses, "EXISTS (SELECT 1 FROM labels l WHERE l.decision_id = decisions.id AND l.label = ?)")
		args = append(args, *filter.Label)
	}
	if filter.CreatedAfter != nil {
		// Compare instants: rows written by older tools carry +00:00 offsets.
		whereClauses = append(whereClauses, "julianday(created_at) >= julianday(?)")
		args = append(args, types.FormatTime(*filter.CreatedAfter))
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	// #nosec G201 -- whereSQL is built from fixed clauses; values are bound
	query := `SELECT ` + decisionColumns + ` FROM decisions ` + whereSQL + ` ORDER BY created_at DESC, id`
	return s.queryDecisions(ctx, "list decisions", query, args...)
}

// SearchDecisions matches query as a substring of title, body, rebuttal or
// scope. Matching uses SQLite LIKE, so it is case-insensitive for ASCII
// letters; % and _ in query match literally.
func (s *SQLiteStorage) SearchDecisions(ctx context.Context, query string) ([]*types.Decision, error) {
	pattern := "%" + escapeLike(query) + "%"
	return s.queryDecisions(ctx, "search decisions", `
		SELECT `+decisionColumns+` FROM decisions
		WHERE title LIKE ?1 ESCAPE '\'
		   OR body LIKE ?1 ESCAPE '\'
		   OR rebuttal LIKE ?1 ESCAPE '\'
		   OR scope LIKE ?1 ESCAPE '\'
		ORDER BY created_at DESC, id
	`, pattern)
}

// UpdateStatus sets status and superseded_by (verbatim, nil clears it) and
// bumps updated_at.
func (s *SQLiteStorage) UpdateStatus(ctx context.Context, id string, status types.Status, supersededBy *string) error {
	if !status.IsValid() {
		_, err := types.ParseStatus(string(status))
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE decisions SET status = ?, superseded_by = ?, updated_at = ?
		WHERE id = ?
	`, string(status), supersededBy, types.FormatTime(nowFunc()), id)
	if err != nil {
		return wrapDBErrorf(err, "update status of %s", id)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return wrapDBErrorf(err, "update status of %s", id)
	}
	if rows == 0 {
		return &storage.NotFoundError{ID: id}
	}
	return nil
}

func (s *SQLiteStorage) queryDecisions(ctx context.Context, op, query string, args ...any) ([]*types.Decision, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(op, err)
	}
	defer func() { _ = rows.Close() }()

	var decisions []*types.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, wrapDBError(op, err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(op, err)
	}
	// Close before loading labels: the pool holds a single connection.
	_ = rows.Close()

	if err := s.attachLabels(ctx, decisions); err != nil {
		return nil, err
	}
	return decisions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(row scanner) (*types.Decision, error) {
	var (
		d                                   types.Decision
		body, supersededBy, rebuttal, scope sql.NullString
		level, status, kind, weight         string
	)
	if err := row.Scan(
		&d.ID, &d.Title, &body, &level, &status, &supersededBy, &d.Author,
		&d.CreatedAt, &d.UpdatedAt, &kind, &weight, &rebuttal, &scope,
	); err != nil {
		return nil, err
	}
	// The table's CHECK constraints keep these within their enumerations.
	d.Level = types.Level(level)
	d.Status = types.Status(status)
	d.Kind = types.Kind(kind)
	d.Weight = types.Weight(weight)
	d.Body = nullString(body)
	d.SupersededBy = nullString(supersededBy)
	d.Rebuttal = nullString(rebuttal)
	d.Scope = nullString(scope)
	return &d, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
