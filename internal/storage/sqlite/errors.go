package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/steveyegge/dictum/internal/storage"
)

// wrapDBError wraps a database error with operation context.
// Errors that already belong to the storage taxonomy pass through unchanged;
// anything else from the engine becomes a *storage.StorageError.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTaxonomyError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &storage.StorageError{Op: op, Err: err}
}

// wrapDBErrorf wraps a database error with formatted operation context.
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return wrapDBError(fmt.Sprintf(format, args...), err)
}

func isTaxonomyError(err error) bool {
	for _, sentinel := range []error{
		storage.ErrDecisionNotFound,
		storage.ErrDuplicateID,
		storage.ErrLinkAlreadyExists,
		storage.ErrSelfLink,
		storage.ErrLinkNotFound,
		storage.ErrStorage,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// isUniqueViolation reports whether err is a PRIMARY KEY or UNIQUE constraint
// failure from the driver.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	// Without extended result codes only the primary code is set.
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(se.Error(), "UNIQUE constraint failed")
}

// isNoRows reports whether err means the query matched nothing.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
