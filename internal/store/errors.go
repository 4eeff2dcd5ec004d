package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Domain-specific errors for the persistence layer.
var (
	ErrNotInitialized   = errors.New("store: not initialized")
	ErrInitFailed       = errors.New("store: initialization failed")
	ErrDuplicateAccount = errors.New("store: account already in use")
	ErrUnknownUser      = errors.New("store: unknown user")
	ErrInvalidInput     = errors.New("store: invalid input")
	ErrStorage          = errors.New("store: storage failure")
)

// storageError wraps an engine error so both ErrStorage and the driver
// error remain reachable through errors.Is / errors.As.
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return hasConstraint(err, sqlite3.ErrConstraintUnique)
}

// isForeignKeyViolation reports whether err is a SQLite FOREIGN KEY constraint failure.
func isForeignKeyViolation(err error) bool {
	return hasConstraint(err, sqlite3.ErrConstraintForeignKey)
}

func hasConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == code
}
