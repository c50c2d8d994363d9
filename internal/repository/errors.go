package repository

import "errors"

// Sentinel errors shared by every repository implementation. The postgres
// implementations translate driver-level failures (sql.ErrNoRows, unique
// violations) into these so upper layers never match on error text.
var (
	// ErrNotFound means no row matched, or the caller has no visibility
	// over the row. A delete of an already-deleted id also reports this;
	// double-delete is not treated as success.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateMatricula is the unique violation on students.matricula.
	ErrDuplicateMatricula = errors.New("matricula already registered")

	// ErrDuplicateEmail is the unique violation on users.email.
	ErrDuplicateEmail = errors.New("email already in use")
)
