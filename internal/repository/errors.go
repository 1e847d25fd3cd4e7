package repository

import "errors"

// Repository-level sentinel errors. The service layer translates these
// into domain errors (internal/errors) so business logic never touches
// driver-specific failures like sql.ErrNoRows or sqlite3.Error.

// ErrNotFound is returned when a query for a single entity finds no rows.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict is returned when a write violates a uniqueness constraint,
// e.g. a duplicate global-setting key or user email.
var ErrConflict = errors.New("repository: conflict")
