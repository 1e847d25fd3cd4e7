package errors

import "errors"

// This package defines a centralized set of sentinel errors for the
// application. Services return these (usually wrapped with context via
// fmt.Errorf and %w) and the API layer maps them to HTTP status codes
// with errors.Is, keeping business logic free of transport concerns.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Typically mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client-provided input failed business
	// rule validation. Typically mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with current
	// resource state, e.g. creating a setting whose key already exists.
	// Typically mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission signifies that the authenticated user is not allowed
	// to perform the requested action. Typically mapped to 403 Forbidden.
	ErrPermission = errors.New("permission denied")

	// ErrNoCredential signifies that neither the user nor the deployment
	// has a provider API key configured. This is a user-actionable
	// configuration problem, not a system fault, so it maps to 400.
	ErrNoCredential = errors.New("no API key available")

	// ErrCredentialCorrupt signifies that a stored credential token is
	// well-formed but failed authenticated decryption. This indicates data
	// corruption or an encryption key change and is never treated as
	// "credential absent". Mapped to 500.
	ErrCredentialCorrupt = errors.New("stored credential is corrupt")

	// ErrProvider signifies that the external generative-text provider
	// returned a non-success response or an empty reply. Mapped to 502.
	ErrProvider = errors.New("provider request failed")

	// ErrInternal signifies an unexpected server-side error. Used to avoid
	// leaking implementation details to the client. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
