// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors shared by services and adapters. Handlers translate
// these to HTTP status codes with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates the caller supplied a value that
	// fails domain validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates the operation would violate an integrity
	// rule, such as deleting a store that still has items.
	ErrConflict = errors.New("conflict")

	// ErrStorageFailure wraps unexpected database or cache failures.
	ErrStorageFailure = errors.New("storage failure")
)
