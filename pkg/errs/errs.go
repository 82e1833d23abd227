// Package errs defines the error taxonomy shared across the service.
// Callers classify failures with errors.Is against these sentinels;
// context is attached at call sites via github.com/pkg/errors wrapping.
package errs

import "errors"

var (
	// ErrInvalidInput marks a request rejected at the validation boundary
	// (quality score out of range, difficulty out of bounds, malformed body).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing attempt, question, or user record.
	ErrNotFound = errors.New("not found")

	// ErrExhaustedContent means no question is available at the requested
	// difficulty. This is an expected steady-state condition, reported
	// distinctly from ErrNotFound so callers can render it as such.
	ErrExhaustedContent = errors.New("no content available at requested difficulty")

	// ErrInvalidContent means the content generator returned output that
	// failed schema validation and was rejected.
	ErrInvalidContent = errors.New("generated content failed validation")

	// ErrConflict marks a lost optimistic-concurrency race: another writer
	// updated the row between read and write.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrStoreUnavailable marks an unreachable backing store. Retryable
	// infrastructure failure, never masked with default values.
	ErrStoreUnavailable = errors.New("store unavailable")
)
