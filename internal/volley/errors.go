package volley

import (
	"fmt"
	"strings"
)

// The three client-facing error kinds. None of them is retryable without
// changing the request; storage failures are returned unwrapped and are the
// caller's signal that a retry may succeed.

// ValidationError signals malformed or contradictory input, such as an
// empty roster or a player listed on both teams.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError signals that a referenced player or match does not exist.
// Missing lists every unknown player name when roster lookup fails.
type NotFoundError struct {
	Resource string
	Missing  []string
}

func (e *NotFoundError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s not found: %s", e.Resource, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError signals an operation that violates a one-time-transition
// invariant: submitting a result twice, or deleting completed history.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
