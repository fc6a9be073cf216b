package knowledge

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups and optimistic writes.
var (
	ErrRevisionNotFound = errors.New("revision not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrArticleNotFound  = errors.New("article not found")
	ErrStatusConflict   = errors.New("revision status changed since read")
)

// StatusError reports an operation attempted against a revision whose
// current status does not permit it. It names both states so callers
// can render a precise message.
type StatusError struct {
	RevisionID string
	Current    Status
	Attempted  Status
}

func (e *StatusError) Error() string {
	if e.Attempted == "" {
		return fmt.Sprintf("revision %s: operation not valid in status %q", e.RevisionID, e.Current)
	}
	return fmt.Sprintf("revision %s: cannot move from %q to %q", e.RevisionID, e.Current, e.Attempted)
}

// NewStatusError builds a StatusError for a rejected transition.
func NewStatusError(revisionID string, current, attempted Status) *StatusError {
	return &StatusError{RevisionID: revisionID, Current: current, Attempted: attempted}
}

// PermissionError reports an actor lacking authority for an operation.
// Distinct from StatusError so callers can render "not allowed" rather
// than "wrong state".
type PermissionError struct {
	ActorID   int
	Operation string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d is not allowed to %s", e.ActorID, e.Operation)
}

// NewPermissionError builds a PermissionError.
func NewPermissionError(actorID int, operation string) *PermissionError {
	return &PermissionError{ActorID: actorID, Operation: operation}
}

// ValidationError reports a malformed input value, caught before any
// state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
