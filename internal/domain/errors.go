package domain

import "errors"

var (
	// ErrNotFound means the referenced booking, item or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor lacks the role or relationship the
	// transition requires.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the optimistic precondition failed because a
	// concurrent transition won the race. Safe to retry after re-reading
	// current state.
	ErrConflict = errors.New("conflict: booking was modified concurrently")
)

// InvalidStateError means the entity is not in a status from which the
// requested transition is legal. Reason is a human-readable explanation
// surfaced to the caller.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return e.Reason }

// NewInvalidState builds an InvalidStateError with the given explanation.
func NewInvalidState(reason string) error {
	return &InvalidStateError{Reason: reason}
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}
