package domain

import (
	"errors"
	"fmt"
)

// ErrCEOImmutable is returned when a move targets the root of the tree.
var ErrCEOImmutable = errors.New("the CEO cannot be moved")

// ErrSelfSupervision is returned when an employee would become their own supervisor.
var ErrSelfSupervision = errors.New("employee cannot supervise themselves")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidChart is returned when a chart violates the tree invariants.
var ErrInvalidChart = errors.New("invalid chart")

// NotFoundError is returned when an employee ID does not resolve to a node.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee with id %d not found", e.ID)
}

// IsNotFound reports whether err carries a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
