package playbooks

import (
	"errors"
	"fmt"
)

// Sentinel errors for Play Books operations.
var (
	// ErrMarkerNotFound means the page carries no chapter data block at
	// all, usually because the page markup changed or the id is not an
	// audiobook.
	ErrMarkerNotFound = errors.New("playbooks: chapter data block not found")
	// ErrMalformed means the block is present but cannot be decoded into
	// title/offset pairs.
	ErrMalformed = errors.New("playbooks: chapter data block cannot be decoded")

	ErrBookNotFound = errors.New("playbooks: book not found")
	ErrRateLimited  = errors.New("playbooks: rate limited by server")
	ErrServer       = errors.New("playbooks: server error")
	ErrInvalidLink  = errors.New("playbooks: link carries no book id")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // Operation: "fetch", "scan"
	BookID string // If applicable
	Err    error
}

func (e *Error) Error() string {
	if e.BookID != "" {
		return fmt.Sprintf("playbooks %s [%s]: %v", e.Op, e.BookID, e.Err)
	}
	return fmt.Sprintf("playbooks %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, bookID string, err error) error {
	return &Error{
		Op:     op,
		BookID: bookID,
		Err:    err,
	}
}
