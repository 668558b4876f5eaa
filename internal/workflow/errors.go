package workflow

import "errors"

var (
	// ErrValidation means the input is malformed; the caller must fix it, the
	// operation is never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means no order exists for the given id.
	ErrNotFound = errors.New("order not found")

	// ErrConflict means the operation lost the concurrent-write race on every
	// bounded retry and the caller should try again.
	ErrConflict = errors.New("conflicting concurrent update")
)
