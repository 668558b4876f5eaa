package orders

import "errors"

var (
	// ErrInvalidTransition means the requested status change is not allowed:
	// unknown target status, terminal current status, or a target that must go
	// through a dedicated operation (cancellation).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCancellationNotAllowed means policy forbids cancelling, a required
	// reason is missing, or the order is already terminal.
	ErrCancellationNotAllowed = errors.New("cancellation not allowed")

	// ErrRequestNotFound means no modification request with the given id
	// exists on the order.
	ErrRequestNotFound = errors.New("modification request not found")

	// ErrAlreadyResolved guards the terminal request states: a request that
	// left pending can never be resolved again.
	ErrAlreadyResolved = errors.New("modification request already resolved")

	// ErrOrderCancelled means the operation targets an order that was
	// cancelled in the meantime.
	ErrOrderCancelled = errors.New("order is cancelled")
)
