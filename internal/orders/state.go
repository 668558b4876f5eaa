package orders

import (
	"fmt"
	"time"
)

// ValidStatus reports whether s is a recognized fulfillment status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition is defined out of s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// TransitionStatus applies an administrative status change. Staff may set any
// non-terminal status directly; transitions out of delivered or cancelled are
// rejected, and cancellation must go through Cancel because it carries policy
// checks and the payment-status side effect.
func (o *Order) TransitionStatus(next Status) error {
	if !ValidStatus(next) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if next == StatusCancelled {
		return fmt.Errorf("%w: use the cancel operation to cancel an order", ErrInvalidTransition)
	}
	if o.Status.Terminal() {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, o.Status)
	}
	o.Status = next
	return nil
}

// Cancel marks the order cancelled and, as a documented side effect, sets the
// payment status to canceled. The allowCancellations policy gate is checked by
// the caller; requireReason is enforced here.
func (o *Order) Cancel(reason string, requireReason bool, now time.Time) error {
	if o.Status.Terminal() {
		return fmt.Errorf("%w: order is already %s", ErrCancellationNotAllowed, o.Status)
	}
	if requireReason && reason == "" {
		return fmt.Errorf("%w: a cancellation reason is required", ErrCancellationNotAllowed)
	}
	o.Status = StatusCancelled
	o.PaymentStatus = PaymentCanceled
	o.CancelReason = reason
	o.CancelDate = &now
	return nil
}

// AppendRequest attaches a new pending modification request and bumps the
// redundant counter in the same step so the count == len(modifications)
// invariant can never drift.
func (o *Order) AppendRequest(req ModificationRequest) {
	o.Modifications = append(o.Modifications, req)
	o.ModificationCount = len(o.Modifications)
}

// ResolveRequest applies a staff decision to a pending request. It records the
// response but never touches ModificationCount (the count reflects requests
// ever made) and never changes the order status.
func (o *Order) ResolveRequest(requestID string, decision RequestStatus, responseText, staffID string, now time.Time) error {
	if decision != RequestApproved && decision != RequestRejected {
		return fmt.Errorf("invalid decision %q", decision)
	}

	for i := range o.Modifications {
		if o.Modifications[i].ID != requestID {
			continue
		}
		if o.Modifications[i].Status != RequestPending {
			return fmt.Errorf("%w: request %s is %s", ErrAlreadyResolved, requestID, o.Modifications[i].Status)
		}
		o.Modifications[i].Status = decision
		o.Modifications[i].ResponseDate = &now
		o.Modifications[i].ResponseText = responseText
		o.Modifications[i].RespondedBy = staffID
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
}

// FindRequest returns the request with the given id, or nil.
func (o *Order) FindRequest(requestID string) *ModificationRequest {
	for i := range o.Modifications {
		if o.Modifications[i].ID == requestID {
			return &o.Modifications[i]
		}
	}
	return nil
}

// PartitionRequests splits requests into pending and resolved, preserving
// insertion order within each partition.
func PartitionRequests(reqs []ModificationRequest) (pending, resolved []ModificationRequest) {
	for _, r := range reqs {
		if r.Status == RequestPending {
			pending = append(pending, r)
		} else {
			resolved = append(resolved, r)
		}
	}
	return pending, resolved
}
