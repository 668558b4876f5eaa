package policy

import (
	"time"

	"github.com/retailops/order-workflow/internal/orders"
)

// Reason identifies the first eligibility rule that failed, so callers can
// tell the buyer what to do about it.
type Reason string

const (
	ReasonStatusNotModifiable Reason = "status_not_modifiable"
	ReasonDeadlinePassed      Reason = "deadline_passed"
	ReasonMaxReached          Reason = "max_modifications_reached"
)

// NotEligibleError reports why an order does not accept new modification
// requests.
type NotEligibleError struct {
	Reason Reason
}

func (e *NotEligibleError) Error() string {
	switch e.Reason {
	case ReasonStatusNotModifiable:
		return "order is no longer in a modifiable state"
	case ReasonDeadlinePassed:
		return "modification deadline has passed"
	case ReasonMaxReached:
		return "maximum number of modifications reached"
	}
	return "order is not eligible for modification"
}

// CheckModificationEligibility evaluates the three gating rules in order and
// returns nil when the order accepts a new request, or a NotEligibleError
// naming the first failing rule. It is a pure function of the order, the
// policy and the clock.
func CheckModificationEligibility(o *orders.Order, cfg Config, now time.Time) error {
	// Only processing orders may be modified; anything earlier or later in
	// fulfillment is a deliberate narrow window.
	if o.Status != orders.StatusProcessing {
		return &NotEligibleError{Reason: ReasonStatusNotModifiable}
	}
	if now.After(EffectiveDeadline(o, cfg)) {
		return &NotEligibleError{Reason: ReasonDeadlinePassed}
	}
	if o.ModificationCount >= EffectiveMax(o, cfg) {
		return &NotEligibleError{Reason: ReasonMaxReached}
	}
	return nil
}

// CanRequestModification is the boolean form used for UI affordances.
func CanRequestModification(o *orders.Order, cfg Config, now time.Time) bool {
	return CheckModificationEligibility(o, cfg, now) == nil
}

// CanCancel checks only the cancellation policy switch and that the order is
// non-terminal; it is independent of the modification rules.
func CanCancel(o *orders.Order, cfg Config) bool {
	return cfg.AllowCancellations && !o.Status.Terminal()
}

// EffectiveDeadline is the order's explicit deadline when set, else creation
// time plus the policy window.
func EffectiveDeadline(o *orders.Order, cfg Config) time.Time {
	if o.ModificationDeadline != nil {
		return *o.ModificationDeadline
	}
	return o.CreatedAt.Add(cfg.DeadlineWindow())
}

// EffectiveMax is the order's override when set, else the policy default.
func EffectiveMax(o *orders.Order, cfg Config) int {
	if o.MaxModificationsAllowed != nil {
		return *o.MaxModificationsAllowed
	}
	return cfg.DefaultMaxModifications
}

// RemainingSlots is the quota left for new requests, clamped at zero.
func RemainingSlots(o *orders.Order, cfg Config) int {
	remaining := EffectiveMax(o, cfg) - o.ModificationCount
	if remaining < 0 {
		return 0
	}
	return remaining
}
