package policy

import (
	"fmt"
	"time"
)

// Default values used until staff persist a policy document.
const (
	DefaultMaxModifications    = 3
	DefaultDeadlineHours       = 24
	DefaultAllowCancellations  = true
	DefaultRequireCancelReason = false
)

// Config holds the global modification and cancellation policy. It is a
// single versionless document: updates replace the whole thing, last write
// wins. Orders capture their own limits at creation, so changing the config
// never re-evaluates existing orders.
type Config struct {
	DefaultMaxModifications      int       `dynamodbav:"default_max_modifications" json:"default_max_modifications"`
	ModificationDeadlineHours    int       `dynamodbav:"modification_deadline_hours" json:"modification_deadline_hours"`
	AllowCancellations           bool      `dynamodbav:"allow_cancellations" json:"allow_cancellations"`
	RequireReasonForCancellation bool      `dynamodbav:"require_reason_for_cancellation" json:"require_reason_for_cancellation"`
	UpdatedAt                    time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMaxModifications:      DefaultMaxModifications,
		ModificationDeadlineHours:    DefaultDeadlineHours,
		AllowCancellations:           DefaultAllowCancellations,
		RequireReasonForCancellation: DefaultRequireCancelReason,
	}
}

// Validate rejects configs that would make every order ineligible by accident.
func (c Config) Validate() error {
	if c.DefaultMaxModifications < 0 {
		return fmt.Errorf("default_max_modifications must be >= 0, got %d", c.DefaultMaxModifications)
	}
	if c.ModificationDeadlineHours <= 0 {
		return fmt.Errorf("modification_deadline_hours must be > 0, got %d", c.ModificationDeadlineHours)
	}
	return nil
}

// DeadlineWindow is the fallback eligibility window applied from order
// creation when no explicit deadline is set on the order.
func (c Config) DeadlineWindow() time.Duration {
	return time.Duration(c.ModificationDeadlineHours) * time.Hour
}
