package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailops/order-workflow/internal/aws"
	"github.com/retailops/order-workflow/internal/orders"
	"github.com/retailops/order-workflow/internal/policy"
)

// maxDescriptionLen bounds the buyer's free-text rationale.
const maxDescriptionLen = 2000

// ServiceConfig groups the dependencies of the workflow service.
type ServiceConfig struct {
	Orders       *orders.Store
	Policy       *policy.Store
	Events       *aws.Publisher // optional
	Metrics      *aws.Recorder  // optional
	Logger       zerolog.Logger
	WriteRetries int // bounded CAS retries per operation, default 3
}

// Service coordinates every public operation of the workflow engine. Each
// mutation is a read-modify-write against a single order record, committed
// with a version compare-and-swap and retried a bounded number of times; all
// guards are re-evaluated against the freshly read state on every attempt.
type Service struct {
	orders  *orders.Store
	policy  *policy.Store
	events  *aws.Publisher
	metrics *aws.Recorder
	log     zerolog.Logger
	retries int
	nowFunc func() time.Time
}

// NewService builds a Service from its config.
func NewService(cfg ServiceConfig) *Service {
	retries := cfg.WriteRetries
	if retries < 1 {
		retries = 3
	}
	return &Service{
		orders:  cfg.Orders,
		policy:  cfg.Policy,
		events:  cfg.Events,
		metrics: cfg.Metrics,
		log:     cfg.Logger,
		retries: retries,
		nowFunc: time.Now,
	}
}

// Eligibility is the buyer-facing snapshot driving UI affordances.
type Eligibility struct {
	CanModify      bool   `json:"can_modify"`
	RemainingSlots int    `json:"remaining_slots"`
	CanCancel      bool   `json:"can_cancel"`
	Reason         string `json:"reason,omitempty"`
}

// NewOrderInput is the intake payload for order creation. Line items are
// price snapshots; the engine never re-reads the catalog.
type NewOrderInput struct {
	Items         []orders.LineItem
	Total         float64
	ShippingCost  float64
	InsuranceCost float64
	PaymentStatus orders.PaymentStatus
	CorrelationID string
}

// GetOrder reads a single order.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	return o, nil
}

// CheckEligibility evaluates the modification and cancellation gates for an
// order against the current policy and clock.
func (s *Service) CheckEligibility(ctx context.Context, orderID string) (Eligibility, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return Eligibility{}, err
	}
	cfg, err := s.policy.Get(ctx)
	if err != nil {
		return Eligibility{}, err
	}

	el := Eligibility{
		RemainingSlots: policy.RemainingSlots(o, cfg),
		CanCancel:      policy.CanCancel(o, cfg),
	}
	if eligErr := policy.CheckModificationEligibility(o, cfg, s.nowFunc().UTC()); eligErr != nil {
		var ne *policy.NotEligibleError
		if errors.As(eligErr, &ne) {
			el.Reason = string(ne.Reason)
		}
	} else {
		el.CanModify = true
	}
	return el, nil
}

// CreateOrder persists a new order, capturing the modification limits from the
// current policy so later policy changes do not retroactively re-evaluate it.
// The fulfillment status follows the payment outcome.
func (s *Service) CreateOrder(ctx context.Context, in NewOrderInput) (*orders.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line item", ErrValidation)
	}

	cfg, err := s.policy.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	status := orders.StatusPending
	if in.PaymentStatus == orders.PaymentCompleted {
		status = orders.StatusProcessing
	}
	maxMods := cfg.DefaultMaxModifications
	deadline := now.Add(cfg.DeadlineWindow())

	o := &orders.Order{
		ID:                      uuid.NewString(),
		Status:                  status,
		PaymentStatus:           in.PaymentStatus,
		Items:                   in.Items,
		Total:                   in.Total,
		ShippingCost:            in.ShippingCost,
		InsuranceCost:           in.InsuranceCost,
		CreatedAt:               now,
		MaxModificationsAllowed: &maxMods,
		ModificationDeadline:    &deadline,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, aws.WorkflowEvent{
		Type:          aws.EventOrderCreated,
		OrderID:       o.ID,
		CorrelationID: in.CorrelationID,
		OccurredAt:    now,
	})
	s.log.Info().Str("order_id", o.ID).Str("status", string(o.Status)).Msg("order created")
	return o, nil
}

// CreateModificationRequest appends a new pending request if the order is
// eligible. Eligibility is re-checked against the fresh read on every CAS
// retry, so a cancel or a competing request that lands first makes this fail
// rather than slip through on a stale snapshot.
func (s *Service) CreateModificationRequest(ctx context.Context, orderID, requesterID, description string) (*orders.Order, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrValidation)
	}
	if len(description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrValidation, maxDescriptionLen)
	}

	var requestID string
	o, err := s.updateOrder(ctx, orderID, func(o *orders.Order, cfg policy.Config, now time.Time) error {
		if err := policy.CheckModificationEligibility(o, cfg, now); err != nil {
			return err
		}
		requestID = uuid.NewString()
		o.AppendRequest(orders.ModificationRequest{
			ID:          requestID,
			Description: description,
			Status:      orders.RequestPending,
			RequestDate: now,
			RequestedBy: requesterID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.count(ctx, aws.MetricRequestsCreated)
	s.publish(ctx, aws.WorkflowEvent{
		Type:       aws.EventModificationRequested,
		OrderID:    orderID,
		RequestID:  requestID,
		OccurredAt: s.nowFunc().UTC(),
	})
	s.log.Info().Str("order_id", orderID).Str("request_id", requestID).Msg("modification requested")
	return o, nil
}

// ResolveModificationRequest applies a staff decision to a pending request.
// A request that already left pending fails with ErrAlreadyResolved even after
// a conflict-triggered re-read, so concurrent arbiters get exactly one win.
// Approval records intent only; the requested change is never auto-applied.
func (s *Service) ResolveModificationRequest(ctx context.Context, orderID, requestID, decision, responseText, staffID string) (*orders.Order, error) {
	var status orders.RequestStatus
	switch decision {
	case string(orders.RequestApproved):
		status = orders.RequestApproved
	case string(orders.RequestRejected):
		status = orders.RequestRejected
	default:
		return nil, fmt.Errorf("%w: decision must be approved or rejected, got %q", ErrValidation, decision)
	}

	o, err := s.updateOrder(ctx, orderID, func(o *orders.Order, cfg policy.Config, now time.Time) error {
		if o.Status == orders.StatusCancelled {
			return fmt.Errorf("%w: %s", orders.ErrOrderCancelled, orderID)
		}
		return o.ResolveRequest(requestID, status, responseText, staffID, now)
	})
	if err != nil {
		return nil, err
	}

	s.count(ctx, aws.MetricRequestsResolved)
	s.publish(ctx, aws.WorkflowEvent{
		Type:       aws.EventModificationResolved,
		OrderID:    orderID,
		RequestID:  requestID,
		OccurredAt: s.nowFunc().UTC(),
	})
	s.log.Info().Str("order_id", orderID).Str("request_id", requestID).Str("decision", decision).Msg("modification resolved")
	return o, nil
}

// CancelOrder cancels a non-terminal order, subject to the cancellation
// policy, and sets the payment status to canceled as a documented side effect.
func (s *Service) CancelOrder(ctx context.Context, orderID, reason string) (*orders.Order, error) {
	o, err := s.updateOrder(ctx, orderID, func(o *orders.Order, cfg policy.Config, now time.Time) error {
		if !cfg.AllowCancellations {
			return fmt.Errorf("%w: cancellations are disabled", orders.ErrCancellationNotAllowed)
		}
		return o.Cancel(reason, cfg.RequireReasonForCancellation, now)
	})
	if err != nil {
		return nil, err
	}

	s.count(ctx, aws.MetricOrdersCancelled)
	s.publish(ctx, aws.WorkflowEvent{
		Type:       aws.EventOrderCancelled,
		OrderID:    orderID,
		OccurredAt: s.nowFunc().UTC(),
	})
	s.log.Info().Str("order_id", orderID).Msg("order cancelled")
	return o, nil
}

// TransitionStatus applies an administrative fulfillment-status change.
func (s *Service) TransitionStatus(ctx context.Context, orderID string, next orders.Status) (*orders.Order, error) {
	o, err := s.updateOrder(ctx, orderID, func(o *orders.Order, cfg policy.Config, now time.Time) error {
		return o.TransitionStatus(next)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, aws.WorkflowEvent{
		Type:       aws.EventStatusChanged,
		OrderID:    orderID,
		OccurredAt: s.nowFunc().UTC(),
	})
	s.log.Info().Str("order_id", orderID).Str("status", string(next)).Msg("status changed")
	return o, nil
}

// SetMaxModifications overrides the per-order request quota (staff action).
func (s *Service) SetMaxModifications(ctx context.Context, orderID string, max int) (*orders.Order, error) {
	if max < 0 {
		return nil, fmt.Errorf("%w: max modifications must be >= 0, got %d", ErrValidation, max)
	}
	return s.updateOrder(ctx, orderID, func(o *orders.Order, cfg policy.Config, now time.Time) error {
		o.MaxModificationsAllowed = &max
		return nil
	})
}

// GetPolicy reads the current policy config.
func (s *Service) GetPolicy(ctx context.Context) (policy.Config, error) {
	return s.policy.Get(ctx)
}

// UpdatePolicy validates and replaces the policy document (last write wins).
// Existing orders keep the limits they captured at creation.
func (s *Service) UpdatePolicy(ctx context.Context, cfg policy.Config) (policy.Config, error) {
	if err := cfg.Validate(); err != nil {
		return policy.Config{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := s.policy.Put(ctx, cfg); err != nil {
		return policy.Config{}, err
	}
	s.log.Info().
		Int("default_max_modifications", cfg.DefaultMaxModifications).
		Int("modification_deadline_hours", cfg.ModificationDeadlineHours).
		Bool("allow_cancellations", cfg.AllowCancellations).
		Msg("policy updated")
	return s.policy.Get(ctx)
}

// updateOrder runs one read-modify-CAS-write cycle per attempt. The mutate
// callback sees the freshly read order, the current policy and a single
// timestamp; it must re-derive every guard from those, never from state
// captured outside the callback.
func (s *Service) updateOrder(ctx context.Context, orderID string, mutate func(o *orders.Order, cfg policy.Config, now time.Time) error) (*orders.Order, error) {
	for attempt := 1; attempt <= s.retries; attempt++ {
		o, err := s.orders.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
		}
		cfg, err := s.policy.Get(ctx)
		if err != nil {
			return nil, err
		}

		if err := mutate(o, cfg, s.nowFunc().UTC()); err != nil {
			return nil, err
		}

		err = s.orders.Put(ctx, o, o.Version)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, orders.ErrVersionConflict) {
			return nil, err
		}
		s.count(ctx, aws.MetricConflictRetries)
		s.log.Warn().Str("order_id", orderID).Int("attempt", attempt).Msg("version conflict, retrying")
	}
	return nil, fmt.Errorf("%w: order %s", ErrConflict, orderID)
}

// publish emits a workflow event best-effort; a failed publish never rolls
// back a committed write.
func (s *Service) publish(ctx context.Context, ev aws.WorkflowEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event_type", ev.Type).Str("order_id", ev.OrderID).Msg("event publish failed")
	}
}

func (s *Service) count(ctx context.Context, metric string) {
	if err := s.metrics.Count(ctx, metric, 1); err != nil {
		s.log.Debug().Err(err).Str("metric", metric).Msg("metric emit failed")
	}
}
