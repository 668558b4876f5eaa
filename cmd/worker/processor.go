package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	internalaws "github.com/retailops/order-workflow/internal/aws"
	"github.com/retailops/order-workflow/internal/invoice"
	"github.com/retailops/order-workflow/internal/orders"
)

// Projector consumes workflow events and renders invoice documents from the
// final order state. It is strictly read-only against the orders table: the
// projection collaborator must never write back to an order.
type Projector struct {
	orderStore *orders.Store
	log        zerolog.Logger
	nowFunc    func() time.Time
}

// NewProjector creates a worker processor bound to the orders table.
func NewProjector(client internalaws.DynamoDBAPI, ordersTable string, log zerolog.Logger) *Projector {
	return &Projector{
		orderStore: orders.NewStore(client, ordersTable),
		log:        log,
		nowFunc:    time.Now,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Projector) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry, then DLQ.
			p.log.Error().Err(err).Str("message_id", rec.MessageId).Msg("worker error")
			return err
		}
	}
	return nil
}

func (p *Projector) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg queueEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.log.Info().
		Str("event_type", msg.Type).
		Str("order_id", msg.OrderID).
		Str("correlation_id", msg.CorrelationID).
		Msg("received workflow event")

	// Only terminal-ish events produce a document; intermediate events are
	// acknowledged without work.
	switch msg.Type {
	case internalaws.EventOrderCancelled, internalaws.EventModificationResolved, internalaws.EventStatusChanged:
	default:
		return nil
	}

	o, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if o == nil {
		// Should never happen; DLQ if it does
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	doc := invoice.Build(o, p.nowFunc().UTC())
	rendered, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}

	p.log.Info().
		Str("order_id", o.ID).
		Str("invoice_number", doc.InvoiceNumber).
		Int("modifications", len(doc.Modifications)).
		RawJSON("document", rendered).
		Msg("invoice projected")
	return nil
}
