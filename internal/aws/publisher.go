package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Workflow event types published after a committed mutation.
const (
	EventOrderCreated          = "order_created"
	EventModificationRequested = "modification_requested"
	EventModificationResolved  = "modification_resolved"
	EventOrderCancelled        = "order_cancelled"
	EventStatusChanged         = "status_changed"
)

// WorkflowEvent is the payload sent to the events queue. The invoice worker
// consumes these; delivery is best-effort and never rolls back a committed write.
type WorkflowEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	RequestID     string    `json:"request_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// Publish sends a workflow event to the queue. The event type and order id are
// duplicated into message attributes so consumers can filter without decoding.
func (p *Publisher) Publish(ctx context.Context, ev WorkflowEvent) error {
	if p == nil || p.SQS == nil {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	messageBody := string(body)

	attrs := map[string]sqstypes.MessageAttributeValue{
		"event_type": {DataType: awsString("String"), StringValue: awsString(ev.Type)},
		"order_id":   {DataType: awsString("String"), StringValue: awsString(ev.OrderID)},
	}
	if ev.CorrelationID != "" {
		attrs["correlation_id"] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: awsString(ev.CorrelationID),
		}
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          &p.QueueURL,
		MessageBody:       &messageBody,
		MessageAttributes: attrs,
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
