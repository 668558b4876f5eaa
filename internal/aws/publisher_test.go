package aws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type mockSQS struct {
	sent []*sqs.SendMessageInput
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.sent = append(m.sent, params)
	return &sqs.SendMessageOutput{}, nil
}

func TestPublisher_Publish(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.example/queue")

	ev := WorkflowEvent{
		Type:          EventModificationResolved,
		OrderID:       "order-1",
		RequestID:     "req-1",
		CorrelationID: "corr-9",
		OccurredAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(mock.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(mock.sent))
	}
	msg := mock.sent[0]
	if *msg.QueueUrl != "https://sqs.example/queue" {
		t.Fatalf("queue url wrong: %s", *msg.QueueUrl)
	}

	var decoded WorkflowEvent
	if err := json.Unmarshal([]byte(*msg.MessageBody), &decoded); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if decoded.Type != EventModificationResolved || decoded.OrderID != "order-1" || decoded.RequestID != "req-1" {
		t.Fatalf("body mismatch: %+v", decoded)
	}

	if attr, ok := msg.MessageAttributes["event_type"]; !ok || *attr.StringValue != EventModificationResolved {
		t.Fatalf("event_type attribute missing: %+v", msg.MessageAttributes)
	}
	if attr, ok := msg.MessageAttributes["correlation_id"]; !ok || *attr.StringValue != "corr-9" {
		t.Fatalf("correlation_id attribute missing: %+v", msg.MessageAttributes)
	}
}

func TestPublisher_NilSafe(t *testing.T) {
	var p *Publisher
	if err := p.Publish(context.Background(), WorkflowEvent{Type: EventOrderCreated}); err != nil {
		t.Fatalf("nil publisher must be a no-op, got %v", err)
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	if err := r.Count(context.Background(), MetricConflictRetries, 1); err != nil {
		t.Fatalf("nil recorder must be a no-op, got %v", err)
	}
}
