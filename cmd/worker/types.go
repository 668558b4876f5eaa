package main

import "time"

// queueEvent is the payload sent from the API to SQS. It mirrors
// internal/aws.WorkflowEvent but is decoded here independently so the worker
// keeps working if producers add fields.
type queueEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	RequestID     string    `json:"request_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
