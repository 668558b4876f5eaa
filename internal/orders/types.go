package orders

import "time"

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus is tracked independently of the fulfillment status.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentCanceled   PaymentStatus = "canceled"
)

// RequestStatus is the state of a modification request. approved and rejected
// are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// LineItem is an immutable snapshot of a purchased item. Prices are captured
// at checkout and never re-read from the catalog.
type LineItem struct {
	ProductID string  `dynamodbav:"product_id" json:"product_id"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	UnitPrice float64 `dynamodbav:"unit_price" json:"unit_price"`
}

// ModificationRequest is a buyer-initiated, staff-arbitrated proposal to
// change an existing order. Response fields are set only when the request
// leaves pending.
type ModificationRequest struct {
	ID           string        `dynamodbav:"request_id" json:"id"`
	Description  string        `dynamodbav:"description" json:"description"`
	Status       RequestStatus `dynamodbav:"status" json:"status"`
	RequestDate  time.Time     `dynamodbav:"request_date" json:"request_date"`
	RequestedBy  string        `dynamodbav:"requested_by" json:"requested_by"`
	ResponseDate *time.Time    `dynamodbav:"response_date,omitempty" json:"response_date,omitempty"`
	ResponseText string        `dynamodbav:"response_text,omitempty" json:"response_text,omitempty"`
	RespondedBy  string        `dynamodbav:"responded_by,omitempty" json:"responded_by,omitempty"`
}

// Order is the item stored in the orders DynamoDB table. Version is the
// optimistic-concurrency token: every conditional write checks it and bumps it.
type Order struct {
	ID            string        `dynamodbav:"order_id" json:"id"`
	Status        Status        `dynamodbav:"status" json:"status"`
	PaymentStatus PaymentStatus `dynamodbav:"payment_status" json:"payment_status"`

	Items         []LineItem `dynamodbav:"items" json:"items"`
	Total         float64    `dynamodbav:"total" json:"total"`
	ShippingCost  float64    `dynamodbav:"shipping_cost" json:"shipping_cost"`
	InsuranceCost float64    `dynamodbav:"insurance_cost" json:"insurance_cost"`

	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`

	Modifications     []ModificationRequest `dynamodbav:"modifications,omitempty" json:"modifications"`
	ModificationCount int                   `dynamodbav:"modification_count" json:"modification_count"`

	// Per-order overrides captured from PolicyConfig at creation; staff may
	// edit them later. nil means fall back to the current policy defaults.
	MaxModificationsAllowed *int       `dynamodbav:"max_modifications_allowed,omitempty" json:"max_modifications_allowed,omitempty"`
	ModificationDeadline    *time.Time `dynamodbav:"modification_deadline,omitempty" json:"modification_deadline,omitempty"`

	CancelReason string     `dynamodbav:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CancelDate   *time.Time `dynamodbav:"cancel_date,omitempty" json:"cancel_date,omitempty"`

	Version int64 `dynamodbav:"version" json:"version"`
}
