package validation

// LineItemPayload is a single purchased item in the intake payload.
type LineItemPayload struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	Items         []LineItemPayload `json:"items" validate:"required,min=1,dive"`
	Total         float64           `json:"total" validate:"required,gt=0"`
	ShippingCost  float64           `json:"shipping_cost" validate:"gte=0"`
	InsuranceCost float64           `json:"insurance_cost" validate:"gte=0"`
	PaymentStatus string            `json:"payment_status" validate:"required,oneof=pending processing completed"`
}

// CreateModificationRequest is the payload for POST /orders/:id/modifications.
type CreateModificationRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
	RequestedBy string `json:"requested_by" validate:"required"`
}

// ResolveModificationRequest is the payload for the staff resolve endpoint.
type ResolveModificationRequest struct {
	Decision     string `json:"decision" validate:"required,oneof=approved rejected"`
	ResponseText string `json:"response_text" validate:"max=2000"`
	RespondedBy  string `json:"responded_by" validate:"required"`
}

// CancelOrderRequest is the payload for POST /orders/:id/cancel. An empty
// reason is accepted here; whether one is required is a policy decision.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// TransitionStatusRequest is the payload for POST /orders/:id/status.
type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetMaxModificationsRequest is the staff per-order quota override payload.
type SetMaxModificationsRequest struct {
	MaxModificationsAllowed *int `json:"max_modifications_allowed" validate:"required,gte=0"`
}

// UpdatePolicyRequest replaces the whole policy document. All fields are
// required: this is a full replace, not a merge.
type UpdatePolicyRequest struct {
	DefaultMaxModifications      *int  `json:"default_max_modifications" validate:"required,gte=0"`
	ModificationDeadlineHours    *int  `json:"modification_deadline_hours" validate:"required,gt=0"`
	AllowCancellations           *bool `json:"allow_cancellations" validate:"required"`
	RequireReasonForCancellation *bool `json:"require_reason_for_cancellation" validate:"required"`
}
