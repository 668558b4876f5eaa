package validation

import (
	"testing"
)

func validCreateOrder() CreateOrderRequest {
	return CreateOrderRequest{
		Items: []LineItemPayload{
			{ProductID: "p-1", Quantity: 2, UnitPrice: 10.0},
			{ProductID: "p-2", Quantity: 1, UnitPrice: 5.5},
		},
		Total:         30.5, // 2*10 + 5.5 + 3 + 2
		ShippingCost:  3,
		InsuranceCost: 2,
		PaymentStatus: "completed",
	}
}

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()
	if err := v.Struct(validCreateOrder()); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCreateOrderRequest_TotalMismatch(t *testing.T) {
	v := New()
	req := validCreateOrder()
	req.Total = 29.99
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for total mismatch, got nil")
	}
}

func TestCreateOrderRequest_BadItems(t *testing.T) {
	v := New()

	req := validCreateOrder()
	req.Items = nil
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for missing items")
	}

	req = validCreateOrder()
	req.Items[0].Quantity = 0
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for zero quantity")
	}

	req = validCreateOrder()
	req.PaymentStatus = "refunded"
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for unknown payment status")
	}
}

func TestResolveModificationRequest_DecisionOneOf(t *testing.T) {
	v := New()

	ok := ResolveModificationRequest{Decision: "approved", ResponseText: "will update", RespondedBy: "staff-2"}
	if err := v.Struct(ok); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bad := ResolveModificationRequest{Decision: "maybe", RespondedBy: "staff-2"}
	if err := v.Struct(bad); err == nil {
		t.Fatal("expected validation error for bad decision")
	}
}

func TestCreateModificationRequest_Description(t *testing.T) {
	v := New()

	if err := v.Struct(CreateModificationRequest{Description: "change address", RequestedBy: "buyer-7"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := v.Struct(CreateModificationRequest{Description: "", RequestedBy: "buyer-7"}); err == nil {
		t.Fatal("expected validation error for empty description")
	}
}

func TestUpdatePolicyRequest_RequiredFields(t *testing.T) {
	v := New()

	max, hours := 3, 24
	allow, reason := true, false
	ok := UpdatePolicyRequest{
		DefaultMaxModifications:      &max,
		ModificationDeadlineHours:    &hours,
		AllowCancellations:           &allow,
		RequireReasonForCancellation: &reason,
	}
	if err := v.Struct(ok); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	zeroHours := 0
	bad := ok
	bad.ModificationDeadlineHours = &zeroHours
	if err := v.Struct(bad); err == nil {
		t.Fatal("expected validation error for zero deadline hours")
	}

	partial := UpdatePolicyRequest{DefaultMaxModifications: &max}
	if err := v.Struct(partial); err == nil {
		t.Fatal("expected validation error for partial policy document")
	}
}
