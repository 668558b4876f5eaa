package orders

import (
	"errors"
	"testing"
	"time"
)

func TestTransitionStatus_ForwardAndOverride(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, false},
		{"processing to shipped", StatusProcessing, StatusShipped, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, false},
		{"admin override backwards", StatusShipped, StatusProcessing, false},
		{"from delivered", StatusDelivered, StatusProcessing, true},
		{"from cancelled", StatusCancelled, StatusPending, true},
		{"unknown target", StatusPending, Status("returned"), true},
		{"cancelled target must use cancel", StatusPending, StatusCancelled, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &Order{ID: "o1", Status: tc.from}
			err := o.TransitionStatus(tc.to)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				if o.Status != tc.from {
					t.Fatalf("status changed on failed transition: %s", o.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Status != tc.to {
				t.Fatalf("expected status %s, got %s", tc.to, o.Status)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("requires reason when policy says so", func(t *testing.T) {
		o := &Order{Status: StatusProcessing, PaymentStatus: PaymentCompleted}
		err := o.Cancel("", true, now)
		if !errors.Is(err, ErrCancellationNotAllowed) {
			t.Fatalf("expected ErrCancellationNotAllowed, got %v", err)
		}
		if o.Status != StatusProcessing {
			t.Fatalf("status changed on failed cancel: %s", o.Status)
		}
	})

	t.Run("rejects terminal orders", func(t *testing.T) {
		o := &Order{Status: StatusDelivered}
		if err := o.Cancel("changed my mind", false, now); !errors.Is(err, ErrCancellationNotAllowed) {
			t.Fatalf("expected ErrCancellationNotAllowed, got %v", err)
		}
	})

	t.Run("sets both status fields and the cancel record", func(t *testing.T) {
		o := &Order{Status: StatusProcessing, PaymentStatus: PaymentCompleted}
		if err := o.Cancel("wrong size", true, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Status != StatusCancelled {
			t.Fatalf("expected cancelled, got %s", o.Status)
		}
		if o.PaymentStatus != PaymentCanceled {
			t.Fatalf("expected payment canceled, got %s", o.PaymentStatus)
		}
		if o.CancelReason != "wrong size" || o.CancelDate == nil || !o.CancelDate.Equal(now) {
			t.Fatalf("cancel record not set: %q %v", o.CancelReason, o.CancelDate)
		}
	})

	t.Run("empty reason allowed when not required", func(t *testing.T) {
		o := &Order{Status: StatusPending}
		if err := o.Cancel("", false, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAppendRequest_KeepsCountInSync(t *testing.T) {
	o := &Order{Status: StatusProcessing}
	for i := 0; i < 3; i++ {
		o.AppendRequest(ModificationRequest{ID: "r", Status: RequestPending})
		if o.ModificationCount != len(o.Modifications) {
			t.Fatalf("count %d != len %d", o.ModificationCount, len(o.Modifications))
		}
	}
}

func TestResolveRequest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newOrder := func() *Order {
		o := &Order{Status: StatusProcessing}
		o.AppendRequest(ModificationRequest{ID: "req-1", Status: RequestPending, Description: "change address"})
		return o
	}

	t.Run("approves a pending request", func(t *testing.T) {
		o := newOrder()
		if err := o.ResolveRequest("req-1", RequestApproved, "will update", "staff-9", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req := o.FindRequest("req-1")
		if req.Status != RequestApproved || req.ResponseText != "will update" || req.RespondedBy != "staff-9" {
			t.Fatalf("response fields not set: %+v", req)
		}
		if req.ResponseDate == nil || !req.ResponseDate.Equal(now) {
			t.Fatalf("response date not set: %v", req.ResponseDate)
		}
		// resolution does not create or remove requests
		if o.ModificationCount != 1 {
			t.Fatalf("count changed on resolve: %d", o.ModificationCount)
		}
	})

	t.Run("resolved requests are terminal", func(t *testing.T) {
		o := newOrder()
		if err := o.ResolveRequest("req-1", RequestRejected, "out of window", "staff-9", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err := o.ResolveRequest("req-1", RequestApproved, "second thoughts", "staff-2", now)
		if !errors.Is(err, ErrAlreadyResolved) {
			t.Fatalf("expected ErrAlreadyResolved, got %v", err)
		}
		if req := o.FindRequest("req-1"); req.Status != RequestRejected || req.RespondedBy != "staff-9" {
			t.Fatalf("first decision overwritten: %+v", req)
		}
	})

	t.Run("unknown request id", func(t *testing.T) {
		o := newOrder()
		if err := o.ResolveRequest("req-404", RequestApproved, "", "staff-9", now); !errors.Is(err, ErrRequestNotFound) {
			t.Fatalf("expected ErrRequestNotFound, got %v", err)
		}
	})

	t.Run("rejects bogus decisions", func(t *testing.T) {
		o := newOrder()
		if err := o.ResolveRequest("req-1", RequestPending, "", "staff-9", now); err == nil {
			t.Fatal("expected error for pending decision")
		}
	})
}

func TestPartitionRequests(t *testing.T) {
	reqs := []ModificationRequest{
		{ID: "a", Status: RequestPending},
		{ID: "b", Status: RequestApproved},
		{ID: "c", Status: RequestPending},
		{ID: "d", Status: RequestRejected},
	}
	pending, resolved := PartitionRequests(reqs)
	if len(pending) != 2 || pending[0].ID != "a" || pending[1].ID != "c" {
		t.Fatalf("bad pending partition: %+v", pending)
	}
	if len(resolved) != 2 || resolved[0].ID != "b" || resolved[1].ID != "d" {
		t.Fatalf("bad resolved partition: %+v", resolved)
	}
}
