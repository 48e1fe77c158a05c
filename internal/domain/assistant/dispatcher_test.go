package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDispatcherRunsMatchedAction(t *testing.T) {
	var gotIntent string
	dispatcher := NewDispatcher(map[string]ActionFunc{
		IntentCreatePayrollBatch: func(_ context.Context, actor string, m Match) (string, error) {
			gotIntent = IntentCreatePayrollBatch
			if actor != "finance@example.com" {
				t.Fatalf("unexpected actor %q", actor)
			}
			return "Created payroll batch b-1.", nil
		},
	})

	reply := dispatcher.Handle(context.Background(), "finance@example.com", "create payroll batch")

	if gotIntent != IntentCreatePayrollBatch {
		t.Fatal("expected create_payroll_batch action to run")
	}
	if !reply.Dispatched {
		t.Fatalf("expected dispatched reply, got %+v", reply)
	}
	if reply.Message != "Created payroll batch b-1." {
		t.Fatalf("unexpected message %q", reply.Message)
	}
}

func TestDispatcherLowConfidenceApologizes(t *testing.T) {
	ran := false
	dispatcher := NewDispatcher(map[string]ActionFunc{
		IntentCreatePayrollBatch: func(context.Context, string, Match) (string, error) {
			ran = true
			return "", nil
		},
	})

	reply := dispatcher.Handle(context.Background(), "someone", "purple monkey dishwasher")

	if ran {
		t.Fatal("no action may run on low-confidence input")
	}
	if reply.Dispatched {
		t.Fatal("reply must not be marked dispatched")
	}
	if !strings.HasPrefix(reply.Message, ApologyPrefix) {
		t.Fatalf("expected apology-prefixed reply, got %q", reply.Message)
	}
}

func TestDispatcherActionErrorApologizes(t *testing.T) {
	dispatcher := NewDispatcher(map[string]ActionFunc{
		IntentApproveBatch: func(context.Context, string, Match) (string, error) {
			return "", errors.New("no batch in AwaitingApproval state")
		},
	})

	reply := dispatcher.Handle(context.Background(), "admin@example.com", "approve batch")

	if reply.Dispatched {
		t.Fatal("failed action must not be marked dispatched")
	}
	if !strings.HasPrefix(reply.Message, ApologyPrefix) {
		t.Fatalf("expected apology-prefixed reply, got %q", reply.Message)
	}
	if !strings.Contains(reply.Message, "no batch in AwaitingApproval state") {
		t.Fatalf("expected cause in reply, got %q", reply.Message)
	}
}

func TestDispatcherUnboundIntentFallsBack(t *testing.T) {
	dispatcher := NewDispatcher(map[string]ActionFunc{})

	reply := dispatcher.Handle(context.Background(), "someone", "lock the exchange rate")

	if reply.Dispatched {
		t.Fatal("unbound intent must not dispatch")
	}
	if !strings.HasPrefix(reply.Message, ApologyPrefix) {
		t.Fatalf("expected apology-prefixed reply, got %q", reply.Message)
	}
}
