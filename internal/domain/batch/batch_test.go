package batch

import (
	"testing"
	"time"
)

func TestNewBatchStartsDraftWithZeroSnapshot(t *testing.T) {
	now := time.Now().UTC()
	payees := []Payee{{ID: "p1", WorkerName: "Ana", Gross: 1000, EmployerCosts: 200}}

	b := New("b1", "2026-02", "finance@example.com", payees, now)

	if b.Status != StatusDraft {
		t.Fatalf("expected status %q, got %q", StatusDraft, b.Status)
	}
	if !b.FX.Zero() {
		t.Fatalf("expected zero fx snapshot, got %+v", b.FX)
	}
	if b.Totals.Gross != 1000 || b.Totals.EmployerCosts != 200 {
		t.Fatalf("totals must match payee seed state, got %+v", b.Totals)
	}
	if b.Payees[0].BatchID != "b1" {
		t.Fatalf("payee must be bound to batch, got %q", b.Payees[0].BatchID)
	}
	if b.Payees[0].Status != PayeePayrollPending {
		t.Fatalf("expected default payee status %q, got %q", PayeePayrollPending, b.Payees[0].Status)
	}
}

func TestAppendApprovalIsAppendOnly(t *testing.T) {
	b := New("b1", "2026-02", "finance@example.com", []Payee{{ID: "p1"}}, time.Now().UTC())

	first := ApprovalEvent{ID: "a1", Actor: "finance@example.com", Decision: DecisionSubmitted}
	b.AppendApproval(first)
	snapshot := b.Approvals[0]

	b.AppendApproval(ApprovalEvent{ID: "a2", Actor: "admin@example.com", Decision: DecisionApproved})

	if len(b.Approvals) != 2 {
		t.Fatalf("expected 2 approvals, got %d", len(b.Approvals))
	}
	if b.Approvals[0] != snapshot {
		t.Fatalf("prior approval entry changed: %+v vs %+v", b.Approvals[0], snapshot)
	}
	if b.Approvals[1].Decision != DecisionApproved {
		t.Fatalf("unexpected tail entry: %+v", b.Approvals[1])
	}
}

func TestAppendEventIsAppendOnly(t *testing.T) {
	b := New("b1", "2026-02", "finance@example.com", []Payee{{ID: "p1"}}, time.Now().UTC())

	b.AppendEvent(Event{ID: "e1", Type: EventCreated})
	snapshot := b.Events[0]
	before := len(b.Events)

	b.AppendEvent(Event{ID: "e2", Type: EventStatusChanged, Note: "Draft -> AwaitingApproval"})

	if len(b.Events) != before+1 {
		t.Fatalf("event log length must strictly increase, got %d", len(b.Events))
	}
	if b.Events[0] != snapshot {
		t.Fatalf("prior event entry changed: %+v vs %+v", b.Events[0], snapshot)
	}
}

func TestSetStatusGuardsTransitions(t *testing.T) {
	b := New("b1", "2026-02", "finance@example.com", []Payee{{ID: "p1"}}, time.Now().UTC())

	if err := b.SetStatus(StatusCompleted, time.Now().UTC()); err != ErrInvalidTransition {
		t.Fatalf("expected illegal jump rejection, got %v", err)
	}
	if b.Status != StatusDraft {
		t.Fatalf("status must be unchanged after rejection, got %q", b.Status)
	}

	if err := b.SetStatus(StatusAwaitingApproval, time.Now().UTC()); err != nil {
		t.Fatalf("expected legal transition, got %v", err)
	}
	if b.Status != StatusAwaitingApproval {
		t.Fatalf("expected status %q, got %q", StatusAwaitingApproval, b.Status)
	}
}
