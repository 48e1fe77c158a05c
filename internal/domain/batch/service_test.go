package batch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type memStore struct {
	batches   map[string]*Batch
	approvals []ApprovalEvent
	events    []Event
	receipts  []Receipt
}

func newMemStore() *memStore {
	return &memStore{batches: map[string]*Batch{}}
}

func (m *memStore) CreateBatch(_ context.Context, b Batch) error {
	copied := b
	m.batches[b.ID] = &copied
	return nil
}

func (m *memStore) GetBatch(_ context.Context, batchID string) (Batch, error) {
	b, ok := m.batches[batchID]
	if !ok {
		return Batch{}, ErrBatchNotFound
	}
	out := *b
	out.Totals = ResolveTotals(out.Payees)
	return out, nil
}

func (m *memStore) CountBatches(_ context.Context) (int, error) {
	return len(m.batches), nil
}

func (m *memStore) ListBatches(_ context.Context, limit, offset int) ([]Batch, error) {
	var out []Batch
	for _, b := range m.batches {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memStore) BatchStatus(_ context.Context, batchID string) (string, error) {
	b, ok := m.batches[batchID]
	if !ok {
		return "", ErrBatchNotFound
	}
	return b.Status, nil
}

func (m *memStore) UpdateBatchStatus(_ context.Context, batchID, status string) error {
	b, ok := m.batches[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	b.Status = status
	return nil
}

func (m *memStore) SetFXSnapshot(_ context.Context, batchID string, snapshot FXSnapshot) error {
	b, ok := m.batches[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	b.FX = snapshot
	return nil
}

func (m *memStore) AddApproval(_ context.Context, ev ApprovalEvent) error {
	m.approvals = append(m.approvals, ev)
	return nil
}

func (m *memStore) AddEvent(_ context.Context, ev Event) error {
	m.events = append(m.events, ev)
	return nil
}

func (m *memStore) ListPayees(_ context.Context, batchID string) ([]Payee, error) {
	b, ok := m.batches[batchID]
	if !ok {
		return nil, ErrBatchNotFound
	}
	out := make([]Payee, len(b.Payees))
	copy(out, b.Payees)
	return out, nil
}

func (m *memStore) UpdatePayeeStatus(_ context.Context, batchID, payeeID, status string) error {
	b, ok := m.batches[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	for i := range b.Payees {
		if b.Payees[i].ID == payeeID {
			b.Payees[i].Status = status
			return nil
		}
	}
	return ErrPayeeNotFound
}

func (m *memStore) AddReceipt(_ context.Context, receipt Receipt) error {
	m.receipts = append(m.receipts, receipt)
	return nil
}

func (m *memStore) ListReceipts(_ context.Context, batchID string) ([]Receipt, error) {
	return m.receipts, nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewService(store, 0.2, 0.05)
	svc.ReceiptDir = t.TempDir()
	return svc, store
}

func TestServiceCreateDefaultsAndDraftStatus(t *testing.T) {
	svc, store := newTestService(t)

	id, err := svc.Create(context.Background(), "2026-02", "finance@example.com", []Payee{
		{WorkerName: "Ana", WorkerType: "employee", Country: "Philippines", Gross: 1000},
		{WorkerName: "Luis", WorkerType: "contractor", Country: "Brazil", Gross: 2000},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	b, err := store.GetBatch(context.Background(), id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if b.Status != StatusDraft {
		t.Fatalf("expected Draft, got %s", b.Status)
	}
	if b.Payees[0].Currency != "PHP" {
		t.Fatalf("expected PHP for Philippine employee, got %s", b.Payees[0].Currency)
	}
	if b.Payees[0].EmployerCosts != 200 {
		t.Fatalf("expected computed employer costs 200, got %v", b.Payees[0].EmployerCosts)
	}
	if b.Payees[1].Currency != "EUR" {
		t.Fatalf("contractor payout currency must be EUR, got %s", b.Payees[1].Currency)
	}
	if b.Payees[1].EmployerCosts != 0 {
		t.Fatalf("contractors carry no employer costs, got %v", b.Payees[1].EmployerCosts)
	}
}

func TestServiceCreateRejectsEmptyBatch(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), "2026-02", "finance@example.com", nil); err != ErrNoPayees {
		t.Fatalf("expected ErrNoPayees, got %v", err)
	}
}

func TestServiceApprovalFlow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "2026-02", "finance@example.com", []Payee{{WorkerName: "Ana", Gross: 1000}})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := svc.Approve(ctx, id, "admin@example.com", "", "req-0"); err != ErrInvalidTransition {
		t.Fatalf("approve from Draft must be rejected, got %v", err)
	}

	if err := svc.SubmitForApproval(ctx, id, "finance@example.com", "february run", "req-1"); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if err := svc.RequestChanges(ctx, id, "admin@example.com", "fix FX fee on Ana", "req-2"); err != nil {
		t.Fatalf("request changes error: %v", err)
	}
	if status, _ := store.BatchStatus(ctx, id); status != StatusDraft {
		t.Fatalf("request changes must return batch to Draft, got %s", status)
	}

	if err := svc.SubmitForApproval(ctx, id, "finance@example.com", "resubmitted", "req-3"); err != nil {
		t.Fatalf("resubmit error: %v", err)
	}
	if err := svc.Approve(ctx, id, "admin@example.com", "looks good", "req-4"); err != nil {
		t.Fatalf("approve error: %v", err)
	}

	if len(store.approvals) != 4 {
		t.Fatalf("expected 4 approval entries, got %d", len(store.approvals))
	}
	decisions := []string{DecisionSubmitted, DecisionChangesRequested, DecisionSubmitted, DecisionApproved}
	for i, want := range decisions {
		if store.approvals[i].Decision != want {
			t.Fatalf("approval %d: expected %s, got %s", i, want, store.approvals[i].Decision)
		}
	}
}

func TestServiceExecuteCompletesBatchAndPaysPayees(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "2026-02", "finance@example.com", []Payee{
		{WorkerName: "Ana", Gross: 1000, Currency: "PHP"},
		{WorkerName: "Bo", Gross: 800, Currency: "EUR", Status: PayeeOnHold},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := svc.Execute(ctx, id, "system"); err != ErrExecuteNotApproved {
		t.Fatalf("execute before approval must fail, got %v", err)
	}

	if err := svc.SubmitForApproval(ctx, id, "finance@example.com", "", "r1"); err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if err := svc.Approve(ctx, id, "admin@example.com", "", "r2"); err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if err := svc.Execute(ctx, id, "system"); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	b, _ := store.GetBatch(ctx, id)
	if b.Status != StatusCompleted {
		t.Fatalf("expected Completed, got %s", b.Status)
	}
	if b.Payees[0].Status != PayeePaid {
		t.Fatalf("expected first payee PAID, got %s", b.Payees[0].Status)
	}
	if b.Payees[1].Status != PayeeOnHold {
		t.Fatalf("held payee must stay ON_HOLD, got %s", b.Payees[1].Status)
	}
	if len(store.receipts) != 1 {
		t.Fatalf("expected one receipt, got %d", len(store.receipts))
	}
	if store.receipts[0].Amount != 1000 || store.receipts[0].Currency != "PHP" {
		t.Fatalf("unexpected receipt: %+v", store.receipts[0])
	}
}

func TestServiceSnapshotFrozenOnTerminalBatch(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, "2026-02", "finance@example.com", []Payee{{WorkerName: "Ana", Gross: 100, Currency: "USD"}})
	_ = svc.SubmitForApproval(ctx, id, "finance@example.com", "", "")
	_ = svc.Approve(ctx, id, "admin@example.com", "", "")
	if err := svc.Execute(ctx, id, "system"); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	locked := time.Now().UTC()
	err := svc.SetSnapshot(ctx, id, FXSnapshot{Provider: "wise", BaseCurrency: "USD", LockedAt: &locked}, "admin@example.com", "")
	if err != ErrSnapshotTerminal {
		t.Fatalf("expected terminal snapshot rejection, got %v", err)
	}
	if b, _ := store.GetBatch(ctx, id); !b.FX.Zero() {
		t.Fatalf("snapshot must be unchanged, got %+v", b.FX)
	}
}

func TestServiceFailKeepsCauseWhenStatusWriteErrors(t *testing.T) {
	svc, _ := newTestService(t)
	cause := errors.New("transfer bounced for payee Ana")

	err := svc.fail(context.Background(), "missing-batch", "system", cause)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Fatalf("execution cause lost from error: %v", err)
	}
}
