package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"geniehr/internal/domain/costs"
)

type Service struct {
	store        StoreAPI
	employerRate float64
	feeRate      float64
	ReceiptDir   string
}

func NewService(store StoreAPI, employerRate, feeRate float64) *Service {
	return &Service{
		store:        store,
		employerRate: employerRate,
		feeRate:      feeRate,
		ReceiptDir:   "storage/receipts",
	}
}

func (s *Service) Store() StoreAPI {
	return s.store
}

// Create allocates a new Draft batch. Missing payee currencies and employer
// costs are filled in from the cost calculator before persisting.
func (s *Service) Create(ctx context.Context, period, createdBy string, payees []Payee) (string, error) {
	if len(payees) == 0 {
		return "", ErrNoPayees
	}

	for i := range payees {
		if payees[i].ID == "" {
			payees[i].ID = uuid.NewString()
		}
		if payees[i].Currency == "" {
			payees[i].Currency = costs.CurrencyCode(payees[i].Country, payees[i].WorkerType)
		}
		if payees[i].EmployerCosts == 0 && payees[i].WorkerType != "contractor" {
			breakdown := costs.Compute(costs.Input{
				Gross:        payees[i].Gross,
				EmployerRate: s.employerRate,
				FeeRate:      s.feeRate,
				FeeModel:     costs.FeeModelGross,
			})
			payees[i].EmployerCosts = breakdown.EmployerTax
		}
		if payees[i].Status != "" && !validPayeeStatus(payees[i].Status) {
			return "", ErrUnknownPayeeStatus
		}
	}

	b := New(uuid.NewString(), period, createdBy, payees, time.Now().UTC())
	if err := s.store.CreateBatch(ctx, b); err != nil {
		return "", err
	}

	s.recordEvent(ctx, b.ID, EventCreated, createdBy, fmt.Sprintf("batch created for period %s with %d payees", period, len(payees)), "")
	return b.ID, nil
}

func (s *Service) Get(ctx context.Context, batchID string) (Batch, error) {
	return s.store.GetBatch(ctx, batchID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Batch, int, error) {
	total, err := s.store.CountBatches(ctx)
	if err != nil {
		return nil, 0, err
	}
	batches, err := s.store.ListBatches(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// UpdateStatus applies a guarded transition. Illegal jumps are rejected at
// this layer; there is no unchecked overwrite path.
func (s *Service) UpdateStatus(ctx context.Context, batchID, to, actor, requestID string) error {
	current, err := s.store.BatchStatus(ctx, batchID)
	if err != nil {
		return err
	}
	if err := Transition(current, to); err != nil {
		return err
	}
	if err := s.store.UpdateBatchStatus(ctx, batchID, to); err != nil {
		return err
	}
	s.recordEvent(ctx, batchID, EventStatusChanged, actor, fmt.Sprintf("%s -> %s", current, to), requestID)
	return nil
}

func (s *Service) SubmitForApproval(ctx context.Context, batchID, actor, note, requestID string) error {
	if err := s.UpdateStatus(ctx, batchID, StatusAwaitingApproval, actor, requestID); err != nil {
		return err
	}
	return s.addApproval(ctx, batchID, actor, DecisionSubmitted, note)
}

func (s *Service) Approve(ctx context.Context, batchID, actor, note, requestID string) error {
	if err := s.UpdateStatus(ctx, batchID, StatusApproved, actor, requestID); err != nil {
		return err
	}
	return s.addApproval(ctx, batchID, actor, DecisionApproved, note)
}

// RequestChanges sends an awaiting batch back to Draft so finance can amend
// it and resubmit.
func (s *Service) RequestChanges(ctx context.Context, batchID, actor, note, requestID string) error {
	if err := s.UpdateStatus(ctx, batchID, StatusDraft, actor, requestID); err != nil {
		return err
	}
	return s.addApproval(ctx, batchID, actor, DecisionChangesRequested, note)
}

// SetSnapshot attaches an FX quote snapshot. It does not change batch
// status, but terminal batches are frozen.
func (s *Service) SetSnapshot(ctx context.Context, batchID string, snapshot FXSnapshot, actor, requestID string) error {
	current, err := s.store.BatchStatus(ctx, batchID)
	if err != nil {
		return err
	}
	if current == StatusCompleted || current == StatusFailed {
		return ErrSnapshotTerminal
	}
	if err := s.store.SetFXSnapshot(ctx, batchID, snapshot); err != nil {
		return err
	}
	s.recordEvent(ctx, batchID, EventFXSnapshotSet, actor, fmt.Sprintf("fx snapshot from %s, %d quotes", snapshot.Provider, len(snapshot.Quotes)), requestID)
	return nil
}

func (s *Service) MarkPayee(ctx context.Context, batchID, payeeID, status, actor, requestID string) error {
	if !validPayeeStatus(status) {
		return ErrUnknownPayeeStatus
	}
	if err := s.store.UpdatePayeeStatus(ctx, batchID, payeeID, status); err != nil {
		return err
	}
	s.recordEvent(ctx, batchID, EventPayeeUpdated, actor, fmt.Sprintf("payee %s -> %s", payeeID, status), requestID)
	return nil
}

// Execute runs an approved batch to completion: every active payee moves
// EXECUTING then PAID with a PDF receipt; any transfer failure marks the
// batch Failed. Intended to be run from the background job worker.
func (s *Service) Execute(ctx context.Context, batchID, actor string) error {
	current, err := s.store.BatchStatus(ctx, batchID)
	if err != nil {
		return err
	}
	if current != StatusApproved {
		return ErrExecuteNotApproved
	}
	if err := s.UpdateStatus(ctx, batchID, StatusExecuting, actor, ""); err != nil {
		return err
	}

	payees, err := s.store.ListPayees(ctx, batchID)
	if err != nil {
		return s.fail(ctx, batchID, actor, err)
	}

	b, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return s.fail(ctx, batchID, actor, err)
	}

	for _, payee := range payees {
		if payee.Status == PayeeOnHold || payee.Status == PayeePaid {
			continue
		}
		if err := s.store.UpdatePayeeStatus(ctx, batchID, payee.ID, PayeeExecuting); err != nil {
			return s.fail(ctx, batchID, actor, err)
		}
		receipt, err := s.payOut(ctx, b, payee)
		if err != nil {
			return s.fail(ctx, batchID, actor, err)
		}
		if err := s.store.UpdatePayeeStatus(ctx, batchID, payee.ID, PayeePaid); err != nil {
			return s.fail(ctx, batchID, actor, err)
		}
		s.recordEvent(ctx, batchID, EventReceiptAttached, actor, fmt.Sprintf("receipt %s for payee %s", receipt.ID, payee.ID), "")
	}

	return s.UpdateStatus(ctx, batchID, StatusCompleted, actor, "")
}

func (s *Service) payOut(ctx context.Context, b Batch, payee Payee) (Receipt, error) {
	gross := payee.Gross
	for _, adj := range payee.Adjustments {
		gross += adj.Amount
	}
	receipt := Receipt{
		ID:       uuid.NewString(),
		BatchID:  b.ID,
		PayeeID:  payee.ID,
		Amount:   gross,
		Currency: payee.Currency,
	}
	filePath, err := GenerateReceiptPDF(s.ReceiptDir, b, payee, receipt)
	if err != nil {
		return Receipt{}, err
	}
	receipt.FileURL = filePath
	if err := s.store.AddReceipt(ctx, receipt); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

func (s *Service) fail(ctx context.Context, batchID, actor string, cause error) error {
	if err := s.UpdateStatus(ctx, batchID, StatusFailed, actor, ""); err != nil {
		return fmt.Errorf("mark batch failed: %w (execution error: %v)", err, cause)
	}
	return cause
}

func (s *Service) addApproval(ctx context.Context, batchID, actor, decision, note string) error {
	return s.store.AddApproval(ctx, ApprovalEvent{
		ID:       uuid.NewString(),
		BatchID:  batchID,
		Actor:    actor,
		Decision: decision,
		Note:     note,
	})
}

func (s *Service) recordEvent(ctx context.Context, batchID, eventType, actor, note, requestID string) {
	if err := s.store.AddEvent(ctx, Event{
		ID:        uuid.NewString(),
		BatchID:   batchID,
		Type:      eventType,
		Actor:     actor,
		Note:      note,
		RequestID: requestID,
	}); err != nil {
		// The mutation the event describes has already committed.
		slog.Warn("batch event record failed", "batchId", batchID, "eventType", eventType, "err", err)
	}
}

func validPayeeStatus(status string) bool {
	for _, candidate := range PayeeStatuses {
		if status == candidate {
			return true
		}
	}
	return false
}
