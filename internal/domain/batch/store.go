package batch

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateBatch(ctx context.Context, b Batch) error {
	fxJSON, err := json.Marshal(b.FX)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO payroll_batches (id, period, status, created_by, fx_json)
    VALUES ($1,$2,$3,$4,$5)
  `, b.ID, b.Period, b.Status, b.CreatedBy, fxJSON); err != nil {
		return err
	}

	for _, payee := range b.Payees {
		adjJSON, err := json.Marshal(payee.Adjustments)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO batch_payees (id, batch_id, worker_id, worker_name, worker_type, country, currency,
                                gross, employer_costs, fx_fee, proposed_rate, eta, status, adjustments_json)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    `, payee.ID, b.ID, payee.WorkerID, payee.WorkerName, payee.WorkerType, payee.Country, payee.Currency,
			payee.Gross, payee.EmployerCosts, payee.FXFee, payee.ProposedRate, payee.ETA, payee.Status, adjJSON); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	var b Batch
	var fxJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, period, status, created_by, fx_json, created_at, updated_at
    FROM payroll_batches
    WHERE id = $1
  `, batchID).Scan(&b.ID, &b.Period, &b.Status, &b.CreatedBy, &fxJSON, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, ErrBatchNotFound
	}
	if err != nil {
		return Batch{}, err
	}
	if len(fxJSON) > 0 {
		if err := json.Unmarshal(fxJSON, &b.FX); err != nil {
			return Batch{}, err
		}
	}

	if b.Payees, err = s.ListPayees(ctx, batchID); err != nil {
		return Batch{}, err
	}
	b.Totals = ResolveTotals(b.Payees)

	if b.Approvals, err = s.listApprovals(ctx, batchID); err != nil {
		return Batch{}, err
	}
	if b.Events, err = s.listEvents(ctx, batchID); err != nil {
		return Batch{}, err
	}
	if b.Receipts, err = s.ListReceipts(ctx, batchID); err != nil {
		return Batch{}, err
	}
	return b, nil
}

func (s *Store) CountBatches(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_batches").Scan(&total)
	return total, err
}

// ListBatches returns batch headers with totals aggregated from payee rows.
func (s *Store) ListBatches(ctx context.Context, limit, offset int) ([]Batch, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.id, b.period, b.status, b.created_by, b.created_at, b.updated_at,
           COALESCE(SUM(p.gross), 0), COALESCE(SUM(p.employer_costs), 0), COALESCE(SUM(p.fx_fee), 0)
    FROM payroll_batches b
    LEFT JOIN batch_payees p ON p.batch_id = b.id
    GROUP BY b.id
    ORDER BY b.created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Period, &b.Status, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
			&b.Totals.Gross, &b.Totals.EmployerCosts, &b.Totals.FXFees); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) BatchStatus(ctx context.Context, batchID string) (string, error) {
	var status string
	err := s.DB.QueryRow(ctx, "SELECT status FROM payroll_batches WHERE id = $1", batchID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrBatchNotFound
	}
	return status, err
}

func (s *Store) UpdateBatchStatus(ctx context.Context, batchID, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE payroll_batches SET status = $1, updated_at = now() WHERE id = $2", status, batchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (s *Store) SetFXSnapshot(ctx context.Context, batchID string, snapshot FXSnapshot) error {
	fxJSON, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, "UPDATE payroll_batches SET fx_json = $1, updated_at = now() WHERE id = $2", fxJSON, batchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (s *Store) AddApproval(ctx context.Context, ev ApprovalEvent) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO batch_approvals (id, batch_id, actor, decision, note)
    VALUES ($1,$2,$3,$4,$5)
  `, ev.ID, ev.BatchID, ev.Actor, ev.Decision, ev.Note)
	return err
}

func (s *Store) AddEvent(ctx context.Context, ev Event) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO batch_events (id, batch_id, event_type, actor, note, request_id)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, ev.ID, ev.BatchID, ev.Type, ev.Actor, ev.Note, ev.RequestID)
	return err
}

func (s *Store) ListPayees(ctx context.Context, batchID string) ([]Payee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, batch_id, worker_id, worker_name, worker_type, country, currency,
           gross, employer_costs, fx_fee, proposed_rate, COALESCE(eta, ''), status, adjustments_json
    FROM batch_payees
    WHERE batch_id = $1
    ORDER BY worker_name
  `, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payee
	for rows.Next() {
		var payee Payee
		var adjJSON []byte
		if err := rows.Scan(&payee.ID, &payee.BatchID, &payee.WorkerID, &payee.WorkerName, &payee.WorkerType,
			&payee.Country, &payee.Currency, &payee.Gross, &payee.EmployerCosts, &payee.FXFee,
			&payee.ProposedRate, &payee.ETA, &payee.Status, &adjJSON); err != nil {
			return nil, err
		}
		if len(adjJSON) > 0 {
			if err := json.Unmarshal(adjJSON, &payee.Adjustments); err != nil {
				return nil, err
			}
		}
		out = append(out, payee)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePayeeStatus(ctx context.Context, batchID, payeeID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE batch_payees SET status = $1 WHERE batch_id = $2 AND id = $3
  `, status, batchID, payeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPayeeNotFound
	}
	return nil
}

func (s *Store) AddReceipt(ctx context.Context, receipt Receipt) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payment_receipts (id, batch_id, payee_id, amount, currency, file_url)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, receipt.ID, receipt.BatchID, receipt.PayeeID, receipt.Amount, receipt.Currency, receipt.FileURL)
	return err
}

func (s *Store) ListReceipts(ctx context.Context, batchID string) ([]Receipt, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, batch_id, payee_id, amount, currency, file_url, created_at
    FROM payment_receipts
    WHERE batch_id = $1
    ORDER BY created_at
  `, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		var receipt Receipt
		if err := rows.Scan(&receipt.ID, &receipt.BatchID, &receipt.PayeeID, &receipt.Amount,
			&receipt.Currency, &receipt.FileURL, &receipt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, receipt)
	}
	return out, rows.Err()
}

// PendingPayees drafts payee lines for every active payroll-ready worker,
// for batch creation via the assistant or the batches endpoint.
func (s *Store) PendingPayees(ctx context.Context) ([]Payee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, full_name, worker_type, country, COALESCE(currency, ''), monthly_gross
    FROM workers
    WHERE status = 'active' AND payroll_ready = true
    ORDER BY full_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payee
	for rows.Next() {
		var payee Payee
		if err := rows.Scan(&payee.WorkerID, &payee.WorkerName, &payee.WorkerType,
			&payee.Country, &payee.Currency, &payee.Gross); err != nil {
			return nil, err
		}
		payee.Status = PayeePayrollPending
		out = append(out, payee)
	}
	return out, rows.Err()
}

func (s *Store) listApprovals(ctx context.Context, batchID string) ([]ApprovalEvent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, batch_id, actor, decision, COALESCE(note, ''), created_at
    FROM batch_approvals
    WHERE batch_id = $1
    ORDER BY created_at
  `, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ApprovalEvent
	for rows.Next() {
		var ev ApprovalEvent
		if err := rows.Scan(&ev.ID, &ev.BatchID, &ev.Actor, &ev.Decision, &ev.Note, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) listEvents(ctx context.Context, batchID string) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, batch_id, event_type, COALESCE(actor, ''), COALESCE(note, ''), COALESCE(request_id, ''), created_at
    FROM batch_events
    WHERE batch_id = $1
    ORDER BY created_at
  `, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.BatchID, &ev.Type, &ev.Actor, &ev.Note, &ev.RequestID, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
