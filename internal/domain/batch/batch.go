package batch

import "time"

// New builds a Draft batch over the given payees. The FX snapshot starts
// zero; totals are derived from the payee lines.
func New(id, period, createdBy string, payees []Payee, now time.Time) Batch {
	for i := range payees {
		payees[i].BatchID = id
		if payees[i].Status == "" {
			payees[i].Status = PayeePayrollPending
		}
	}
	return Batch{
		ID:        id,
		Period:    period,
		Status:    StatusDraft,
		CreatedBy: createdBy,
		Payees:    payees,
		Totals:    ResolveTotals(payees),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendApproval adds to the approval history. Entries are append-only;
// existing ones are never touched.
func (b *Batch) AppendApproval(ev ApprovalEvent) {
	ev.BatchID = b.ID
	b.Approvals = append(b.Approvals, ev)
}

// AppendEvent adds to the batch event log, append-only like the approvals.
func (b *Batch) AppendEvent(ev Event) {
	ev.BatchID = b.ID
	b.Events = append(b.Events, ev)
}

// SetStatus applies a guarded transition and stamps UpdatedAt.
func (b *Batch) SetStatus(to string, now time.Time) error {
	if err := Transition(b.Status, to); err != nil {
		return err
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}
