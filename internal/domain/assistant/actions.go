package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"geniehr/internal/domain/batch"
	"geniehr/internal/domain/costs"
	"geniehr/internal/domain/sync"
)

// PayeeSource supplies the payroll-ready workers a new batch should cover.
type PayeeSource interface {
	PendingPayees(ctx context.Context) ([]batch.Payee, error)
}

// RateLocker produces a locked FX snapshot for a batch.
type RateLocker interface {
	LockQuote(ctx context.Context, baseCurrency string, currencies []string) (batch.FXSnapshot, error)
}

type ActionDeps struct {
	Batches      *batch.Service
	Sync         *sync.Service
	Payees       PayeeSource
	Rates        RateLocker
	EmployerRate float64
	FeeRate      float64
}

// NewActions builds the full action table. It is wired once at startup and
// handed to the dispatcher; intents without an entry here fall back to the
// apology reply.
func NewActions(deps ActionDeps) map[string]ActionFunc {
	return map[string]ActionFunc{
		IntentCreatePayrollBatch: deps.createBatch,
		IntentSubmitBatch:        deps.submitBatch,
		IntentApproveBatch:       deps.approveBatch,
		IntentBatchStatus:        deps.batchStatus,
		IntentListIssues:         deps.listIssues,
		IntentResolveIssue:       deps.resolveIssue,
		IntentCostBreakdown:      deps.costBreakdown,
		IntentLockFXRate:         deps.lockRate,
		IntentHelp:               deps.help,
	}
}

func (d ActionDeps) createBatch(ctx context.Context, actor string, m Match) (string, error) {
	period := m.Entities["period"]
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	}
	payees, err := d.Payees.PendingPayees(ctx)
	if err != nil {
		return "", err
	}
	if len(payees) == 0 {
		return "", errors.New("no payroll-ready workers to include")
	}
	id, err := d.Batches.Create(ctx, period, actor, payees)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created payroll batch %s for %s covering %d payees.", id, period, len(payees)), nil
}

func (d ActionDeps) submitBatch(ctx context.Context, actor string, m Match) (string, error) {
	id, err := d.targetBatch(ctx, m, batch.StatusDraft)
	if err != nil {
		return "", err
	}
	if err := d.Batches.SubmitForApproval(ctx, id, actor, "submitted via assistant", ""); err != nil {
		return "", err
	}
	return fmt.Sprintf("Batch %s sent for approval.", id), nil
}

func (d ActionDeps) approveBatch(ctx context.Context, actor string, m Match) (string, error) {
	id, err := d.targetBatch(ctx, m, batch.StatusAwaitingApproval)
	if err != nil {
		return "", err
	}
	if err := d.Batches.Approve(ctx, id, actor, "approved via assistant", ""); err != nil {
		return "", err
	}
	return fmt.Sprintf("Batch %s approved.", id), nil
}

func (d ActionDeps) batchStatus(ctx context.Context, _ string, m Match) (string, error) {
	id, err := d.targetBatch(ctx, m, "")
	if err != nil {
		return "", err
	}
	b, err := d.Batches.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Batch %s for %s is %s: %d payees, gross %.2f, employer costs %.2f, fx fees %.2f.",
		b.ID, b.Period, b.Status, len(b.Payees), b.Totals.Gross, b.Totals.EmployerCosts, b.Totals.FXFees), nil
}

func (d ActionDeps) listIssues(ctx context.Context, _ string, _ Match) (string, error) {
	issues, err := d.Sync.Issues(ctx, "", false)
	if err != nil {
		return "", err
	}
	if len(issues) == 0 {
		return "No open payroll issues.", nil
	}
	top := issues[0]
	return fmt.Sprintf("%d open issues; most urgent is a %s %s on worker %s.",
		len(issues), top.Severity, top.Type, top.WorkerID), nil
}

func (d ActionDeps) resolveIssue(ctx context.Context, _ string, m Match) (string, error) {
	issueID := m.Entities["issueId"]
	if issueID == "" {
		return "", errors.New("tell me which issue, e.g. \"resolve issue <id>\"")
	}
	if err := d.Sync.Resolve(ctx, issueID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Issue %s resolved.", issueID), nil
}

func (d ActionDeps) costBreakdown(ctx context.Context, _ string, m Match) (string, error) {
	raw := m.Entities["amount"]
	if raw == "" {
		return "", errors.New("tell me the gross amount, e.g. \"cost breakdown for 5000\"")
	}
	gross, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", fmt.Errorf("could not read amount %q", raw)
	}
	out := costs.Compute(costs.Input{
		Gross:        gross,
		EmployerRate: d.EmployerRate,
		FeeRate:      d.FeeRate,
		FeeModel:     costs.FeeModelGross,
	})
	return fmt.Sprintf("Gross %.2f: employer tax %.2f, platform fee %.2f, total employer cost %.2f.",
		out.Gross, out.EmployerTax, out.Fee, out.FinalTotal), nil
}

func (d ActionDeps) lockRate(ctx context.Context, actor string, m Match) (string, error) {
	id, err := d.targetBatch(ctx, m, batch.StatusDraft)
	if err != nil {
		return "", err
	}
	b, err := d.Batches.Get(ctx, id)
	if err != nil {
		return "", err
	}
	currencies := map[string]bool{}
	for _, payee := range b.Payees {
		currencies[payee.Currency] = true
	}
	var list []string
	for currency := range currencies {
		list = append(list, currency)
	}
	snapshot, err := d.Rates.LockQuote(ctx, "USD", list)
	if err != nil {
		return "", err
	}
	if err := d.Batches.SetSnapshot(ctx, id, snapshot, actor, ""); err != nil {
		return "", err
	}
	return fmt.Sprintf("Locked %d FX quotes on batch %s until %s.",
		len(snapshot.Quotes), id, snapshot.LockedUntil.Format(time.RFC3339)), nil
}

func (d ActionDeps) help(_ context.Context, _ string, _ Match) (string, error) {
	return "I can create, submit and approve payroll batches, report batch status, list and resolve issues, lock FX rates, and break down employer costs.", nil
}

// targetBatch resolves which batch an utterance refers to: an explicit id
// entity wins, otherwise the most recent batch in wantStatus (or the most
// recent batch overall when wantStatus is empty).
func (d ActionDeps) targetBatch(ctx context.Context, m Match, wantStatus string) (string, error) {
	if id := m.Entities["batchId"]; id != "" {
		return id, nil
	}
	batches, _, err := d.Batches.List(ctx, 20, 0)
	if err != nil {
		return "", err
	}
	for _, b := range batches {
		if wantStatus == "" || b.Status == wantStatus {
			return b.ID, nil
		}
	}
	if wantStatus == "" {
		return "", errors.New("no payroll batches yet")
	}
	return "", fmt.Errorf("no batch in %s state", wantStatus)
}
