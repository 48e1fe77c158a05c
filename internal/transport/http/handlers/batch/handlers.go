package batchhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"geniehr/internal/domain/audit"
	"geniehr/internal/domain/auth"
	"geniehr/internal/domain/batch"
	"geniehr/internal/domain/costs"
	"geniehr/internal/domain/notify"
	"geniehr/internal/platform/jobs"
	"geniehr/internal/platform/metrics"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
	"geniehr/internal/transport/http/shared"
)

// RateLocker produces a locked FX snapshot covering the given currencies.
type RateLocker interface {
	LockQuote(ctx context.Context, baseCurrency string, currencies []string) (batch.FXSnapshot, error)
}

type Handler struct {
	Batches      *batch.Service
	Rates        RateLocker
	Jobs         *jobs.Service
	Audit        *audit.Service
	Notify       *notify.Service
	Metrics      *metrics.Collector
	EmployerRate float64
	FeeRate      float64
}

func NewHandler(batches *batch.Service, rates RateLocker, runner *jobs.Service, auditSvc *audit.Service, notifier *notify.Service, collector *metrics.Collector, employerRate, feeRate float64) *Handler {
	return &Handler{
		Batches:      batches,
		Rates:        rates,
		Jobs:         runner,
		Audit:        auditSvc,
		Notify:       notifier,
		Metrics:      collector,
		EmployerRate: employerRate,
		FeeRate:      feeRate,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		manage := middleware.RequireRole(auth.CanManagePayroll)
		approve := middleware.RequireRole(auth.CanApproveBatch)

		r.With(manage).Get("/batches", h.handleList)
		r.With(manage).Post("/batches", h.handleCreate)
		r.With(manage).Get("/batches/{batchID}", h.handleGet)
		r.With(manage).Post("/batches/{batchID}/submit", h.handleSubmit)
		r.With(approve).Post("/batches/{batchID}/approve", h.handleApprove)
		r.With(approve).Post("/batches/{batchID}/request-changes", h.handleRequestChanges)
		r.With(manage).Post("/batches/{batchID}/execute", h.handleExecute)
		r.With(manage).Post("/batches/{batchID}/fx-lock", h.handleFXLock)
		r.With(manage).Patch("/batches/{batchID}/payees/{payeeID}", h.handleMarkPayee)
		r.With(manage).Get("/batches/{batchID}/receipts", h.handleReceipts)
		r.With(manage).Get("/batches/{batchID}/receipts/{receiptID}/download", h.handleDownloadReceipt)
		r.With(middleware.RequireAuth).Post("/costs/preview", h.handleCostPreview)
	})
}

type payeePayload struct {
	WorkerID    string             `json:"workerId"`
	WorkerName  string             `json:"workerName"`
	WorkerType  string             `json:"workerType"`
	Country     string             `json:"country"`
	Currency    string             `json:"currency"`
	Gross       float64            `json:"gross"`
	ETA         string             `json:"eta"`
	Adjustments []batch.Adjustment `json:"adjustments"`
}

type createBatchPayload struct {
	Period string         `json:"period"`
	Payees []payeePayload `json:"payees"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createBatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("period", payload.Period, "period is required")
	if payload.Period != "" {
		v.Period("period", payload.Period)
	}
	if len(payload.Payees) == 0 {
		v.Add("payees", "at least one payee is required")
	}
	for _, p := range payload.Payees {
		if strings.TrimSpace(p.WorkerID) == "" {
			v.Add("payees", "workerId is required for every payee")
			break
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	payees := make([]batch.Payee, 0, len(payload.Payees))
	for _, p := range payload.Payees {
		payees = append(payees, batch.Payee{
			WorkerID:    p.WorkerID,
			WorkerName:  p.WorkerName,
			WorkerType:  p.WorkerType,
			Country:     p.Country,
			Currency:    p.Currency,
			Gross:       p.Gross,
			ETA:         p.ETA,
			Adjustments: p.Adjustments,
		})
	}

	batchID, err := h.Batches.Create(r.Context(), payload.Period, user.UserID, payees)
	if err != nil {
		if errors.Is(err, batch.ErrNoPayees) {
			api.Fail(w, http.StatusBadRequest, "no_payees", "a batch needs at least one payee", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "batch_create_error", "failed to create batch", reqID)
		return
	}

	h.recordAudit(r, user.UserID, "payroll.batch.create", batchID, nil, map[string]string{"period": payload.Period})
	api.Created(w, map[string]string{"id": batchID, "status": batch.StatusDraft}, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	items, total, err := h.Batches.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "batch_list_error", "failed to list batches", reqID)
		return
	}
	api.Success(w, map[string]any{
		"items":  items,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	b, err := h.Batches.Get(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		h.failBatch(w, err, reqID)
		return
	}
	api.Success(w, b, reqID)
}

type decisionPayload struct {
	Note string `json:"note"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id, actor, note, reqID string) error {
		return h.Batches.SubmitForApproval(ctx, id, actor, note, reqID)
	}, "payroll.batch.submit", batch.StatusAwaitingApproval)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id, actor, note, reqID string) error {
		return h.Batches.Approve(ctx, id, actor, note, reqID)
	}, "payroll.batch.approve", batch.StatusApproved)
}

func (h *Handler) handleRequestChanges(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id, actor, note, reqID string) error {
		return h.Batches.RequestChanges(ctx, id, actor, note, reqID)
	}, "payroll.batch.request_changes", batch.StatusDraft)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id, actor, note, reqID string) error, auditAction, resulting string) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	batchID := chi.URLParam(r, "batchID")

	var payload decisionPayload
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	if err := apply(r.Context(), batchID, user.UserID, payload.Note, reqID); err != nil {
		h.failBatch(w, err, reqID)
		return
	}

	h.recordAudit(r, user.UserID, auditAction, batchID, nil, map[string]string{"status": resulting})
	h.notifyTransition(r, batchID, resulting)
	api.Success(w, map[string]string{"id": batchID, "status": resulting}, reqID)
}

func (h *Handler) notifyTransition(r *http.Request, batchID, resulting string) {
	if h.Notify == nil {
		return
	}
	ctx := r.Context()
	b, err := h.Batches.Get(ctx, batchID)
	if err != nil {
		slog.Warn("notify lookup failed", "batchId", batchID, "err", err)
		return
	}
	switch resulting {
	case batch.StatusAwaitingApproval:
		if err := h.Notify.NotifyAdmins(ctx, notify.TypeBatchSubmitted,
			"Payroll batch awaiting approval",
			"Batch "+batchID+" for "+b.Period+" was submitted for approval."); err != nil {
			slog.Warn("notify admins failed", "batchId", batchID, "err", err)
		}
	case batch.StatusApproved:
		if err := h.Notify.Notify(ctx, b.CreatedBy, notify.TypeBatchApproved,
			"Payroll batch approved",
			"Batch "+batchID+" for "+b.Period+" was approved."); err != nil {
			slog.Warn("notify creator failed", "batchId", batchID, "err", err)
		}
	case batch.StatusDraft:
		if err := h.Notify.Notify(ctx, b.CreatedBy, notify.TypeBatchChangesRequested,
			"Changes requested on payroll batch",
			"Batch "+batchID+" for "+b.Period+" was sent back for changes."); err != nil {
			slog.Warn("notify creator failed", "batchId", batchID, "err", err)
		}
	}
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	batchID := chi.URLParam(r, "batchID")

	b, err := h.Batches.Get(r.Context(), batchID)
	if err != nil {
		h.failBatch(w, err, reqID)
		return
	}
	if b.Status != batch.StatusApproved {
		api.Fail(w, http.StatusConflict, "invalid_transition", "only an approved batch can be executed", reqID)
		return
	}

	actor := user.UserID
	createdBy := b.CreatedBy
	period := b.Period
	h.Jobs.Enqueue(jobs.JobBatchExecute, batchID, func(ctx context.Context) (any, error) {
		if err := h.Batches.Execute(ctx, batchID, actor); err != nil {
			if h.Notify != nil {
				if nerr := h.Notify.Notify(ctx, createdBy, notify.TypeBatchFailed,
					"Payroll batch failed",
					"Batch "+batchID+" for "+period+" failed during execution."); nerr != nil {
					slog.Warn("notify creator failed", "batchId", batchID, "err", nerr)
				}
			}
			return nil, err
		}
		if h.Metrics != nil {
			h.Metrics.RecordBatchExecuted()
		}
		if h.Notify != nil {
			if nerr := h.Notify.Notify(ctx, createdBy, notify.TypeBatchCompleted,
				"Payroll batch completed",
				"Batch "+batchID+" for "+period+" completed."); nerr != nil {
				slog.Warn("notify creator failed", "batchId", batchID, "err", nerr)
			}
		}
		return map[string]string{"batchId": batchID}, nil
	})

	h.recordAudit(r, user.UserID, "payroll.batch.execute", batchID, nil, map[string]string{"status": batch.StatusExecuting})
	api.WriteJSON(w, http.StatusAccepted, api.Envelope{
		Success:   true,
		Data:      map[string]string{"id": batchID, "status": batch.StatusExecuting},
		RequestID: reqID,
	})
}

func (h *Handler) handleFXLock(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	batchID := chi.URLParam(r, "batchID")

	b, err := h.Batches.Get(r.Context(), batchID)
	if err != nil {
		h.failBatch(w, err, reqID)
		return
	}

	currencies := make([]string, 0, len(b.Payees))
	seen := map[string]bool{}
	for _, p := range b.Payees {
		if p.Currency == "" || seen[p.Currency] {
			continue
		}
		seen[p.Currency] = true
		currencies = append(currencies, p.Currency)
	}

	snapshot, err := h.Rates.LockQuote(r.Context(), "USD", currencies)
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "fx_error", "failed to lock fx rates", reqID)
		return
	}

	if err := h.Batches.SetSnapshot(r.Context(), batchID, snapshot, user.UserID, reqID); err != nil {
		h.failBatch(w, err, reqID)
		return
	}

	h.recordAudit(r, user.UserID, "payroll.batch.fx_lock", batchID, nil, snapshot)
	api.Success(w, snapshot, reqID)
}

type markPayeePayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleMarkPayee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	batchID := chi.URLParam(r, "batchID")
	payeeID := chi.URLParam(r, "payeeID")

	var payload markPayeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Batches.MarkPayee(r.Context(), batchID, payeeID, payload.Status, user.UserID, reqID); err != nil {
		h.failBatch(w, err, reqID)
		return
	}

	h.recordAudit(r, user.UserID, "payroll.payee.status", payeeID, nil, map[string]string{"status": payload.Status})
	api.Success(w, map[string]string{"id": payeeID, "status": payload.Status}, reqID)
}

func (h *Handler) handleReceipts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	store := h.Batches.Store()
	receipts, err := store.ListReceipts(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "receipts_error", "failed to list receipts", reqID)
		return
	}
	api.Success(w, receipts, reqID)
}

func (h *Handler) handleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	batchID := chi.URLParam(r, "batchID")
	receiptID := chi.URLParam(r, "receiptID")

	receipts, err := h.Batches.Store().ListReceipts(r.Context(), batchID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "receipts_error", "failed to list receipts", reqID)
		return
	}
	for _, receipt := range receipts {
		if receipt.ID != receiptID {
			continue
		}
		data, err := os.ReadFile(receipt.FileURL)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "receipt_missing", "receipt file not found", reqID)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="receipt-`+receiptID+`.pdf"`)
		_, _ = w.Write(data)
		return
	}
	api.Fail(w, http.StatusNotFound, "receipt_missing", "receipt not found", reqID)
}

type costPreviewPayload struct {
	Country    string  `json:"country"`
	WorkerType string  `json:"workerType"`
	Salary     string  `json:"salary"`
	Gross      float64 `json:"gross"`
	FeeBasis   string  `json:"feeBasis"`
	FXSpot     float64 `json:"fxSpot"`
	FXSpread   float64 `json:"fxSpread"`
}

func (h *Handler) handleCostPreview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload costPreviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	gross := payload.Gross
	if gross == 0 && payload.Salary != "" {
		gross = parseAmount(costs.ParseSalaryValue(payload.Salary))
	}

	v := shared.NewValidator()
	v.Positive("gross", gross, "gross must be a positive amount")
	v.Enum("feeBasis", payload.FeeBasis, []string{string(costs.FeeModelGross), string(costs.FeeModelTotalCost)}, "feeBasis must be GROSS or TOTAL_COST")
	if v.Reject(w, reqID) {
		return
	}

	model := costs.FeeModelGross
	if strings.EqualFold(payload.FeeBasis, string(costs.FeeModelTotalCost)) {
		model = costs.FeeModelTotalCost
	}

	in := costs.Input{
		Gross:        gross,
		EmployerRate: h.EmployerRate,
		FeeRate:      h.FeeRate,
		FeeModel:     model,
	}
	if strings.EqualFold(payload.WorkerType, "contractor") {
		in.EmployerRate = 0
	}
	if payload.FXSpot > 0 {
		in.FX = &costs.FXTerms{Spot: payload.FXSpot, Spread: payload.FXSpread}
	}

	breakdown := costs.Compute(in)
	currency := costs.CurrencyCode(payload.Country, payload.WorkerType)
	api.Success(w, map[string]any{
		"currency":  currency,
		"breakdown": breakdown,
		"formatted": costs.FormatAmount(breakdown.FinalTotal, currency),
	}, reqID)
}

func (h *Handler) failBatch(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, batch.ErrBatchNotFound):
		api.Fail(w, http.StatusNotFound, "batch_not_found", "batch not found", reqID)
	case errors.Is(err, batch.ErrPayeeNotFound):
		api.Fail(w, http.StatusNotFound, "payee_not_found", "payee not found", reqID)
	case errors.Is(err, batch.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "transition not allowed from current status", reqID)
	case errors.Is(err, batch.ErrSnapshotTerminal):
		api.Fail(w, http.StatusConflict, "batch_terminal", "batch is in a terminal status", reqID)
	case errors.Is(err, batch.ErrUnknownStatus), errors.Is(err, batch.ErrUnknownPayeeStatus):
		api.Fail(w, http.StatusBadRequest, "unknown_status", "unknown status value", reqID)
	case errors.Is(err, batch.ErrExecuteNotApproved):
		api.Fail(w, http.StatusConflict, "invalid_transition", "only an approved batch can be executed", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "batch_error", "batch operation failed", reqID)
	}
}

func (h *Handler) recordAudit(r *http.Request, actor, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actor, action, "payroll_batch", entityID, reqID, middleware.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}

func parseAmount(digits string) float64 {
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return value
}
