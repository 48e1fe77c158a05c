package synchandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"geniehr/internal/domain/auth"
	"geniehr/internal/domain/sync"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
)

type Handler struct {
	Sync *sync.Service
}

func NewHandler(svc *sync.Service) *Handler {
	return &Handler{Sync: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	manage := middleware.RequireRole(auth.CanManagePayroll)

	r.Route("/workers/{workerID}", func(r chi.Router) {
		r.With(manage).Get("/checklist", h.handleChecklist)
		r.With(manage).Put("/checklist/{key}", h.handleSetChecklistItem)
		r.With(manage).Get("/issues", h.handleIssues)
		r.With(manage).Post("/issues", h.handleFlagIssue)
		r.With(manage).Get("/payroll-ready", h.handleReady)
	})
	r.With(manage).Post("/issues/{issueID}/resolve", h.handleResolve)
}

func (h *Handler) handleChecklist(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	items, err := h.Sync.Checklist(r.Context(), chi.URLParam(r, "workerID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checklist_error", "failed to load checklist", reqID)
		return
	}
	api.Success(w, items, reqID)
}

type checklistItemPayload struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

func (h *Handler) handleSetChecklistItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	workerID := chi.URLParam(r, "workerID")
	key := chi.URLParam(r, "key")

	var payload checklistItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Sync.SetChecklistItem(r.Context(), workerID, key, payload.Label, payload.Done); err != nil {
		api.Fail(w, http.StatusInternalServerError, "checklist_error", "failed to update checklist item", reqID)
		return
	}
	api.Success(w, map[string]any{"workerId": workerID, "key": key, "done": payload.Done}, reqID)
}

func (h *Handler) handleIssues(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	includeResolved := strings.EqualFold(r.URL.Query().Get("includeResolved"), "true")

	issues, err := h.Sync.Issues(r.Context(), chi.URLParam(r, "workerID"), includeResolved)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "issues_error", "failed to list issues", reqID)
		return
	}
	api.Success(w, issues, reqID)
}

type flagIssuePayload struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func (h *Handler) handleFlagIssue(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	workerID := chi.URLParam(r, "workerID")

	var payload flagIssuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Sync.FlagIssue(r.Context(), workerID, payload.Type, payload.Severity, payload.Description)
	if err != nil {
		switch {
		case errors.Is(err, sync.ErrUnknownIssueType):
			api.Fail(w, http.StatusBadRequest, "unknown_issue_type", "unknown issue type", reqID)
		case errors.Is(err, sync.ErrUnknownSeverity):
			api.Fail(w, http.StatusBadRequest, "unknown_severity", "severity must be red, yellow, or blue", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "issues_error", "failed to flag issue", reqID)
		}
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	issueID := chi.URLParam(r, "issueID")

	if err := h.Sync.Resolve(r.Context(), issueID); err != nil {
		if errors.Is(err, sync.ErrIssueNotFound) {
			api.Fail(w, http.StatusNotFound, "issue_not_found", "issue not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "issues_error", "failed to resolve issue", reqID)
		return
	}
	api.Success(w, map[string]string{"id": issueID, "status": "resolved"}, reqID)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	workerID := chi.URLParam(r, "workerID")

	ready, err := h.Sync.Ready(r.Context(), workerID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "readiness_error", "failed to evaluate readiness", reqID)
		return
	}
	api.Success(w, map[string]any{"workerId": workerID, "ready": ready}, reqID)
}
