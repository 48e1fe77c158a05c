package audithandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"geniehr/internal/domain/audit"
	"geniehr/internal/domain/auth"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
	"geniehr/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(svc *audit.Service) *Handler {
	return &Handler{Audit: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := middleware.RequireRole(func(role string) bool { return role == auth.RoleAdmin })
	r.With(admin).Get("/audit/events", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	filter := audit.Filter{
		Action:     strings.TrimSpace(r.URL.Query().Get("action")),
		EntityType: strings.TrimSpace(r.URL.Query().Get("entityType")),
		ActorUser:  strings.TrimSpace(r.URL.Query().Get("actor")),
	}
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be RFC3339 or YYYY-MM-DD", reqID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be RFC3339 or YYYY-MM-DD", reqID)
		return
	}
	filter.From, filter.To = from, to
	includeDetails := strings.EqualFold(r.URL.Query().Get("includeDetails"), "true")

	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_error", "failed to count audit events", reqID)
		return
	}
	events, err := h.Audit.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_error", "failed to list audit events", reqID)
		return
	}

	api.Success(w, map[string]any{
		"items":  events,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}, reqID)
}
