package systemhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"geniehr/internal/domain/auth"
	"geniehr/internal/platform/metrics"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
)

type Handler struct {
	Metrics *metrics.Collector
	Enabled bool
}

func NewHandler(collector *metrics.Collector, enabled bool) *Handler {
	return &Handler{Metrics: collector, Enabled: enabled}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := middleware.RequireRole(func(role string) bool { return role == auth.RoleAdmin })
	r.With(admin).Get("/system/metrics", h.handleMetrics)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.Enabled || h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics collection is disabled", reqID)
		return
	}
	api.Success(w, h.Metrics.Snapshot(), reqID)
}
