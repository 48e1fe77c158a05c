package notifyhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"geniehr/internal/domain/notify"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
	"geniehr/internal/transport/http/shared"
)

type Handler struct {
	Notify *notify.Service
}

func NewHandler(svc *notify.Service) *Handler {
	return &Handler{Notify: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/notifications", h.handleList)
	r.With(middleware.RequireAuth).Post("/notifications/{notificationID}/read", h.handleMarkRead)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	items, total, err := h.Notify.List(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_error", "failed to list notifications", reqID)
		return
	}
	api.Success(w, map[string]any{
		"items":  items,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	notificationID := chi.URLParam(r, "notificationID")

	if err := h.Notify.MarkRead(r.Context(), user.UserID, notificationID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_error", "failed to mark notification read", reqID)
		return
	}
	api.Success(w, map[string]string{"id": notificationID, "status": "read"}, reqID)
}
