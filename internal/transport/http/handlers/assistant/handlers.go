package assistanthandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"geniehr/internal/domain/assistant"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
)

type Handler struct {
	Dispatcher *assistant.Dispatcher
}

func NewHandler(d *assistant.Dispatcher) *Handler {
	return &Handler{Dispatcher: d}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Post("/assistant/message", h.handleMessage)
}

type messagePayload struct {
	Text string `json:"text"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload messagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		api.Fail(w, http.StatusBadRequest, "empty_message", "message text is required", reqID)
		return
	}

	reply := h.Dispatcher.Handle(r.Context(), user.UserID, payload.Text)
	api.Success(w, reply, reqID)
}
