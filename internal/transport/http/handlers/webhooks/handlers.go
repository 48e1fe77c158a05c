package webhookhandler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"geniehr/internal/platform/config"
	"geniehr/internal/platform/metrics"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
)

const maxWebhookBody = 64 * 1024

type Handler struct {
	Cfg     config.Config
	Client  *http.Client
	Metrics *metrics.Collector
	relay   *rate.Limiter
	now     func() time.Time
}

func NewHandler(cfg config.Config, client *http.Client, collector *metrics.Collector) *Handler {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	perMinute := cfg.RelayPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &Handler{
		Cfg:     cfg,
		Client:  client,
		Metrics: collector,
		relay:   rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		now:     time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Options("/webhooks/feedback", h.handlePreflight)
	r.Post("/webhooks/feedback", h.HandleFeedback)
	r.Post("/webhooks/interactions", h.HandleInteractions)
}

func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

type feedbackPayload struct {
	Feedback    string `json:"feedback"`
	PageContext string `json:"pageContext"`
	Email       string `json:"email"`
	// Legacy field names used by the first widget build.
	Message string `json:"message"`
	Page    string `json:"page"`
}

func (p feedbackPayload) text() string {
	if p.Feedback != "" {
		return p.Feedback
	}
	return p.Message
}

func (p feedbackPayload) page() string {
	if p.PageContext != "" {
		return p.PageContext
	}
	return p.Page
}

// HandleFeedback relays in-app feedback to the configured chat webhook. The
// endpoint is unauthenticated so the widget can post before sign-in.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)
	reqID := middleware.GetRequestID(r.Context())

	if !h.relay.Allow() {
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", reqID)
		return
	}

	var payload feedbackPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookBody)).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if strings.TrimSpace(payload.text()) == "" {
		api.Fail(w, http.StatusBadRequest, "empty_message", "feedback is required", reqID)
		return
	}

	if h.Cfg.FeedbackWebhookURL == "" {
		slog.Warn("feedback webhook url not configured, dropping message")
		api.Success(w, map[string]bool{"ok": true}, reqID)
		return
	}

	lines := []string{"New feedback: " + payload.text()}
	if payload.Email != "" {
		lines = append(lines, "From: "+payload.Email)
	}
	if page := payload.page(); page != "" {
		lines = append(lines, "Page: "+page)
	}
	body, _ := json.Marshal(map[string]string{"text": strings.Join(lines, "\n")})

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.Cfg.FeedbackWebhookURL, bytes.NewReader(body))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "relay_error", "failed to relay feedback", reqID)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "relay_error", "failed to relay feedback", reqID)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		api.Fail(w, http.StatusBadGateway, "relay_error", "feedback relay rejected", reqID)
		return
	}

	api.Success(w, map[string]bool{"ok": true}, reqID)
}

type interactionAction struct {
	ActionID string `json:"action_id"`
	Value    string `json:"value"`
}

type interactionPayload struct {
	Type        string              `json:"type"`
	ResponseURL string              `json:"response_url"`
	Actions     []interactionAction `json:"actions"`
}

// HandleInteractions receives chat button callbacks. The signature and
// timestamp are verified before the payload is even parsed.
func (h *Handler) HandleInteractions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read request body", reqID)
		return
	}

	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")
	if err := VerifySignature(h.Cfg.SlackSigningSecret, timestamp, body, signature, h.now()); err != nil {
		if h.Metrics != nil {
			h.Metrics.RecordWebhookRejected()
		}
		slog.Warn("webhook rejected", "reason", err.Error(), "requestId", reqID)
		api.Fail(w, http.StatusUnauthorized, "invalid_signature", "signature verification failed", reqID)
		return
	}

	raw := string(body)
	if strings.HasPrefix(raw, "payload=") {
		decoded, err := url.QueryUnescape(strings.TrimPrefix(raw, "payload="))
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid interaction payload", reqID)
			return
		}
		raw = decoded
	}

	var payload interactionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid interaction payload", reqID)
		return
	}

	for _, action := range payload.Actions {
		if action.ActionID == "delete_message" && payload.ResponseURL != "" {
			h.deleteOriginal(r, payload.ResponseURL)
			break
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deleteOriginal(r *http.Request, responseURL string) {
	body, _ := json.Marshal(map[string]bool{"delete_original": true})
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, responseURL, bytes.NewReader(body))
	if err != nil {
		slog.Warn("delete original request build failed", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("delete original failed", "err", err)
		return
	}
	_ = resp.Body.Close()
}
