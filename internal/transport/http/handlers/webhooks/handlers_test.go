package webhookhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"geniehr/internal/platform/config"
	"geniehr/internal/platform/metrics"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestHandler(t *testing.T, cfg config.Config, rt roundTripFunc) *Handler {
	t.Helper()
	client := &http.Client{Transport: rt}
	return NewHandler(cfg, client, metrics.New())
}

func TestFeedbackRelayForwards(t *testing.T) {
	var forwarded string
	h := newTestHandler(t, config.Config{
		FeedbackWebhookURL: "https://hooks.example.com/feedback",
		RelayPerMinute:     30,
	}, func(r *http.Request) (*http.Response, error) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode relayed payload: %v", err)
		}
		forwarded = payload["text"]
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/feedback",
		strings.NewReader(`{"feedback":"the batch page is slow","pageContext":"payroll/batches","email":"ana@example.com"}`))
	rec := httptest.NewRecorder()
	h.HandleFeedback(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(forwarded, "the batch page is slow") {
		t.Fatalf("relayed text missing message: %q", forwarded)
	}
	if !strings.Contains(forwarded, "ana@example.com") {
		t.Fatalf("relayed text missing sender: %q", forwarded)
	}
	if !strings.Contains(forwarded, "payroll/batches") {
		t.Fatalf("relayed text missing page context: %q", forwarded)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS header on feedback response")
	}
}

func TestFeedbackRelayAcceptsLegacyFieldNames(t *testing.T) {
	var forwarded string
	h := newTestHandler(t, config.Config{
		FeedbackWebhookURL: "https://hooks.example.com/feedback",
		RelayPerMinute:     30,
	}, func(r *http.Request) (*http.Response, error) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode relayed payload: %v", err)
		}
		forwarded = payload["text"]
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/feedback",
		strings.NewReader(`{"message":"old widget build","page":"settings"}`))
	rec := httptest.NewRecorder()
	h.HandleFeedback(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(forwarded, "old widget build") || !strings.Contains(forwarded, "settings") {
		t.Fatalf("relayed text missing legacy fields: %q", forwarded)
	}
}

func TestFeedbackRelayRejectsEmptyMessage(t *testing.T) {
	h := newTestHandler(t, config.Config{RelayPerMinute: 30}, func(r *http.Request) (*http.Response, error) {
		t.Fatal("relay should not be called")
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/feedback", strings.NewReader(`{"feedback":"  "}`))
	rec := httptest.NewRecorder()
	h.HandleFeedback(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInteractionsRejectsStaleTimestamp(t *testing.T) {
	secret := "signing-secret"
	h := newTestHandler(t, config.Config{SlackSigningSecret: secret}, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no outbound call expected for rejected request")
		return nil, nil
	})

	body := `payload={"type":"block_actions"}`
	ts := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	sig := Sign(secret, ts, []byte(body))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/interactions", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", sig)
	rec := httptest.NewRecorder()
	h.HandleInteractions(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale timestamp, got %d", rec.Code)
	}
	snapshot := h.Metrics.Snapshot()
	if snapshot["webhooksRejectedTotal"].(uint64) != 1 {
		t.Fatalf("expected one rejected webhook in metrics, got %v", snapshot["webhooksRejectedTotal"])
	}
}

func TestInteractionsRejectsBadSignature(t *testing.T) {
	h := newTestHandler(t, config.Config{SlackSigningSecret: "signing-secret"}, func(r *http.Request) (*http.Response, error) {
		return nil, nil
	})

	body := `payload={"type":"block_actions"}`
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/interactions", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0=deadbeef")
	rec := httptest.NewRecorder()
	h.HandleInteractions(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", rec.Code)
	}
}

func TestInteractionsDeleteMessageAction(t *testing.T) {
	secret := "signing-secret"
	deleted := false
	h := newTestHandler(t, config.Config{SlackSigningSecret: secret}, func(r *http.Request) (*http.Response, error) {
		var payload map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode delete payload: %v", err)
		}
		if payload["delete_original"] {
			deleted = true
		}
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	inner := `{"type":"block_actions","response_url":"https://hooks.example.com/respond","actions":[{"action_id":"delete_message"}]}`
	body := "payload=" + inner
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := Sign(secret, ts, []byte(body))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/interactions", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", sig)
	rec := httptest.NewRecorder()
	h.HandleInteractions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !deleted {
		t.Fatal("expected delete_original callback to fire")
	}
}
