package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"geniehr/internal/domain/audit"
	"geniehr/internal/domain/auth"
	"geniehr/internal/requestctx"
	"geniehr/internal/transport/http/api"
	"geniehr/internal/transport/http/middleware"
)

const tokenTTL = 8 * time.Hour

type Handler struct {
	Store  *auth.Store
	Secret string
	Audit  *audit.Service
}

func NewHandler(db *pgxpool.Pool, secret string, auditSvc *audit.Service) *Handler {
	return &Handler{Store: auth.NewStore(db), Secret: secret, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.With(middleware.RequireAuth).Post("/auth/update-password", h.HandleUpdatePassword)
	r.With(middleware.RequireAuth).Get("/auth/me", h.HandleMe)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	email := strings.TrimSpace(strings.ToLower(payload.Email))
	user, err := h.Store.FindActiveUserByEmail(r.Context(), email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.ID, "auth.login", "user", user.ID, reqID, middleware.ClientIP(r), nil, nil); err != nil {
			slog.Warn("audit record failed", "action", "auth.login", "err", err)
		}
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  map[string]string{"id": user.ID, "email": user.Email, "role": user.Role},
	}, reqID)
}

func (h *Handler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if len(payload.NewPassword) < 8 {
		api.Fail(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters", reqID)
		return
	}

	current, err := h.Store.FindActiveUserByEmail(r.Context(), user.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err := auth.CheckPassword(current.PasswordHash, payload.CurrentPassword); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "current password is incorrect", reqID)
		return
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "password_error", "failed to hash password", reqID)
		return
	}
	if err := h.Store.UpdateUserPassword(r.Context(), user.UserID, hash); err != nil {
		api.Fail(w, http.StatusInternalServerError, "password_error", "failed to update password", reqID)
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.UserID, "auth.update_password", "user", user.UserID, reqID, middleware.ClientIP(r), nil, nil); err != nil {
			slog.Warn("audit record failed", "action", "auth.update_password", "err", err)
		}
	}

	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	role, err := h.Store.UserRole(r.Context(), user.UserID)
	if err != nil {
		role = user.Role
	}
	api.Success(w, map[string]string{"id": user.UserID, "email": user.Email, "role": role}, reqID)
}
