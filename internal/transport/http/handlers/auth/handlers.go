package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/transport/http/api"
)

type Handler struct {
	Store    *core.Store
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(store *core.Store, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Store: store, Secret: secret, TokenTTL: tokenTTL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a session token. Unknown
// email and wrong password are indistinguishable in the response.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	email := core.NormalizeEmail(payload.Email)
	if email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "Email and password required")
		return
	}
	if !core.ValidEmail(email) {
		api.Fail(w, http.StatusBadRequest, "Bad email format")
		return
	}

	id, hash, err := h.Store.Credentials(r.Context(), email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("credential lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.Secret, id, h.TokenTTL)
	if err != nil {
		slog.Error("token issue failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Login failed")
		return
	}

	view, err := h.Store.GetEmployeeView(r.Context(), id)
	if err != nil {
		slog.Error("login profile lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "Login failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"user":         view,
		"access_token": token,
	})
}
