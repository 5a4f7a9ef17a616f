package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/auth"
	"github.com/simonkvalheim/bankist/internal/middleware"
	"github.com/simonkvalheim/bankist/internal/model"
)

// TokenIssuer signs access tokens bound to a session
type TokenIssuer interface {
	IssueToken(sessionID uuid.UUID, username string) (*auth.Token, error)
}

// Sessions is the session registry the handlers drive
type Sessions interface {
	Login(ctx context.Context, username, pin string) (uuid.UUID, *model.View, error)
	Logout(ctx context.Context, id uuid.UUID) error
	View(id uuid.UUID) (*model.View, error)
	Transfer(ctx context.Context, id uuid.UUID, req model.TransferRequest) (*model.View, error)
	RequestLoan(ctx context.Context, id uuid.UUID, req model.LoanRequest) (*model.View, error)
	ToggleSort(ctx context.Context, id uuid.UUID) (*model.View, error)
	Close(ctx context.Context, id uuid.UUID, req model.CloseRequest) error
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   string      `json:"expires_at"`
	View        *model.View `json:"view"`
}

// AuthHandler handles login and logout
type AuthHandler struct {
	sessions Sessions
	tokens   TokenIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions Sessions, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens}
}

// RegisterRoutes sets up the auth routes. Logout needs a valid token.
func (h *AuthHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/auth/login", h.Login)
	r.With(requireAuth).Post("/auth/logout", h.Logout)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, view, err := h.sessions.Login(r.Context(), req.Username, req.PIN)
	if err != nil {
		writeTransitionError(w, r, err)
		return
	}

	token, err := h.tokens.IssueToken(id, view.Username)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		// Don't leave a session nobody can reach
		_ = h.sessions.Logout(r.Context(), id)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt.UTC().Format(timeLayout),
		View:        view,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		writeTransitionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
