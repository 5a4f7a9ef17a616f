package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/middleware"
	"github.com/simonkvalheim/bankist/internal/model"
)

const timeLayout = time.RFC3339

// AccountHandler handles the logged-in account: its view, sorting and closing
type AccountHandler struct {
	sessions Sessions
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(sessions Sessions) *AccountHandler {
	return &AccountHandler{sessions: sessions}
}

// RegisterRoutes sets up the account routes
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.GetView)
	r.Post("/sort", h.ToggleSort)
	r.Post("/close", h.Close)
}

// GetView handles GET /v1/session
func (h *AccountHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.View(middleware.GetSessionID(r.Context()))
	if err != nil {
		writeTransitionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ToggleSort handles POST /v1/sort
func (h *AccountHandler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.ToggleSort(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeTransitionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Close handles POST /v1/close
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req model.CloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sessions.Close(r.Context(), middleware.GetSessionID(r.Context()), req); err != nil {
		writeTransitionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "account closed",
	})
}

// statusFor maps a rejected transition to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrNotLoggedIn),
		errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrSameAccount),
		errors.Is(err, model.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, model.ErrLoanDeclined):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrCloseMismatch):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeTransitionError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("username", middleware.GetUsername(r.Context())).
			Str("path", r.URL.Path).
			Msg("Transition failed")
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
