package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/bankist/internal/middleware"
	"github.com/simonkvalheim/bankist/internal/model"
)

// TransferHandler handles the money-moving actions: transfers and loans
type TransferHandler struct {
	sessions Sessions
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(sessions Sessions) *TransferHandler {
	return &TransferHandler{sessions: sessions}
}

// RegisterRoutes sets up the transfer and loan routes
func (h *TransferHandler) RegisterRoutes(r chi.Router) {
	r.Post("/transfers", h.CreateTransfer)
	r.Post("/loans", h.RequestLoan)
}

type transferBody struct {
	To     string      `json:"to"`
	Amount json.Number `json:"amount"`
}

type loanBody struct {
	Amount json.Number `json:"amount"`
}

// CreateTransfer handles POST /v1/transfers
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var body transferBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := parseAmount(body.Amount.String())
	if err != nil {
		writeTransitionError(w, r, err)
		return
	}

	req := model.TransferRequest{To: body.To, Amount: amount}
	view, err := h.sessions.Transfer(r.Context(), middleware.GetSessionID(r.Context()), req)
	if err != nil {
		writeTransitionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RequestLoan handles POST /v1/loans
func (h *TransferHandler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var body loanBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := parseAmount(body.Amount.String())
	if err != nil {
		writeTransitionError(w, r, err)
		return
	}

	view, err := h.sessions.RequestLoan(r.Context(), middleware.GetSessionID(r.Context()), model.LoanRequest{Amount: amount})
	if err != nil {
		writeTransitionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// parseAmount reads a form amount. Anything that is not a number is an
// invalid amount; the sign is checked by the transition itself.
func parseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, model.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, model.ErrInvalidAmount
	}
	return d, nil
}
