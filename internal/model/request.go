package model

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoginRequest is the payload for starting a session
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	PIN      string `json:"pin" validate:"required,max=16"`
}

// Validate checks the request has a username and a numeric pin
func (r LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ErrInvalidCredentials
	}
	if _, err := ParsePIN(r.PIN); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// TransferRequest is the payload for moving money to another account
type TransferRequest struct {
	To     string          `json:"to" validate:"max=64"`
	Amount decimal.Decimal `json:"amount"`
}

// Validate checks field sizes and that the amount is positive
func (r TransferRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ErrInvalidRequest
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// LoanRequest is the payload for requesting a loan
type LoanRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Validate only rejects non-positive amounts; flooring happens in the ledger
func (r LoanRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// CloseRequest is the payload for closing the current account
type CloseRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	PIN      string `json:"pin" validate:"required,max=16"`
}

// Validate checks the confirmation fields are present and the pin is numeric
func (r CloseRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ErrCloseMismatch
	}
	if _, err := ParsePIN(r.PIN); err != nil {
		return ErrCloseMismatch
	}
	return nil
}

// ParsePIN converts form input into the numeric pin, ignoring surrounding spaces
func ParsePIN(input string) (int, error) {
	pin, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || pin < 0 {
		return 0, ErrInvalidCredentials
	}
	return pin, nil
}
