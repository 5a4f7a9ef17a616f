package model

import "errors"

var (
	// Account store errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateUsername = errors.New("an account with this username already exists")

	// Session errors
	ErrInvalidCredentials = errors.New("invalid username or pin")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// Transition rejections
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidAmount     = errors.New("invalid amount: must be greater than zero")
	ErrRecipientNotFound = errors.New("recipient account not found")
	ErrSameAccount       = errors.New("cannot transfer to your own account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLoanDeclined      = errors.New("loan declined: no deposit of at least 10% of the requested amount")
	ErrCloseMismatch     = errors.New("username or pin does not match the current account")
)
