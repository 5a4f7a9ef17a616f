package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType labels a movement by its sign
type MovementType string

const (
	MovementTypeDeposit    MovementType = "deposit"
	MovementTypeWithdrawal MovementType = "withdrawal"
)

// Movement is a single signed amount on an account together with the time it
// was recorded. A zero Date means the movement has no date.
type Movement struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"` // Positive = deposit, negative = withdrawal
	Date   time.Time       `json:"date"`
}

// NewMovement creates a movement with a fresh ID
func NewMovement(amount decimal.Decimal, at time.Time) Movement {
	return Movement{
		ID:     uuid.New(),
		Amount: amount,
		Date:   at,
	}
}

// Type returns deposit for amounts >= 0 and withdrawal otherwise
func (m Movement) Type() MovementType {
	if m.Amount.IsNegative() {
		return MovementTypeWithdrawal
	}
	return MovementTypeDeposit
}

// PairMovements zips parallel amount and date sequences into movement records.
// Amount i takes date i; surplus dates are dropped and missing dates stay zero.
func PairMovements(amounts []decimal.Decimal, dates []time.Time) []Movement {
	out := make([]Movement, len(amounts))
	for i, amount := range amounts {
		var at time.Time
		if i < len(dates) {
			at = dates[i]
		}
		out[i] = NewMovement(amount, at)
	}
	return out
}

// MovementKind describes why a movement was appended
type MovementKind string

const (
	MovementKindTransferOut MovementKind = "transfer_out"
	MovementKindTransferIn  MovementKind = "transfer_in"
	MovementKindLoan        MovementKind = "loan"
)

// MovementEvent is published whenever a transition appends a movement
type MovementEvent struct {
	MovementID   uuid.UUID       `json:"movement_id"`
	Username     string          `json:"username"`
	Kind         MovementKind    `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty,omitempty"`
	Date         time.Time       `json:"date"`
}
