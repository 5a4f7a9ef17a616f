// Package ledger derives balances, totals and interest from an account's
// movements. Nothing here mutates an account; every value is recomputed from
// the movement list on demand.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simonkvalheim/bankist/internal/model"
)

var (
	hundred = decimal.NewFromInt(100)

	// MinInterestPayout is the smallest per-deposit interest amount that is paid
	MinInterestPayout = decimal.NewFromInt(1)

	// LoanCoverRatio is the share of a requested loan that a single deposit must cover
	LoanCoverRatio = decimal.RequireFromString("0.1")
)

// Balance returns the sum of all movements
func Balance(movs []model.Movement) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range movs {
		sum = sum.Add(m.Amount)
	}
	return sum
}

// Deposits returns the sum of all movements >= 0
func Deposits(movs []model.Movement) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range movs {
		if !m.Amount.IsNegative() {
			sum = sum.Add(m.Amount)
		}
	}
	return sum
}

// Withdrawals returns the absolute value of the sum of all movements < 0
func Withdrawals(movs []model.Movement) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range movs {
		if m.Amount.IsNegative() {
			sum = sum.Add(m.Amount)
		}
	}
	return sum.Abs()
}

// Interest pays rate percent on every deposit, but only counts payouts of at
// least MinInterestPayout.
func Interest(movs []model.Movement, rate decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range movs {
		if !m.Amount.IsPositive() {
			continue
		}
		payout := m.Amount.Mul(rate).Div(hundred)
		if payout.LessThan(MinInterestPayout) {
			continue
		}
		sum = sum.Add(payout)
	}
	return sum
}

// Summarize computes all derived totals for an account
func Summarize(acc *model.Account) model.Summary {
	return model.Summary{
		Balance:  Balance(acc.Movements),
		In:       Deposits(acc.Movements),
		Out:      Withdrawals(acc.Movements),
		Interest: Interest(acc.Movements, acc.InterestRate),
	}
}

// HasSufficientFunds checks if the balance covers the amount
func HasSufficientFunds(balance, amount decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(amount)
}

// FloorLoan truncates a requested loan to whole currency units
func FloorLoan(amount decimal.Decimal) decimal.Decimal {
	return amount.Floor()
}

// QualifiesForLoan reports whether amount is positive and at least one
// existing movement is >= 10% of it.
func QualifiesForLoan(movs []model.Movement, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	threshold := amount.Mul(LoanCoverRatio)
	for _, m := range movs {
		if m.Amount.GreaterThanOrEqual(threshold) {
			return true
		}
	}
	return false
}

// TransferMovements builds the sender and recipient movements for a transfer.
// Both share one timestamp and sum to zero.
func TransferMovements(amount decimal.Decimal, at time.Time) (debit, credit model.Movement) {
	debit = model.NewMovement(amount.Neg(), at)
	credit = model.NewMovement(amount, at)
	return debit, credit
}
