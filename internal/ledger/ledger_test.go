package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simonkvalheim/bankist/internal/model"
)

func movs(amounts ...string) []model.Movement {
	ds := make([]decimal.Decimal, len(amounts))
	for i, a := range amounts {
		ds[i] = decimal.RequireFromString(a)
	}
	return model.PairMovements(ds, nil)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name string
		movs []model.Movement
		want string
	}{
		{name: "empty", movs: nil, want: "0"},
		{name: "jonas", movs: movs("200", "450", "-400", "3000", "-650", "-130", "70", "1300"), want: "3840"},
		{name: "steven", movs: movs("200", "-200", "340", "-300", "-20", "50", "400", "-460"), want: "10"},
		{name: "fractional", movs: movs("0.1", "0.2"), want: "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Balance(tt.movs)
			assert.True(t, got.Equal(dec(tt.want)), "Balance() = %s, want %s", got, tt.want)
		})
	}
}

func TestDepositsAndWithdrawals(t *testing.T) {
	m := movs("5000", "3400", "-150", "-790", "-3210", "-1000", "8500", "-30")

	in := Deposits(m)
	out := Withdrawals(m)

	assert.True(t, in.Equal(dec("16900")), "Deposits() = %s", in)
	assert.True(t, out.Equal(dec("5180")), "Withdrawals() = %s", out)
	assert.False(t, out.IsNegative(), "withdrawals are reported as an absolute value")

	// deposits + (withdrawals as negative) == balance
	assert.True(t, in.Sub(out).Equal(Balance(m)))
}

func TestDeposits_ZeroCountsAsDeposit(t *testing.T) {
	m := movs("0", "-5")
	assert.True(t, Deposits(m).IsZero())
	assert.True(t, Withdrawals(m).Equal(dec("5")))
}

func TestInterest(t *testing.T) {
	tests := []struct {
		name string
		movs []model.Movement
		rate string
		want string
	}{
		{name: "payouts below one are dropped", movs: movs("50", "80"), rate: "1.5", want: "1.2"},
		{name: "withdrawals earn nothing", movs: movs("-1000", "100"), rate: "1", want: "1"},
		{name: "zero movement earns nothing", movs: movs("0"), rate: "5", want: "0"},
		{name: "all below floor", movs: movs("10", "20", "30"), rate: "1", want: "0"},
		{name: "jonas", movs: movs("200", "450", "-400", "3000", "-650", "-130", "70", "1300"), rate: "1.2", want: "59.4"},
		{name: "sarah", movs: movs("430", "1000", "700", "50", "90"), rate: "1", want: "21.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interest(tt.movs, dec(tt.rate))
			assert.True(t, got.Equal(dec(tt.want)), "Interest() = %s, want %s", got, tt.want)
		})
	}
}

func TestSummarize_DoesNotMutate(t *testing.T) {
	acc := &model.Account{
		Owner:        "Sarah Smith",
		Movements:    movs("430", "1000", "700", "50", "90"),
		InterestRate: dec("1"),
	}
	before := len(acc.Movements)

	s := Summarize(acc)

	assert.True(t, s.Balance.Equal(dec("2270")))
	assert.True(t, s.In.Equal(dec("2270")))
	assert.True(t, s.Out.IsZero())
	assert.True(t, s.Interest.Equal(dec("21.3")))
	assert.Equal(t, before, len(acc.Movements))
}

func TestHasSufficientFunds(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		want    bool
	}{
		{name: "exact", balance: "100", amount: "100", want: true},
		{name: "more than needed", balance: "150", amount: "100", want: true},
		{name: "insufficient", balance: "100", amount: "150", want: false},
		{name: "negative balance", balance: "-50", amount: "1", want: false},
		{name: "small amount", balance: "0.01", amount: "0.01", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasSufficientFunds(dec(tt.balance), dec(tt.amount)))
		})
	}
}

func TestFloorLoan(t *testing.T) {
	assert.True(t, FloorLoan(dec("1000.99")).Equal(dec("1000")))
	assert.True(t, FloorLoan(dec("0.5")).IsZero())
	assert.True(t, FloorLoan(dec("250")).Equal(dec("250")))
}

func TestQualifiesForLoan(t *testing.T) {
	history := movs("200", "450", "-400", "3000")

	tests := []struct {
		name   string
		amount string
		want   bool
	}{
		{name: "covered by largest deposit", amount: "30000", want: true},
		{name: "just above cover", amount: "30001", want: false},
		{name: "small loan", amount: "100", want: true},
		{name: "zero", amount: "0", want: false},
		{name: "negative", amount: "-100", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualifiesForLoan(history, dec(tt.amount)))
		})
	}

	assert.False(t, QualifiesForLoan(nil, dec("1")), "empty history never qualifies")
}

func TestTransferMovements(t *testing.T) {
	at := time.Date(2020, 7, 12, 10, 51, 36, 0, time.UTC)

	debit, credit := TransferMovements(dec("40"), at)

	assert.True(t, debit.Amount.Equal(dec("-40")))
	assert.True(t, credit.Amount.Equal(dec("40")))
	assert.True(t, debit.Amount.Add(credit.Amount).IsZero(), "transfer movements must sum to zero")
	assert.Equal(t, at, debit.Date)
	assert.Equal(t, debit.Date, credit.Date)
	assert.NotEqual(t, debit.ID, credit.ID)
}
