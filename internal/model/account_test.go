package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name  string
		owner string
		want  string
	}{
		{name: "three words", owner: "Steven Thomas Williams", want: "stw"},
		{name: "two words", owner: "Sarah Smith", want: "ss"},
		{name: "mixed case", owner: "Jonas Schmedtmann", want: "js"},
		{name: "single word", owner: "Cher", want: "c"},
		{name: "double space", owner: "Jessica  Davis", want: "jd"},
		{name: "empty owner", owner: "", want: ""},
		{name: "non-ascii initial", owner: "Émile Zola", want: "éz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveUsername(tt.owner); got != tt.want {
				t.Errorf("DeriveUsername(%q) = %q, want %q", tt.owner, got, tt.want)
			}
		})
	}
}

func TestAccount_FirstName(t *testing.T) {
	acc := &Account{Owner: "Steven Thomas Williams"}
	if got := acc.FirstName(); got != "Steven" {
		t.Errorf("FirstName() = %q, want Steven", got)
	}
}

func TestAccount_CloneIsIndependent(t *testing.T) {
	acc := &Account{
		Owner:     "Sarah Smith",
		Username:  "ss",
		Movements: []Movement{NewMovement(decimal.NewFromInt(430), time.Now())},
	}

	cp := acc.Clone()
	cp.Movements = append(cp.Movements, NewMovement(decimal.NewFromInt(10), time.Now()))
	cp.Movements[0].Amount = decimal.NewFromInt(1)

	if len(acc.Movements) != 1 {
		t.Fatalf("source movements len = %d, want 1", len(acc.Movements))
	}
	if !acc.Movements[0].Amount.Equal(decimal.NewFromInt(430)) {
		t.Errorf("source amount changed to %s", acc.Movements[0].Amount)
	}
}
