package model

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Account represents one bank customer and their movement history
type Account struct {
	Owner        string          `json:"owner"`
	Username     string          `json:"username"`
	Movements    []Movement      `json:"movements"`
	InterestRate decimal.Decimal `json:"interest_rate"` // Percent applied to each deposit
	PINHash      string          `json:"-"`             // Never serialize the PIN hash
	Currency     string          `json:"currency"`
	Locale       string          `json:"locale"`
}

// Clone returns a deep copy so callers cannot mutate stored movements
func (a *Account) Clone() *Account {
	cp := *a
	cp.Movements = make([]Movement, len(a.Movements))
	copy(cp.Movements, a.Movements)
	return &cp
}

// FirstName returns the first space-separated word of the owner's name
func (a *Account) FirstName() string {
	return strings.Split(a.Owner, " ")[0]
}

// DeriveUsername builds the login identifier from the lowercase initials of
// each word in owner, e.g. "Steven Thomas Williams" -> "stw".
func DeriveUsername(owner string) string {
	var b strings.Builder
	for _, word := range strings.Split(strings.ToLower(owner), " ") {
		if word == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return b.String()
}
