package model

import "github.com/shopspring/decimal"

// Summary holds the derived totals for an account
type Summary struct {
	Balance  decimal.Decimal `json:"balance"`
	In       decimal.Decimal `json:"in"`
	Out      decimal.Decimal `json:"out"` // Absolute value of all withdrawals
	Interest decimal.Decimal `json:"interest"`
}

// SummaryDisplay is Summary formatted for the account's currency and locale
type SummaryDisplay struct {
	Balance  string `json:"balance"`
	In       string `json:"in"`
	Out      string `json:"out"`
	Interest string `json:"interest"`
}

// Row is one rendered movement line
type Row struct {
	Seq     int             `json:"seq"` // 1-based position after sorting
	Type    MovementType    `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Value   string          `json:"value"`   // Two decimal places
	Display string          `json:"display"` // Currency and locale formatted
	Date    string          `json:"date"`    // DD/MM/YYYY, empty when unknown
}

// View is everything a client needs to redraw after a transition
type View struct {
	Owner     string         `json:"owner"`
	Username  string         `json:"username"`
	Welcome   string         `json:"welcome"`
	Date      string         `json:"date"`
	Sorted    bool           `json:"sorted"`
	Currency  string         `json:"currency"`
	Locale    string         `json:"locale"`
	Summary   Summary        `json:"summary"`
	Display   SummaryDisplay `json:"display"`
	Movements []Row          `json:"movements"`
}
