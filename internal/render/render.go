// Package render turns an account into the rows and totals a client draws.
package render

import (
	"sort"
	"time"

	"github.com/simonkvalheim/bankist/internal/ledger"
	"github.com/simonkvalheim/bankist/internal/model"
)

const (
	dateLayout       = "02/01/2006"
	headerDateLayout = "02/01/2006, 15:04"
)

// Renderer formats movements and dates in a fixed location
type Renderer struct {
	loc *time.Location
}

// New creates a Renderer. A nil location renders in UTC.
func New(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// Rows projects movements into display rows.
//
// When sorted is true the movements are ordered by amount ascending, each
// keeping its own date. Seq numbers follow that order, and the returned slice
// is reversed so the last generated row comes first.
func (r *Renderer) Rows(movs []model.Movement, sorted bool, currency, locale string) []model.Row {
	ordered := make([]model.Movement, len(movs))
	copy(ordered, movs)
	if sorted {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Amount.LessThan(ordered[j].Amount)
		})
	}

	n := len(ordered)
	rows := make([]model.Row, n)
	for i, m := range ordered {
		rows[n-1-i] = model.Row{
			Seq:     i + 1,
			Type:    m.Type(),
			Amount:  m.Amount,
			Value:   m.Amount.StringFixed(2),
			Display: FormatMoney(m.Amount, currency, locale),
			Date:    r.FormatDate(m.Date),
		}
	}
	return rows
}

// FormatDate renders t as DD/MM/YYYY, or "" for the zero time
func (r *Renderer) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(r.loc).Format(dateLayout)
}

// HeaderDate renders t as "DD/MM/YYYY, HH:MM"
func (r *Renderer) HeaderDate(t time.Time) string {
	return t.In(r.loc).Format(headerDateLayout)
}

// View recomputes everything shown for acc: rows, totals and header text
func (r *Renderer) View(acc *model.Account, sorted bool, now time.Time) model.View {
	summary := ledger.Summarize(acc)

	return model.View{
		Owner:    acc.Owner,
		Username: acc.Username,
		Welcome:  "Welcome back, " + acc.FirstName(),
		Date:     r.HeaderDate(now),
		Sorted:   sorted,
		Currency: acc.Currency,
		Locale:   acc.Locale,
		Summary:  summary,
		Display: model.SummaryDisplay{
			Balance:  FormatMoney(summary.Balance, acc.Currency, acc.Locale),
			In:       FormatMoney(summary.In, acc.Currency, acc.Locale),
			Out:      FormatMoney(summary.Out, acc.Currency, acc.Locale),
			Interest: FormatMoney(summary.Interest, acc.Currency, acc.Locale),
		},
		Movements: r.Rows(acc.Movements, sorted, acc.Currency, acc.Locale),
	}
}
