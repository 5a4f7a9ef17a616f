package render

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Languages that write the currency symbol before the number
var symbolFirst = map[language.Base]bool{
	language.MustParseBase("en"): true,
	language.MustParseBase("ja"): true,
	language.MustParseBase("ko"): true,
	language.MustParseBase("zh"): true,
}

// FormatMoney renders amount with two decimals using the locale's digit
// grouping and decimal separator, with the currency symbol placed the way
// the locale's language writes it. Unknown locales fall back to en-US and
// unknown currencies print the number alone.
func FormatMoney(amount decimal.Decimal, cur, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	p := message.NewPrinter(tag)

	number, negative := formatNumber(p, amount)
	sign := ""
	if negative {
		sign = "-"
	}

	unit, err := currency.ParseISO(cur)
	if err != nil {
		return sign + number
	}
	symbol := p.Sprintf("%v", currency.Symbol(unit))

	base, _ := tag.Base()
	if symbolFirst[base] {
		return sign + symbol + number
	}
	return sign + number + " " + symbol
}

// formatNumber renders |amount| rounded to cents and reports whether the
// rounded value is negative. Only the integer digits go through the printer.
func formatNumber(p *message.Printer, amount decimal.Decimal) (string, bool) {
	rounded := amount.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	digits, cents := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	whole := rounded.Abs().Truncate(0)
	if whole.BigInt().IsInt64() {
		digits = p.Sprintf("%d", whole.IntPart())
	}

	return digits + decimalSeparator(p) + cents, rounded.IsNegative()
}

// decimalSeparator asks the printer how it writes 1.5 and strips the digits
func decimalSeparator(p *message.Printer) string {
	s := p.Sprintf("%.1f", 1.5)
	s = strings.TrimPrefix(s, p.Sprintf("%d", 1))
	return strings.TrimSuffix(s, p.Sprintf("%d", 5))
}
