package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney renders amount in the conventions of currency, for example
// "$1,234.50". Unknown currencies fall back to two decimals and the code.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	fraction := int32(cur.Fraction)
	return cur.Formatter().Format(amount.Round(fraction).Shift(fraction).IntPart())
}

// formatPercent renders a percentage with one decimal and an explicit sign.
func formatPercent(p decimal.Decimal) string {
	s := p.StringFixed(1) + "%"
	if p.IsPositive() {
		return "+" + s
	}
	return s
}
