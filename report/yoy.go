package report

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// YearOverYear lines up the spending of one calendar month across every
// year present in the ledger.
type YearOverYear struct {
	Month time.Month
	Years []int
	Lines []YearOverYearLine
}

// YearOverYearLine holds one category. Amounts is aligned with Years.
type YearOverYearLine struct {
	Category string
	Amounts  []decimal.Decimal
	// Change is the percent change from the second to last year to the
	// last one. HasChange is false when the earlier amount is not positive.
	Change    decimal.Decimal
	HasChange bool
}

// YearOverYearReport compares the calendar month of month across years.
// Years without transactions in that month still get a column when they have
// transactions in other months, so gaps show as zeros.
func YearOverYearReport(txns []*ast.Transaction, month time.Time, opts ...Option) YearOverYear {
	o := newOptions(opts)

	seen := make(map[int]bool)
	for _, m := range ledger.DistinctMonths(txns) {
		seen[m.Year()] = true
	}
	years := maps.Keys(seen)
	slices.Sort(years)

	perYear := make([]Sums, len(years))
	categories := make(map[string]bool)
	for i, year := range years {
		target := time.Date(year, month.Month(), 1, 0, 0, 0, 0, time.UTC)
		perYear[i] = o.expenses(ledger.FilterMonth(txns, target))
		for category := range perYear[i] {
			categories[category] = true
		}
	}

	names := maps.Keys(categories)
	slices.Sort(names)

	report := YearOverYear{Month: month.Month(), Years: years}
	for _, category := range names {
		line := YearOverYearLine{Category: category, Amounts: make([]decimal.Decimal, len(years))}
		for i := range years {
			line.Amounts[i] = perYear[i][category]
		}
		if n := len(years); n >= 2 && line.Amounts[n-2].IsPositive() {
			prev, last := line.Amounts[n-2], line.Amounts[n-1]
			line.Change = last.Sub(prev).Div(prev).Mul(hundred)
			line.HasChange = true
		}
		report.Lines = append(report.Lines, line)
	}
	return report
}
