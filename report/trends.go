package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// TrendThreshold is the relative change, in percent, a category must exceed
// to be reported.
var TrendThreshold = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// Trend compares a category's spending in one month with its average over
// every earlier month that has transactions.
type Trend struct {
	Category        string
	Current         decimal.Decimal
	PreviousAverage decimal.Decimal
	// Percent is the relative change. It is meaningless when Unbounded is
	// set, which marks a category without previous spending.
	Percent   decimal.Decimal
	Unbounded bool
}

// Trends reports the categories whose spending in month moved by more than
// TrendThreshold percent against the previous average, dropped to zero, or
// appeared for the first time. New categories come first, largest spend
// first, followed by the others by descending magnitude of change.
func Trends(txns []*ast.Transaction, month time.Time, opts ...Option) []Trend {
	o := newOptions(opts)
	start := ledger.MonthStart(month)

	current := o.expenses(ledger.FilterMonth(txns, month))

	var prior []time.Time
	for _, m := range ledger.DistinctMonths(txns) {
		if m.Before(start) {
			prior = append(prior, m)
		}
	}

	totals := make(Sums)
	for _, m := range prior {
		for category, amount := range o.expenses(ledger.FilterMonth(txns, m)) {
			totals[category] = totals[category].Add(amount)
		}
	}

	categories := maps.Keys(current)
	for category := range totals {
		if _, ok := current[category]; !ok {
			categories = append(categories, category)
		}
	}

	var trends []Trend
	for _, category := range categories {
		cur := current[category]
		prev := decimal.Zero
		if len(prior) > 0 {
			prev = totals[category].Div(decimal.NewFromInt(int64(len(prior))))
		}

		switch {
		case prev.IsPositive():
			pct := cur.Sub(prev).Div(prev).Mul(hundred)
			if pct.Abs().GreaterThan(TrendThreshold) || cur.IsZero() {
				trends = append(trends, Trend{
					Category:        category,
					Current:         cur,
					PreviousAverage: prev,
					Percent:         pct,
				})
			}
		case cur.IsPositive():
			trends = append(trends, Trend{
				Category:        category,
				Current:         cur,
				PreviousAverage: prev,
				Unbounded:       true,
			})
		}
	}

	slices.SortFunc(trends, compareTrends)
	return trends
}

func compareTrends(a, b Trend) int {
	if a.Unbounded != b.Unbounded {
		if a.Unbounded {
			return -1
		}
		return 1
	}
	if a.Unbounded {
		if c := b.Current.Cmp(a.Current); c != 0 {
			return c
		}
	} else if c := b.Percent.Abs().Cmp(a.Percent.Abs()); c != 0 {
		return c
	}
	return strings.Compare(a.Category, b.Category)
}
