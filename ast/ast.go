// Package ast declares the types used to represent a parsed joint ledger.
//
// A ledger is a plain-text file of dated transactions, each carrying indented
// postings against colon-separated account paths, plus budget declarations
// embedded in comment lines. The AST holds one snapshot of both collections.
// It is produced by the parser package, or constructed programmatically with
// the builders in this package.
package ast

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// AST represents one parsed ledger: every transaction in file order and every
// budget declaration found in comment lines.
type AST struct {
	Transactions []*Transaction
	Budgets      []*Budget
}

// SortTransactions orders transactions chronologically. The sort is stable so
// that same-day transactions keep their file order.
func (a *AST) SortTransactions() {
	slices.SortStableFunc(a.Transactions, func(x, y *Transaction) int {
		switch {
		case x.Date.IsZero() && y.Date.IsZero():
			return 0
		case x.Date.IsZero():
			return -1
		case y.Date.IsZero():
			return 1
		}
		return x.Date.Compare(y.Date.Time)
	})
}

// Period is the cadence a budget applies to.
type Period int

const (
	Monthly Period = iota
	Yearly
)

func (p Period) String() string {
	switch p {
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// ParsePeriod parses "monthly" or "yearly", case-insensitively.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	default:
		return 0, fmt.Errorf("unknown budget period %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so periods serialize as words.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	v, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// BudgetCategoryPrefix is stripped from a budget category to obtain the name
// used for matching against expense categories.
const BudgetCategoryPrefix = "budget:expenses:"

// Budget is a spending allowance for a category over a period, declared with
// a comment line such as:
//
//	; budget: expenses:dining: 300 monthly
type Budget struct {
	Category string
	Amount   decimal.Decimal
	Period   Period
}

// FormattedCategory returns the budget category with a leading
// "budget:expenses:" removed.
func FormattedCategory(b *Budget) string {
	return strings.TrimPrefix(b.Category, BudgetCategoryPrefix)
}
