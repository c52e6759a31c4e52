package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/jointledger/account"
	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/budget"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// BudgetLine pairs what was spent in a category with its budget.
type BudgetLine struct {
	Category string
	Spent    decimal.Decimal
	Budget   decimal.Decimal
}

// Remaining returns the budget left, negative when overspent.
func (l BudgetLine) Remaining() decimal.Decimal {
	return l.Budget.Sub(l.Spent)
}

// Over reports whether spending exceeded the budget.
func (l BudgetLine) Over() bool {
	return l.Spent.GreaterThan(l.Budget)
}

// CompareMonthly joins the expenses of month against the monthly budgets.
// Every budgeted category gets a line, as does every category with spending;
// categories without a budget show a zero budget. Lines are sorted by
// category.
func CompareMonthly(txns []*ast.Transaction, budgets []*ast.Budget, month time.Time, opts ...Option) []BudgetLine {
	spent := Expenses(ledger.FilterMonth(txns, month), opts...)
	matcher := budget.NewMatcher(budgets)

	lines := make(map[string]*BudgetLine)
	for _, b := range matcher.Budgets(ast.Monthly) {
		category := NormalizeCategory(ast.FormattedCategory(b))
		if _, ok := lines[category]; ok {
			continue
		}
		lines[category] = &BudgetLine{
			Category: category,
			Spent:    spent[category],
			Budget:   b.Amount,
		}
	}
	for category, amount := range spent {
		if _, ok := lines[category]; ok {
			continue
		}
		lines[category] = &BudgetLine{
			Category: category,
			Spent:    amount,
			Budget:   matcher.Resolve(category, ast.Monthly),
		}
	}

	return sortedLines(lines)
}

// CompareYearly sums, for every yearly budget, the effective amounts of
// postings in year whose account starts with "joint:expenses:<category>".
func CompareYearly(txns []*ast.Transaction, budgets []*ast.Budget, year int) []BudgetLine {
	inYear := ledger.FilterYear(txns, year)
	matcher := budget.NewMatcher(budgets)

	lines := make(map[string]*BudgetLine)
	for _, b := range matcher.Budgets(ast.Yearly) {
		category := ast.FormattedCategory(b)
		if _, ok := lines[category]; ok {
			continue
		}
		prefix := account.JointExpensesPrefix + category

		spent := decimal.Zero
		for _, txn := range inYear {
			for i, p := range txn.Postings {
				if strings.HasPrefix(p.Account, prefix) {
					spent = spent.Add(ledger.EffectiveAmount(txn, i))
				}
			}
		}

		lines[category] = &BudgetLine{
			Category: category,
			Spent:    spent,
			Budget:   b.Amount,
		}
	}

	return sortedLines(lines)
}

func sortedLines(lines map[string]*BudgetLine) []BudgetLine {
	keys := maps.Keys(lines)
	slices.Sort(keys)

	out := make([]BudgetLine, 0, len(keys))
	for _, k := range keys {
		out = append(out, *lines[k])
	}
	return out
}
