// Package budget resolves expense categories to their declared budgets.
package budget

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/account"
	"github.com/robinvdvleuten/jointledger/ast"
)

// Matcher looks up budgets by category and period. A Matcher is immutable
// and safe for concurrent use.
type Matcher struct {
	budgets []*ast.Budget
}

// NewMatcher creates a matcher over the given budgets. Later declarations of
// the same category never override earlier ones; the first match wins.
func NewMatcher(budgets []*ast.Budget) *Matcher {
	return &Matcher{budgets: budgets}
}

// Resolve returns the budget amount for a category. It tries an exact match
// on the formatted category, then a match on the final path segment only.
// Categories without a budget resolve to zero.
func (m *Matcher) Resolve(category string, period ast.Period) decimal.Decimal {
	for _, b := range m.budgets {
		if b.Period == period && ast.FormattedCategory(b) == category {
			return b.Amount
		}
	}

	last := account.LastSegment(category)
	for _, b := range m.budgets {
		if b.Period == period && account.LastSegment(ast.FormattedCategory(b)) == last {
			return b.Amount
		}
	}

	return decimal.Zero
}

// Budgets returns the budgets declared for a period, in declaration order.
func (m *Matcher) Budgets(period ast.Period) []*ast.Budget {
	var out []*ast.Budget
	for _, b := range m.budgets {
		if b.Period == period {
			out = append(out, b)
		}
	}
	return out
}

// Categories returns the distinct lower-cased formatted categories budgeted
// for a period, sorted.
func (m *Matcher) Categories(period ast.Period) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range m.Budgets(period) {
		c := strings.ToLower(ast.FormattedCategory(b))
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
