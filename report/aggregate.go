package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/account"
	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// Sums maps a normalized category to an amount.
type Sums map[string]decimal.Decimal

// Total adds up every category.
func (s Sums) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s {
		total = total.Add(v)
	}
	return total
}

// Income sums income postings per normalized category. Income is booked
// negative, so explicit negative amounts count by their absolute value while
// positive amounts count as written. A posting without an amount, or with a
// zero amount, counts as the absolute sum of the other explicit amounts.
func Income(txns []*ast.Transaction, opts ...Option) Sums {
	o := newOptions(opts)
	sums := make(Sums)

	for _, txn := range txns {
		for i, p := range txn.Postings {
			category, ok := account.IncomeCategory(p.Account)
			if !ok || o.skipOwner(p.Account) {
				continue
			}

			var amount decimal.Decimal
			switch {
			case p.Amount != nil && !p.Amount.Value.IsZero():
				amount = p.Amount.Value.Abs()
			default:
				amount = ledger.ExplicitSum(txn, i).Abs()
			}

			key := NormalizeCategory(category)
			sums[key] = sums[key].Add(amount)
		}
	}
	return sums
}

// Expenses sums explicit expense amounts per normalized category, signs
// included. Implicit expense postings are skipped.
func Expenses(txns []*ast.Transaction, opts ...Option) Sums {
	return newOptions(opts).expenses(txns)
}

func (o *options) expenses(txns []*ast.Transaction) Sums {
	sums := make(Sums)

	for _, txn := range txns {
		for _, p := range txn.Postings {
			if p.Amount == nil || o.skipOwner(p.Account) {
				continue
			}
			category, ok := account.ExpenseCategory(p.Account)
			if !ok {
				continue
			}
			if o.excludeRent && strings.HasSuffix(p.Account, ":rent") {
				continue
			}
			key := NormalizeCategory(category)
			if !o.isBudgeted(key) {
				continue
			}
			sums[key] = sums[key].Add(p.Amount.Value)
		}
	}
	return sums
}

// isBudgeted reports whether a category or one of its ancestors is in the
// budgeted set. Without a set every category passes.
func (o *options) isBudgeted(category string) bool {
	if o.budgeted == nil {
		return true
	}
	for _, prefix := range account.Prefixes(category) {
		if o.budgeted[prefix] {
			return true
		}
	}
	return false
}
