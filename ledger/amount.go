// Package ledger holds the double-entry rules shared by every report: how an
// implicit posting gets its amount, running balances per account, month and
// year windows, and non-fatal consistency checks.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/ast"
)

// EffectiveAmount returns the amount posting i contributes to its
// transaction. An explicit amount is returned as is. An implicit posting is
// the negation of the first other posting that carries an explicit amount.
//
// With several explicit postings and one implicit posting this does not
// balance the transaction: only the first explicit amount is mirrored. The
// behavior is kept for compatibility with existing ledgers; Check reports
// the affected transactions.
func EffectiveAmount(txn *ast.Transaction, i int) decimal.Decimal {
	if i < 0 || i >= len(txn.Postings) {
		return decimal.Zero
	}
	if a := txn.Postings[i].Amount; a != nil {
		return a.Value
	}
	for j, other := range txn.Postings {
		if j != i && other.Amount != nil {
			return other.Amount.Value.Neg()
		}
	}
	return decimal.Zero
}

// ExplicitSum sums the explicit amounts of a transaction, leaving out the
// posting at index skip. Pass -1 to include every posting.
func ExplicitSum(txn *ast.Transaction, skip int) decimal.Decimal {
	sum := decimal.Zero
	for j, p := range txn.Postings {
		if j == skip || p.Amount == nil {
			continue
		}
		sum = sum.Add(p.Amount.Value)
	}
	return sum
}

// BalancingAmount returns the amount that makes the explicit postings of a
// transaction sum to zero.
func BalancingAmount(txn *ast.Transaction) decimal.Decimal {
	return ExplicitSum(txn, -1).Neg()
}

// Residual sums the effective amount of every posting. A balanced
// transaction has a zero residual.
func Residual(txn *ast.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for i := range txn.Postings {
		sum = sum.Add(EffectiveAmount(txn, i))
	}
	return sum
}

// ImplicitCount returns the number of postings without an amount.
func ImplicitCount(txn *ast.Transaction) int {
	n := 0
	for _, p := range txn.Postings {
		if p.Amount == nil {
			n++
		}
	}
	return n
}
