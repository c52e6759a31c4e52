package ledger

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/jointledger/ast"
)

// MonthStart returns midnight UTC on the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// InMonth reports whether the transaction falls in the same calendar month
// as month.
func InMonth(txn *ast.Transaction, month time.Time) bool {
	if txn.Date.IsZero() {
		return false
	}
	return txn.Date.Year() == month.Year() && txn.Date.Month() == month.Month()
}

// InYear reports whether the transaction falls in the given calendar year.
func InYear(txn *ast.Transaction, year int) bool {
	return !txn.Date.IsZero() && txn.Date.Year() == year
}

// Filter returns the transactions for which keep returns true, in order.
func Filter(txns []*ast.Transaction, keep func(*ast.Transaction) bool) []*ast.Transaction {
	var out []*ast.Transaction
	for _, txn := range txns {
		if keep(txn) {
			out = append(out, txn)
		}
	}
	return out
}

// FilterMonth returns the transactions in the calendar month of month.
func FilterMonth(txns []*ast.Transaction, month time.Time) []*ast.Transaction {
	return Filter(txns, func(txn *ast.Transaction) bool { return InMonth(txn, month) })
}

// FilterYear returns the transactions in the given calendar year.
func FilterYear(txns []*ast.Transaction, year int) []*ast.Transaction {
	return Filter(txns, func(txn *ast.Transaction) bool { return InYear(txn, year) })
}

// FilterYearToMonth returns the transactions from January 1 of month's year
// through the last day of month.
func FilterYearToMonth(txns []*ast.Transaction, month time.Time) []*ast.Transaction {
	end := MonthStart(month).AddDate(0, 1, 0)
	return Filter(txns, func(txn *ast.Transaction) bool {
		return InYear(txn, month.Year()) && txn.Date.Before(end)
	})
}

// DistinctMonths returns the first day of every month that has at least one
// transaction, in ascending order.
func DistinctMonths(txns []*ast.Transaction) []time.Time {
	seen := make(map[time.Time]bool)
	var months []time.Time
	for _, txn := range txns {
		if txn.Date.IsZero() {
			continue
		}
		m := MonthStart(txn.Date.Time)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	slices.SortFunc(months, func(a, b time.Time) int { return a.Compare(b) })
	return months
}

// SortByDateDesc returns a copy of txns sorted newest first. Transactions on
// the same day keep their file order.
func SortByDateDesc(txns []*ast.Transaction) []*ast.Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b *ast.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}
