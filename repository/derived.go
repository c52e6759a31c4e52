package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/account"
	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// MonthlyExpenses sums joint expenses in the calendar month of month. Each
// amount counts toward its category and every ancestor category, so
// "dining:out" also adds to "dining".
func (r *Repository) MonthlyExpenses(ctx context.Context, month time.Time) (map[string]decimal.Decimal, error) {
	txns, err := r.Transactions(ctx, false)
	if err != nil {
		return nil, err
	}
	return sumByCategory(ledger.FilterMonth(txns, month), account.IsJointExpense, false), nil
}

// CumulativeMonthlyExpenses sums joint expenses from January 1 of month's
// year through the end of month.
func (r *Repository) CumulativeMonthlyExpenses(ctx context.Context, month time.Time) (map[string]decimal.Decimal, error) {
	txns, err := r.Transactions(ctx, false)
	if err != nil {
		return nil, err
	}
	return sumByCategory(ledger.FilterYearToMonth(txns, month), account.IsJointExpense, false), nil
}

// MonthlyIncome sums joint income in the calendar month of month. Income is
// booked negative in the ledger and reported positive here.
func (r *Repository) MonthlyIncome(ctx context.Context, month time.Time) (map[string]decimal.Decimal, error) {
	txns, err := r.Transactions(ctx, false)
	if err != nil {
		return nil, err
	}
	return sumByCategory(ledger.FilterMonth(txns, month), account.IsJointIncome, true), nil
}

// MonthlyTransactions returns the transactions of a month, newest first.
func (r *Repository) MonthlyTransactions(ctx context.Context, month time.Time) ([]*ast.Transaction, error) {
	txns, err := r.Transactions(ctx, false)
	if err != nil {
		return nil, err
	}
	return ledger.SortByDateDesc(ledger.FilterMonth(txns, month)), nil
}

func sumByCategory(txns []*ast.Transaction, match func(string) bool, negate bool) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		for i, p := range txn.Postings {
			if !match(p.Account) {
				continue
			}
			amount := ledger.EffectiveAmount(txn, i)
			if negate {
				amount = amount.Neg()
			}
			for _, prefix := range account.Prefixes(account.Category(p.Account)) {
				sums[prefix] = sums[prefix].Add(amount)
			}
		}
	}
	return sums
}
