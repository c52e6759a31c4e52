package ledger

import (
	"context"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/telemetry"
)

// Check walks every transaction and returns the issues found, in file order.
// A transaction yields at most one issue: empty, then under-determined, then
// unbalanced.
func Check(ctx context.Context, tree *ast.AST) []Issue {
	timer := telemetry.StartTimer(ctx, "ledger.check")
	defer timer.End()

	var issues []Issue
	for _, txn := range tree.Transactions {
		if issue := checkTransaction(txn); issue != nil {
			issues = append(issues, issue)
		}
	}
	return issues
}

func checkTransaction(txn *ast.Transaction) Issue {
	if len(txn.Postings) == 0 {
		return &EmptyTransactionError{Transaction: txn}
	}
	if n := ImplicitCount(txn); n > 1 {
		return &UnderdeterminedTransactionError{Transaction: txn, Implicit: n}
	}
	if residual := Residual(txn); !residual.IsZero() {
		return &TransactionNotBalancedError{Transaction: txn, Residual: residual.String()}
	}
	return nil
}
