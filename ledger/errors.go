package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/jointledger/ast"
)

// Issue is a non-fatal problem found in a parsed ledger. Issues never stop
// reporting; they are surfaced by the check command.
type Issue interface {
	error
	GetPosition() ast.Position
	GetTransaction() *ast.Transaction
}

func location(txn *ast.Transaction) string {
	if txn.Pos.Filename != "" {
		return txn.Pos.String()
	}
	if !txn.Date.IsZero() {
		return txn.Date.String()
	}
	return txn.Pos.String()
}

// TransactionNotBalancedError is reported when the effective amounts of a
// transaction do not sum to zero.
type TransactionNotBalancedError struct {
	Transaction *ast.Transaction
	Residual    string
}

func (e *TransactionNotBalancedError) Error() string {
	return fmt.Sprintf("%s: Transaction does not balance: (%s)", location(e.Transaction), e.Residual)
}

func (e *TransactionNotBalancedError) GetPosition() ast.Position { return e.Transaction.Pos }

func (e *TransactionNotBalancedError) GetTransaction() *ast.Transaction { return e.Transaction }

// UnderdeterminedTransactionError is reported when more than one posting of
// a transaction has no amount. Each implicit posting mirrors the first
// explicit one.
type UnderdeterminedTransactionError struct {
	Transaction *ast.Transaction
	Implicit    int
}

func (e *UnderdeterminedTransactionError) Error() string {
	return fmt.Sprintf("%s: Transaction has %d postings without amount", location(e.Transaction), e.Implicit)
}

func (e *UnderdeterminedTransactionError) GetPosition() ast.Position { return e.Transaction.Pos }

func (e *UnderdeterminedTransactionError) GetTransaction() *ast.Transaction { return e.Transaction }

// EmptyTransactionError is reported for a header without postings.
type EmptyTransactionError struct {
	Transaction *ast.Transaction
}

func (e *EmptyTransactionError) Error() string {
	return fmt.Sprintf("%s: Transaction %q has no postings", location(e.Transaction), e.Transaction.Description)
}

func (e *EmptyTransactionError) GetPosition() ast.Position { return e.Transaction.Pos }

func (e *EmptyTransactionError) GetTransaction() *ast.Transaction { return e.Transaction }

var (
	_ Issue = (*TransactionNotBalancedError)(nil)
	_ Issue = (*UnderdeterminedTransactionError)(nil)
	_ Issue = (*EmptyTransactionError)(nil)
)
