package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/account"
	"github.com/robinvdvleuten/jointledger/ast"
	issues "github.com/robinvdvleuten/jointledger/errors"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// TransactionsResponse is the JSON response structure for the transactions
// endpoint.
type TransactionsResponse struct {
	Month        string             `json:"month,omitempty"`
	Transactions []*TransactionJSON `json:"transactions"`
}

// TransactionJSON is a transaction with its inferred amounts filled in.
type TransactionJSON struct {
	Date        string         `json:"date"`
	Description string         `json:"description"`
	Tag         string         `json:"tag,omitempty"`
	Text        string         `json:"text"`
	Note        string         `json:"note,omitempty"`
	Line        int            `json:"line,omitempty"`
	Postings    []*PostingJSON `json:"postings"`
}

// PostingJSON is one posting. Amount is the effective amount; Implicit marks
// amounts inferred from the other postings.
type PostingJSON struct {
	Account  string          `json:"account"`
	Owner    string          `json:"owner"`
	Category string          `json:"category,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	Implicit bool            `json:"implicit"`
}

func convertTransaction(txn *ast.Transaction) *TransactionJSON {
	tag, text := ast.SplitDescription(txn.Description)
	out := &TransactionJSON{
		Date:        txn.Date.String(),
		Description: txn.Description,
		Tag:         tag,
		Text:        text,
		Note:        txn.Note,
		Line:        txn.Pos.Line,
		Postings:    make([]*PostingJSON, len(txn.Postings)),
	}
	for i, p := range txn.Postings {
		pj := &PostingJSON{
			Account:  p.Account,
			Owner:    account.Owner(p.Account),
			Category: account.Category(p.Account),
			Amount:   ledger.EffectiveAmount(txn, i),
			Implicit: p.IsImplicit(),
		}
		if p.Amount != nil {
			pj.Currency = p.Amount.Currency
		}
		out.Postings[i] = pj
	}
	return out
}

// handleGetTransactions handles GET requests to /api/transactions.
//
// Query parameters:
//   - month: YYYY-MM. If omitted, every transaction is returned.
//
// Transactions are ordered newest first.
func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	var (
		txns     []*ast.Transaction
		response TransactionsResponse
	)

	if r.URL.Query().Get("month") != "" {
		month, err := s.parseMonth(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		txns, err = s.repo.MonthlyTransactions(r.Context(), month)
		if err != nil {
			http.Error(w, "failed to load ledger: "+err.Error(), http.StatusBadGateway)
			return
		}
		response.Month = month.Format(MonthLayout)
	} else {
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		txns = ledger.SortByDateDesc(snap.Transactions)
	}

	response.Transactions = make([]*TransactionJSON, len(txns))
	for i, txn := range txns {
		response.Transactions[i] = convertTransaction(txn)
	}
	writeJSONResponse(w, &response)
}

// BudgetsResponse is the JSON response structure for the budgets endpoint.
type BudgetsResponse struct {
	Budgets []BudgetJSON `json:"budgets"`
}

// BudgetJSON is one budget declaration.
type BudgetJSON struct {
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Period   ast.Period      `json:"period"`
}

// handleGetBudgets handles GET requests to /api/budgets.
func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	budgets := make([]BudgetJSON, len(snap.Budgets))
	for i, b := range snap.Budgets {
		budgets[i] = BudgetJSON{
			Category: b.Category,
			Name:     ast.FormattedCategory(b),
			Amount:   b.Amount,
			Period:   b.Period,
		}
	}
	writeJSONResponse(w, &BudgetsResponse{Budgets: budgets})
}

// CheckResponse is the JSON response structure for the check endpoint.
type CheckResponse struct {
	Issues []issues.ErrorJSON `json:"issues"`
}

// handleGetCheck handles GET requests to /api/check.
func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	found := ledger.Check(r.Context(), &ast.AST{Transactions: snap.Transactions, Budgets: snap.Budgets})
	errs := make([]error, len(found))
	for i, issue := range found {
		errs[i] = issue
	}
	writeJSONResponse(w, &CheckResponse{Issues: issues.NewJSONFormatter().FormatAllToSlice(errs)})
}
