package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/account"
	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// BalancesResponse is the JSON response structure for the balances endpoint.
type BalancesResponse struct {
	Roots     []*BalanceNodeResponse `json:"roots"`
	StartDate *string                `json:"startDate,omitempty"`
	EndDate   *string                `json:"endDate,omitempty"`
}

// BalanceNodeResponse represents a node in the balance tree. The balance of
// a node includes all of its children.
type BalanceNodeResponse struct {
	Name     string                 `json:"name"`
	Account  string                 `json:"account"`
	Depth    int                    `json:"depth"`
	Balance  decimal.Decimal        `json:"balance"`
	Children []*BalanceNodeResponse `json:"children,omitempty"`
}

// handleGetBalances handles GET requests to /api/balances.
//
// Query parameters:
//   - startDate: Start date in YYYY-MM-DD format, inclusive.
//   - endDate: End date in YYYY-MM-DD format, inclusive.
//
// Both are optional and may be given independently. Implicit postings count
// with their inferred amount.
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateParam(r, "startDate")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endDate, err := parseDateParam(r, "endDate")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if startDate != nil && endDate != nil && endDate.Before(startDate.Time) {
		http.Error(w, "endDate must not be before startDate", http.StatusBadRequest)
		return
	}

	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	txns := ledger.Filter(snap.Transactions, func(txn *ast.Transaction) bool {
		if startDate != nil && txn.Date.Before(startDate.Time) {
			return false
		}
		if endDate != nil && txn.Date.After(endDate.Time) {
			return false
		}
		return true
	})

	balances := ledger.NewBalances()
	for _, txn := range txns {
		for i, p := range txn.Postings {
			balances.Add(p.Account, ledger.EffectiveAmount(txn, i))
		}
	}

	response := &BalancesResponse{Roots: buildBalanceTree(balances)}
	if startDate != nil {
		v := startDate.String()
		response.StartDate = &v
	}
	if endDate != nil {
		v := endDate.String()
		response.EndDate = &v
	}
	writeJSONResponse(w, response)
}

// buildBalanceTree nests accounts by path segment. Roots and children keep
// the sorted order of the account names.
func buildBalanceTree(balances *ledger.Balances) []*BalanceNodeResponse {
	roots := make([]*BalanceNodeResponse, 0)
	nodes := make(map[string]*BalanceNodeResponse)

	for _, acct := range balances.Accounts() {
		amount := balances.Get(acct)
		var parent *BalanceNodeResponse
		for depth, prefix := range account.Prefixes(acct) {
			node, ok := nodes[prefix]
			if !ok {
				node = &BalanceNodeResponse{
					Name:    account.LastSegment(prefix),
					Account: prefix,
					Depth:   depth,
				}
				nodes[prefix] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}
			node.Balance = node.Balance.Add(amount)
			parent = node
		}
	}
	return roots
}
