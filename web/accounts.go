package web

import (
	"net/http"
	"sort"

	"github.com/robinvdvleuten/jointledger/account"
)

// AccountInfo represents basic information about a ledger account.
type AccountInfo struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// accountType names the role of an account path.
func accountType(path string) string {
	switch {
	case account.IsJointExpense(path):
		return "joint-expense"
	case account.IsJointIncome(path):
		return "joint-income"
	case account.IsAsset(path):
		return "asset"
	}
	if _, ok := account.ExpenseCategory(path); ok {
		return "expense"
	}
	if _, ok := account.IncomeCategory(path); ok {
		return "income"
	}
	return "other"
}

// handleGetAccounts handles GET requests to /api/accounts.
// Returns every account used by a posting, sorted alphabetically by name.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	seen := make(map[string]bool)
	accounts := make([]AccountInfo, 0)
	for _, txn := range snap.Transactions {
		for _, p := range txn.Postings {
			if seen[p.Account] {
				continue
			}
			seen[p.Account] = true
			accounts = append(accounts, AccountInfo{
				Name:     p.Account,
				Owner:    account.Owner(p.Account),
				Type:     accountType(p.Account),
				Category: account.Category(p.Account),
			})
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}
