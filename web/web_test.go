package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/repository"
	"github.com/robinvdvleuten/jointledger/storage"
)

const testLedger = `; budget:expenses:dining: 300 monthly
; budget:expenses:groceries: 4800 yearly
2024-01-01 Opening Balances
  joint:assets:checking  1000 EUR
  equity:opening
2024-02-03 dining | pizza
  joint:expenses:dining  45 EUR
  joint:assets:checking
2024-02-10 groceries
  joint:expenses:groceries:market  100 EUR
  joint:assets:checking
2024-02-25 salary
  joint:income:salary  -3000 EUR
  joint:assets:checking
2024-03-02 rent
  joint:expenses:rent  900 EUR
  joint:assets:checking
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, src repository.Storage) (*Server, http.Handler) {
	t.Helper()
	repo := repository.New(src, repository.WithLogger(discardLogger()))
	server := New(8080, repo)
	server.Logger = discardLogger()
	server.now = func() time.Time { return time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC) }
	return server, server.setupRouter()
}

func get(t *testing.T, mux http.Handler, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func TestAPITransactions(t *testing.T) {
	_, mux := newTestServer(t, storage.NewStatic([]byte(testLedger)))

	t.Run("All", func(t *testing.T) {
		var response TransactionsResponse
		rec := get(t, mux, "/api/transactions", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, len(response.Transactions))
		assert.Equal(t, "2024-03-02", response.Transactions[0].Date)
		assert.Equal(t, "", response.Month)
	})

	t.Run("Month", func(t *testing.T) {
		var response TransactionsResponse
		rec := get(t, mux, "/api/transactions?month=2024-02", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2024-02", response.Month)
		assert.Equal(t, 3, len(response.Transactions))

		salary := response.Transactions[0]
		assert.Equal(t, "salary", salary.Text)
		assert.Equal(t, "-3000", salary.Postings[0].Amount.String())
		assert.False(t, salary.Postings[0].Implicit)
		assert.Equal(t, "3000", salary.Postings[1].Amount.String())
		assert.True(t, salary.Postings[1].Implicit)

		dining := response.Transactions[2]
		assert.Equal(t, "dining", dining.Tag)
		assert.Equal(t, "pizza", dining.Text)
		assert.Equal(t, "joint", dining.Postings[0].Owner)
		assert.Equal(t, "dining", dining.Postings[0].Category)
		assert.Equal(t, "EUR", dining.Postings[0].Currency)
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		rec := get(t, mux, "/api/transactions?month=2024-13", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAPIBudgets(t *testing.T) {
	_, mux := newTestServer(t, storage.NewStatic([]byte(testLedger)))

	var response BudgetsResponse
	rec := get(t, mux, "/api/budgets", &response)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, len(response.Budgets))
	assert.Equal(t, "budget:expenses:dining", response.Budgets[0].Category)
	assert.Equal(t, "dining", response.Budgets[0].Name)
	assert.Equal(t, "300", response.Budgets[0].Amount.String())
	assert.Equal(t, ast.Monthly, response.Budgets[0].Period)
	assert.Equal(t, ast.Yearly, response.Budgets[1].Period)
}

func TestAPIAccountsAndBalances(t *testing.T) {
	_, mux := newTestServer(t, storage.NewStatic([]byte(testLedger)))

	t.Run("Accounts", func(t *testing.T) {
		var response AccountsResponse
		rec := get(t, mux, "/api/accounts", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 6, len(response.Accounts))
		assert.Equal(t, AccountInfo{Name: "equity:opening", Owner: "equity", Type: "other"}, response.Accounts[0])
		assert.Equal(t, AccountInfo{Name: "joint:assets:checking", Owner: "joint", Type: "asset", Category: "checking"}, response.Accounts[1])
		assert.Equal(t, "joint-expense", response.Accounts[2].Type)
	})

	t.Run("Balances", func(t *testing.T) {
		var response BalancesResponse
		rec := get(t, mux, "/api/balances", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, len(response.Roots))

		equity := response.Roots[0]
		assert.Equal(t, "equity", equity.Name)
		assert.Equal(t, "-1000", equity.Balance.String())

		joint := response.Roots[1]
		assert.Equal(t, "1000", joint.Balance.String())
		assert.Equal(t, 0, joint.Depth)
		assert.Equal(t, "assets", joint.Children[0].Name)
		assert.Equal(t, "joint:assets", joint.Children[0].Account)
		assert.Equal(t, "2955", joint.Children[0].Balance.String())
	})

	t.Run("BalancesInWindow", func(t *testing.T) {
		var response BalancesResponse
		rec := get(t, mux, "/api/balances?startDate=2024-02-01&endDate=2024-02-29", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2024-02-01", *response.StartDate)
		assert.Equal(t, 1, len(response.Roots))
		assert.Equal(t, "0", response.Roots[0].Balance.String())
	})

	t.Run("InvalidWindow", func(t *testing.T) {
		rec := get(t, mux, "/api/balances?startDate=2024-03-01&endDate=2024-02-01", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = get(t, mux, "/api/balances?startDate=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAPICheck(t *testing.T) {
	_, mux := newTestServer(t, storage.NewStatic([]byte(testLedger+"2024-03-05 broken\n  joint:expenses:dining  5 EUR\n  joint:assets:checking  -4 EUR\n")))

	var response CheckResponse
	rec := get(t, mux, "/api/check", &response)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, len(response.Issues))
	assert.Equal(t, "TransactionNotBalancedError", response.Issues[0].Type)
	assert.Equal(t, 18, response.Issues[0].Position.Line)
}

func TestAPISums(t *testing.T) {
	_, mux := newTestServer(t, storage.NewStatic([]byte(testLedger)))

	t.Run("Expenses", func(t *testing.T) {
		var response SumsResponse
		rec := get(t, mux, "/api/expenses?month=2024-02", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2024-02", response.Month)
		assert.Equal(t, 3, len(response.Categories))
		assert.Equal(t, "45", response.Categories["dining"].String())
		assert.Equal(t, "100", response.Categories["groceries"].String())
		assert.Equal(t, "100", response.Categories["groceries:market"].String())
		assert.Equal(t, "145", response.Total.String())
	})

	t.Run("CumulativeExpenses", func(t *testing.T) {
		var response SumsResponse
		rec := get(t, mux, "/api/expenses?month=2024-03&cumulative=true", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, response.Cumulative)
		assert.Equal(t, "1045", response.Total.String())
	})

	t.Run("Income", func(t *testing.T) {
		var response SumsResponse
		rec := get(t, mux, "/api/income?month=2024-02", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3000", response.Categories["salary"].String())
		assert.Equal(t, "3000", response.Total.String())
	})

	t.Run("DefaultsToCurrentMonth", func(t *testing.T) {
		var response SumsResponse
		rec := get(t, mux, "/api/expenses", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2024-04", response.Month)
		assert.Equal(t, 0, len(response.Categories))
	})
}

func TestAPIReports(t *testing.T) {
	_, mux := newTestServer(t, storage.NewStatic([]byte(testLedger)))

	t.Run("MonthlyBudget", func(t *testing.T) {
		var response BudgetReportResponse
		rec := get(t, mux, "/api/reports/budget?month=2024-02", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "monthly", response.Period)
		assert.Equal(t, "dining", response.Lines[0].Category)
		assert.Equal(t, "45", response.Lines[0].Spent.String())
		assert.Equal(t, "300", response.Lines[0].Budget.String())
		assert.Equal(t, "255", response.Lines[0].Remaining.String())
		assert.False(t, response.Lines[0].Over)
	})

	t.Run("YearlyBudget", func(t *testing.T) {
		var response BudgetReportResponse
		rec := get(t, mux, "/api/reports/budget?year=2024", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "yearly", response.Period)
		assert.Equal(t, 2024, response.Year)
		assert.Equal(t, 1, len(response.Lines))
		assert.Equal(t, "groceries", response.Lines[0].Category)
		assert.Equal(t, "100", response.Lines[0].Spent.String())
		assert.Equal(t, "4800", response.Lines[0].Budget.String())
	})

	t.Run("InvalidYear", func(t *testing.T) {
		rec := get(t, mux, "/api/reports/budget?year=last", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Trends", func(t *testing.T) {
		var response TrendsResponse
		rec := get(t, mux, "/api/reports/trends?month=2024-03", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2024-03", response.Month)
		assert.Equal(t, "rent", response.Trends[0].Category)
		assert.True(t, response.Trends[0].New)
		assert.True(t, response.Trends[0].Percent == nil)
	})

	t.Run("Assets", func(t *testing.T) {
		var response AssetsResponse
		rec := get(t, mux, "/api/reports/assets", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, len(response.Groups))
		assert.Equal(t, "Cash", response.Groups[0].Category)
		assert.Equal(t, "checking", response.Groups[0].Assets[0].Name)
		assert.Equal(t, "2955", response.Total.String())
		assert.Equal(t, "1000", response.Baseline.String())
		assert.Equal(t, "2024-01-01", response.BaselineDate)
		assert.Equal(t, "1955", response.Change.String())
		assert.True(t, response.Projected != nil)
	})

	t.Run("YearOverYear", func(t *testing.T) {
		var response YearOverYearResponse
		rec := get(t, mux, "/api/reports/yoy?month=2024-02", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "February", response.Month)
		assert.Equal(t, []int{2024}, response.Years)
		assert.Equal(t, 2, len(response.Lines))
		assert.Equal(t, "dining", response.Lines[0].Category)
		assert.True(t, response.Lines[0].Change == nil)
	})
}

func TestAPIStorageFailure(t *testing.T) {
	_, mux := newTestServer(t, storage.NewFile(filepath.Join(t.TempDir(), "missing.ledger")))

	for _, target := range []string{"/api/transactions", "/api/budgets", "/api/expenses", "/api/reports/assets"} {
		rec := get(t, mux, target, nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code, target)
	}
}

func TestAPIRefresh(t *testing.T) {
	src := storage.NewStatic([]byte(testLedger))
	server, mux := newTestServer(t, src)

	var before BudgetsResponse
	get(t, mux, "/api/budgets", &before)
	assert.Equal(t, 2, len(before.Budgets))

	events := server.subscribe()
	defer server.unsubscribe(events)

	src.Content = "; budget:expenses:dining: 250 monthly\n"

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response RefreshResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 0, response.Transactions)
	assert.Equal(t, 1, response.Budgets)
	assert.Equal(t, "reload", <-events)

	var after BudgetsResponse
	get(t, mux, "/api/budgets", &after)
	assert.Equal(t, "250", after.Budgets[0].Amount.String())

	t.Run("MethodNotAllowed", func(t *testing.T) {
		rec := get(t, mux, "/api/refresh", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestWatcherRefreshesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "household.ledger")
	assert.NoError(t, os.WriteFile(path, []byte(testLedger), 0o644))

	server, _ := newTestServer(t, storage.NewFile(path))
	server.WatchFile = path

	ctx := t.Context()
	_, err := server.repo.Snapshot(ctx, false)
	assert.NoError(t, err)

	events := server.subscribe()
	defer server.unsubscribe(events)

	assert.NoError(t, server.startWatcher(ctx))
	assert.NoError(t, os.WriteFile(path, []byte("; budget:expenses:dining: 100 monthly\n"), 0o644))

	select {
	case event := <-events:
		assert.Equal(t, "reload", event)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event after the ledger changed")
	}

	budgets, err := server.repo.Budgets(ctx, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(budgets))
}
