package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/report"
)

// SumsResponse is the JSON response for the expenses and income endpoints.
// Categories accumulate under every prefix, so Total only adds the top-level
// ones.
type SumsResponse struct {
	Month      string                     `json:"month"`
	Cumulative bool                       `json:"cumulative,omitempty"`
	Categories map[string]decimal.Decimal `json:"categories"`
	Total      decimal.Decimal            `json:"total"`
}

func newSumsResponse(month time.Time, sums map[string]decimal.Decimal) *SumsResponse {
	response := &SumsResponse{Month: month.Format(MonthLayout), Categories: sums}
	for category, amount := range sums {
		if !strings.Contains(category, ":") {
			response.Total = response.Total.Add(amount)
		}
	}
	return response
}

type monthlySums func(ctx context.Context, month time.Time) (map[string]decimal.Decimal, error)

func (s *Server) serveSums(w http.ResponseWriter, r *http.Request, fetch monthlySums, cumulative bool) {
	month, err := s.parseMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sums, err := fetch(r.Context(), month)
	if err != nil {
		s.Logger.Error("failed to load ledger", "path", r.URL.Path, "error", err)
		http.Error(w, "failed to load ledger: "+err.Error(), http.StatusBadGateway)
		return
	}

	response := newSumsResponse(month, sums)
	response.Cumulative = cumulative
	writeJSONResponse(w, response)
}

// handleGetExpenses handles GET requests to /api/expenses.
//
// Query parameters:
//   - month: YYYY-MM, defaults to the current month.
//   - cumulative: when true, sums January 1 through the end of month.
func (s *Server) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	if queryBool(r, "cumulative") {
		s.serveSums(w, r, s.repo.CumulativeMonthlyExpenses, true)
		return
	}
	s.serveSums(w, r, s.repo.MonthlyExpenses, false)
}

// handleGetIncome handles GET requests to /api/income.
func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	s.serveSums(w, r, s.repo.MonthlyIncome, false)
}

// BudgetReportResponse is the JSON response for the budget report.
type BudgetReportResponse struct {
	Period string           `json:"period"`
	Month  string           `json:"month,omitempty"`
	Year   int              `json:"year,omitempty"`
	Lines  []BudgetLineJSON `json:"lines"`
}

// BudgetLineJSON is one spent/budget pair.
type BudgetLineJSON struct {
	Category  string          `json:"category"`
	Spent     decimal.Decimal `json:"spent"`
	Budget    decimal.Decimal `json:"budget"`
	Remaining decimal.Decimal `json:"remaining"`
	Over      bool            `json:"over"`
}

func convertBudgetLines(lines []report.BudgetLine) []BudgetLineJSON {
	out := make([]BudgetLineJSON, len(lines))
	for i, l := range lines {
		out[i] = BudgetLineJSON{
			Category:  l.Category,
			Spent:     l.Spent,
			Budget:    l.Budget,
			Remaining: l.Remaining(),
			Over:      l.Over(),
		}
	}
	return out
}

// handleBudgetReport handles GET requests to /api/reports/budget.
//
// Query parameters:
//   - year: compare the whole year against yearly budgets.
//   - month: YYYY-MM, compare one month against monthly budgets (default).
//   - joint, excludeRent, budgeted: expense filters for the monthly report.
func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("year") != "" {
		year, err := s.parseYear(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSONResponse(w, &BudgetReportResponse{
			Period: "yearly",
			Year:   year,
			Lines:  convertBudgetLines(report.CompareYearly(snap.Transactions, snap.Budgets, year)),
		})
		return
	}

	month, err := s.parseMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lines := report.CompareMonthly(snap.Transactions, snap.Budgets, month, s.reportOptions(r, snap.Budgets)...)
	writeJSONResponse(w, &BudgetReportResponse{
		Period: "monthly",
		Month:  month.Format(MonthLayout),
		Lines:  convertBudgetLines(lines),
	})
}

// TrendsResponse is the JSON response for the trends report.
type TrendsResponse struct {
	Month  string      `json:"month"`
	Trends []TrendJSON `json:"trends"`
}

// TrendJSON is one category whose spending moved. Percent is omitted for new
// categories.
type TrendJSON struct {
	Category        string           `json:"category"`
	Current         decimal.Decimal  `json:"current"`
	PreviousAverage decimal.Decimal  `json:"previousAverage"`
	Percent         *decimal.Decimal `json:"percent,omitempty"`
	New             bool             `json:"new"`
}

// handleTrendsReport handles GET requests to /api/reports/trends.
func (s *Server) handleTrendsReport(w http.ResponseWriter, r *http.Request) {
	month, err := s.parseMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	trends := report.Trends(snap.Transactions, month, s.reportOptions(r, snap.Budgets)...)
	response := &TrendsResponse{Month: month.Format(MonthLayout), Trends: make([]TrendJSON, len(trends))}
	for i, t := range trends {
		tj := TrendJSON{
			Category:        t.Category,
			Current:         t.Current,
			PreviousAverage: t.PreviousAverage,
			New:             t.Unbounded,
		}
		if !t.Unbounded {
			pct := t.Percent.Round(1)
			tj.Percent = &pct
		}
		response.Trends[i] = tj
	}
	writeJSONResponse(w, response)
}

// AssetsResponse is the JSON response for the assets report.
type AssetsResponse struct {
	Groups       []AssetGroupJSON `json:"groups"`
	Total        decimal.Decimal  `json:"total"`
	Baseline     decimal.Decimal  `json:"baseline"`
	BaselineDate string           `json:"baselineDate,omitempty"`
	Change       decimal.Decimal  `json:"change"`
	Projected    *decimal.Decimal `json:"projected,omitempty"`
}

// AssetGroupJSON is one asset category.
type AssetGroupJSON struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Assets   []AssetJSON     `json:"assets"`
}

// AssetJSON is one asset account.
type AssetJSON struct {
	Account string          `json:"account"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// handleAssetsReport handles GET requests to /api/reports/assets.
//
// Query parameters:
//   - joint: only joint accounts.
func (s *Server) handleAssetsReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	ar := report.Assets(snap.Transactions, s.now(), s.reportOptions(r, snap.Budgets)...)
	response := &AssetsResponse{
		Groups:       make([]AssetGroupJSON, len(ar.Groups)),
		Total:        ar.Total,
		Baseline:     ar.Baseline,
		BaselineDate: ar.BaselineDate.String(),
		Change:       ar.Change,
	}
	if ar.HasProjection {
		response.Projected = &ar.Projected
	}
	for i, g := range ar.Groups {
		gj := AssetGroupJSON{Category: g.Category, Total: g.Total, Assets: make([]AssetJSON, len(g.Assets))}
		for j, a := range g.Assets {
			gj.Assets[j] = AssetJSON{Account: a.Account, Name: a.Name, Balance: a.Balance}
		}
		response.Groups[i] = gj
	}
	writeJSONResponse(w, response)
}

// YearOverYearResponse is the JSON response for the year-over-year report.
type YearOverYearResponse struct {
	Month string                 `json:"month"`
	Years []int                  `json:"years"`
	Lines []YearOverYearLineJSON `json:"lines"`
}

// YearOverYearLineJSON is one category. Amounts is aligned with Years.
type YearOverYearLineJSON struct {
	Category string            `json:"category"`
	Amounts  []decimal.Decimal `json:"amounts"`
	Change   *decimal.Decimal  `json:"change,omitempty"`
}

// handleYearOverYearReport handles GET requests to /api/reports/yoy.
func (s *Server) handleYearOverYearReport(w http.ResponseWriter, r *http.Request) {
	month, err := s.parseMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	yoy := report.YearOverYearReport(snap.Transactions, month, s.reportOptions(r, snap.Budgets)...)
	response := &YearOverYearResponse{
		Month: yoy.Month.String(),
		Years: yoy.Years,
		Lines: make([]YearOverYearLineJSON, len(yoy.Lines)),
	}
	if response.Years == nil {
		response.Years = []int{}
	}
	for i, l := range yoy.Lines {
		lj := YearOverYearLineJSON{Category: l.Category, Amounts: l.Amounts}
		if l.HasChange {
			change := l.Change.Round(1)
			lj.Change = &change
		}
		response.Lines[i] = lj
	}
	writeJSONResponse(w, response)
}
