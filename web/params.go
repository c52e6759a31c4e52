package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/budget"
	"github.com/robinvdvleuten/jointledger/ledger"
	"github.com/robinvdvleuten/jointledger/report"
	"github.com/robinvdvleuten/jointledger/repository"
)

// MonthLayout is the format of the month query parameter.
const MonthLayout = "2006-01"

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// snapshot returns the cached ledger, writing an error response when it
// cannot be loaded.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*repository.Snapshot, bool) {
	snap, err := s.repo.Snapshot(r.Context(), false)
	if err != nil {
		s.Logger.Error("failed to load ledger", "path", r.URL.Path, "error", err)
		http.Error(w, "failed to load ledger: "+err.Error(), http.StatusBadGateway)
		return nil, false
	}
	return snap, true
}

// parseMonth reads the month query parameter (YYYY-MM). It defaults to the
// current month.
func (s *Server) parseMonth(r *http.Request) (time.Time, error) {
	param := r.URL.Query().Get("month")
	if param == "" {
		return ledger.MonthStart(s.now()), nil
	}
	month, err := time.Parse(MonthLayout, param)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month format (expected YYYY-MM): %s", param)
	}
	return month, nil
}

// parseYear reads the year query parameter. It defaults to the current year.
func (s *Server) parseYear(r *http.Request) (int, error) {
	param := r.URL.Query().Get("year")
	if param == "" {
		return s.now().Year(), nil
	}
	year, err := strconv.Atoi(param)
	if err != nil || year < 1 {
		return 0, fmt.Errorf("invalid year: %s", param)
	}
	return year, nil
}

func parseDateParam(r *http.Request, name string) (*ast.Date, error) {
	param := r.URL.Query().Get(name)
	if param == "" {
		return nil, nil
	}
	d, err := ast.NewDate(param)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format (expected YYYY-MM-DD): %s", name, param)
	}
	return d, nil
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// reportOptions maps the joint, excludeRent and budgeted query flags to
// report options.
func (s *Server) reportOptions(r *http.Request, budgets []*ast.Budget) []report.Option {
	opts := []report.Option{report.WithLogger(s.Logger)}
	if s.AssetCategories != nil {
		opts = append(opts, report.WithAssetCategories(s.AssetCategories))
	}
	if queryBool(r, "joint") {
		opts = append(opts, report.JointOnly())
	}
	if queryBool(r, "excludeRent") {
		opts = append(opts, report.ExcludeRent())
	}
	if queryBool(r, "budgeted") {
		opts = append(opts, report.BudgetedOnly(budget.NewMatcher(budgets).Categories(ast.Monthly)...))
	}
	return opts
}
