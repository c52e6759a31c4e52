package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/jointledger/account"
	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/ledger"
)

// AssetCategory groups asset accounts whose path, starting at the "assets"
// segment, begins with one of the keywords.
type AssetCategory struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// DefaultAssetCategories is the category table used unless
// WithAssetCategories replaces it. Order matters: the first match wins.
var DefaultAssetCategories = []AssetCategory{
	{Name: "Cash", Keywords: []string{"assets:checking", "assets:cash", "assets:savings"}},
	{Name: "Investments", Keywords: []string{"assets:investments", "assets:brokerage", "assets:stocks"}},
	{Name: "Retirement", Keywords: []string{"assets:retirement", "assets:pension", "assets:401k", "assets:ira"}},
	{Name: "Property", Keywords: []string{"assets:property", "assets:house", "assets:real-estate", "assets:vehicle"}},
}

// OpeningBalancesMarker identifies the transaction that sets the baseline.
const OpeningBalancesMarker = "opening balances"

// Asset is one account with a positive balance.
type Asset struct {
	Account string
	// Name is the display name with the prefix shared by its group removed.
	Name    string
	Balance decimal.Decimal
}

// AssetGroup holds the assets of one category, largest balance first.
type AssetGroup struct {
	Category string
	Assets   []Asset
	Total    decimal.Decimal
}

// AssetReport summarizes asset balances against a baseline.
type AssetReport struct {
	Groups []AssetGroup
	Total  decimal.Decimal

	Baseline     decimal.Decimal
	BaselineDate *ast.Date
	Change       decimal.Decimal

	// Projected extrapolates Change linearly to the end of the year.
	// HasProjection is false on January 1.
	Projected     decimal.Decimal
	HasProjection bool
}

// AssetBalances accumulates the effective amount of every asset posting per
// full account path.
func AssetBalances(txns []*ast.Transaction) *ledger.Balances {
	balances := ledger.NewBalances()
	for _, txn := range txns {
		addAssets(balances, txn)
	}
	return balances
}

func addAssets(balances *ledger.Balances, txn *ast.Transaction) {
	for i, p := range txn.Postings {
		if account.IsAsset(p.Account) {
			balances.Add(p.Account, ledger.EffectiveAmount(txn, i))
		}
	}
}

// Assets builds the asset report as of now. Only accounts with a positive
// balance that match a category are listed and counted.
func Assets(txns []*ast.Transaction, now time.Time, opts ...Option) AssetReport {
	o := newOptions(opts)
	balances := AssetBalances(txns)

	var report AssetReport
	report.Baseline, report.BaselineDate = baseline(txns)

	groups := make(map[string]*AssetGroup)
	for _, acct := range balances.Accounts() {
		if o.skipOwner(acct) {
			continue
		}
		balance := balances.Get(acct)
		if !balance.IsPositive() {
			continue
		}
		category, ok := categorize(acct, o.assetCategories)
		if !ok {
			o.logger.Warn("asset account matches no category", "account", acct, "balance", balance.String())
			continue
		}
		g, ok := groups[category]
		if !ok {
			g = &AssetGroup{Category: category}
			groups[category] = g
		}
		g.Assets = append(g.Assets, Asset{Account: acct, Name: displayName(acct), Balance: balance})
		g.Total = g.Total.Add(balance)
		report.Total = report.Total.Add(balance)
	}

	for _, c := range o.assetCategories {
		g, ok := groups[c.Name]
		if !ok {
			continue
		}
		slices.SortStableFunc(g.Assets, func(a, b Asset) int {
			return b.Balance.Cmp(a.Balance)
		})
		names := make([]string, len(g.Assets))
		for i, a := range g.Assets {
			names[i] = a.Name
		}
		for i, name := range StripCommonPrefix(names) {
			g.Assets[i].Name = name
		}
		report.Groups = append(report.Groups, *g)
		delete(groups, c.Name)
	}

	report.Change = report.Total.Sub(report.Baseline)
	report.Projected, report.HasProjection = Project(report.Total, report.Baseline, now.YearDay()-1, daysInYear(now.Year()))
	return report
}

// baseline walks the transactions in file order and returns the positive
// asset total accumulated up to and including the first opening balances
// transaction. Without one it falls back to the positive total of
// everything dated before January 1 of the latest year in the ledger.
func baseline(txns []*ast.Transaction) (decimal.Decimal, *ast.Date) {
	balances := ledger.NewBalances()
	latestYear := 0
	for _, txn := range txns {
		addAssets(balances, txn)
		if strings.Contains(strings.ToLower(txn.Description), OpeningBalancesMarker) {
			return balances.PositiveTotal(), txn.Date
		}
		if !txn.Date.IsZero() && txn.Date.Year() > latestYear {
			latestYear = txn.Date.Year()
		}
	}

	if latestYear == 0 {
		return decimal.Zero, nil
	}
	cutoff := time.Date(latestYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	balances = ledger.NewBalances()
	for _, txn := range txns {
		if !txn.Date.IsZero() && txn.Date.Before(cutoff) {
			addAssets(balances, txn)
		}
	}
	return balances.PositiveTotal(), ast.NewDateFromTime(cutoff)
}

func categorize(acct string, categories []AssetCategory) (string, bool) {
	path := strings.ToLower(account.AssetPath(acct))
	for _, c := range categories {
		for _, keyword := range c.Keywords {
			if strings.HasPrefix(path, strings.ToLower(keyword)) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// displayName joins the segments after "assets" with spaces and names the
// owner of personal accounts: "alice:assets:savings:bonus" becomes
// "savings bonus (alice)".
func displayName(acct string) string {
	segments := account.Segments(account.AssetPath(acct))
	name := strings.Join(segments[1:], " ")
	if owner := account.Owner(acct); owner != "joint" && owner != account.AssetsSegment {
		name += " (" + owner + ")"
	}
	return name
}

// Project extrapolates the change from baseline to total linearly over the
// rest of the year. It reports false when no day has elapsed yet.
func Project(total, baseline decimal.Decimal, elapsedDays, daysInYear int) (decimal.Decimal, bool) {
	if elapsedDays <= 0 {
		return decimal.Zero, false
	}
	rate := total.Sub(baseline).Div(decimal.NewFromInt(int64(elapsedDays)))
	remaining := decimal.NewFromInt(int64(daysInYear - elapsedDays))
	return total.Add(rate.Mul(remaining)), true
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
