// Package report derives category reports from parsed transactions: income
// and expense totals, budget comparisons, trends, year-over-year views and
// asset balances with a year-end projection.
//
// Every function is pure over its inputs. Odd account paths never cause an
// error; data that cannot be categorized is left out and logged.
package report

import (
	"log/slog"
	"strings"
)

type options struct {
	jointOnly       bool
	excludeRent     bool
	budgeted        map[string]bool
	assetCategories []AssetCategory
	logger          *slog.Logger
}

// Option configures a report.
type Option func(*options)

// JointOnly restricts a report to accounts prefixed "joint:".
func JointOnly() Option {
	return func(o *options) {
		o.jointOnly = true
	}
}

// ExcludeRent leaves out expense accounts ending in ":rent".
func ExcludeRent() Option {
	return func(o *options) {
		o.excludeRent = true
	}
}

// BudgetedOnly restricts expenses to the given categories and their
// subcategories. Categories are compared after normalization. Calling it
// without categories excludes every expense.
func BudgetedOnly(categories ...string) Option {
	return func(o *options) {
		o.budgeted = make(map[string]bool, len(categories))
		for _, c := range categories {
			o.budgeted[NormalizeCategory(c)] = true
		}
	}
}

// WithAssetCategories replaces the default asset category table.
func WithAssetCategories(categories []AssetCategory) Option {
	return func(o *options) {
		o.assetCategories = categories
	}
}

// WithLogger sets the logger that receives categorization diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		assetCategories: DefaultAssetCategories,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) skipOwner(path string) bool {
	return o.jointOnly && !strings.HasPrefix(path, "joint:")
}

// NormalizeCategory lower-cases a category and folds every category starting
// with "travel" into "travel".
func NormalizeCategory(category string) string {
	c := strings.ToLower(category)
	if strings.HasPrefix(c, "travel") {
		return "travel"
	}
	return c
}
