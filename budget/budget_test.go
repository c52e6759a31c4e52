package budget

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/parser"
)

func TestResolve(t *testing.T) {
	m := NewMatcher([]*ast.Budget{
		ast.NewBudget("budget:expenses:dining", decimal.NewFromInt(300), ast.Monthly),
		ast.NewBudget("budget:expenses:travel:flights", decimal.NewFromInt(1200), ast.Yearly),
		ast.NewBudget("budget:expenses:home:garden", decimal.NewFromInt(40), ast.Monthly),
		ast.NewBudget("budget:expenses:garden", decimal.NewFromInt(99), ast.Monthly),
	})

	tests := []struct {
		name     string
		category string
		period   ast.Period
		want     int64
	}{
		{"Exact", "dining", ast.Monthly, 300},
		{"NoBudget", "rent", ast.Monthly, 0},
		{"WrongPeriod", "dining", ast.Yearly, 0},
		{"ExactYearly", "travel:flights", ast.Yearly, 1200},
		{"LastSegmentFallback", "flights", ast.Yearly, 1200},
		{"QueryWithParent", "vacation:flights", ast.Yearly, 1200},
		{"ExactBeatsSuffix", "garden", ast.Monthly, 99},
		{"FirstSuffixWins", "outdoor:garden", ast.Monthly, 40},
		{"Empty", "", ast.Monthly, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Resolve(tt.category, tt.period)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestResolveFromParsedBudgets(t *testing.T) {
	m := NewMatcher(parser.ParseBudgets("; budget: expenses:dining: 300 monthly\n"))

	assert.True(t, m.Resolve("dining", ast.Monthly).Equal(decimal.NewFromInt(300)))
	assert.True(t, m.Resolve("rent", ast.Monthly).IsZero())
}

func TestCategories(t *testing.T) {
	m := NewMatcher([]*ast.Budget{
		ast.NewBudget("budget:expenses:Dining", decimal.NewFromInt(300), ast.Monthly),
		ast.NewBudget("budget:expenses:groceries", decimal.NewFromInt(400), ast.Monthly),
		ast.NewBudget("budget:expenses:dining", decimal.NewFromInt(1), ast.Monthly),
		ast.NewBudget("budget:expenses:travel", decimal.NewFromInt(2400), ast.Yearly),
	})

	assert.Equal(t, []string{"dining", "groceries"}, m.Categories(ast.Monthly))
	assert.Equal(t, []string{"travel"}, m.Categories(ast.Yearly))
	assert.Equal(t, 3, len(m.Budgets(ast.Monthly)))
}

func TestEmptyMatcher(t *testing.T) {
	m := NewMatcher(nil)

	assert.True(t, m.Resolve("dining", ast.Monthly).IsZero())
	assert.Equal(t, 0, len(m.Categories(ast.Monthly)))
}
