package account

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path         string
		jointExpense bool
		jointIncome  bool
		category     string
		subcategory  string
		owner        string
	}{
		{"joint:expenses:dining", true, false, "dining", "dining", "joint"},
		{"joint:expenses:travel:flights", true, false, "travel:flights", "travel", "joint"},
		{"joint:income:salary", false, true, "salary", "", "joint"},
		{"joint:assets:checking", false, false, "checking", "", "joint"},
		{"alice:expenses:clothes", false, false, "", "", "alice"},
		{"joint:expenses", false, false, "", "", "joint"},
		{"joint", false, false, "", "", "joint"},
		{"", false, false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.jointExpense, IsJointExpense(tt.path))
			assert.Equal(t, tt.jointIncome, IsJointIncome(tt.path))
			assert.Equal(t, tt.category, Category(tt.path))
			assert.Equal(t, tt.subcategory, Subcategory(tt.path))
			assert.Equal(t, tt.owner, Owner(tt.path))
		})
	}
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, []string{"a", "a:b", "a:b:c"}, Prefixes("a:b:c"))
	assert.Equal(t, []string{"dining"}, Prefixes("dining"))
	assert.Equal(t, []string{}, Prefixes(""))
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "dining", LastSegment("joint:expenses:dining"))
	assert.Equal(t, "dining", LastSegment("dining"))
	assert.Equal(t, "", LastSegment("joint:"))
}

func TestAssets(t *testing.T) {
	tests := []struct {
		path      string
		isAsset   bool
		assetPath string
	}{
		{"joint:assets:checking", true, "assets:checking"},
		{"assets:cash", true, "assets:cash"},
		{"alice:assets:investments:etf", true, "assets:investments:etf"},
		{"joint:expenses:assets", false, "assets"},
		{"joint:expenses:dining", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.isAsset, IsAsset(tt.path))
			assert.Equal(t, tt.assetPath, AssetPath(tt.path))
		})
	}
}

func TestIncomeCategory(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"joint:income:salary", "salary", true},
		{"income:gifts", "gifts", true},
		{"alice:income:bonus", "bonus", true},
		{"joint:joint:income:interest", "interest", true},
		{"joint:expenses:dining", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := IncomeCategory(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpenseCategory(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"joint:expenses:dining", "dining", true},
		{"expenses:rent", "rent", true},
		{"alice:expenses:travel:flights", "travel:flights", true},
		{"joint:income:salary", "", false},
		{"joint:expenses:", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ExpenseCategory(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
