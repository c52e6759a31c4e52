package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/parser"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(date string, postings ...*ast.Posting) *ast.Transaction {
	return ast.NewTransaction(ast.MustDate(date), "test", ast.WithPostings(postings...))
}

func explicit(account, value string) *ast.Posting {
	return ast.NewPosting(account, ast.WithAmount(value, "EUR"))
}

func implicit(account string) *ast.Posting {
	return ast.NewPosting(account)
}

func TestEffectiveAmount(t *testing.T) {
	tests := []struct {
		name string
		txn  *ast.Transaction
		want []string
	}{
		{
			name: "AllExplicit",
			txn:  txn("2024-01-01", explicit("a", "15"), explicit("b", "-15")),
			want: []string{"15", "-15"},
		},
		{
			name: "OneImplicit",
			txn:  txn("2024-01-01", explicit("a", "15.50"), implicit("b")),
			want: []string{"15.5", "-15.5"},
		},
		{
			name: "ImplicitFirst",
			txn:  txn("2024-01-01", implicit("a"), explicit("b", "-20")),
			want: []string{"20", "-20"},
		},
		{
			// Only the first explicit amount is mirrored.
			name: "SeveralExplicit",
			txn:  txn("2024-01-01", explicit("a", "10"), explicit("b", "5"), implicit("c")),
			want: []string{"10", "5", "-10"},
		},
		{
			name: "TwoImplicit",
			txn:  txn("2024-01-01", explicit("a", "10"), implicit("b"), implicit("c")),
			want: []string{"10", "-10", "-10"},
		},
		{
			name: "NothingExplicit",
			txn:  txn("2024-01-01", implicit("a"), implicit("b")),
			want: []string{"0", "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, EffectiveAmount(tt.txn, i).String())
			}
		})
	}
}

func TestEffectiveAmountOutOfRange(t *testing.T) {
	tx := txn("2024-01-01", explicit("a", "1"))
	assert.True(t, EffectiveAmount(tx, -1).IsZero())
	assert.True(t, EffectiveAmount(tx, 5).IsZero())
}

// For any transaction with exactly one implicit posting, the effective
// amounts of a parsed transaction sum to zero when the implicit posting has a
// single explicit counterpart.
func TestBalancingProperty(t *testing.T) {
	inputs := []string{
		"2024-01-05 Coffee shop\n    joint:expenses:dining  15.00 USD\n    joint:assets:checking\n",
		"2024-01-05 Salary\n    joint:assets:checking\n    joint:income:salary  -3200.10 EUR\n",
		"2024-01-05 Refund\n    joint:expenses:dining  -4.99\n    joint:assets:checking\n",
	}

	for _, input := range inputs {
		for _, tx := range parser.Parse(input) {
			assert.Equal(t, 1, ImplicitCount(tx))
			assert.True(t, Residual(tx).IsZero())
			assert.True(t, BalancingAmount(tx).Equal(EffectiveAmount(tx, implicitIndex(tx))))
		}
	}
}

func implicitIndex(tx *ast.Transaction) int {
	for i, p := range tx.Postings {
		if p.Amount == nil {
			return i
		}
	}
	return -1
}

func TestExplicitSum(t *testing.T) {
	tx := txn("2024-01-01", explicit("a", "10"), explicit("b", "2.5"), implicit("c"))

	assert.True(t, ExplicitSum(tx, -1).Equal(dec("12.5")))
	assert.True(t, ExplicitSum(tx, 0).Equal(dec("2.5")))
	assert.True(t, BalancingAmount(tx).Equal(dec("-12.5")))
}

func TestBalances(t *testing.T) {
	b := NewBalances()
	b.Add("joint:assets:savings", dec("100"))
	b.Add("joint:assets:checking", dec("-15"))
	b.Add("joint:assets:savings", dec("50"))

	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Get("joint:assets:savings").Equal(dec("150")))
	assert.True(t, b.Get("unknown").IsZero())
	assert.Equal(t, []string{"joint:assets:checking", "joint:assets:savings"}, b.Accounts())
	assert.True(t, b.PositiveTotal().Equal(dec("150")))

	c := b.Copy()
	c.Add("joint:assets:savings", dec("1"))
	assert.True(t, b.Get("joint:assets:savings").Equal(dec("150")))
	assert.True(t, c.Get("joint:assets:savings").Equal(dec("151")))

	assert.Equal(t, "joint:assets:checking -15\njoint:assets:savings 150", b.String())
	assert.Equal(t, "(empty)", NewBalances().String())
}

func TestWindows(t *testing.T) {
	txns := []*ast.Transaction{
		txn("2023-12-31", explicit("a", "1")),
		txn("2024-01-15", explicit("a", "1")),
		txn("2024-02-01", explicit("a", "1")),
		txn("2024-02-29", explicit("a", "1")),
		txn("2024-03-01", explicit("a", "1")),
	}
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, len(FilterMonth(txns, feb)))
	assert.Equal(t, 4, len(FilterYear(txns, 2024)))
	assert.Equal(t, 3, len(FilterYearToMonth(txns, feb)))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(feb))

	months := DistinctMonths(txns)
	assert.Equal(t, 4, len(months))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), months[0])
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), months[3])
}

func TestSortByDateDesc(t *testing.T) {
	a := ast.NewTransaction(ast.MustDate("2024-01-01"), "a")
	b1 := ast.NewTransaction(ast.MustDate("2024-01-02"), "b1")
	b2 := ast.NewTransaction(ast.MustDate("2024-01-02"), "b2")
	input := []*ast.Transaction{a, b1, b2}

	sorted := SortByDateDesc(input)

	assert.Equal(t, []*ast.Transaction{b1, b2, a}, sorted)
	assert.Equal(t, a, input[0])
}

func TestCheck(t *testing.T) {
	input := `2024-01-01 balanced
    joint:expenses:dining  10 EUR
    joint:assets:checking
2024-01-02 empty
2024-01-03 two implicit
    joint:expenses:dining  10 EUR
    joint:assets:checking
    alice:assets:cash
2024-01-04 unbalanced
    joint:expenses:dining  10 EUR
    joint:assets:checking  -9 EUR
`
	tree := parser.ParseBytesWithFilename(context.Background(), "joint.ledger", []byte(input))
	issues := Check(context.Background(), tree)

	assert.Equal(t, 3, len(issues))

	_, ok := issues[0].(*EmptyTransactionError)
	assert.True(t, ok)
	assert.Equal(t, 4, issues[0].GetPosition().Line)

	under, ok := issues[1].(*UnderdeterminedTransactionError)
	assert.True(t, ok)
	assert.Equal(t, 2, under.Implicit)

	unbalanced, ok := issues[2].(*TransactionNotBalancedError)
	assert.True(t, ok)
	assert.Equal(t, "1", unbalanced.Residual)
	assert.Equal(t, "joint.ledger:9: Transaction does not balance: (1)", unbalanced.Error())
	assert.Equal(t, "unbalanced", issues[2].GetTransaction().Description)
}

func TestCheckErrorWithoutFilename(t *testing.T) {
	tree := &ast.AST{Transactions: []*ast.Transaction{ast.NewTransaction(ast.MustDate("2024-05-01"), "nothing")}}
	issues := Check(context.Background(), tree)

	assert.Equal(t, 1, len(issues))
	assert.True(t, strings.HasPrefix(issues[0].Error(), "2024-05-01: "))
}
