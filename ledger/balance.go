package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Balances tracks a running balance per account path. The zero value is not
// usable; create one with NewBalances.
type Balances struct {
	entries map[string]decimal.Decimal
}

// NewBalances creates an empty set of balances.
func NewBalances() *Balances {
	return &Balances{entries: make(map[string]decimal.Decimal)}
}

// Get returns the balance of an account, or zero if it was never touched.
func (b *Balances) Get(account string) decimal.Decimal {
	return b.entries[account]
}

// Add adds an amount to an account balance.
func (b *Balances) Add(account string, amount decimal.Decimal) {
	b.entries[account] = b.entries[account].Add(amount)
}

// Len returns the number of accounts with a balance.
func (b *Balances) Len() int {
	return len(b.entries)
}

// Accounts returns every account with a balance, sorted by path.
func (b *Balances) Accounts() []string {
	accounts := make([]string, 0, len(b.entries))
	for account := range b.entries {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

// PositiveTotal sums the balances that are greater than zero.
func (b *Balances) PositiveTotal() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range b.entries {
		if amount.IsPositive() {
			total = total.Add(amount)
		}
	}
	return total
}

// Copy creates a deep copy of these balances.
func (b *Balances) Copy() *Balances {
	if b == nil {
		return NewBalances()
	}
	entries := make(map[string]decimal.Decimal, len(b.entries))
	for account, amount := range b.entries {
		entries[account] = amount
	}
	return &Balances{entries: entries}
}

// String returns a human-readable representation, one account per line.
func (b *Balances) String() string {
	if len(b.entries) == 0 {
		return "(empty)"
	}

	var parts []string
	for _, account := range b.Accounts() {
		parts = append(parts, account+" "+b.entries[account].String())
	}
	return strings.Join(parts, "\n")
}
