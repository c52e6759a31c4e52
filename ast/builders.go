package ast

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewAmount creates a new Amount from a decimal string and currency.
// The currency may be empty. An unparsable value yields a zero amount that
// still remembers the raw spelling.
//
// Example:
//
//	amount := ast.NewAmount("45.60", "EUR")
func NewAmount(value, currency string) *Amount {
	d, err := decimal.NewFromString(value)
	if err != nil {
		d = decimal.Zero
	}
	return &Amount{
		Value:    d,
		Currency: currency,
		Raw:      value,
	}
}

// NewDate parses a date string in YYYY-MM-DD or YYYY/MM/DD format.
// Returns an error if the string cannot be parsed as a valid date.
//
// Example:
//
//	date, err := ast.NewDate("2024-01-15")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewDate(s string) (*Date, error) {
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &Date{Time: t}, nil
}

// NewDateFromTime creates a Date from a time.Time value.
// The time is truncated to the calendar day in UTC.
func NewDateFromTime(t time.Time) *Date {
	return &Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MustDate is like NewDate but panics on error. Intended for tests and
// generated data.
func MustDate(s string) *Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TransactionOption is a functional option for configuring a Transaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a new Transaction with the given date and description.
// Additional fields can be set using functional options.
//
// Example:
//
//	txn := ast.NewTransaction(date, "groceries | weekly shop",
//	    ast.WithPostings(
//	        ast.NewPosting("joint:expenses:food", ast.WithAmount("45.60", "EUR")),
//	        ast.NewPosting("joint:assets:checking"),
//	    ),
//	)
func NewTransaction(date *Date, description string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:        date,
		Description: description,
	}

	for _, opt := range opts {
		opt(txn)
	}

	return txn
}

// WithPostings sets the postings for the transaction.
func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) {
		t.Postings = postings
	}
}

// WithNote sets the transaction note.
func WithNote(note string) TransactionOption {
	return func(t *Transaction) {
		t.Note = note
	}
}

// WithPosition records where the transaction header was found.
func WithPosition(pos Position) TransactionOption {
	return func(t *Transaction) {
		t.Pos = pos
	}
}

// PostingOption is a functional option for configuring a Posting.
type PostingOption func(*Posting)

// NewPosting creates a new Posting for the given account. Without options the
// posting is implicit.
func NewPosting(account string, opts ...PostingOption) *Posting {
	posting := &Posting{
		Account: account,
	}

	for _, opt := range opts {
		opt(posting)
	}

	return posting
}

// WithAmount sets the amount for a posting.
func WithAmount(value, currency string) PostingOption {
	return func(p *Posting) {
		p.Amount = NewAmount(value, currency)
	}
}

// NewBudget creates a Budget declaration.
//
// Example:
//
//	b := ast.NewBudget("expenses:dining", decimal.NewFromInt(300), ast.Monthly)
func NewBudget(category string, amount decimal.Decimal, period Period) *Budget {
	return &Budget{
		Category: category,
		Amount:   amount,
		Period:   period,
	}
}
