// Package formatter renders a parsed ledger back to text with amounts
// aligned on a common column.
package formatter

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/parser"
)

const (
	// DefaultIndentation is the indentation for postings and notes.
	DefaultIndentation = 4

	// MinimumSpacing is the minimum number of spaces between an account and
	// its amount.
	MinimumSpacing = 2
)

// Formatter handles formatting of ledger files with proper alignment.
type Formatter struct {
	// AmountColumn is the display column where amounts end. If 0, it is
	// computed from the widest account and amount in the ledger.
	AmountColumn int

	// Indentation is the number of spaces before postings and notes.
	Indentation int
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithAmountColumn sets a fixed column for right-aligning amounts.
func WithAmountColumn(col int) Option {
	return func(f *Formatter) {
		f.AmountColumn = col
	}
}

// WithIndentation sets the indentation of postings and notes.
func WithIndentation(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.Indentation = n
		}
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{Indentation: DefaultIndentation}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format writes budgets first, then every transaction separated by a blank
// line. Budgets that are also declared inside a transaction note stay in the
// note and are not repeated at the top.
func (f *Formatter) Format(tree *ast.AST, w io.Writer) error {
	var buf strings.Builder

	column := f.AmountColumn
	if column == 0 {
		column = f.amountColumn(tree)
	}

	budgets := f.topLevelBudgets(tree)
	for _, b := range budgets {
		formatBudget(b, &buf)
	}

	for i, txn := range tree.Transactions {
		if i > 0 || len(budgets) > 0 {
			buf.WriteByte('\n')
		}
		f.formatTransaction(txn, column, &buf)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// String formats tree and returns the result.
func (f *Formatter) String(tree *ast.AST) string {
	var sb strings.Builder
	_ = f.Format(tree, &sb)
	return sb.String()
}

// amountColumn returns the column where the widest posting would end with
// minimal spacing.
func (f *Formatter) amountColumn(tree *ast.AST) int {
	column := 0
	for _, txn := range tree.Transactions {
		for _, p := range txn.Postings {
			if p.Amount == nil {
				continue
			}
			width := f.Indentation + runewidth.StringWidth(p.Account) + MinimumSpacing + runewidth.StringWidth(rawValue(p.Amount))
			column = max(column, width)
		}
	}
	return column
}

func (f *Formatter) topLevelBudgets(tree *ast.AST) []*ast.Budget {
	inNotes := make(map[string]int)
	for _, txn := range tree.Transactions {
		if txn.Note == "" {
			continue
		}
		for _, b := range parser.ParseBudgets(noteAsComments(txn.Note)) {
			inNotes[budgetKey(b)]++
		}
	}

	var out []*ast.Budget
	for _, b := range tree.Budgets {
		key := budgetKey(b)
		if inNotes[key] > 0 {
			inNotes[key]--
			continue
		}
		out = append(out, b)
	}
	return out
}

func budgetKey(b *ast.Budget) string {
	return b.Category + "|" + b.Amount.String() + "|" + b.Period.String()
}

func noteAsComments(note string) string {
	lines := strings.Split(note, "\n")
	for i, line := range lines {
		lines[i] = "; " + line
	}
	return strings.Join(lines, "\n")
}

// formatBudget writes the compact directive form:
// "; budget:expenses:dining: 300 monthly".
func formatBudget(b *ast.Budget, buf *strings.Builder) {
	buf.WriteString("; ")
	buf.WriteString(b.Category)
	buf.WriteString(": ")
	buf.WriteString(b.Amount.String())
	buf.WriteByte(' ')
	buf.WriteString(b.Period.String())
	buf.WriteByte('\n')
}

func (f *Formatter) formatTransaction(t *ast.Transaction, column int, buf *strings.Builder) {
	indent := strings.Repeat(" ", f.Indentation)

	buf.WriteString(t.Date.String())
	if t.Description != "" {
		buf.WriteByte(' ')
		buf.WriteString(t.Description)
	}
	buf.WriteByte('\n')

	if t.Note != "" {
		for _, line := range strings.Split(t.Note, "\n") {
			buf.WriteString(indent)
			buf.WriteByte(';')
			if line != "" {
				buf.WriteByte(' ')
				buf.WriteString(line)
			}
			buf.WriteByte('\n')
		}
	}

	for _, p := range t.Postings {
		buf.WriteString(indent)
		buf.WriteString(p.Account)
		if p.Amount != nil {
			f.formatAmountAligned(p.Amount, f.Indentation+runewidth.StringWidth(p.Account), column, buf)
		}
		buf.WriteByte('\n')
	}
}

// formatAmountAligned right-aligns the amount value on column and appends
// the currency.
func (f *Formatter) formatAmountAligned(amount *ast.Amount, currentWidth, column int, buf *strings.Builder) {
	value := rawValue(amount)

	padding := column - currentWidth - runewidth.StringWidth(value)
	if padding < MinimumSpacing {
		padding = MinimumSpacing
	}

	buf.WriteString(strings.Repeat(" ", padding))
	buf.WriteString(value)
	if amount.Currency != "" {
		buf.WriteByte(' ')
		buf.WriteString(amount.Currency)
	}
}

func rawValue(a *ast.Amount) string {
	if a.Raw != "" {
		return a.Raw
	}
	return a.Value.String()
}
