// Package parser turns joint ledger text into an ast.AST.
//
// Parsing is total: it never fails. Lines that match no pattern are skipped,
// so a partially malformed ledger still yields every well-formed transaction
// and budget it contains.
package parser

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/telemetry"
)

// Parse returns the transactions in text, in file order.
func Parse(text string) []*ast.Transaction {
	return ParseString(context.Background(), text).Transactions
}

// ParseBudgets returns the budget declarations in text, in file order.
func ParseBudgets(text string) []*ast.Budget {
	return ParseString(context.Background(), text).Budgets
}

// ParseString parses a ledger held in a string.
func ParseString(ctx context.Context, text string) *ast.AST {
	return parse(ctx, "", text)
}

// ParseBytes parses a ledger held in a byte slice.
func ParseBytes(ctx context.Context, data []byte) *ast.AST {
	return parse(ctx, "", string(data))
}

// ParseBytesWithFilename parses a ledger and records filename in the position
// of every transaction.
func ParseBytesWithFilename(ctx context.Context, filename string, data []byte) *ast.AST {
	return parse(ctx, filename, string(data))
}

type parser struct {
	filename string
	interner *Interner
	result   *ast.AST

	open *ast.Transaction
	note []string
}

func parse(ctx context.Context, filename, text string) *ast.AST {
	timer := telemetry.StartTimer(ctx, "parser.parse")
	defer timer.End()

	p := &parser{
		filename: filename,
		interner: NewInterner(64),
		result:   &ast.AST{},
	}

	lineno := 0
	for len(text) > 0 {
		var line string
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			line, text = text, ""
		}
		lineno++
		p.line(strings.TrimSuffix(line, "\r"), lineno)
	}
	p.closeTransaction()

	return p.result
}

func (p *parser) line(line string, lineno int) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return

	case strings.HasPrefix(trimmed, ";"):
		p.comment(trimmed)

	case HeaderPattern.MatchString(trimmed):
		p.header(HeaderPattern.FindStringSubmatch(trimmed), lineno)

	default:
		if p.open == nil {
			return
		}
		if m := PostingPattern.FindStringSubmatch(line); m != nil {
			p.open.Postings = append(p.open.Postings, p.posting(m))
		}
	}
}

func (p *parser) comment(trimmed string) {
	if b := parseBudget(trimmed); b != nil {
		p.result.Budgets = append(p.result.Budgets, b)
	}
	if p.open == nil {
		return
	}
	m := CommentPattern.FindStringSubmatch(trimmed)
	p.note = append(p.note, strings.TrimSpace(m[1]))
}

func (p *parser) header(m []string, lineno int) {
	p.closeTransaction()

	y, mo, d := m[1], m[2], m[3]
	if y == "" {
		y, mo, d = m[4], m[5], m[6]
	}

	p.open = ast.NewTransaction(
		&ast.Date{Time: calendarDate(y, mo, d)},
		strings.TrimSpace(m[7]),
		ast.WithPosition(ast.Position{Filename: p.filename, Line: lineno}),
	)
	p.note = nil
}

func (p *parser) posting(m []string) *ast.Posting {
	posting := &ast.Posting{Account: p.interner.Intern(m[1])}
	if m[2] == "" {
		return posting
	}
	value, err := decimal.NewFromString(m[2])
	if err != nil {
		return posting
	}
	posting.Amount = &ast.Amount{
		Value:    value,
		Currency: p.interner.Intern(m[3]),
		Raw:      m[2],
	}
	return posting
}

func (p *parser) closeTransaction() {
	if p.open == nil {
		return
	}
	p.open.Note = strings.Join(p.note, "\n")
	p.result.Transactions = append(p.result.Transactions, p.open)
	p.open = nil
	p.note = nil
}

// calendarDate builds a UTC date from matched digit groups. Out-of-range
// months and days roll over the way time.Date normalizes them.
func calendarDate(y, m, d string) time.Time {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

const budgetPrefix = "budget:"

// parseBudget returns the budget declared by a trimmed comment line, or nil.
// "budget: expenses:dining" and "budget:expenses:dining" both yield the
// category "budget:expenses:dining".
func parseBudget(trimmed string) *ast.Budget {
	m := BudgetDirectivePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil
	}
	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return nil
	}
	period, err := ast.ParsePeriod(m[3])
	if err != nil {
		return nil
	}
	category := strings.TrimSpace(m[1][len(budgetPrefix):])
	return ast.NewBudget(budgetPrefix+category, amount, period)
}
