package parser

import "strings"

// LineKind is the role a single line plays in a ledger.
type LineKind int

const (
	Blank LineKind = iota
	Comment
	BudgetDirective
	Header
	Posting
	Ignored
)

func (k LineKind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Comment:
		return "comment"
	case BudgetDirective:
		return "budget"
	case Header:
		return "header"
	case Posting:
		return "posting"
	default:
		return "ignored"
	}
}

// Classify reports how a line would be read, in the same order the parser
// tries the patterns. A posting line is only kept by the parser when a
// transaction is open.
func Classify(line string) LineKind {
	line = strings.TrimSuffix(line, "\r")
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return Blank
	case strings.HasPrefix(trimmed, ";"):
		if parseBudget(trimmed) != nil {
			return BudgetDirective
		}
		return Comment
	case HeaderPattern.MatchString(trimmed):
		return Header
	case PostingPattern.MatchString(line):
		return Posting
	default:
		return Ignored
	}
}
