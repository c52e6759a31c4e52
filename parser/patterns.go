package parser

import "regexp"

// The ledger grammar is line oriented. Each line is classified by the first
// pattern below that matches it; lines matching none are skipped.
//
// HeaderPattern matches a transaction header on a trimmed line. The date uses
// either dashes or slashes, never a mix. Groups 1-3 hold the dashed date,
// groups 4-6 the slashed date and group 7 the description.
//
//	2024-01-05 Coffee shop
//	2024/01/05 dining | pizza night
//
// PostingPattern matches an indented posting line. Group 1 is the account
// path (no semicolons, single inner spaces allowed), group 2 an optional
// signed decimal and group 3 an optional three-letter currency. A trailing
// "; comment" is discarded.
//
//	joint:expenses:dining  15.00 USD
//	joint:assets:checking
//
// CommentPattern matches a comment line. Group 1 is the text after ';'.
//
// BudgetDirectivePattern matches a budget declaration inside a comment line.
// Group 1 is the category including its "budget:" prefix, group 2 the amount
// and group 3 the period.
//
//	; budget: expenses:dining: 300 monthly
//	; budget:expenses:travel: 2400 yearly
var (
	HeaderPattern          = regexp.MustCompile(`^(?:(\d{4})-(\d{2})-(\d{2})|(\d{4})/(\d{2})/(\d{2}))(?:\s+(.*))?$`)
	PostingPattern         = regexp.MustCompile(`^[ \t]+([^;\s]+(?: [^;\s]+)*?)(?:\s+([-+]?\d+(?:\.\d+)?)(?:\s+([A-Z]{3}))?)?\s*(?:;.*)?$`)
	CommentPattern         = regexp.MustCompile(`^;(.*)$`)
	BudgetDirectivePattern = regexp.MustCompile(`(?i)^;\s*(budget:\s*\S.*?):\s*([-+]?\d+(?:\.\d+)?)\s+(monthly|yearly)\s*$`)
)
