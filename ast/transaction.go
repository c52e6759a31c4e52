package ast

import "strings"

// Transaction is a dated entry with a free-text description and the postings
// that follow it. The description is kept exactly as written. Note collects
// the text of comment lines that appeared after the header, joined with
// newlines.
//
// Example:
//
//	2024-03-05 groceries | weekly shop
//	    joint:expenses:food:groceries    84.20 EUR
//	    joint:assets:checking
//	    ; paid with the shared card
type Transaction struct {
	Pos         Position
	Date        *Date
	Description string
	Postings    []*Posting
	Note        string
}

// Position returns where the transaction header was found.
func (t *Transaction) Position() Position {
	return t.Pos
}

// Posting is a single line of a transaction moving an amount into or out of
// an account. A nil Amount marks an implicit posting whose value is inferred
// from the other postings of the transaction.
type Posting struct {
	Account string
	Amount  *Amount
}

// IsImplicit reports whether the posting omits its amount.
func (p *Posting) IsImplicit() bool {
	return p.Amount == nil
}

// DescriptionSeparator splits a description into a short tag and free text.
const DescriptionSeparator = "|"

// SplitDescription splits a "tag | text" description. Descriptions without
// the separator are returned as text with an empty tag.
func SplitDescription(desc string) (tag, text string) {
	before, after, found := strings.Cut(desc, DescriptionSeparator)
	if !found {
		return "", strings.TrimSpace(desc)
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
