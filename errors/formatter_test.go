package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/jointledger/ledger"
	"github.com/robinvdvleuten/jointledger/parser"
)

const unbalanced = `2024-01-05 groceries
  joint:expenses:groceries  40 EUR
  joint:assets:checking  -30 EUR
2024-01-06 empty
`

func issues(t *testing.T) []error {
	t.Helper()
	tree := parser.ParseBytesWithFilename(context.Background(), "household.ledger", []byte(unbalanced))
	var errs []error
	for _, issue := range ledger.Check(context.Background(), tree) {
		errs = append(errs, issue)
	}
	assert.Equal(t, 2, len(errs))
	return errs
}

func TestTextFormatter(t *testing.T) {
	tf := NewTextFormatter(nil)
	errs := issues(t)

	expected := `household.ledger:1: Transaction does not balance: (10)

   2024-01-05 groceries
     joint:expenses:groceries  40 EUR
     joint:assets:checking    -30 EUR
`
	assert.Equal(t, expected, tf.Format(errs[0]))

	all := tf.FormatAll(errs)
	assert.Contains(t, all, expected+"\n\n")
	assert.Contains(t, all, `household.ledger:4: Transaction "empty" has no postings`)

	assert.Equal(t, "", tf.FormatAll(nil))
	assert.Equal(t, "plain", tf.Format(stderrors.New("plain")))
}

func TestJSONFormatter(t *testing.T) {
	jf := NewJSONFormatter()
	errs := issues(t)

	result := jf.FormatAllToSlice(errs)
	assert.Equal(t, 2, len(result))
	assert.Equal(t, "TransactionNotBalancedError", result[0].Type)
	assert.Equal(t, &PositionJSON{Filename: "household.ledger", Line: 1}, result[0].Position)
	assert.Equal(t, "2024-01-05", result[0].Details["date"])
	assert.Equal(t, "EmptyTransactionError", result[1].Type)

	var decoded []ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll(errs)), &decoded))
	assert.Equal(t, 2, len(decoded))
	assert.Equal(t, "groceries", decoded[0].Details["description"])

	single := jf.Format(stderrors.New("plain"))
	assert.Equal(t, `{"type":"errorString","message":"plain"}`, single)
}
