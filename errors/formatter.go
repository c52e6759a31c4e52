// Package errors renders ledger issues for the command line and for JSON
// consumers. The issue types themselves live in the ledger package.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/formatter"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter formats errors for command-line output: the message followed
// by the offending transaction, indented.
type TextFormatter struct {
	formatter *formatter.Formatter
}

// NewTextFormatter creates a new text formatter. A nil formatter uses the
// default one with a two-space indentation.
func NewTextFormatter(f *formatter.Formatter) *TextFormatter {
	if f == nil {
		f = formatter.New(formatter.WithIndentation(2))
	}
	return &TextFormatter{formatter: f}
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(interface {
		GetTransaction() *ast.Transaction
		Error() string
	}); ok {
		return tf.formatWithContext(e.Error(), e.GetTransaction())
	}
	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

func (tf *TextFormatter) formatWithContext(message string, txn *ast.Transaction) string {
	if txn == nil {
		return message
	}

	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")

	rendered := tf.formatter.String(&ast.AST{Transactions: []*ast.Transaction{txn}})
	for _, line := range bytes.Split([]byte(rendered), []byte("\n")) {
		if len(line) > 0 {
			buf.WriteString("   ")
			buf.Write(line)
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    typeName(err),
		Message: err.Error(),
	}

	if e, ok := err.(interface{ GetPosition() ast.Position }); ok {
		if pos := e.GetPosition(); !pos.IsZero() {
			errJSON.Position = &PositionJSON{Filename: pos.Filename, Line: pos.Line}
		}
	}

	if e, ok := err.(interface{ GetTransaction() *ast.Transaction }); ok {
		if txn := e.GetTransaction(); txn != nil {
			errJSON.Details = map[string]any{"description": txn.Description}
			if !txn.Date.IsZero() {
				errJSON.Details["date"] = txn.Date.String()
			}
		}
	}

	return errJSON
}

// typeName strips the package and pointer from the dynamic type name:
// *ledger.EmptyTransactionError becomes EmptyTransactionError.
func typeName(err error) string {
	name := fmt.Sprintf("%T", err)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' || name[i] == '*' {
			return name[i+1:]
		}
	}
	return name
}
