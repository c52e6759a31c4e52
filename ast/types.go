package ast

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amount represents a signed decimal value with an optional three-letter
// currency. Raw keeps the number exactly as written in the source so the
// formatter can reproduce it.
type Amount struct {
	Value    decimal.Decimal
	Currency string
	Raw      string
}

// String renders the amount as "<value> <currency>", or just the value when
// there is no currency.
func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	v := a.Raw
	if v == "" {
		v = a.Value.String()
	}
	if a.Currency == "" {
		return v
	}
	return v + " " + a.Currency
}

// Date represents a calendar date. The underlying time is always midnight UTC.
type Date struct {
	time.Time
}

// Layouts accepted for header dates. Separators cannot be mixed.
const (
	DateLayout      = "2006-01-02"
	SlashDateLayout = "2006/01/02"
)

// IsZero returns true if the Date is nil or represents the zero time.
// This method is nil-safe to prevent panics when callers inspect
// transactions that were built without a date.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// String formats the date as YYYY-MM-DD.
func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format(DateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	v, err := NewDate(string(text))
	if err != nil {
		return err
	}
	*d = *v
	return nil
}

// MonthKey returns the "YYYY-MM" key of the month containing the date.
func (d *Date) MonthKey() string {
	return d.Format("2006-01")
}

func parseDate(s string) (time.Time, error) {
	layout := DateLayout
	if strings.Contains(s, "/") {
		layout = SlashDateLayout
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s", s)
	}
	return t, nil
}
