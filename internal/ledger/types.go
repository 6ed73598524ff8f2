// Package ledger holds one month of salary budgeting data (income, fixed
// commitments, savings goals and daily transactions) and derives budget
// targets, totals, balances and chart projections from it.
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for transaction dates.
const DateLayout = "2006-01-02"

// Category classifies a daily transaction.
type Category string

// Transaction categories offered by the expense log.
const (
	CategoryMakan   Category = "Makan"
	CategoryBelanja Category = "Belanja"
	CategoryHutang  Category = "Hutang"
	CategoryMinyak  Category = "Minyak"
	CategoryOther   Category = "Other"
)

// Categories lists every transaction category in display order.
var Categories = []Category{
	CategoryMakan,
	CategoryBelanja,
	CategoryHutang,
	CategoryMinyak,
	CategoryOther,
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// AllocationPolicy splits income into the three budget categories.
// The fractions are expected to sum to 1 but this is not enforced.
type AllocationPolicy struct {
	Commitments decimal.Decimal `json:"commitments"`
	Savings     decimal.Decimal `json:"savings"`
	Expenses    decimal.Decimal `json:"expenses"`
}

// DefaultPolicy is the 41/36/23 split.
var DefaultPolicy = AllocationPolicy{
	Commitments: decimal.RequireFromString("0.41"),
	Savings:     decimal.RequireFromString("0.36"),
	Expenses:    decimal.RequireFromString("0.23"),
}

// NewPolicy builds a policy from plain fractions.
func NewPolicy(commitments, savings, expenses float64) AllocationPolicy {
	return AllocationPolicy{
		Commitments: decimal.NewFromFloat(commitments),
		Savings:     decimal.NewFromFloat(savings),
		Expenses:    decimal.NewFromFloat(expenses),
	}
}

// Sum returns the total of the three fractions.
func (p AllocationPolicy) Sum() decimal.Decimal {
	return p.Commitments.Add(p.Savings).Add(p.Expenses)
}

// Percent formats a fraction as a whole percentage, e.g. 0.41 -> "41%".
func Percent(fraction decimal.Decimal) string {
	return fraction.Shift(2).Round(0).String() + "%"
}

// Amount is a user-entered money value. Raw keeps the text exactly as typed
// so it can be shown back; Value is the coerced number used in every total.
// Text that does not parse as a number has Value zero.
type Amount struct {
	Raw   string
	Value decimal.Decimal
}

// ParseAmount coerces raw input. Surrounding whitespace is ignored and empty
// or non-numeric input yields a zero Value.
func ParseAmount(raw string) Amount {
	v, _ := coerce(raw)
	return Amount{Raw: raw, Value: v}
}

// AmountOf wraps a numeric value.
func AmountOf(d decimal.Decimal) Amount {
	return Amount{Raw: d.String(), Value: d}
}

// Valid reports whether Raw parsed as a number (empty counts as valid zero).
func (a Amount) Valid() bool {
	_, ok := coerce(a.Raw)
	return ok
}

// IsZero reports whether the coerced value is zero.
func (a Amount) IsZero() bool {
	return a.Value.IsZero()
}

func (a Amount) String() string {
	return a.Raw
}

// MarshalJSON encodes the raw text so invalid input round-trips unchanged.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Raw)
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = ParseAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = ParseAmount(n.String())
	return nil
}

func coerce(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// DateOf truncates t to its calendar date in t's location, returned as UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CommitmentItem is a fixed monthly payment.
type CommitmentItem struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
	Paid   bool   `json:"paid"`
}

// SavingsGoal is a monthly savings allocation.
type SavingsGoal struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

// Transaction is one logged daily expense. Transactions are never edited.
type Transaction struct {
	ID       int64    `json:"id"`
	Item     string   `json:"item"`
	Amount   Amount   `json:"amount"`
	Category Category `json:"category"`
	Date     Date     `json:"date"`
}
