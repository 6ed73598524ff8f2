// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/ledger"
)

// Money formats amounts with a currency label and a fixed number of decimals.
type Money struct {
	Label    string
	Decimals int32
}

// DefaultMoney prints ringgit with two decimals.
var DefaultMoney = Money{Label: "RM", Decimals: 2}

// NewMoney builds a Money from config values. Negative decimals become 0.
func NewMoney(label string, decimals int) Money {
	return Money{Label: label, Decimals: int32(max(decimals, 0))}
}

// Format renders d as e.g. "RM 1,148.00" or "-RM 852.00".
func (m Money) Format(d decimal.Decimal) string {
	// The sign comes from the rounded text, so -0.001 prints as zero.
	body := FormatDecimal(d, m.Decimals)
	sign := ""
	if rest, ok := strings.CutPrefix(body, "-"); ok {
		sign, body = "-", rest
	}
	if m.Label == "" {
		return sign + body
	}
	return sign + m.Label + " " + body
}

// Abs renders the magnitude of d, used where a caption carries the sign.
func (m Money) Abs(d decimal.Decimal) string {
	return m.Format(d.Abs())
}

// FormatDecimal renders d with thousands separators and a fixed number of
// decimals. Rounding is half away from zero.
// e.g., 1234567.5 -> "1,234,567.50"
func FormatDecimal(d decimal.Decimal, decimals int32) string {
	if decimals < 0 {
		decimals = 0
	}
	s := d.StringFixed(decimals)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err == nil {
		intPart = FormatNumber(n)
	}

	out := intPart
	if hasFrac {
		out += "." + frac
	}
	if neg && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// Shares returns each segment's fraction of the segments' sum.
func Shares(segments []ledger.PieSegment) []float64 {
	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.Value)
	}
	out := make([]float64, len(segments))
	if !total.IsPositive() {
		return out
	}
	for i, s := range segments {
		out[i] = s.Value.Div(total).InexactFloat64()
	}
	return out
}

// BalanceCaption describes a category balance the way the overview cards
// do: "remaining" / "over budget" for commitments, "to go" / "above target"
// for savings and "available" / "overspent" for expenses.
func BalanceCaption(label string, balance decimal.Decimal) string {
	under, over := "remaining", "over budget"
	switch label {
	case ledger.LabelSavings:
		under, over = "to go", "above target"
	case ledger.LabelExpenses:
		under, over = "available", "overspent"
	}
	if balance.IsNegative() {
		return over
	}
	return under
}

// TargetLabel is "Target" for savings and "Budget" otherwise.
func TargetLabel(label string) string {
	if label == ledger.LabelSavings {
		return "Target"
	}
	return "Budget"
}
