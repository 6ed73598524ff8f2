package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/ledger"
)

func TestFormatDecimal(t *testing.T) {
	cases := []struct {
		in       string
		decimals int32
		want     string
	}{
		{"0", 2, "0.00"},
		{"1148", 2, "1,148.00"},
		{"1234567.5", 2, "1,234,567.50"},
		{"12.345", 2, "12.35"},
		{"999.999", 2, "1,000.00"},
		{"-2650", 0, "-2,650"},
		{"-0.001", 2, "0.00"},
	}
	for _, tc := range cases {
		got := FormatDecimal(decimal.RequireFromString(tc.in), tc.decimals)
		if got != tc.want {
			t.Fatalf("FormatDecimal(%s, %d) = %q, want %q", tc.in, tc.decimals, got, tc.want)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	if got := DefaultMoney.Format(decimal.NewFromInt(998)); got != "RM 998.00" {
		t.Fatalf("Format(998) = %q", got)
	}
	if got := DefaultMoney.Format(decimal.NewFromInt(-852)); got != "-RM 852.00" {
		t.Fatalf("Format(-852) = %q", got)
	}
	if got := DefaultMoney.Abs(decimal.NewFromInt(-852)); got != "RM 852.00" {
		t.Fatalf("Abs(-852) = %q", got)
	}
	if got := (Money{Decimals: 0}).Format(decimal.NewFromInt(1500)); got != "1,500" {
		t.Fatalf("unlabelled = %q", got)
	}
	if got := DefaultMoney.Format(decimal.RequireFromString("-0.004")); got != "RM 0.00" {
		t.Fatalf("Format(-0.004) = %q, want no sign", got)
	}
	if got := (Money{Label: "RM", Decimals: 0}).Format(decimal.RequireFromString("-0.4")); got != "RM 0" {
		t.Fatalf("Format(-0.4, 0dp) = %q, want no sign", got)
	}
	if got := DefaultMoney.Format(decimal.RequireFromString("-0.005")); got != "-RM 0.01" {
		t.Fatalf("Format(-0.005) = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBalanceCaption(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	zero := decimal.Zero
	cases := []struct {
		label   string
		balance decimal.Decimal
		want    string
	}{
		{ledger.LabelCommitments, zero, "remaining"},
		{ledger.LabelCommitments, neg, "over budget"},
		{ledger.LabelSavings, zero, "to go"},
		{ledger.LabelSavings, neg, "above target"},
		{ledger.LabelExpenses, zero, "available"},
		{ledger.LabelExpenses, neg, "overspent"},
	}
	for _, tc := range cases {
		if got := BalanceCaption(tc.label, tc.balance); got != tc.want {
			t.Fatalf("BalanceCaption(%s, %s) = %q, want %q", tc.label, tc.balance, got, tc.want)
		}
	}
}

func TestShares(t *testing.T) {
	segs := ledger.ProjectPieSegments(ledger.Totals{
		Commitments: decimal.NewFromInt(150),
		Expenses:    decimal.NewFromInt(50),
	})
	shares := Shares(segs)
	if len(shares) != 2 || shares[0] != 0.75 || shares[1] != 0.25 {
		t.Fatalf("Shares = %v, want [0.75 0.25]", shares)
	}
	if got := Shares(nil); len(got) != 0 {
		t.Fatalf("Shares(nil) = %v", got)
	}
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderTable(Table{
		Headers: []string{"Category", "Balance"},
		Rows: [][]string{
			{"Commitments", Signed(decimal.NewFromInt(-5), "-RM 5.00")},
			{"---"},
			{"Total", "RM 1,000.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Fatalf("line %d width = %d, want %d:\n%s", i, w, width, out)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	cases := []struct {
		pct  float64
		want string
	}{
		{0, "[░░░░░░░░░░]   0%"},
		{50, "[█████░░░░░]  50%"},
		{150, "[██████████] 100%"},
		{-5, "[░░░░░░░░░░]   0%"},
	}
	for _, tc := range cases {
		if got := RenderProgressBar(tc.pct, 10); got != tc.want {
			t.Fatalf("RenderProgressBar(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestRenderShareBar_FillsWidth(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	segs := ledger.ProjectPieSegments(ledger.Totals{
		Commitments: decimal.NewFromInt(1),
		Savings:     decimal.NewFromInt(1),
		Expenses:    decimal.NewFromInt(1),
	})
	if w := lipgloss.Width(RenderShareBar(segs, 20)); w != 20 {
		t.Fatalf("share bar width = %d, want 20", w)
	}
	if w := lipgloss.Width(RenderShareBar(nil, 20)); w != 20 {
		t.Fatalf("empty share bar width = %d, want 20", w)
	}
}
