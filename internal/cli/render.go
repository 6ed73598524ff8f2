package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/ledger"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	cautionStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// Signed colours a money string green when v is zero or above and red
// when it is negative.
func Signed(v decimal.Decimal, text string) string {
	if v.IsNegative() {
		return warnStyle.Render(text)
	}
	return goodStyle.Render(text)
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			if isSeparator(row) {
				continue
			}
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if isSeparator(row) {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			gap := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
			if i == 0 {
				b.WriteString(" " + valueStyle.Render(cell) + gap + " ")
			} else {
				b.WriteString(" " + gap + valueStyle.Render(cell) + " ")
			}
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

// RenderProgressBar renders a percentage bar, e.g. "[██████░░░░]  60%".
// pct is clamped to [0, 100].
func RenderProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(100, pct))

	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}

	style := goodStyle
	switch {
	case pct >= 100:
		style = warnStyle
	case pct >= 80:
		style = cautionStyle
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}

// RenderShareBar renders the pie segments as one stacked bar, each segment
// in its own colour and sized by its share of the total.
func RenderShareBar(segments []ledger.PieSegment, width int) string {
	if len(segments) == 0 || width <= 0 {
		return mutedStyle.Render(strings.Repeat("░", max(width, 0)))
	}

	shares := Shares(segments)
	var b strings.Builder
	used := 0
	for i, seg := range segments {
		n := int(shares[i]*float64(width) + 0.5)
		if i == len(segments)-1 {
			n = width - used
		}
		n = max(0, min(n, width-used))
		used += n
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(seg.Color)).Render(strings.Repeat("█", n)))
	}
	return b.String()
}

// RenderLegend renders one "■ Label  RM x (y%)" line per segment.
func RenderLegend(segments []ledger.PieSegment, money Money) string {
	shares := Shares(segments)
	var b strings.Builder
	for i, seg := range segments {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.Color)).Render("■")
		fmt.Fprintf(&b, "  %s %-12s %s %s\n",
			swatch,
			seg.Label,
			valueStyle.Render(money.Format(seg.Value)),
			mutedStyle.Render("("+FormatPercent(shares[i])+")"),
		)
	}
	return b.String()
}

// RenderBarPair renders a budget bar above an actual bar for one category,
// both scaled against maxValue.
func RenderBarPair(p ledger.BarPoint, maxValue decimal.Decimal, maxWidth int, money Money) string {
	scale := func(v decimal.Decimal) int {
		if !maxValue.IsPositive() || !v.IsPositive() {
			return 0
		}
		n := int(v.Div(maxValue).InexactFloat64() * float64(maxWidth))
		return min(n, maxWidth)
	}
	budgetBar := lipgloss.NewStyle().Foreground(lipgloss.Color(ledger.ColorBudgetBar)).
		Render(strings.Repeat("█", scale(p.Budget)))
	actualBar := lipgloss.NewStyle().Foreground(lipgloss.Color(ledger.ColorActualBar)).
		Render(strings.Repeat("█", scale(p.Actual)))

	var b strings.Builder
	fmt.Fprintf(&b, "  %-12s %s %s\n", p.Label, budgetBar, dimStyle.Render(money.Format(p.Budget)))
	fmt.Fprintf(&b, "  %-12s %s %s\n", "", actualBar, valueStyle.Render(money.Format(p.Actual)))
	return b.String()
}
