package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarGroup is one labelled pair of bars.
type BarGroup struct {
	Label  string
	Budget float64
	Actual float64
}

// GroupedBarChart renders budget and actual columns side by side for each
// group, over a y-axis with rounded tick labels.
func GroupedBarChart(groups []BarGroup, budgetColor, actualColor lipgloss.Color, width, height int) string {
	if len(groups) == 0 {
		return ""
	}
	t := theme.Active
	height = max(height, 4)

	maxVal := 0.0
	for _, g := range groups {
		maxVal = max(maxVal, g.Budget, g.Actual)
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	tickLabels := make(map[int]string)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	// Each group is two bars plus a one-column gap inside and a gap between groups.
	n := len(groups)
	chartW := max(width-yLabelW-1, 10)
	groupGap := 3
	barW := (chartW - (n-1)*groupGap - n) / (2 * n)
	barW = max(2, min(barW, 8))
	groupW := 2*barW + 1
	axisLen := n*groupW + (n-1)*groupGap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)
	budgetStyle := lipgloss.NewStyle().Foreground(budgetColor).Background(t.Surface)
	actualStyle := lipgloss.NewStyle().Foreground(actualColor).Background(t.Surface)

	cell := func(v, rowTop, rowBottom float64, style lipgloss.Style) string {
		switch {
		case v >= rowTop:
			return style.Render(strings.Repeat("█", barW))
		case v > rowBottom:
			idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
			idx = max(1, min(idx, 8))
			return style.Render(strings.Repeat(string(blocks[idx]), barW))
		default:
			return blankStyle.Render(strings.Repeat(" ", barW))
		}
	}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))
		for i, g := range groups {
			if i > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", groupGap)))
			}
			b.WriteString(cell(g.Budget, rowTop, rowBottom, budgetStyle))
			b.WriteString(blankStyle.Render(" "))
			b.WriteString(cell(g.Actual, rowTop, rowBottom, actualStyle))
		}
		b.WriteString("\n")
	}

	// X-axis line with 0 label
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	// Group labels centred under each pair, cut to the group width.
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
	for i, g := range groups {
		if i > 0 {
			b.WriteString(blankStyle.Render(strings.Repeat(" ", groupGap)))
		}
		lbl := []rune(g.Label)
		if len(lbl) > groupW {
			lbl = lbl[:groupW]
		}
		left := (groupW - len(lbl)) / 2
		b.WriteString(labelStyle.Render(strings.Repeat(" ", left) + string(lbl) + strings.Repeat(" ", groupW-len(lbl)-left)))
	}
	b.WriteString("\n")

	// Legend
	b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(budgetStyle.Render("■"))
	b.WriteString(labelStyle.Render(" Budget  "))
	b.WriteString(actualStyle.Render("■"))
	b.WriteString(labelStyle.Render(" Actual"))

	return b.String()
}

// ShareSlice is one part of a ShareBar.
type ShareSlice struct {
	Label string
	Value float64
	Color lipgloss.Color
	Text  string // formatted value for the legend
}

// ShareBar renders slices as one stacked bar sized by share, followed by a
// legend line per slice. It is the terminal stand-in for a pie chart.
func ShareBar(slices []ShareSlice, width int) string {
	t := theme.Active
	blankStyle := lipgloss.NewStyle().Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	total := 0.0
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return dimStyle.Render(strings.Repeat("░", width)) + "\n" +
			dimStyle.Render("Nothing recorded yet")
	}

	var bar strings.Builder
	used := 0
	for i, s := range slices {
		n := int(math.Round(s.Value / total * float64(width)))
		if i == len(slices)-1 {
			n = width - used
		}
		n = max(0, min(n, width-used))
		used += n
		bar.WriteString(lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render(strings.Repeat("█", n)))
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	var b strings.Builder
	b.WriteString(bar.String())
	for _, s := range slices {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("■"))
		b.WriteString(blankStyle.Render(" "))
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", s.Label)))
		b.WriteString(labelStyle.Render(s.Text))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %.1f%%", s.Value/total*100)))
	}
	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
