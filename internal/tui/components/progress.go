package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// ProgressBar renders a solid bar for pct (0-100) followed by the
// percentage. Values outside the range are clamped.
func ProgressBar(pct float64, width int, color lipgloss.Color) string {
	t := theme.Active
	pct = max(0, min(100, pct))
	width = max(width-5, 4) // room for " 100%"

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct/100) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}

// ColorForPct returns green/yellow/orange/red as spending nears its budget.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 100:
		return string(t.Red)
	case pct >= 90:
		return string(t.Orange)
	case pct >= 70:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}
