package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// session info on the right, and a transient notice between them.
func RenderStatusBar(width int, hints, notice, info string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface)

	left := style.Render(" " + hints)
	if notice != "" {
		left += style.Render("  ") + noticeStyle.Render(notice)
	}
	right := style.Render(info + " ")

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + style.Render(strings.Repeat(" ", padding)) + right
}
