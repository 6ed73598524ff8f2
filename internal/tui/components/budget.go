package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// CategoryCardData is everything one overview category card shows.
type CategoryCardData struct {
	Label   string // chart label, e.g. ledger.LabelSavings
	Percent string // allocation share, e.g. "36%"
	Actual  decimal.Decimal
	Target  decimal.Decimal
	Balance decimal.Decimal
}

// CategoryCard renders the recorded total against its target, a progress
// bar and the remaining/over caption.
func CategoryCard(d CategoryCardData, money cli.Money, outerWidth int) string {
	t := theme.Active
	innerW := CardInnerWidth(outerWidth)
	accent := t.CategoryColor(d.Label)

	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	targetStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	captionColor := t.TextDim
	if d.Balance.IsNegative() {
		captionColor = t.Red
	}
	captionStyle := lipgloss.NewStyle().Foreground(captionColor).Background(t.Surface)

	value := valueStyle.Render(money.Format(d.Actual))
	target := labelStyle.Render(cli.TargetLabel(d.Label)+" ") + targetStyle.Render(money.Format(d.Target))
	gap := max(1, innerW-lipgloss.Width(value)-lipgloss.Width(target))

	caption := captionStyle.Render(money.Abs(d.Balance) + " " + cli.BalanceCaption(d.Label, d.Balance))
	capGap := max(0, innerW-lipgloss.Width(caption))

	var b strings.Builder
	b.WriteString(value + spaceStyle.Render(strings.Repeat(" ", gap)) + target)
	b.WriteString("\n")
	b.WriteString(ProgressBar(ledger.ProgressPercent(d.Actual, d.Target), innerW, accent))
	b.WriteString("\n")
	b.WriteString(spaceStyle.Render(strings.Repeat(" ", capGap)) + caption)

	return AccentCard(d.Label+" ("+d.Percent+")", b.String(), accent, outerWidth)
}

// CategoryCards builds the three overview cards from a summary.
func CategoryCards(s ledger.Summary) []CategoryCardData {
	return []CategoryCardData{
		{
			Label:   ledger.LabelCommitments,
			Percent: ledger.Percent(s.Policy.Commitments),
			Actual:  s.Totals.Commitments,
			Target:  s.Budget.Commitments,
			Balance: s.Balance.Commitments,
		},
		{
			Label:   ledger.LabelSavings,
			Percent: ledger.Percent(s.Policy.Savings),
			Actual:  s.Totals.Savings,
			Target:  s.Budget.Savings,
			Balance: s.Balance.Savings,
		},
		{
			Label:   ledger.LabelExpenses,
			Percent: ledger.Percent(s.Policy.Expenses),
			Actual:  s.Totals.Expenses,
			Target:  s.Budget.Expenses,
			Balance: s.Balance.Expenses,
		},
	}
}
