package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/components"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

const overviewChartHeight = 8

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.ledger.Summary()
	compact := a.isCompactLayout()

	var b strings.Builder

	// Row 1: headline metrics
	balanceDelta := "left this month"
	if s.Balance.Overall.IsNegative() {
		balanceDelta = "over income"
	}
	metrics := []components.Metric{
		{Label: "Income", Value: a.money.Format(s.Income), Delta: s.Month},
		{Label: "Budgeted", Value: a.money.Format(s.Budget.Sum()), Delta: policySplit(s.Policy)},
		{Label: "Recorded", Value: a.money.Format(s.Totals.GrandTotal),
			Delta: fmt.Sprintf("%d/%d commitments paid", a.ledger.PaidCount(), len(a.ledger.Commitments()))},
		{Label: "Balance", Value: a.money.Format(s.Balance.Overall), Delta: balanceDelta},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: one card per category
	cards := components.CategoryCards(s)
	if compact {
		for _, c := range cards {
			b.WriteString(components.CategoryCard(c, a.money, cw))
			b.WriteString("\n")
		}
	} else {
		widths := components.LayoutRow(cw, len(cards))
		rendered := make([]string, len(cards))
		for i, c := range cards {
			rendered[i] = components.CategoryCard(c, a.money, widths[i])
		}
		b.WriteString(components.CardRow(rendered))
		b.WriteString("\n")
	}

	// Row 3: spending share and budget vs actual
	pie := a.ledger.PieSegments()
	slices := make([]components.ShareSlice, len(pie))
	for i, p := range pie {
		slices[i] = components.ShareSlice{
			Label: p.Label,
			Value: p.Value.InexactFloat64(),
			Color: t.CategoryColor(p.Label),
			Text:  a.money.Format(p.Value),
		}
	}

	bars := a.ledger.BarSeries()
	groups := make([]components.BarGroup, len(bars))
	for i, p := range bars {
		groups[i] = components.BarGroup{
			Label:  p.Label,
			Budget: p.Budget.InexactFloat64(),
			Actual: p.Actual.InexactFloat64(),
		}
	}

	shareCard := func(w int) string {
		return components.ContentCard("Spending Share",
			components.ShareBar(slices, components.CardInnerWidth(w)), w)
	}
	barCard := func(w int) string {
		return components.ContentCard("Budget vs Actual",
			components.GroupedBarChart(groups, t.BudgetBar, t.ActualBar, components.CardInnerWidth(w), overviewChartHeight), w)
	}

	if compact {
		b.WriteString(shareCard(cw))
		b.WriteString("\n")
		b.WriteString(barCard(cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{shareCard(widths[0]), barCard(widths[1])}))
	}

	return b.String()
}

// policySplit renders the allocation as e.g. "41/36/23".
func policySplit(p ledger.AllocationPolicy) string {
	parts := []string{ledger.Percent(p.Commitments), ledger.Percent(p.Savings), ledger.Percent(p.Expenses)}
	for i, part := range parts {
		parts[i] = strings.TrimSuffix(part, "%")
	}
	return strings.Join(parts, "/") + " split"
}
