package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}

	// Padding below the short card must still be styled.
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("Line %d has no ANSI codes: %q", i, lines[i])
		}
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 44 {
			t.Errorf("Line %d width = %d, want 44", i, w)
		}
	}
}

func TestCardRowSkipsEmptyCards(t *testing.T) {
	card := ContentCard("Only", "A", 20)
	if got := CardRow([]string{"", card, ""}); got != CardRow([]string{card}) {
		t.Fatal("empty cards should be ignored")
	}
	if CardRow(nil) != "" {
		t.Fatal("no cards should render nothing")
	}
}

func TestLayoutRow(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{100, 3, []int{34, 33, 33}},
		{80, 4, []int{20, 20, 20, 20}},
		{7, 2, []int{4, 3}},
	}
	for _, tt := range tests {
		got := LayoutRow(tt.total, tt.n)
		sum := 0
		for i, w := range got {
			sum += w
			if w != tt.want[i] {
				t.Errorf("LayoutRow(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
				break
			}
		}
		if sum != tt.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tt.total, tt.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestProgressBarWidthAndClamp(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, pct := range []float64{0, 42.5, 100, 250, -10} {
		bar := ProgressBar(pct, 30, theme.Active.Savings)
		if w := lipgloss.Width(bar); w != 30 {
			t.Errorf("ProgressBar(%v) width = %d, want 30", pct, w)
		}
	}
	if bar := ProgressBar(250, 30, theme.Active.Savings); !strings.Contains(bar, "100%") {
		t.Errorf("over-target bar should read 100%%: %q", bar)
	}
	if bar := ProgressBar(-10, 30, theme.Active.Savings); !strings.Contains(bar, "  0%") {
		t.Errorf("negative bar should read 0%%: %q", bar)
	}
}

func TestColorForPct(t *testing.T) {
	th := theme.Active
	tests := []struct {
		pct  float64
		want string
	}{
		{10, string(th.Green)},
		{75, string(th.Yellow)},
		{95, string(th.Orange)},
		{100, string(th.Red)},
	}
	for _, tt := range tests {
		if got := ColorForPct(tt.pct); got != tt.want {
			t.Errorf("ColorForPct(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestGroupedBarChartFitsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	groups := []BarGroup{
		{Label: ledger.LabelCommitments, Budget: 1148, Actual: 150},
		{Label: ledger.LabelSavings, Budget: 1008, Actual: 0},
		{Label: ledger.LabelExpenses, Budget: 644, Actual: 700},
	}

	chart := GroupedBarChart(groups, theme.Active.BudgetBar, theme.Active.ActualBar, 60, 8)
	for i, line := range strings.Split(chart, "\n") {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("line %d width %d exceeds 60", i, w)
		}
	}
	for _, want := range []string{"Budget", "Actual", "Saving", "1.2k"} {
		if !strings.Contains(chart, want) {
			t.Errorf("chart missing %q", want)
		}
	}
	if GroupedBarChart(nil, "", "", 60, 8) != "" {
		t.Error("no groups should render nothing")
	}
}

func TestShareBar(t *testing.T) {
	theme.SetActive("flexoki-dark")

	empty := ShareBar(nil, 30)
	if !strings.Contains(empty, "Nothing recorded yet") {
		t.Errorf("empty share bar = %q", empty)
	}

	slices := []ShareSlice{
		{Label: ledger.LabelCommitments, Value: 150, Color: theme.Active.Commitments, Text: "RM 150.00"},
		{Label: ledger.LabelExpenses, Value: 150, Color: theme.Active.Expenses, Text: "RM 150.00"},
	}
	out := ShareBar(slices, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want bar + 2 legend lines", len(lines))
	}
	if w := lipgloss.Width(lines[0]); w != 40 {
		t.Errorf("bar width = %d, want 40", w)
	}
	if !strings.Contains(lines[1], "50.0%") || !strings.Contains(lines[1], "RM 150.00") {
		t.Errorf("legend line = %q", lines[1])
	}
}

func TestCategoryCardCaptions(t *testing.T) {
	theme.SetActive("flexoki-dark")
	money := cli.DefaultMoney

	over := CategoryCard(CategoryCardData{
		Label:   ledger.LabelSavings,
		Percent: "36%",
		Actual:  decimal.NewFromInt(1100),
		Target:  decimal.NewFromInt(1008),
		Balance: decimal.NewFromInt(-92),
	}, money, 50)
	for _, want := range []string{"Savings (36%)", "Target", "RM 92.00 above target", "100%"} {
		if !strings.Contains(over, want) {
			t.Errorf("savings card missing %q", want)
		}
	}

	under := CategoryCard(CategoryCardData{
		Label:   ledger.LabelCommitments,
		Percent: "41%",
		Actual:  decimal.NewFromInt(150),
		Target:  decimal.NewFromInt(1148),
		Balance: decimal.NewFromInt(998),
	}, money, 50)
	for _, want := range []string{"Budget", "RM 998.00 remaining"} {
		if !strings.Contains(under, want) {
			t.Errorf("commitments card missing %q", want)
		}
	}
	for i, line := range strings.Split(under, "\n") {
		if w := lipgloss.Width(line); w != 50 {
			t.Errorf("line %d width = %d, want 50", i, w)
		}
	}
}

func TestCategoryCardsFromSummary(t *testing.T) {
	l := ledger.New()
	cards := CategoryCards(l.Summary())
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}
	if cards[0].Percent != "41%" || cards[1].Percent != "36%" || cards[2].Percent != "23%" {
		t.Errorf("percents = %s %s %s", cards[0].Percent, cards[1].Percent, cards[2].Percent)
	}
	if !cards[2].Target.Equal(decimal.NewFromInt(644)) {
		t.Errorf("expenses target = %s, want 644", cards[2].Target)
	}
}

func TestTabBar(t *testing.T) {
	theme.SetActive("flexoki-dark")

	if got := lipgloss.Width(RenderTabBar(TabOverview, 100)); got != 100 {
		t.Errorf("tab bar width = %d, want 100", got)
	}
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should map to -1")
	}
	// Inactive Settings shows its key in brackets.
	if got, want := TabVisualWidth(Tabs[TabSettings], false), len("Settings")+2+3; got != want {
		t.Errorf("inactive settings width = %d, want %d", got, want)
	}
}

func TestStatusBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	bar := RenderStatusBar(90, "[q]uit", "Saved", "november*")
	if w := lipgloss.Width(bar); w != 90 {
		t.Errorf("status bar width = %d, want 90", w)
	}
	if !strings.Contains(bar, "november*") {
		t.Error("status bar should show session info")
	}
}
