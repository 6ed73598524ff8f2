package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/components"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// expensesState holds the expense log cursor and the open add form.
type expensesState struct {
	cursor int
	form   *huh.Form
	draft  *ledger.Draft
}

// newTransactionForm binds a huh form to d. Validation is left to the
// ledger, which drops drafts without an item or an amount.
func newTransactionForm(d *ledger.Draft) *huh.Form {
	options := make([]huh.Option[ledger.Category], len(ledger.Categories))
	for i, c := range ledger.Categories {
		options[i] = huh.NewOption(string(c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Item").
				Placeholder("e.g. Nasi lemak").
				Value(&d.Item),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&d.Amount),
			huh.NewSelect[ledger.Category]().
				Title("Category").
				Options(options...).
				Value(&d.Category),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&d.Date).
				Validate(func(s string) error {
					_, err := ledger.ParseDate(s)
					return err
				}),
		),
	).WithShowHelp(false)
}

func (a App) formWidth() int {
	return components.CardInnerWidth(min(a.contentWidth(), 60))
}

func (a App) updateExpensesKeys(key string) (App, tea.Cmd, bool) {
	txs := a.ledger.RecentTransactions()
	a.expenses.cursor = clampCursor(a.expenses.cursor, len(txs))

	switch key {
	case "j", "down":
		a.expenses.cursor = clampCursor(a.expenses.cursor+1, len(txs))
	case "k", "up":
		a.expenses.cursor = clampCursor(a.expenses.cursor-1, len(txs))
	case "g":
		a.expenses.cursor = 0
	case "G":
		a.expenses.cursor = max(len(txs)-1, 0)
	case "a", "enter":
		draft := a.ledger.NewDraft()
		a.expenses.draft = &draft
		a.expenses.form = newTransactionForm(a.expenses.draft).WithWidth(a.formWidth())
		return a, a.expenses.form.Init(), true
	case "d", "delete":
		if len(txs) == 0 {
			return a, nil, true
		}
		tx := txs[a.expenses.cursor]
		a.ledger.DeleteTransaction(tx.ID)
		a.expenses.cursor = clampCursor(a.expenses.cursor, len(txs)-1)
		a.notice = "Deleted " + tx.Item
	default:
		return a, nil, false
	}
	return a, nil, true
}

// updateTransactionForm drives the add form. Esc closes it without
// submitting; a completed form submits the draft, and an incomplete one
// stays open with its values.
func (a App) updateTransactionForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.closeTransactionForm()
		return a, nil
	}

	form, cmd := a.expenses.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.expenses.form = f
	}

	switch a.expenses.form.State {
	case huh.StateCompleted:
		if tx, added := a.ledger.AddTransaction(a.expenses.draft); added {
			a.notice = fmt.Sprintf("Added %s %s", tx.Item, a.money.Format(tx.Amount.Value))
			a.expenses.cursor = 0
			a.closeTransactionForm()
			return a, nil
		}
		// The rejected draft keeps what was typed; reopen the form on it.
		a.notice = "Item and amount are both required"
		a.expenses.form = newTransactionForm(a.expenses.draft).WithWidth(a.formWidth())
		return a, a.expenses.form.Init()
	case huh.StateAborted:
		a.closeTransactionForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeTransactionForm() {
	a.expenses.form = nil
	a.expenses.draft = nil
}

// dailyTotals sums transactions per calendar date, oldest first.
func dailyTotals(txs []ledger.Transaction) []float64 {
	byDay := make(map[string]float64)
	for _, tx := range txs {
		byDay[tx.Date.String()] += tx.Amount.Value.InexactFloat64()
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = byDay[d]
	}
	return out
}

func (a App) renderExpensesTab(cw, h int) string {
	t := theme.Active
	s := a.ledger.Summary()
	txs := a.ledger.RecentTransactions()

	var b strings.Builder

	if a.expenses.form != nil {
		formW := min(cw, 60)
		body := a.expenses.form.View() + "\n" +
			lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
				Render("[Tab] next field  [Enter] submit  [Esc] cancel")
		b.WriteString(components.AccentCard("Add Transaction", body, t.Expenses, formW))
		b.WriteString("\n")
		h -= lipgloss.Height(b.String())
	}

	innerW := components.CardInnerWidth(cw)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	dateW, catW, amountW := 12, 10, 16
	itemW := max(innerW-2-dateW-catW-amountW, 10)

	var body strings.Builder
	body.WriteString(spaceStyle.Render("  "))
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s%-*s%-*s%*s", dateW, "Date", itemW, "Item", catW, "Category", amountW, "Amount")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	if len(txs) == 0 {
		body.WriteString(mutedStyle.Render("No transactions yet. Press [a] to log one."))
		body.WriteString("\n")
	}

	visible := max(h-10, 3)
	start, end := visibleWindow(a.expenses.cursor, len(txs), visible)
	for i := start; i < end; i++ {
		tx := txs[i]
		style := rowStyle
		marker := spaceStyle.Render("  ")
		if i == a.expenses.cursor && a.expenses.form == nil {
			style = selectedStyle
			marker = markerStyle.Render("▸ ")
		}
		body.WriteString(marker)
		body.WriteString(style.Render(fmt.Sprintf("%-*s%-*s%-*s%*s",
			dateW, tx.Date.String(),
			itemW, truncStr(tx.Item, itemW-1),
			catW, string(tx.Category),
			amountW, a.money.Format(tx.Amount.Value))))
		body.WriteString("\n")
	}
	if end < len(txs) {
		body.WriteString(mutedStyle.Render(fmt.Sprintf("  … %d more", len(txs)-end)))
		body.WriteString("\n")
	}

	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	captionColor := t.Green
	if s.Balance.Expenses.IsNegative() {
		captionColor = t.Red
	}
	captionStyle := lipgloss.NewStyle().Foreground(captionColor).Background(t.Surface)
	valueStyle := rowStyle.Bold(true)
	sep := mutedStyle.Render("   ")
	body.WriteString(mutedStyle.Render("Spent ") + valueStyle.Render(a.money.Format(s.Totals.Expenses)) + sep +
		mutedStyle.Render("Budget ") + valueStyle.Render(a.money.Format(s.Budget.Expenses)) + sep +
		captionStyle.Render(a.money.Abs(s.Balance.Expenses)+" "+cli.BalanceCaption(ledger.LabelExpenses, s.Balance.Expenses)))
	if daily := dailyTotals(txs); len(daily) > 1 {
		body.WriteString(sep + mutedStyle.Render("Daily ") + components.Sparkline(daily, t.Expenses))
	}
	body.WriteString("\n")
	body.WriteString(components.ProgressBar(ledger.ProgressPercent(s.Totals.Expenses, s.Budget.Expenses), innerW, t.Expenses))

	b.WriteString(components.AccentCard("Daily Transactions", body.String(), t.Expenses, cw))
	return b.String()
}
