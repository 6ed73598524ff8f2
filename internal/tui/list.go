package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/components"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// editField is the column an item editor is bound to.
type editField int

const (
	editName editField = iota
	editAmount
)

// listState tracks one editable item list (commitments or savings).
type listState struct {
	cursor  int
	editing bool
	field   editField
	id      int64
	orig    string // value restored on Esc
	input   textinput.Model
}

// itemRow is the list view of a commitment or savings goal.
type itemRow struct {
	ID     int64
	Name   string
	Amount ledger.Amount
	Paid   bool
}

// itemOps binds a list tab to its ledger collection. toggle is nil for
// lists without a paid flag.
type itemOps struct {
	title     string
	label     string // chart label of the category
	rows      func(l *ledger.Ledger) []itemRow
	add       func(l *ledger.Ledger) int64
	rename    func(l *ledger.Ledger, id int64, name string)
	setAmount func(l *ledger.Ledger, id int64, raw string)
	remove    func(l *ledger.Ledger, id int64)
	toggle    func(l *ledger.Ledger, id int64)
	totals    func(s ledger.Summary) (total, target, balance decimal.Decimal)
}

func (a App) isListTab() bool {
	return a.activeTab == components.TabCommitments || a.activeTab == components.TabSavings
}

// currentList returns the state of the active list tab.
func (a *App) currentList() *listState {
	if a.activeTab == components.TabSavings {
		return &a.goals
	}
	return &a.commit
}

func (a App) currentOps() itemOps {
	if a.activeTab == components.TabSavings {
		return savingsOps
	}
	return commitmentOps
}

// ─── Keys ───────────────────────────────────────────────────────

func (a App) updateListKeys(key string) (App, tea.Cmd, bool) {
	st := a.currentList()
	ops := a.currentOps()
	rows := ops.rows(a.ledger)
	st.cursor = clampCursor(st.cursor, len(rows))

	switch key {
	case "j", "down":
		st.cursor = clampCursor(st.cursor+1, len(rows))
	case "k", "up":
		st.cursor = clampCursor(st.cursor-1, len(rows))
	case "g":
		st.cursor = 0
	case "G":
		st.cursor = max(len(rows)-1, 0)
	case "a":
		id := ops.add(a.ledger)
		st.cursor = len(rows)
		cmd := a.startItemEdit(editName, id)
		// Start blank; the placeholder name stays unless something is typed.
		st.input.Placeholder = st.orig
		st.input.SetValue("")
		return a, cmd, true
	case "d", "delete":
		if len(rows) == 0 {
			return a, nil, true
		}
		row := rows[st.cursor]
		ops.remove(a.ledger, row.ID)
		st.cursor = clampCursor(st.cursor, len(rows)-1)
		a.notice = "Deleted " + row.Name
	case "enter":
		if len(rows) > 0 {
			return a, a.startItemEdit(editAmount, rows[st.cursor].ID), true
		}
	case "r":
		if len(rows) > 0 {
			return a, a.startItemEdit(editName, rows[st.cursor].ID), true
		}
	case " ":
		if ops.toggle == nil || len(rows) == 0 {
			return a, nil, false
		}
		ops.toggle(a.ledger, rows[st.cursor].ID)
	default:
		return a, nil, false
	}
	return a, nil, true
}

// startItemEdit opens the inline editor on one field of item id.
func (a *App) startItemEdit(field editField, id int64) tea.Cmd {
	st := a.currentList()
	var current string
	blank := false
	for _, r := range a.currentOps().rows(a.ledger) {
		if r.ID != id {
			continue
		}
		current = r.Name
		if field == editAmount {
			current = r.Amount.Raw
			// An untouched zero amount is replaced rather than appended to.
			blank = r.Amount.Valid() && r.Amount.Value.IsZero()
		}
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Width = 24
	if field == editAmount {
		ti.Placeholder = "0"
		ti.CharLimit = 20
	}
	if blank {
		ti.Placeholder = current
	} else {
		ti.SetValue(current)
	}
	ti.Focus()

	st.editing = true
	st.field = field
	st.id = id
	st.orig = current
	st.input = ti
	return ti.Cursor.BlinkCmd()
}

// updateListInput feeds keys to the inline editor. Every keystroke is
// applied to the ledger so totals follow the typing.
func (a App) updateListInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := a.currentList()
	ops := a.currentOps()

	apply := func(v string) {
		if st.field == editName {
			ops.rename(a.ledger, st.id, v)
		} else {
			ops.setAmount(a.ledger, st.id, v)
		}
	}

	switch msg.String() {
	case "enter":
		st.editing = false
		return a, nil
	case "esc":
		apply(st.orig)
		st.editing = false
		return a, nil
	case "tab":
		other := editAmount
		if st.field == editAmount {
			other = editName
		}
		return a, a.startItemEdit(other, st.id)
	}

	before := st.input.Value()
	var cmd tea.Cmd
	st.input, cmd = st.input.Update(msg)
	if v := st.input.Value(); v != before {
		apply(v)
	}
	return a, cmd
}

// ─── Rendering ──────────────────────────────────────────────────

// renderListTab renders the active item list with its totals footer.
func (a App) renderListTab(cw, h int) string {
	t := theme.Active
	st := *a.currentList()
	ops := a.currentOps()
	rows := ops.rows(a.ledger)
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	paidStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	invalidStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	amountW := 16
	checkW := 0
	if ops.toggle != nil {
		checkW = 4
	}
	nameW := max(innerW-2-checkW-amountW, 10)

	var body strings.Builder
	body.WriteString(spaceStyle.Render("  "))
	if checkW > 0 {
		body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s", checkW, "Paid")))
	}
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s", nameW, "Name")))
	body.WriteString(headerStyle.Render(fmt.Sprintf("%*s", amountW, "Amount")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	if len(rows) == 0 {
		body.WriteString(mutedStyle.Render("Nothing here yet. Press [a] to add one."))
		body.WriteString("\n")
	}

	visible := max(h-12, 3) // card border, header, footer, hints
	start, end := visibleWindow(st.cursor, len(rows), visible)
	for i := start; i < end; i++ {
		r := rows[i]
		selected := i == st.cursor
		base := rowStyle
		if selected {
			base = selectedStyle
		}

		var line strings.Builder
		if selected {
			line.WriteString(markerStyle.Render("▸ "))
		} else {
			line.WriteString(spaceStyle.Render("  "))
		}

		if checkW > 0 {
			if r.Paid {
				line.WriteString(paidStyle.Render(fmt.Sprintf("%-*s", checkW, "[✓]")))
			} else {
				line.WriteString(base.Render(fmt.Sprintf("%-*s", checkW, "[ ]")))
			}
		}

		editingRow := st.editing && st.id == r.ID
		switch {
		case editingRow && st.field == editName:
			field := st.input.View()
			line.WriteString(field)
			line.WriteString(base.Render(strings.Repeat(" ", max(0, nameW-lipgloss.Width(field)))))
		default:
			line.WriteString(base.Render(fmt.Sprintf("%-*s", nameW, truncStr(r.Name, nameW-1))))
		}

		switch {
		case editingRow && st.field == editAmount:
			field := st.input.View()
			line.WriteString(base.Render(strings.Repeat(" ", max(0, amountW-lipgloss.Width(field)))))
			line.WriteString(field)
		case !r.Amount.Valid():
			line.WriteString(invalidStyle.Render(fmt.Sprintf("%*s", amountW, truncStr(r.Amount.Raw, amountW-4)+" → 0")))
		default:
			line.WriteString(base.Render(fmt.Sprintf("%*s", amountW, a.money.Format(r.Amount.Value))))
		}

		body.WriteString(line.String())
		body.WriteString("\n")
	}
	if end < len(rows) {
		body.WriteString(mutedStyle.Render(fmt.Sprintf("  … %d more", len(rows)-end)))
		body.WriteString("\n")
	}

	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")
	body.WriteString(a.renderListFooter(ops, len(rows), innerW))

	if st.editing {
		body.WriteString("\n\n")
		body.WriteString(mutedStyle.Render("[Enter] done  [Tab] switch field  [Esc] cancel"))
	}

	return components.AccentCard(ops.title, body.String(), t.CategoryColor(ops.label), cw)
}

// renderListFooter shows the list total against its target.
func (a App) renderListFooter(ops itemOps, n, innerW int) string {
	t := theme.Active
	total, target, balance := ops.totals(a.ledger.Summary())

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	captionColor := t.Green
	if balance.IsNegative() {
		captionColor = t.Red
	}
	captionStyle := lipgloss.NewStyle().Foreground(captionColor).Background(t.Surface)
	sep := labelStyle.Render("   ")

	line := labelStyle.Render("Total ") + valueStyle.Render(a.money.Format(total)) + sep +
		labelStyle.Render(cli.TargetLabel(ops.label)+" ") + valueStyle.Render(a.money.Format(target)) + sep +
		captionStyle.Render(a.money.Abs(balance)+" "+cli.BalanceCaption(ops.label, balance))

	if ops.toggle != nil {
		line += sep + labelStyle.Render(fmt.Sprintf("%d/%d paid", a.ledger.PaidCount(), n))
	}

	return line + "\n" + components.ProgressBar(ledger.ProgressPercent(total, target), innerW, t.CategoryColor(ops.label))
}
