// Package tui provides the interactive Bubble Tea dashboard for gaji.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
	"github.com/theirongolddev/gaji/internal/tui/components"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// Archive is the part of the snapshot store the dashboard writes to.
type Archive interface {
	Save(ctx context.Context, name string, snap ledger.Snapshot) (store.Info, error)
}

// Options configures a new App.
type Options struct {
	Archive      Archive // nil disables the save key
	SnapshotName string  // name the session was loaded from, if any
	FirstRun     bool    // show the setup form before the dashboard
}

// SnapshotSavedMsg is sent when a background snapshot save finishes.
type SnapshotSavedMsg struct {
	Info store.Info
	Err  error
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	ledger *ledger.Ledger
	cfg    config.Config
	money  cli.Money

	// Snapshot state
	archive      Archive
	snapName     string
	savedVersion uint64
	pending      uint64 // version being written by an in-flight save
	saving       bool
	spinner      spinner.Model

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	notice    string

	// Income editor, opened with `i` from any tab
	incomeEditing bool
	incomeInput   textinput.Model

	// Per-tab state
	commit   listState
	goals    listState
	expenses expensesState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5 // minimum content area height
	saveTimeout      = 10 * time.Second
)

// NewApp creates a new TUI app model around l.
func NewApp(cfg config.Config, l *ledger.Ledger, opts Options) App {
	theme.SetActive(cfg.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		ledger:       l,
		cfg:          cfg,
		money:        cli.NewMoney(cfg.Currency.Label, cfg.Currency.Decimals),
		archive:      opts.Archive,
		snapName:     opts.SnapshotName,
		savedVersion: l.Version(),
		spinner:      sp,
		needSetup:    opts.FirstRun,
	}
	if a.needSetup {
		a.setupVals = newSetupValues(cfg)
		a.setupForm = newSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(min(msg.Width, 72)).WithHeight(msg.Height)
		}
		if a.expenses.form != nil {
			a.expenses.form = a.expenses.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.needSetup || a.editing() {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			// Tab bar occupies the first line of the header.
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case SnapshotSavedMsg:
		a.saving = false
		if msg.Err != nil {
			log.Error().Err(msg.Err).Msg("saving snapshot")
			a.notice = "Save failed: " + msg.Err.Error()
			return a, nil
		}
		a.snapName = msg.Info.Name
		a.savedVersion = a.pending
		a.notice = "Saved snapshot " + msg.Info.Name
		return a, nil

	case spinner.TickMsg:
		if a.saving {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to an open form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.expenses.form != nil {
		return a.updateTransactionForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Text inputs and forms own the keyboard while open.
	switch {
	case a.incomeEditing:
		return a.updateIncomeInput(msg)
	case a.activeTab == components.TabSettings && a.settings.editing:
		return a.updateSettingsInput(msg)
	case a.isListTab() && a.currentList().editing:
		return a.updateListInput(msg)
	case a.activeTab == components.TabExpenses && a.expenses.form != nil:
		return a.updateTransactionForm(msg)
	}

	a.notice = ""

	// Help toggle
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}

	// Dismiss help
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Tab-local bindings
	switch {
	case a.isListTab():
		if next, cmd, ok := a.updateListKeys(key); ok {
			return next, cmd
		}
	case a.activeTab == components.TabExpenses:
		if next, cmd, ok := a.updateExpensesKeys(key); ok {
			return next, cmd
		}
	case a.activeTab == components.TabSettings:
		if next, cmd, ok := a.updateSettingsKeys(key); ok {
			return next, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "i":
		return a.startIncomeEdit()
	case "w":
		return a.saveSnapshot()
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	// Tab navigation
	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// editing reports whether any text input or form has the keyboard.
func (a App) editing() bool {
	return a.incomeEditing || a.settings.editing || a.commit.editing || a.goals.editing || a.expenses.form != nil
}

// moveCursor moves the list cursor of the active tab by delta.
func (a *App) moveCursor(delta int) {
	switch {
	case a.isListTab():
		st := a.currentList()
		n := len(a.currentOps().rows(a.ledger))
		st.cursor = clampCursor(st.cursor+delta, n)
	case a.activeTab == components.TabExpenses:
		n := len(a.ledger.Transactions())
		a.expenses.cursor = clampCursor(a.expenses.cursor+delta, n)
	}
}

func clampCursor(cursor, n int) int {
	return max(0, min(cursor, n-1))
}

// ─── Income ─────────────────────────────────────────────────────

func (a App) startIncomeEdit() (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "monthly income"
	ti.CharLimit = 20
	ti.Width = 16
	ti.SetValue(a.ledger.Income().String())
	ti.Focus()

	a.incomeEditing = true
	a.incomeInput = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateIncomeInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.ledger.SetIncomeText(a.incomeInput.Value())
		a.incomeEditing = false
		a.notice = "Income set to " + a.money.Format(a.ledger.Income())
		return a, nil
	case "esc":
		a.incomeEditing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.incomeInput, cmd = a.incomeInput.Update(msg)
	return a, cmd
}

// ─── Snapshots ──────────────────────────────────────────────────

// snapshotName is the loaded snapshot name, or the month label.
func (a App) snapshotName() string {
	if a.snapName != "" {
		return a.snapName
	}
	return a.ledger.Month()
}

func (a App) dirty() bool {
	return a.ledger.Version() != a.savedVersion
}

func (a App) saveSnapshot() (tea.Model, tea.Cmd) {
	if a.archive == nil {
		a.notice = "No snapshot store configured"
		return a, nil
	}
	if a.saving {
		return a, nil
	}
	a.saving = true
	a.pending = a.ledger.Version()
	return a, tea.Batch(saveSnapshotCmd(a.archive, a.snapshotName(), a.ledger.Snapshot()), a.spinner.Tick)
}

// saveSnapshotCmd writes snap in the background.
func saveSnapshotCmd(archive Archive, name string, snap ledger.Snapshot) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		info, err := archive.Save(ctx, name, snap)
		return SnapshotSavedMsg{Info: info, Err: err}
	}
}

// ─── Layout ─────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.viewSetup()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  gaji needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o c s e x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Navigate lists"},
		}},
		{"Budget", []struct{ key, desc string }{
			{"i", "Edit income"},
			{"a", "Add item / transaction"},
			{"Enter", "Edit amount"},
			{"r", "Rename item"},
			{"Space", "Toggle commitment paid"},
			{"d", "Delete"},
			{"Tab", "Switch name / amount while editing"},
			{"Esc", "Cancel edit"},
		}},
		{"Session", []struct{ key, desc string }{
			{"w", "Save snapshot"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + session pill
	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderSessionPill(w)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusNotice(), a.statusInfo())

	// 3. Content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := max(h-headerH-statusH, minContentHeight)

	// 4. Tab content
	var content string
	switch a.activeTab {
	case components.TabOverview:
		content = a.renderOverviewTab(cw)
	case components.TabCommitments, components.TabSavings:
		content = a.renderListTab(cw, contentH)
	case components.TabExpenses:
		content = a.renderExpensesTab(cw, contentH)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Centre when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderSessionPill shows month, income and the income editor when open.
func (a App) renderSessionPill(w int) string {
	t := theme.Active
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	pill := pillStyle.Render(" ") + accentStyle.Render(a.ledger.Month())
	pill += pillStyle.Render(" │ income ")
	if a.incomeEditing {
		pill += a.incomeInput.View()
		pill += pillStyle.Render("  [Enter] set  [Esc] cancel")
	} else {
		pill += accentStyle.Render(a.money.Format(a.ledger.Income()))
	}
	pill += pillStyle.Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)
}

func (a App) statusHints() string {
	switch a.activeTab {
	case components.TabCommitments:
		return "[a]dd [r]ename [Enter] amount [Space] paid [d]elete"
	case components.TabSavings:
		return "[a]dd [r]ename [Enter] amount [d]elete"
	case components.TabExpenses:
		return "[a]dd transaction [d]elete [j/k] move"
	case components.TabSettings:
		return "[j/k] navigate [Enter] edit"
	}
	return "[i]ncome [w] save [?]help [q]uit"
}

func (a App) statusNotice() string {
	if a.saving {
		return a.spinner.View() + " saving"
	}
	return a.notice
}

func (a App) statusInfo() string {
	name := "unsaved session"
	if a.snapName != "" {
		name = a.snapName
	}
	if a.dirty() {
		name += "*"
	}
	return name
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// visibleWindow returns the [start, end) slice of n rows that keeps cursor
// on screen when only rows lines fit.
func visibleWindow(cursor, n, rows int) (int, int) {
	rows = max(rows, 1)
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	return start, min(start+rows, n)
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
