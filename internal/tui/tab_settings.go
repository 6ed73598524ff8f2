package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/components"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldCurrency
	settingsFieldDecimals
	settingsFieldIncome
	settingsFieldMonth
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKeys(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		cmd := a.settingsStartEdit()
		return a, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a *App) settingsStartEdit() tea.Cmd {
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "RM"
		ti.SetValue(a.cfg.Currency.Label)
	case settingsFieldDecimals:
		ti.Placeholder = "2"
		ti.SetValue(strconv.Itoa(a.cfg.Currency.Decimals))
	case settingsFieldIncome:
		ti.Placeholder = ledger.DefaultIncome.String()
		ti.SetValue(a.cfg.General.Income)
	case settingsFieldMonth:
		ti.Placeholder = "November"
		ti.SetValue(a.ledger.Month())
	}

	ti.Focus()
	a.settings.input = ti
	return ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field to the session and writes the
// config. Invalid values leave the setting unchanged.
func (a *App) settingsSave() {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		if theme.Known(val) {
			cfg.Appearance.Theme = val
			theme.SetActive(val)
		}
	case settingsFieldCurrency:
		cfg.Currency.Label = val
	case settingsFieldDecimals:
		if d, err := strconv.Atoi(val); err == nil && d >= 0 && d <= 4 {
			cfg.Currency.Decimals = d
		}
	case settingsFieldIncome:
		cfg.General.Income = val
		a.ledger.SetIncomeText(val)
	case settingsFieldMonth:
		if val != "" {
			cfg.General.Month = val
			a.ledger.SetMonth(val)
		}
	}

	a.cfg = cfg
	a.money = cli.NewMoney(cfg.Currency.Label, cfg.Currency.Decimals)
	a.settings.saveErr = config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	currency := cfg.Currency.Label
	if currency == "" {
		currency = "(none)"
	}
	fields := []field{
		{"Theme", cfg.Appearance.Theme},
		{"Currency Label", currency},
		{"Decimals", strconv.Itoa(cfg.Currency.Decimals)},
		{"Default Income", cfg.General.Income},
		{"Month", a.ledger.Month()},
	}

	var formBody strings.Builder
	for i, f := range fields {
		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// Session info card
	p := a.ledger.Policy()
	snapshot := "(unsaved)"
	if a.snapName != "" {
		snapshot = a.snapName
	}
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Allocation:      ") + valueStyle.Render(fmt.Sprintf("%s commitments · %s savings · %s expenses",
		ledger.Percent(p.Commitments), ledger.Percent(p.Savings), ledger.Percent(p.Expenses))) + "\n")
	infoBody.WriteString(labelStyle.Render("Snapshot:        ") + valueStyle.Render(snapshot) + "\n")
	infoBody.WriteString(labelStyle.Render("Snapshot store:  ") + valueStyle.Render(cfg.StorePath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Session", infoBody.String(), cw))

	return b.String()
}
