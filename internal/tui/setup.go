package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

// setupValues holds the answers of the first-run form.
type setupValues struct {
	income   string
	currency string
	theme    string
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		income:   cfg.General.Income,
		currency: cfg.Currency.Label,
		theme:    cfg.Appearance.Theme,
	}
}

func newSetupForm(v *setupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themes = append(themes, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to gaji").
				Description("Your salary, split 41/36/23 into commitments, savings and daily spending.\n\nA few questions before the dashboard opens."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly income").
				Description("Take-home pay the budget is split from.").
				Placeholder(ledger.DefaultIncome.String()).
				Value(&v.income),
			huh.NewInput().
				Title("Currency label").
				Description("Printed before every amount.").
				Placeholder("RM").
				Value(&v.currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.theme),
		),
	).WithShowHelp(true)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// saveSetupConfig applies the answers to the session and writes them as
// the new config. A failed write only costs persistence.
func (a *App) saveSetupConfig() {
	cfg := a.cfg
	v := a.setupVals

	if income := strings.TrimSpace(v.income); income != "" {
		cfg.General.Income = income
		a.ledger.SetIncomeText(income)
	}
	cfg.Currency.Label = strings.TrimSpace(v.currency)
	if theme.Known(v.theme) {
		cfg.Appearance.Theme = v.theme
		theme.SetActive(v.theme)
	}

	a.cfg = cfg
	a.money = cli.NewMoney(cfg.Currency.Label, cfg.Currency.Decimals)
	a.savedVersion = a.ledger.Version()

	if err := config.Save(cfg); err != nil {
		log.Warn().Err(err).Msg("saving setup config")
		a.notice = "Could not save config: " + err.Error()
		return
	}
	a.notice = "Saved " + config.ConfigPath()
}

func (a App) viewSetup() string {
	t := theme.Active
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.setupForm.View(),
		lipgloss.WithWhitespaceBackground(t.Background))
}
