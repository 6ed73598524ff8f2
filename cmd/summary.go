package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
)

const (
	summaryShareWidth = 48
	summaryBarWidth   = 30
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Budget, actual and balance per category",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var archive *store.Archive
	if flagLoad != "" {
		archive, err = openArchive(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = archive.Close() }()
	}

	l, err := loadLedger(cmd.Context(), cfg, archive)
	if err != nil {
		return err
	}
	money := cli.NewMoney(cfg.Currency.Label, cfg.Currency.Decimals)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("GAJI  %s", l.Month())))
	fmt.Println()
	fmt.Print(renderSummary(l, money))
	log.Debug().Uint64("version", l.Version()).Msg("rendered summary")
	return nil
}

// renderSummary renders the category table followed by the spending share
// and the budget versus actual bars.
func renderSummary(l *ledger.Ledger, money cli.Money) string {
	s := l.Summary()
	p := s.Policy

	row := func(label string, share decimal.Decimal, budget, actual, balance decimal.Decimal) []string {
		return []string{
			label,
			ledger.Percent(share),
			money.Format(budget),
			money.Format(actual),
			cli.Signed(balance, money.Abs(balance)+" "+cli.BalanceCaption(label, balance)),
		}
	}

	paid := fmt.Sprintf("%d/%d", l.PaidCount(), len(l.Commitments()))
	table := cli.Table{
		Headers: []string{"Category", "Share", "Budget", "Actual", "Balance"},
		Rows: [][]string{
			{"Income", "", money.Format(s.Income), "", ""},
			{"---"},
			row(ledger.LabelCommitments, p.Commitments, s.Budget.Commitments, s.Totals.Commitments, s.Balance.Commitments),
			row(ledger.LabelSavings, p.Savings, s.Budget.Savings, s.Totals.Savings, s.Balance.Savings),
			row(ledger.LabelExpenses, p.Expenses, s.Budget.Expenses, s.Totals.Expenses, s.Balance.Expenses),
			{"---"},
			{"Total", "", money.Format(s.Budget.Sum()), money.Format(s.Totals.GrandTotal), cli.Signed(s.Balance.Overall, money.Format(s.Balance.Overall))},
			{"Paid", "", "", paid, ""},
		},
	}

	var b strings.Builder
	b.WriteString(cli.RenderTable(table))
	b.WriteString("\n")

	if pie := l.PieSegments(); len(pie) > 0 {
		b.WriteString("  Spending share\n\n")
		b.WriteString("  " + cli.RenderShareBar(pie, summaryShareWidth) + "\n\n")
		b.WriteString(cli.RenderLegend(pie, money))
	} else {
		b.WriteString("  Nothing recorded yet.\n")
	}
	b.WriteString("\n")

	bars := l.BarSeries()
	maxValue := decimal.Zero
	for _, bp := range bars {
		maxValue = decimal.Max(maxValue, bp.Budget, bp.Actual)
	}
	b.WriteString("  Budget vs actual\n\n")
	for _, bp := range bars {
		b.WriteString(cli.RenderBarPair(bp, maxValue, summaryBarWidth, money))
	}
	return b.String()
}
