package tui

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/ledger"
)

var savingsOps = itemOps{
	title: "Savings Goals",
	label: ledger.LabelSavings,
	rows: func(l *ledger.Ledger) []itemRow {
		goals := l.Savings()
		rows := make([]itemRow, len(goals))
		for i, g := range goals {
			rows[i] = itemRow{ID: g.ID, Name: g.Name, Amount: g.Amount}
		}
		return rows
	},
	add:       func(l *ledger.Ledger) int64 { return l.AddSavingsGoal().ID },
	rename:    (*ledger.Ledger).UpdateSavingsName,
	setAmount: (*ledger.Ledger).UpdateSavingsAmount,
	remove:    (*ledger.Ledger).DeleteSavingsGoal,
	totals: func(s ledger.Summary) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
		return s.Totals.Savings, s.Budget.Savings, s.Balance.Savings
	},
}
