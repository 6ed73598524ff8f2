package tui

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/ledger"
)

var commitmentOps = itemOps{
	title: "Fixed Commitments",
	label: ledger.LabelCommitments,
	rows: func(l *ledger.Ledger) []itemRow {
		items := l.Commitments()
		rows := make([]itemRow, len(items))
		for i, c := range items {
			rows[i] = itemRow{ID: c.ID, Name: c.Name, Amount: c.Amount, Paid: c.Paid}
		}
		return rows
	},
	add:       func(l *ledger.Ledger) int64 { return l.AddCommitment().ID },
	rename:    (*ledger.Ledger).UpdateCommitmentName,
	setAmount: (*ledger.Ledger).UpdateCommitmentAmount,
	remove:    (*ledger.Ledger).DeleteCommitment,
	toggle:    (*ledger.Ledger).ToggleCommitmentPaid,
	totals: func(s ledger.Summary) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
		return s.Totals.Commitments, s.Budget.Commitments, s.Balance.Commitments
	},
}
