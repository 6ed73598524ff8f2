package ledger

import (
	"github.com/shopspring/decimal"
)

// Snapshot is the complete state of a ledger, id counters included, so a
// restored ledger never reissues an id the original already handed out.
type Snapshot struct {
	Month        string           `json:"month"`
	Income       decimal.Decimal  `json:"income"`
	Policy       AllocationPolicy `json:"policy"`
	Commitments  []CommitmentItem `json:"commitments"`
	Savings      []SavingsGoal    `json:"savings"`
	Transactions []Transaction    `json:"transactions"`

	NextCommitmentID  int64 `json:"next_commitment_id"`
	NextSavingsID     int64 `json:"next_savings_id"`
	LastTransactionID int64 `json:"last_transaction_id"`
}

// Snapshot captures the current state.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Month:             l.month,
		Income:            l.income,
		Policy:            l.policy,
		Commitments:       l.Commitments(),
		Savings:           l.Savings(),
		Transactions:      l.Transactions(),
		NextCommitmentID:  l.nextCommitmentID,
		NextSavingsID:     l.nextSavingsID,
		LastTransactionID: l.lastTxnID,
	}
}

// Restore rebuilds a ledger from a snapshot. Options apply after the
// snapshot, so WithPolicy or WithClock can override what was stored.
// Counters are raised past any id present in the records.
func Restore(s Snapshot, opts ...Option) *Ledger {
	l := New(WithMonth(s.Month), WithIncome(s.Income))
	if !s.Policy.Sum().IsZero() {
		l.policy = s.Policy
	}
	for _, opt := range opts {
		opt(l)
	}

	l.commitments = append([]CommitmentItem(nil), s.Commitments...)
	l.savings = append([]SavingsGoal(nil), s.Savings...)
	l.transactions = append([]Transaction(nil), s.Transactions...)

	l.nextCommitmentID = max(s.NextCommitmentID, 1)
	for _, c := range l.commitments {
		l.nextCommitmentID = max(l.nextCommitmentID, c.ID+1)
	}
	l.nextSavingsID = max(s.NextSavingsID, 1)
	for _, g := range l.savings {
		l.nextSavingsID = max(l.nextSavingsID, g.ID+1)
	}
	l.lastTxnID = s.LastTransactionID
	for _, tx := range l.transactions {
		l.lastTxnID = max(l.lastTxnID, tx.ID)
	}
	return l
}
