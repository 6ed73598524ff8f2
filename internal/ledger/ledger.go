package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder names given to freshly added records.
const (
	NewCommitmentName = "New Commitment"
	NewSavingsName    = "New Goal"
)

// DefaultIncome is the income a new ledger starts with.
var DefaultIncome = decimal.NewFromInt(2800)

// Ledger owns one month of budget data. Every mutation goes through a
// method; derived figures are recomputed from the records on each read.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	policy AllocationPolicy
	month  string
	income decimal.Decimal

	commitments  []CommitmentItem
	savings      []SavingsGoal
	transactions []Transaction

	// Id counters only move forward, so a deleted id is never reissued.
	nextCommitmentID int64
	nextSavingsID    int64
	lastTxnID        int64

	now     func() time.Time
	version uint64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPolicy overrides the allocation policy.
func WithPolicy(p AllocationPolicy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithIncome sets the starting income.
func WithIncome(income decimal.Decimal) Option {
	return func(l *Ledger) { l.income = income }
}

// WithMonth sets the month label shown in headers.
func WithMonth(month string) Option {
	return func(l *Ledger) { l.month = month }
}

// WithClock replaces time.Now, used for transaction ids and draft dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New returns an empty ledger with DefaultIncome and DefaultPolicy.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		policy:           DefaultPolicy,
		income:           DefaultIncome,
		nextCommitmentID: 1,
		nextSavingsID:    1,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.month == "" {
		l.month = l.now().Format("January 2006")
	}
	return l
}

// NewSeeded returns a ledger pre-filled with the usual commitments and
// savings goals, all at zero.
func NewSeeded(opts ...Option) *Ledger {
	l := New(opts...)
	for _, name := range seedCommitments {
		l.commitments = append(l.commitments, CommitmentItem{
			ID:     l.nextCommitmentID,
			Name:   name,
			Amount: AmountOf(decimal.Zero),
		})
		l.nextCommitmentID++
	}
	for _, name := range seedSavings {
		l.savings = append(l.savings, SavingsGoal{
			ID:     l.nextSavingsID,
			Name:   name,
			Amount: AmountOf(decimal.Zero),
		})
		l.nextSavingsID++
	}
	return l
}

var seedCommitments = []string{
	"Messbill",
	"Parents",
	"Netflix/spotify",
	"Topup Maxis",
	"Kereta (saga)",
	"Insurance (saga)",
	"Services (saga)",
	"Spaylater",
}

var seedSavings = []string{"ASB", "Gold", "Tabung Haji"}

func (l *Ledger) touch() {
	l.version++
}

// Version increases on every mutation that changed state.
func (l *Ledger) Version() uint64 { return l.version }

// Policy returns the allocation policy.
func (l *Ledger) Policy() AllocationPolicy { return l.policy }

// Month returns the month label.
func (l *Ledger) Month() string { return l.month }

// SetMonth replaces the month label.
func (l *Ledger) SetMonth(month string) {
	if month == l.month {
		return
	}
	l.month = month
	l.touch()
}

// Income returns the current income.
func (l *Ledger) Income() decimal.Decimal { return l.income }

// SetIncome replaces income. Negative values are accepted.
func (l *Ledger) SetIncome(income decimal.Decimal) {
	l.income = income
	l.touch()
}

// SetIncomeText coerces raw input the same way amounts are coerced, so
// unparseable text sets income to zero.
func (l *Ledger) SetIncomeText(raw string) {
	l.SetIncome(ParseAmount(raw).Value)
}

// ─── Commitments ────────────────────────────────────────────────

// Commitments returns a copy of the commitments in insertion order.
func (l *Ledger) Commitments() []CommitmentItem {
	out := make([]CommitmentItem, len(l.commitments))
	copy(out, l.commitments)
	return out
}

// Commitment looks up a commitment by id.
func (l *Ledger) Commitment(id int64) (CommitmentItem, bool) {
	if i := l.commitmentIndex(id); i >= 0 {
		return l.commitments[i], true
	}
	return CommitmentItem{}, false
}

func (l *Ledger) commitmentIndex(id int64) int {
	for i, c := range l.commitments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddCommitment appends a placeholder commitment and returns it.
func (l *Ledger) AddCommitment() CommitmentItem {
	c := CommitmentItem{
		ID:     l.nextCommitmentID,
		Name:   NewCommitmentName,
		Amount: AmountOf(decimal.Zero),
	}
	l.nextCommitmentID++
	l.commitments = append(l.commitments, c)
	l.touch()
	return c
}

// UpdateCommitmentName renames a commitment. Unknown ids are ignored.
func (l *Ledger) UpdateCommitmentName(id int64, name string) {
	if i := l.commitmentIndex(id); i >= 0 {
		l.commitments[i].Name = name
		l.touch()
	}
}

// UpdateCommitmentAmount stores raw amount input. Unknown ids are ignored.
func (l *Ledger) UpdateCommitmentAmount(id int64, raw string) {
	if i := l.commitmentIndex(id); i >= 0 {
		l.commitments[i].Amount = ParseAmount(raw)
		l.touch()
	}
}

// ToggleCommitmentPaid flips the paid flag. Unknown ids are ignored.
func (l *Ledger) ToggleCommitmentPaid(id int64) {
	if i := l.commitmentIndex(id); i >= 0 {
		l.commitments[i].Paid = !l.commitments[i].Paid
		l.touch()
	}
}

// DeleteCommitment removes a commitment. Unknown ids are ignored.
func (l *Ledger) DeleteCommitment(id int64) {
	if i := l.commitmentIndex(id); i >= 0 {
		l.commitments = append(l.commitments[:i], l.commitments[i+1:]...)
		l.touch()
	}
}

// ─── Savings ────────────────────────────────────────────────────

// Savings returns a copy of the savings goals in insertion order.
func (l *Ledger) Savings() []SavingsGoal {
	out := make([]SavingsGoal, len(l.savings))
	copy(out, l.savings)
	return out
}

// Goal looks up a savings goal by id.
func (l *Ledger) Goal(id int64) (SavingsGoal, bool) {
	if i := l.savingsIndex(id); i >= 0 {
		return l.savings[i], true
	}
	return SavingsGoal{}, false
}

func (l *Ledger) savingsIndex(id int64) int {
	for i, s := range l.savings {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// AddSavingsGoal appends a placeholder goal and returns it.
func (l *Ledger) AddSavingsGoal() SavingsGoal {
	s := SavingsGoal{
		ID:     l.nextSavingsID,
		Name:   NewSavingsName,
		Amount: AmountOf(decimal.Zero),
	}
	l.nextSavingsID++
	l.savings = append(l.savings, s)
	l.touch()
	return s
}

// UpdateSavingsName renames a goal. Unknown ids are ignored.
func (l *Ledger) UpdateSavingsName(id int64, name string) {
	if i := l.savingsIndex(id); i >= 0 {
		l.savings[i].Name = name
		l.touch()
	}
}

// UpdateSavingsAmount stores raw amount input. Unknown ids are ignored.
func (l *Ledger) UpdateSavingsAmount(id int64, raw string) {
	if i := l.savingsIndex(id); i >= 0 {
		l.savings[i].Amount = ParseAmount(raw)
		l.touch()
	}
}

// DeleteSavingsGoal removes a goal. Unknown ids are ignored.
func (l *Ledger) DeleteSavingsGoal(id int64) {
	if i := l.savingsIndex(id); i >= 0 {
		l.savings = append(l.savings[:i], l.savings[i+1:]...)
		l.touch()
	}
}

// ─── Transactions ───────────────────────────────────────────────

// Draft is the pending entry of the add-transaction form. Amount is kept
// as text until the draft is submitted.
type Draft struct {
	Item     string
	Amount   string
	Category Category
	Date     string
}

// NewDraft returns a blank draft dated today.
func (l *Ledger) NewDraft() Draft {
	return Draft{
		Category: CategoryMakan,
		Date:     DateOf(l.now()).String(),
	}
}

// Ready reports whether the draft has both an item and an amount. Only an
// empty field counts as missing; whitespace is kept as typed.
func (d Draft) Ready() bool {
	return d.Item != "" && d.Amount != ""
}

// AddTransaction submits a draft. A draft missing its item or amount is
// dropped without error and left untouched; otherwise the transaction is
// appended and the draft is reset to a blank one.
func (l *Ledger) AddTransaction(d *Draft) (Transaction, bool) {
	if d == nil || !d.Ready() {
		return Transaction{}, false
	}

	category, ok := ParseCategory(string(d.Category))
	if !ok {
		category = CategoryOther
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		date = DateOf(l.now())
	}

	tx := Transaction{
		ID:       l.nextTransactionID(),
		Item:     d.Item,
		Amount:   ParseAmount(d.Amount),
		Category: category,
		Date:     date,
	}
	l.transactions = append(l.transactions, tx)
	l.touch()

	*d = l.NewDraft()
	return tx, true
}

// nextTransactionID uses the clock in milliseconds, bumped when two
// transactions land in the same millisecond.
func (l *Ledger) nextTransactionID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastTxnID {
		id = l.lastTxnID + 1
	}
	l.lastTxnID = id
	return id
}

// DeleteTransaction removes a transaction. Unknown ids are ignored.
func (l *Ledger) DeleteTransaction(id int64) {
	for i, tx := range l.transactions {
		if tx.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			l.touch()
			return
		}
	}
}

// Transactions returns a copy of the transactions in insertion order.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// RecentTransactions returns the transactions most recent first.
func (l *Ledger) RecentTransactions() []Transaction {
	n := len(l.transactions)
	out := make([]Transaction, n)
	for i, tx := range l.transactions {
		out[n-1-i] = tx
	}
	return out
}

// ─── Derived ────────────────────────────────────────────────────

// Summary derives budget, totals and balances from the current state.
func (l *Ledger) Summary() Summary {
	s := Summarize(l.income, l.policy, l.commitments, l.savings, l.transactions)
	s.Month = l.month
	return s
}

// PieSegments projects the current totals for the share chart.
func (l *Ledger) PieSegments() []PieSegment {
	return ProjectPieSegments(ComputeTotals(l.commitments, l.savings, l.transactions))
}

// BarSeries projects the current budget and totals for the comparison chart.
func (l *Ledger) BarSeries() []BarPoint {
	s := l.Summary()
	return ProjectBarSeries(s.Budget, s.Totals)
}

// PaidCount returns how many commitments are marked paid.
func (l *Ledger) PaidCount() int {
	n := 0
	for _, c := range l.commitments {
		if c.Paid {
			n++
		}
	}
	return n
}
