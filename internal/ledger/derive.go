package ledger

import (
	"github.com/shopspring/decimal"
)

// Category labels and colours used by the chart projections.
const (
	LabelCommitments = "Commitments"
	LabelSavings     = "Savings"
	LabelExpenses    = "Belanja"

	ColorCommitments = "#ef4444"
	ColorSavings     = "#22c55e"
	ColorExpenses    = "#3b82f6"

	// Bar series fills for the budget and actual columns.
	ColorBudgetBar = "#cbd5e1"
	ColorActualBar = "#4f46e5"
)

var half = decimal.RequireFromString("0.5")

// BudgetTarget is the per-category allocation of income.
type BudgetTarget struct {
	Commitments decimal.Decimal `json:"commitments"`
	Savings     decimal.Decimal `json:"savings"`
	Expenses    decimal.Decimal `json:"expenses"`
}

// Totals is the per-category sum of recorded amounts.
type Totals struct {
	Commitments decimal.Decimal `json:"commitments"`
	Savings     decimal.Decimal `json:"savings"`
	Expenses    decimal.Decimal `json:"expenses"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// Balance is what remains of each target. Negative means over budget.
type Balance struct {
	Commitments decimal.Decimal `json:"commitments"`
	Savings     decimal.Decimal `json:"savings"`
	Expenses    decimal.Decimal `json:"expenses"`
	Overall     decimal.Decimal `json:"overall"`
}

// Summary bundles every derived figure for one ledger state.
type Summary struct {
	Month   string           `json:"month"`
	Income  decimal.Decimal  `json:"income"`
	Policy  AllocationPolicy `json:"policy"`
	Budget  BudgetTarget     `json:"budget"`
	Totals  Totals           `json:"totals"`
	Balance Balance          `json:"balance"`
}

// PieSegment is one slice of the spending-share chart.
type PieSegment struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// BarPoint is one category column of the budget-versus-actual chart.
type BarPoint struct {
	Label  string          `json:"label"`
	Budget decimal.Decimal `json:"budget"`
	Actual decimal.Decimal `json:"actual"`
}

// roundHalfUp rounds to the nearest integer, with halves going towards
// positive infinity (-2.5 -> -2, 2.5 -> 3).
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// ComputeBudget allocates income across the categories. Each category is
// rounded on its own, so the three targets need not add up to income.
func ComputeBudget(income decimal.Decimal, p AllocationPolicy) BudgetTarget {
	return BudgetTarget{
		Commitments: roundHalfUp(income.Mul(p.Commitments)),
		Savings:     roundHalfUp(income.Mul(p.Savings)),
		Expenses:    roundHalfUp(income.Mul(p.Expenses)),
	}
}

// Sum returns the total of the three targets.
func (b BudgetTarget) Sum() decimal.Decimal {
	return b.Commitments.Add(b.Savings).Add(b.Expenses)
}

// ComputeTotals sums the amounts of each collection. Amounts that did not
// parse contribute zero.
func ComputeTotals(commitments []CommitmentItem, savings []SavingsGoal, transactions []Transaction) Totals {
	var t Totals
	for _, c := range commitments {
		t.Commitments = t.Commitments.Add(c.Amount.Value)
	}
	for _, s := range savings {
		t.Savings = t.Savings.Add(s.Amount.Value)
	}
	for _, tx := range transactions {
		t.Expenses = t.Expenses.Add(tx.Amount.Value)
	}
	t.GrandTotal = t.Commitments.Add(t.Savings).Add(t.Expenses)
	return t
}

// ComputeBalances subtracts totals from targets, and the grand total from income.
func ComputeBalances(b BudgetTarget, t Totals, income decimal.Decimal) Balance {
	return Balance{
		Commitments: b.Commitments.Sub(t.Commitments),
		Savings:     b.Savings.Sub(t.Savings),
		Expenses:    b.Expenses.Sub(t.Expenses),
		Overall:     income.Sub(t.GrandTotal),
	}
}

// Summarize derives the full summary for the given inputs.
func Summarize(income decimal.Decimal, p AllocationPolicy, commitments []CommitmentItem, savings []SavingsGoal, transactions []Transaction) Summary {
	budget := ComputeBudget(income, p)
	totals := ComputeTotals(commitments, savings, transactions)
	return Summary{
		Income:  income,
		Policy:  p,
		Budget:  budget,
		Totals:  totals,
		Balance: ComputeBalances(budget, totals, income),
	}
}

// ProjectPieSegments returns one segment per category with a positive total.
// Categories totalling zero are left out of the chart.
func ProjectPieSegments(t Totals) []PieSegment {
	all := []PieSegment{
		{Label: LabelCommitments, Value: t.Commitments, Color: ColorCommitments},
		{Label: LabelSavings, Value: t.Savings, Color: ColorSavings},
		{Label: LabelExpenses, Value: t.Expenses, Color: ColorExpenses},
	}
	segments := make([]PieSegment, 0, len(all))
	for _, s := range all {
		if s.Value.IsPositive() {
			segments = append(segments, s)
		}
	}
	return segments
}

// ProjectBarSeries always returns all three categories, zero or not.
func ProjectBarSeries(b BudgetTarget, t Totals) []BarPoint {
	return []BarPoint{
		{Label: LabelCommitments, Budget: b.Commitments, Actual: t.Commitments},
		{Label: LabelSavings, Budget: b.Savings, Actual: t.Savings},
		{Label: LabelExpenses, Budget: b.Expenses, Actual: t.Expenses},
	}
}

// ProgressPercent returns current as a percentage of target, clamped to
// [0, 100]. A zero target gives 100 when anything has been spent and 0 otherwise.
func ProgressPercent(current, target decimal.Decimal) float64 {
	if target.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	pct := current.Div(target).Shift(2).InexactFloat64()
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
