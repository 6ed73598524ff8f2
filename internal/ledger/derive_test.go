package ledger

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBudgetDefaultIncome(t *testing.T) {
	b := ComputeBudget(dec("2800"), DefaultPolicy)

	assertDecimal(t, "1148", b.Commitments)
	assertDecimal(t, "1008", b.Savings)
	assertDecimal(t, "644", b.Expenses)
}

func TestComputeBudgetRoundsEachCategory(t *testing.T) {
	cases := []struct {
		income                         string
		commitments, savings, expenses string
	}{
		{"0", "0", "0", "0"},
		{"1", "0", "0", "0"},
		{"3", "1", "1", "1"},
		{"150", "62", "54", "35"},
		{"2801", "1148", "1008", "644"},
		{"-150", "-61", "-54", "-34"}, // halves go up
	}
	for _, tc := range cases {
		b := ComputeBudget(dec(tc.income), DefaultPolicy)
		assertDecimal(t, tc.commitments, b.Commitments, "commitments for", tc.income)
		assertDecimal(t, tc.savings, b.Savings, "savings for", tc.income)
		assertDecimal(t, tc.expenses, b.Expenses, "expenses for", tc.income)
	}
}

func TestComputeBudgetDriftIsKept(t *testing.T) {
	// 2.87 + 2.52 + 1.61 rounds to 3 + 3 + 2.
	b := ComputeBudget(dec("7"), DefaultPolicy)
	assertDecimal(t, "8", b.Sum())
}

func TestComputeBudgetSumProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		income := decimal.New(r.Int63n(10_000_000), -2)
		b := ComputeBudget(income, DefaultPolicy)

		want := roundHalfUp(income.Mul(dec("0.41"))).
			Add(roundHalfUp(income.Mul(dec("0.36")))).
			Add(roundHalfUp(income.Mul(dec("0.23"))))
		require.Truef(t, want.Equal(b.Sum()), "income %s: sum %s, want %s", income, b.Sum(), want)
	}
}

func TestComputeTotalsScenario(t *testing.T) {
	commitments := []CommitmentItem{
		{ID: 1, Amount: ParseAmount("100")},
		{ID: 2, Amount: ParseAmount("50")},
	}
	totals := ComputeTotals(commitments, nil, nil)

	assertDecimal(t, "150", totals.Commitments)
	assertDecimal(t, "0", totals.Savings)
	assertDecimal(t, "0", totals.Expenses)
	assertDecimal(t, "150", totals.GrandTotal)

	budget := ComputeBudget(dec("2800"), DefaultPolicy)
	bal := ComputeBalances(budget, totals, dec("2800"))
	assertDecimal(t, "998", bal.Commitments)
	assertDecimal(t, "1008", bal.Savings)
	assertDecimal(t, "644", bal.Expenses)
	assertDecimal(t, "2650", bal.Overall)

	pie := ProjectPieSegments(totals)
	require.Len(t, pie, 1)
	assert.Equal(t, LabelCommitments, pie[0].Label)
	assertDecimal(t, "150", pie[0].Value)
	assert.Equal(t, ColorCommitments, pie[0].Color)
}

func TestComputeTotalsCoercesInvalidAmounts(t *testing.T) {
	totals := ComputeTotals(
		[]CommitmentItem{{Amount: ParseAmount("abc")}, {Amount: ParseAmount("")}, {Amount: ParseAmount(" 20 ")}},
		[]SavingsGoal{{Amount: ParseAmount("1e2")}, {Amount: Amount{}}},
		[]Transaction{{Amount: ParseAmount("12.5")}, {Amount: ParseAmount("NaN")}},
	)

	assertDecimal(t, "20", totals.Commitments)
	assertDecimal(t, "100", totals.Savings)
	assertDecimal(t, "12.5", totals.Expenses)
	assertDecimal(t, "132.5", totals.GrandTotal)
}

func TestComputeTotalsOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var commitments []CommitmentItem
	var transactions []Transaction
	for i := 0; i < 40; i++ {
		commitments = append(commitments, CommitmentItem{ID: int64(i), Amount: AmountOf(decimal.New(r.Int63n(100000), -2))})
		transactions = append(transactions, Transaction{ID: int64(i), Amount: AmountOf(decimal.New(r.Int63n(100000), -2))})
	}
	want := ComputeTotals(commitments, nil, transactions)

	for round := 0; round < 10; round++ {
		r.Shuffle(len(commitments), func(i, j int) { commitments[i], commitments[j] = commitments[j], commitments[i] })
		r.Shuffle(len(transactions), func(i, j int) { transactions[i], transactions[j] = transactions[j], transactions[i] })
		got := ComputeTotals(commitments, nil, transactions)
		require.True(t, want.GrandTotal.Equal(got.GrandTotal))
		require.True(t, want.Commitments.Equal(got.Commitments))
		require.True(t, want.Expenses.Equal(got.Expenses))
	}
}

func TestNegativeBalanceSignalsOverBudget(t *testing.T) {
	l := New()
	c := l.AddCommitment()
	l.UpdateCommitmentAmount(c.ID, "2000")

	s := l.Summary()
	assertDecimal(t, "-852", s.Balance.Commitments)
	assertDecimal(t, "800", s.Balance.Overall)
}

func TestPieAndBarProjections(t *testing.T) {
	cases := []struct {
		name    string
		totals  Totals
		wantPie []string
	}{
		{"all zero", Totals{}, []string{}},
		{"only savings", Totals{Savings: dec("10")}, []string{LabelSavings}},
		{"all three", Totals{Commitments: dec("1"), Savings: dec("2"), Expenses: dec("3")},
			[]string{LabelCommitments, LabelSavings, LabelExpenses}},
		{"negative left out", Totals{Commitments: dec("-5"), Expenses: dec("3")}, []string{LabelExpenses}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			labels := []string{}
			for _, s := range ProjectPieSegments(tc.totals) {
				labels = append(labels, s.Label)
			}
			assert.Equal(t, tc.wantPie, labels)

			bars := ProjectBarSeries(BudgetTarget{}, tc.totals)
			require.Len(t, bars, 3)
			assert.Equal(t, LabelCommitments, bars[0].Label)
			assert.Equal(t, LabelSavings, bars[1].Label)
			assert.Equal(t, LabelExpenses, bars[2].Label)
		})
	}
}

func TestLedgerProjections(t *testing.T) {
	l := NewSeeded()
	assert.Empty(t, l.PieSegments())

	bars := l.BarSeries()
	require.Len(t, bars, 3)
	assertDecimal(t, "1148", bars[0].Budget)
	assertDecimal(t, "0", bars[0].Actual)
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		current, target string
		want            float64
	}{
		{"0", "100", 0},
		{"50", "100", 50},
		{"150", "100", 100},
		{"-10", "100", 0},
		{"0", "0", 0},
		{"5", "0", 100},
		{"-5", "0", 0},
		{"5", "-10", 0},
		{"1", "3", 100.0 / 3},
	}
	for _, tc := range cases {
		got := ProgressPercent(dec(tc.current), dec(tc.target))
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "%s/%s", tc.current, tc.target)
		assert.InDeltaf(t, tc.want, got, 1e-9, "%s/%s", tc.current, tc.target)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "41%", Percent(DefaultPolicy.Commitments))
	assert.Equal(t, "36%", Percent(DefaultPolicy.Savings))
	assert.Equal(t, "23%", Percent(DefaultPolicy.Expenses))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("minyak")
	assert.True(t, ok)
	assert.Equal(t, CategoryMinyak, c)

	_, ok = ParseCategory("groceries")
	assert.False(t, ok)
}
