package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw   string
		want  string
		valid bool
	}{
		{"12.50", "12.5", true},
		{"  7 ", "7", true},
		{"", "0", true},
		{"-3", "-3", true},
		{"abc", "0", false},
		{"12abc", "0", false},
		{"1,000", "0", false},
	}
	for _, tc := range cases {
		a := ParseAmount(tc.raw)
		assert.Equal(t, tc.raw, a.Raw)
		assertDecimal(t, tc.want, a.Value, tc.raw)
		assert.Equal(t, tc.valid, a.Valid(), tc.raw)
	}
}

func TestAmountJSON(t *testing.T) {
	item := CommitmentItem{ID: 3, Name: "Rent", Amount: ParseAmount("abc")}
	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"Rent","amount":"abc","paid":false}`, string(data))

	var back CommitmentItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "abc", back.Amount.Raw)
	assert.True(t, back.Amount.IsZero())

	var fromNumber SavingsGoal
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"ASB","amount":250.75}`), &fromNumber))
	assertDecimal(t, "250.75", fromNumber.Amount.Value)

	var bad SavingsGoal
	assert.Error(t, json.Unmarshal([]byte(`{"amount":true}`), &bad))
}

func TestDateJSON(t *testing.T) {
	tx := Transaction{ID: 1, Item: "Roti", Amount: ParseAmount("3"), Category: CategoryMakan, Date: DateOf(time.Date(2025, 11, 3, 23, 59, 0, 0, time.UTC))}
	data, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2025-11-03"`)

	var back Transaction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "2025-11-03", back.Date.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"03/11/2025"}`), &back))
}

func TestDateOfKeepsLocalCalendarDay(t *testing.T) {
	kl := time.FixedZone("MYT", 8*60*60)
	d := DateOf(time.Date(2025, 11, 4, 1, 0, 0, 0, kl))
	assert.Equal(t, "2025-11-04", d.String())
	assert.Equal(t, "", Date{}.String())
}

func TestPolicySum(t *testing.T) {
	assertDecimal(t, "1", DefaultPolicy.Sum())
	assertDecimal(t, "1", NewPolicy(0.5, 0.3, 0.2).Sum())
}
