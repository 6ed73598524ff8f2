package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
)

func newTestService(t *testing.T, archive Archive) (*Service, http.Handler) {
	t.Helper()
	s := New(Config{EventsBuffer: 10}, ledger.New(ledger.WithMonth("November")), archive)
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func eventTypes(s *Service) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, ledger.New(), nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestConcurrentMutationsKeepEventOrder(t *testing.T) {
	const n = 40
	s := New(Config{EventsBuffer: n}, ledger.New(), nil)
	ch := make(chan Event, n)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.mutate("income_set", func(l *ledger.Ledger) { l.SetIncomeText(strconv.Itoa(1000 + i)) })
		}()
	}
	wg.Wait()

	s.mu.RLock()
	retained := append([]Event(nil), s.events...)
	s.mu.RUnlock()
	require.Len(t, retained, n)
	for i, ev := range retained {
		assert.Equal(t, int64(i+1), ev.ID)
	}

	require.Len(t, ch, n)
	for i := range n {
		assert.Equal(t, int64(i+1), (<-ch).ID)
	}
}

func TestHealthz(t *testing.T) {
	_, h := newTestService(t, nil)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestCommitmentScenario(t *testing.T) {
	s, h := newTestService(t, nil)

	rec := do(t, h, http.MethodPost, "/v1/commitments", `{"name":"Rent","amount":"100"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[ledger.CommitmentItem](t, rec)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Rent", first.Name)

	rec = do(t, h, http.MethodPost, "/v1/commitments", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[ledger.CommitmentItem](t, rec)
	assert.Equal(t, ledger.NewCommitmentName, second.Name)

	rec = do(t, h, http.MethodPatch, "/v1/commitments/2", `{"amount":50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[MutationResult](t, rec)
	assert.True(t, res.Changed)
	assert.True(t, decimal.NewFromInt(150).Equal(res.Summary.Totals.Commitments))
	assert.True(t, decimal.NewFromInt(998).Equal(res.Summary.Balance.Commitments))

	rec = do(t, h, http.MethodPost, "/v1/commitments/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/commitments", "")
	items := decode[[]ledger.CommitmentItem](t, rec)
	require.Len(t, items, 2)
	assert.True(t, items[0].Paid)
	assert.Equal(t, "50", items[1].Amount.Raw)

	rec = do(t, h, http.MethodGet, "/v1/chart", "")
	chart := decode[Chart](t, rec)
	require.Len(t, chart.Pie, 1)
	assert.Equal(t, ledger.LabelCommitments, chart.Pie[0].Label)
	assert.Len(t, chart.Bar, 3)

	assert.Equal(t, []string{
		"commitment_added", "commitment_added", "commitment_updated", "commitment_toggled",
	}, eventTypes(s))
}

func TestUnknownIDIsNoOp(t *testing.T) {
	s, h := newTestService(t, nil)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPatch, "/v1/commitments/42", `{"name":"x"}`},
		{http.MethodDelete, "/v1/commitments/42", ""},
		{http.MethodPost, "/v1/commitments/42/toggle", ""},
		{http.MethodPatch, "/v1/savings/42", `{"amount":"1"}`},
		{http.MethodDelete, "/v1/savings/42", ""},
		{http.MethodDelete, "/v1/transactions/42", ""},
	} {
		rec := do(t, h, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusOK, rec.Code, tc.path)
		assert.False(t, decode[MutationResult](t, rec).Changed, tc.path)
	}
	assert.Empty(t, eventTypes(s))
}

func TestBadRequests(t *testing.T) {
	_, h := newTestService(t, nil)

	rec := do(t, h, http.MethodPatch, "/v1/commitments/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "invalid id")

	rec = do(t, h, http.MethodPut, "/v1/income", `{"income":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/v1/income", `{"salary":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/v1/month", `{"month":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIncomeAndSummary(t *testing.T) {
	_, h := newTestService(t, nil)

	rec := do(t, h, http.MethodPut, "/v1/income", `{"income":"3000"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/summary", "")
	summary := decode[ledger.Summary](t, rec)
	assert.Equal(t, "November", summary.Month)
	assert.True(t, decimal.NewFromInt(1230).Equal(summary.Budget.Commitments))
	assert.True(t, decimal.NewFromInt(1080).Equal(summary.Budget.Savings))
	assert.True(t, decimal.NewFromInt(690).Equal(summary.Budget.Expenses))

	rec = do(t, h, http.MethodPut, "/v1/income", `{"income":"junk"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[MutationResult](t, rec).Summary.Income.IsZero())
}

func TestTransactions(t *testing.T) {
	s, h := newTestService(t, nil)

	rec := do(t, h, http.MethodPost, "/v1/transactions", `{"item":"","amount":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[MutationResult](t, rec).Changed)

	rec = do(t, h, http.MethodPost, "/v1/transactions",
		`{"item":"Lunch","amount":12.5,"category":"makan","date":"2025-11-03"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	tx := decode[ledger.Transaction](t, rec)
	assert.Equal(t, ledger.CategoryMakan, tx.Category)
	assert.Equal(t, "2025-11-03", tx.Date.String())

	rec = do(t, h, http.MethodPost, "/v1/transactions", `{"item":"Petrol","amount":"40","category":"fuel"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ledger.CategoryOther, decode[ledger.Transaction](t, rec).Category)

	rec = do(t, h, http.MethodGet, "/v1/transactions", "")
	txs := decode[[]ledger.Transaction](t, rec)
	require.Len(t, txs, 2)
	assert.Equal(t, "Petrol", txs[0].Item, "newest first")

	rec = do(t, h, http.MethodDelete, "/v1/transactions/"+jsonID(tx.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[MutationResult](t, rec).Changed)

	assert.Equal(t, []string{"transaction_added", "transaction_added", "transaction_deleted"}, eventTypes(s))
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestSnapshotsWithoutArchive(t *testing.T) {
	_, h := newTestService(t, nil)
	rec := do(t, h, http.MethodPut, "/v1/snapshots/nov", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestSnapshotSaveAndLoad(t *testing.T) {
	archive, err := store.Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Close() })

	s, h := newTestService(t, archive)
	do(t, h, http.MethodPost, "/v1/savings", `{"name":"ASB","amount":"300"}`)

	rec := do(t, h, http.MethodPut, "/v1/snapshots/nov", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	do(t, h, http.MethodDelete, "/v1/savings/1", "")
	rec = do(t, h, http.MethodGet, "/v1/savings", "")
	assert.Empty(t, decode[[]ledger.SavingsGoal](t, rec))

	rec = do(t, h, http.MethodPost, "/v1/snapshots/nov/load", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decimal.NewFromInt(300).Equal(decode[ledger.Summary](t, rec).Totals.Savings))

	rec = do(t, h, http.MethodPost, "/v1/snapshots/missing/load", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	types := eventTypes(s)
	assert.Equal(t, "snapshot_loaded", types[len(types)-1])
}

func TestStreamDeliversChanges(t *testing.T) {
	_, h := newTestService(t, nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, Event) {
		var typ string
		var ev Event
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				typ = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
			case line == "":
				return typ, ev
			}
		}
	}

	typ, _ := readEvent()
	assert.Equal(t, "snapshot", typ)

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, srv.URL+"/v1/income", strings.NewReader(`{"income":"1000"}`))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(put)
	require.NoError(t, err)
	_ = putResp.Body.Close()

	typ, ev := readEvent()
	assert.Equal(t, "income_set", typ)
	assert.True(t, decimal.NewFromInt(1000).Equal(ev.Summary.Income))
}
