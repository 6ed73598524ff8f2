package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
)

// maxBodyBytes caps request bodies; every payload here is a few fields.
const maxBodyBytes = 64 << 10

// MutationResult answers every mutating request. Changed is false when the
// request named an unknown id or was otherwise a no-op.
type MutationResult struct {
	Changed bool           `json:"changed"`
	Version uint64         `json:"version"`
	Summary ledger.Summary `json:"summary"`
}

// Chart carries both chart projections.
type Chart struct {
	Pie []ledger.PieSegment `json:"pie"`
	Bar []ledger.BarPoint   `json:"bar"`
}

type incomeRequest struct {
	Income ledger.Amount `json:"income"`
}

type monthRequest struct {
	Month string `json:"month"`
}

type itemRequest struct {
	Name   *string        `json:"name"`
	Amount *ledger.Amount `json:"amount"`
}

type transactionRequest struct {
	Item     string        `json:"item"`
	Amount   ledger.Amount `json:"amount"`
	Category string        `json:"category"`
	Date     string        `json:"date"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (s *Service) respondMutation(w http.ResponseWriter, typ string, fn func(l *ledger.Ledger)) {
	changed, version, summary := s.mutate(typ, fn)
	writeJSON(w, http.StatusOK, MutationResult{Changed: changed, Version: version, Summary: summary})
}

// ─── Overview ───────────────────────────────────────────────────

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	var summary ledger.Summary
	s.read(func(l *ledger.Ledger) { summary = l.Summary() })
	writeJSON(w, http.StatusOK, summary)
}

func (s *Service) handleChart(w http.ResponseWriter, _ *http.Request) {
	var chart Chart
	s.read(func(l *ledger.Ledger) {
		chart = Chart{Pie: l.PieSegments(), Bar: l.BarSeries()}
	})
	writeJSON(w, http.StatusOK, chart)
}

func (s *Service) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondMutation(w, "income_set", func(l *ledger.Ledger) {
		l.SetIncome(req.Income.Value)
	})
}

func (s *Service) handleSetMonth(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Month) == "" {
		writeError(w, http.StatusBadRequest, errors.New("month is required"))
		return
	}
	s.respondMutation(w, "month_set", func(l *ledger.Ledger) {
		l.SetMonth(strings.TrimSpace(req.Month))
	})
}

// ─── Commitments ────────────────────────────────────────────────

func (s *Service) handleListCommitments(w http.ResponseWriter, _ *http.Request) {
	var items []ledger.CommitmentItem
	s.read(func(l *ledger.Ledger) { items = l.Commitments() })
	writeJSON(w, http.StatusOK, items)
}

func (s *Service) handleAddCommitment(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var item ledger.CommitmentItem
	s.mutate("commitment_added", func(l *ledger.Ledger) {
		item = l.AddCommitment()
		if req.Name != nil {
			l.UpdateCommitmentName(item.ID, *req.Name)
		}
		if req.Amount != nil {
			l.UpdateCommitmentAmount(item.ID, req.Amount.Raw)
		}
		item, _ = l.Commitment(item.ID)
	})
	writeJSON(w, http.StatusCreated, item)
}

func (s *Service) handleUpdateCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondMutation(w, "commitment_updated", func(l *ledger.Ledger) {
		if req.Name != nil {
			l.UpdateCommitmentName(id, *req.Name)
		}
		if req.Amount != nil {
			l.UpdateCommitmentAmount(id, req.Amount.Raw)
		}
	})
}

func (s *Service) handleToggleCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondMutation(w, "commitment_toggled", func(l *ledger.Ledger) {
		l.ToggleCommitmentPaid(id)
	})
}

func (s *Service) handleDeleteCommitment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondMutation(w, "commitment_deleted", func(l *ledger.Ledger) {
		l.DeleteCommitment(id)
	})
}

// ─── Savings ────────────────────────────────────────────────────

func (s *Service) handleListSavings(w http.ResponseWriter, _ *http.Request) {
	var goals []ledger.SavingsGoal
	s.read(func(l *ledger.Ledger) { goals = l.Savings() })
	writeJSON(w, http.StatusOK, goals)
}

func (s *Service) handleAddSavings(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var goal ledger.SavingsGoal
	s.mutate("savings_added", func(l *ledger.Ledger) {
		goal = l.AddSavingsGoal()
		if req.Name != nil {
			l.UpdateSavingsName(goal.ID, *req.Name)
		}
		if req.Amount != nil {
			l.UpdateSavingsAmount(goal.ID, req.Amount.Raw)
		}
		goal, _ = l.Goal(goal.ID)
	})
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Service) handleUpdateSavings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondMutation(w, "savings_updated", func(l *ledger.Ledger) {
		if req.Name != nil {
			l.UpdateSavingsName(id, *req.Name)
		}
		if req.Amount != nil {
			l.UpdateSavingsAmount(id, req.Amount.Raw)
		}
	})
}

func (s *Service) handleDeleteSavings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondMutation(w, "savings_deleted", func(l *ledger.Ledger) {
		l.DeleteSavingsGoal(id)
	})
}

// ─── Transactions ───────────────────────────────────────────────

func (s *Service) handleListTransactions(w http.ResponseWriter, _ *http.Request) {
	var txs []ledger.Transaction
	s.read(func(l *ledger.Ledger) { txs = l.RecentTransactions() })
	writeJSON(w, http.StatusOK, txs)
}

// handleAddTransaction answers 201 with the new transaction, or 200 with
// changed=false when the draft lacked an item or an amount.
func (s *Service) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		tx    ledger.Transaction
		added bool
	)
	changed, version, summary := s.mutate("transaction_added", func(l *ledger.Ledger) {
		d := ledger.Draft{
			Item:     req.Item,
			Amount:   req.Amount.Raw,
			Category: ledger.Category(req.Category),
			Date:     req.Date,
		}
		tx, added = l.AddTransaction(&d)
	})
	if !added {
		writeJSON(w, http.StatusOK, MutationResult{Changed: changed, Version: version, Summary: summary})
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Service) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.respondMutation(w, "transaction_deleted", func(l *ledger.Ledger) {
		l.DeleteTransaction(id)
	})
}

// ─── Snapshots ──────────────────────────────────────────────────

func (s *Service) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotImplemented, errors.New("no snapshot store configured"))
		return
	}
	var snap ledger.Snapshot
	s.read(func(l *ledger.Ledger) { snap = l.Snapshot() })

	info, err := s.archive.Save(r.Context(), r.PathValue("name"), snap)
	if err != nil {
		log.Error().Err(err).Msg("saving snapshot")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Service) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotImplemented, errors.New("no snapshot store configured"))
		return
	}
	snap, err := s.archive.Load(r.Context(), r.PathValue("name"))
	if errors.Is(err, store.ErrSnapshotNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("loading snapshot")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	summary := s.replace(ledger.Restore(snap))
	writeJSON(w, http.StatusOK, summary)
}
