// Package daemon serves one ledger over HTTP, with an event feed of every
// change for dashboards that want to follow along.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Archive is the part of the snapshot store the service uses.
type Archive interface {
	Save(ctx context.Context, name string, snap ledger.Snapshot) (store.Info, error)
	Load(ctx context.Context, name string) (ledger.Snapshot, error)
}

// Event is emitted whenever a mutation changes the ledger.
type Event struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Version   uint64         `json:"version"`
	Summary   ledger.Summary `json:"summary"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time      `json:"started_at"`
	Version         uint64         `json:"version"`
	Summary         ledger.Summary `json:"summary"`
	EventCount      int            `json:"event_count"`
	SubscriberCount int            `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API. All ledger access is
// serialised through mu, so the ledger sees a single writer.
type Service struct {
	cfg     Config
	archive Archive

	mu          sync.RWMutex
	ledger      *ledger.Ledger
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service around l. archive may be nil, in which case the
// snapshot endpoints answer 501.
func New(cfg Config, l *ledger.Ledger, archive Archive) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	return &Service{
		cfg:       cfg,
		archive:   archive,
		ledger:    l,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("GET /v1/chart", s.handleChart)
	mux.HandleFunc("PUT /v1/income", s.handleSetIncome)
	mux.HandleFunc("PUT /v1/month", s.handleSetMonth)

	mux.HandleFunc("GET /v1/commitments", s.handleListCommitments)
	mux.HandleFunc("POST /v1/commitments", s.handleAddCommitment)
	mux.HandleFunc("PATCH /v1/commitments/{id}", s.handleUpdateCommitment)
	mux.HandleFunc("DELETE /v1/commitments/{id}", s.handleDeleteCommitment)
	mux.HandleFunc("POST /v1/commitments/{id}/toggle", s.handleToggleCommitment)

	mux.HandleFunc("GET /v1/savings", s.handleListSavings)
	mux.HandleFunc("POST /v1/savings", s.handleAddSavings)
	mux.HandleFunc("PATCH /v1/savings/{id}", s.handleUpdateSavings)
	mux.HandleFunc("DELETE /v1/savings/{id}", s.handleDeleteSavings)

	mux.HandleFunc("GET /v1/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /v1/transactions", s.handleAddTransaction)
	mux.HandleFunc("DELETE /v1/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("PUT /v1/snapshots/{name}", s.handleSaveSnapshot)
	mux.HandleFunc("POST /v1/snapshots/{name}/load", s.handleLoadSnapshot)

	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return logRequests(mux)
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("addr", s.cfg.Addr).Msg("gaji service listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("gaji service shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ─── Ledger access ──────────────────────────────────────────────

// read runs fn under the read lock.
func (s *Service) read(fn func(l *ledger.Ledger)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.ledger)
}

// mutate runs fn under the write lock and publishes an event of the given
// type when the ledger version moved. It reports whether anything changed.
func (s *Service) mutate(typ string, fn func(l *ledger.Ledger)) (bool, uint64, ledger.Summary) {
	s.mu.Lock()
	before := s.ledger.Version()
	fn(s.ledger)
	version := s.ledger.Version()
	summary := s.ledger.Summary()
	changed := version != before
	if changed {
		s.publishLocked(typ, version, summary)
	}
	s.mu.Unlock()

	if changed {
		log.Debug().Str("type", typ).Uint64("version", version).Msg("ledger changed")
	}
	return changed, version, summary
}

// replace swaps in a new ledger, as when a snapshot is loaded.
func (s *Service) replace(l *ledger.Ledger) ledger.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = l
	summary := l.Summary()
	s.publishLocked("snapshot_loaded", l.Version(), summary)
	return summary
}

// publishLocked assigns the next event ID and publishes the event. The
// caller holds s.mu, so events are retained and delivered in ID order.
func (s *Service) publishLocked(typ string, version uint64, summary ledger.Summary) {
	s.nextEventID++
	s.appendEvent(Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		Version:   version,
		Summary:   summary,
	})
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendEvent(ev)
}

// appendEvent retains ev in the ring buffer and fans it out without
// blocking on slow subscribers. The caller holds s.mu.
func (s *Service) appendEvent(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Version:         s.ledger.Version(),
		Summary:         s.ledger.Summary(),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// ─── Events ─────────────────────────────────────────────────────

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the current state immediately.
	status := s.snapshotStatus()
	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Version:   status.Version,
		Summary:   status.Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
