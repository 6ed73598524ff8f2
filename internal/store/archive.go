// Package store provides a SQLite-backed archive of named ledger snapshots.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/gaji/internal/ledger"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout has fixed-width fractions so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrSnapshotNotFound is returned when no snapshot has the requested name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Info describes a stored snapshot without its payload.
type Info struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Month        string    `json:"month"`
	Income       string    `json:"income"`
	Commitments  int       `json:"commitments"`
	Savings      int       `json:"savings"`
	Transactions int       `json:"transactions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Archive stores ledger snapshots by name.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the archive database at the given path.
func Open(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("snapshot store opened")
	return &Archive{db: db, now: time.Now}, nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("snapshot name is empty")
	}
	return name, nil
}

// Save stores snap under name, replacing any snapshot already saved under
// that name. The id and creation time of a replaced snapshot are kept.
func (a *Archive) Save(ctx context.Context, name string, snap ledger.Snapshot) (Info, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Info{}, err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return Info{}, fmt.Errorf("encoding snapshot: %w", err)
	}

	now := a.now().UTC().Format(timeLayout)
	_, err = a.db.ExecContext(ctx, `INSERT INTO snapshots
		(id, name, month, income, commitments, savings, transactions, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			month = excluded.month,
			income = excluded.income,
			commitments = excluded.commitments,
			savings = excluded.savings,
			transactions = excluded.transactions,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		uuid.NewString(), name, snap.Month, snap.Income.String(),
		len(snap.Commitments), len(snap.Savings), len(snap.Transactions),
		string(payload), now, now,
	)
	if err != nil {
		return Info{}, fmt.Errorf("saving snapshot %q: %w", name, err)
	}

	log.Info().Str("name", name).Str("month", snap.Month).Msg("snapshot saved")
	return a.Stat(ctx, name)
}

// Load returns the snapshot stored under name.
func (a *Archive) Load(ctx context.Context, name string) (ledger.Snapshot, error) {
	name, err := normalizeName(name)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	var payload string
	err = a.db.QueryRowContext(ctx, "SELECT payload FROM snapshots WHERE name = ?", name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Snapshot{}, fmt.Errorf("%q: %w", name, ErrSnapshotNotFound)
	}
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("loading snapshot %q: %w", name, err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("decoding snapshot %q: %w", name, err)
	}
	return snap, nil
}

// Stat returns the metadata of the snapshot stored under name.
func (a *Archive) Stat(ctx context.Context, name string) (Info, error) {
	row := a.db.QueryRowContext(ctx, `SELECT
		id, name, month, income, commitments, savings, transactions, created_at, updated_at
		FROM snapshots WHERE name = ?`, name)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("%q: %w", name, ErrSnapshotNotFound)
	}
	return info, err
}

// List returns every stored snapshot, most recently updated first.
func (a *Archive) List(ctx context.Context) ([]Info, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT
		id, name, month, income, commitments, savings, transactions, created_at, updated_at
		FROM snapshots ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Info
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the snapshot stored under name.
func (a *Archive) Delete(ctx context.Context, name string) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM snapshots WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting snapshot %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", name, ErrSnapshotNotFound)
	}
	log.Info().Str("name", name).Msg("snapshot deleted")
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(s scanner) (Info, error) {
	var info Info
	var created, updated string
	err := s.Scan(&info.ID, &info.Name, &info.Month, &info.Income,
		&info.Commitments, &info.Savings, &info.Transactions, &created, &updated)
	if err != nil {
		return Info{}, err
	}
	info.CreatedAt, _ = time.Parse(timeLayout, created)
	info.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return info, nil
}
