package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GAJI_INCOME", "")
	t.Setenv("GAJI_CURRENCY", "")
	return filepath.Join(dir, "gaji")
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Currency.Label != "RM" {
		t.Fatalf("currency label = %q, want RM", cfg.Currency.Label)
	}
	if got := cfg.Income().String(); got != "2800" {
		t.Fatalf("income = %s, want 2800", got)
	}
	if !cfg.General.Seed {
		t.Fatal("seed should default to true")
	}
	if Exists() {
		t.Fatal("Exists() = true before any Save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := useTempConfigDir(t)

	cfg := DefaultConfig()
	cfg.General.Income = "3150.50"
	cfg.Currency.Label = "MYR"
	cfg.Appearance.Theme = "catppuccin-mocha"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.Income != "3150.50" || got.Currency.Label != "MYR" || got.Appearance.Theme != "catppuccin-mocha" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoad_ParseError(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[general\nincome = "), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail on malformed TOML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv("GAJI_INCOME", "4000")
	t.Setenv("GAJI_CURRENCY", "SGD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Income().String(); got != "4000" {
		t.Fatalf("income = %s, want 4000", got)
	}
	if cfg.Currency.Label != "SGD" {
		t.Fatalf("currency = %q, want SGD", cfg.Currency.Label)
	}
}

func TestPolicy(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Policy().Commitments.String(); got != "0.41" {
		t.Fatalf("default commitments = %s, want 0.41", got)
	}

	half, rest := 0.5, 0.25
	cfg.Allocation = AllocationConfig{Commitments: &half, Savings: &rest}
	if got := cfg.Policy().Commitments.String(); got != "0.41" {
		t.Fatalf("incomplete override should be ignored, got %s", got)
	}

	cfg.Allocation.Expenses = &rest
	p := cfg.Policy()
	if p.Commitments.String() != "0.5" || p.Expenses.String() != "0.25" {
		t.Fatalf("override not applied: %+v", p)
	}
}

func TestNewLedger(t *testing.T) {
	cfg := DefaultConfig()
	l := cfg.NewLedger()
	if n := len(l.Commitments()); n != 8 {
		t.Fatalf("seeded commitments = %d, want 8", n)
	}
	if l.Month() != "November" {
		t.Fatalf("month = %q, want November", l.Month())
	}

	cfg.General.Seed = false
	cfg.General.Income = "not money"
	l = cfg.NewLedger()
	if n := len(l.Commitments()); n != 0 {
		t.Fatalf("unseeded commitments = %d, want 0", n)
	}
	if !l.Income().IsZero() {
		t.Fatalf("income = %s, want 0", l.Income())
	}
}

func TestStorePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := DefaultConfig()
	if got := cfg.StorePath(); got != "/tmp/xdg-data/gaji/snapshots.db" {
		t.Fatalf("StorePath = %q", got)
	}
	cfg.Store.Path = "/srv/gaji.db"
	if got := cfg.StorePath(); got != "/srv/gaji.db" {
		t.Fatalf("StorePath override = %q", got)
	}
}
