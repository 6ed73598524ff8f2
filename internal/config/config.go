package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/gaji/internal/ledger"
)

// Config holds all gaji configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Allocation AllocationConfig `toml:"allocation"`
	Currency   CurrencyConfig   `toml:"currency"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Store      StoreConfig      `toml:"store"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds the starting state of a new session.
type GeneralConfig struct {
	Income string `toml:"income"`
	Month  string `toml:"month,omitempty"`
	Seed   bool   `toml:"seed"`
}

// AllocationConfig overrides the 41/36/23 split. All three must be set
// for the override to apply.
type AllocationConfig struct {
	Commitments *float64 `toml:"commitments,omitempty"`
	Savings     *float64 `toml:"savings,omitempty"`
	Expenses    *float64 `toml:"expenses,omitempty"`
}

// CurrencyConfig controls how money is printed.
type CurrencyConfig struct {
	Label    string `toml:"label"`
	Decimals int    `toml:"decimals"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `gaji serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// StoreConfig locates the snapshot database.
type StoreConfig struct {
	Path string `toml:"path,omitempty"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Income: ledger.DefaultIncome.String(),
			Month:  "November",
			Seed:   true,
		},
		Currency: CurrencyConfig{
			Label:    "RM",
			Decimals: 2,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gaji")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gaji")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "gaji")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "gaji")
}

// StorePath returns the snapshot database path, defaulting into DataDir.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(DataDir(), "snapshots.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("GAJI_INCOME")); v != "" {
		cfg.General.Income = v
	}
	if v := strings.TrimSpace(os.Getenv("GAJI_CURRENCY")); v != "" {
		cfg.Currency.Label = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Income returns the configured starting income. Text that does not
// parse falls back to zero, the same as any other amount.
func (c Config) Income() decimal.Decimal {
	return ledger.ParseAmount(c.General.Income).Value
}

// Policy returns the allocation override, or the default split when the
// override is incomplete or sums to zero.
func (c Config) Policy() ledger.AllocationPolicy {
	a := c.Allocation
	if a.Commitments == nil || a.Savings == nil || a.Expenses == nil {
		return ledger.DefaultPolicy
	}
	p := ledger.NewPolicy(*a.Commitments, *a.Savings, *a.Expenses)
	if p.Sum().IsZero() {
		return ledger.DefaultPolicy
	}
	return p
}

// LedgerOptions translates the config into ledger constructor options.
func (c Config) LedgerOptions() []ledger.Option {
	opts := []ledger.Option{
		ledger.WithIncome(c.Income()),
		ledger.WithPolicy(c.Policy()),
	}
	if c.General.Month != "" {
		opts = append(opts, ledger.WithMonth(c.General.Month))
	}
	return opts
}

// NewLedger builds a fresh session ledger from the config.
func (c Config) NewLedger() *ledger.Ledger {
	if c.General.Seed {
		return ledger.NewSeeded(c.LedgerOptions()...)
	}
	return ledger.New(c.LedgerOptions()...)
}
