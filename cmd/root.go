// Package cmd implements the gaji CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
)

var (
	flagIncome   string
	flagLoad     string
	flagLogLevel string
	flagLogFile  string
	flagNoSeed   bool
)

// logFile is the file opened for --log-file, closed after the command runs.
var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   "gaji",
	Short: "Salary budgeting dashboard",
	Long: "Split a monthly salary into commitments, savings and daily spending,\n" +
		"then track what has actually gone out against each target.",
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = setupLogging
	rootCmd.PersistentPostRunE = closeLogging

	rootCmd.PersistentFlags().StringVar(&flagIncome, "income", "", "Monthly income for this session (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagLoad, "load", "l", "", "Start from a stored snapshot")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoSeed, "no-seed", false, "Start with empty commitment and savings lists")
}

// setupLogging configures the global zerolog logger. The TUI owns the
// terminal, so it logs to a file or not at all.
func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	levelName := cfg.Log.Level
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", levelName, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	path := cfg.Log.File
	if flagLogFile != "" {
		path = flagLogFile
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	switch {
	case path != "":
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		//nolint:gosec // log path is configured by the local user
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		out = f
	case ownsTerminal(cmd):
		level = zerolog.Disabled
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

func closeLogging(_ *cobra.Command, _ []string) error {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	return nil
}

func ownsTerminal(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == tuiCmd || cmd == snapshotLoadCmd
}

// loadConfig reads the config and applies the session flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagNoSeed {
		cfg.General.Seed = false
	}
	return cfg, nil
}

// openArchive opens the snapshot database named by the config.
func openArchive(cfg config.Config) (*store.Archive, error) {
	archive, err := store.Open(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	return archive, nil
}

// loadLedger is the shared session loading path: a stored snapshot when
// --load is given, otherwise a fresh ledger from the config. --income
// applies last in both cases.
func loadLedger(ctx context.Context, cfg config.Config, archive *store.Archive) (*ledger.Ledger, error) {
	var l *ledger.Ledger
	if flagLoad != "" {
		if archive == nil {
			return nil, fmt.Errorf("loading %q: no snapshot store", flagLoad)
		}
		snap, err := archive.Load(ctx, flagLoad)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot %q: %w", flagLoad, err)
		}
		l = ledger.Restore(snap)
		log.Info().Str("snapshot", flagLoad).Msg("restored session")
	} else {
		l = cfg.NewLedger()
	}

	if flagIncome != "" {
		l.SetIncomeText(flagIncome)
	}
	return l, nil
}
