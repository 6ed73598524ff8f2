package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	firstRun := !config.Exists()

	opts := tui.Options{
		SnapshotName: flagLoad,
		FirstRun:     firstRun && flagLoad == "" && flagIncome == "",
	}

	// Snapshots are optional; the dashboard still runs without a store.
	archive, err := openArchive(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot store unavailable")
	} else {
		defer func() { _ = archive.Close() }()
		opts.Archive = archive
	}

	l, err := loadLedger(cmd.Context(), cfg, archive)
	if err != nil {
		return err
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(cfg, l, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
