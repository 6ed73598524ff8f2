package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	cfg = promptSetup(os.Stdin, os.Stdout, cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	log.Info().Str("path", config.ConfigPath()).Msg("config saved")

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `gaji setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

// promptSetup asks the setup questions on in/out and returns cfg with the
// answers applied. Blank answers keep the current value.
func promptSetup(in io.Reader, out io.Writer, cfg config.Config) config.Config {
	reader := bufio.NewReader(in)
	ask := func() string {
		fmt.Fprint(out, "     > ")
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Welcome to gaji!")
	fmt.Fprintln(out)

	// 1. Income
	fmt.Fprintln(out, "  1. Monthly income")
	fmt.Fprintln(out, "     Take-home pay the budget is split from.")
	fmt.Fprintf(out, "     Current: %s\n", cfg.General.Income)
	if income := ask(); income != "" {
		if ledger.ParseAmount(income).Valid() {
			cfg.General.Income = income
		} else {
			fmt.Fprintf(out, "     %q is not a number, keeping %s\n", income, cfg.General.Income)
		}
	}
	fmt.Fprintln(out)

	// 2. Currency
	fmt.Fprintln(out, "  2. Currency label")
	fmt.Fprintf(out, "     Current: %q\n", cfg.Currency.Label)
	if label := ask(); label != "" {
		cfg.Currency.Label = label
	}
	fmt.Fprintln(out)

	// 3. Theme
	fmt.Fprintln(out, "  3. Color theme")
	names := theme.Names()
	for i, name := range names {
		suffix := ""
		if name == cfg.Appearance.Theme {
			suffix = " [current]"
		}
		fmt.Fprintf(out, "     (%d) %s%s\n", i+1, name, suffix)
	}
	choice := ask()
	for i, name := range names {
		if choice == fmt.Sprint(i+1) || choice == name {
			cfg.Appearance.Theme = name
		}
	}

	return cfg
}
