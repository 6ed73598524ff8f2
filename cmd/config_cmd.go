package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/ledger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Income:       %s\n", cfg.General.Income)
	month := cfg.General.Month
	if month == "" {
		month = "(current month)"
	}
	fmt.Printf("    Month:        %s\n", month)
	fmt.Printf("    Seed lists:   %v\n", cfg.General.Seed)
	fmt.Println()

	fmt.Println("  [Allocation]")
	p := cfg.Policy()
	fmt.Printf("    Commitments:  %s\n", ledger.Percent(p.Commitments))
	fmt.Printf("    Savings:      %s\n", ledger.Percent(p.Savings))
	fmt.Printf("    Expenses:     %s\n", ledger.Percent(p.Expenses))
	if cfg.Allocation.Commitments == nil {
		fmt.Println("    (default split)")
	}
	fmt.Println()

	fmt.Println("  [Currency]")
	fmt.Printf("    Label:        %q\n", cfg.Currency.Label)
	fmt.Printf("    Decimals:     %d\n", cfg.Currency.Decimals)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:        %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:      %s\n", cfg.Server.Addr)
	fmt.Printf("    Events kept:  %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Snapshots:    %s\n", cfg.StorePath())
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:        %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:         %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  Run `gaji setup` to reconfigure.")
	return nil
}
