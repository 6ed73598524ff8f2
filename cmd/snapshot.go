package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/daemon"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Save, load, list and remove stored budgets",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Store the session built from config, --income and --load under NAME",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotSave,
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load NAME",
	Short: "Open the dashboard on a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotLoad,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print the summary of a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotShow,
}

var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored snapshots",
	Args:    cobra.NoArgs,
	RunE:    runSnapshotList,
}

var snapshotRmCmd = &cobra.Command{
	Use:     "rm NAME...",
	Aliases: []string{"delete"},
	Short:   "Remove stored snapshots",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSnapshotRm,
}

var flagSnapshotRemote string

func init() {
	snapshotSaveCmd.Flags().StringVar(&flagSnapshotRemote, "remote", "", "Save the ledger of the service at this address instead")
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd, snapshotShowCmd, snapshotListCmd, snapshotRmCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// withArchive opens the configured archive for the duration of fn.
func withArchive(fn func(a *store.Archive) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	archive, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close() }()
	return fn(archive)
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	if flagSnapshotRemote != "" {
		info, err := daemon.NewClient(flagSnapshotRemote).SaveSnapshot(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("saving on %s: %w", flagSnapshotRemote, err)
		}
		fmt.Printf("  Saved %q on %s (%s, income %s)\n", info.Name, flagSnapshotRemote, info.Month, info.Income)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	archive, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close() }()

	l, err := loadLedger(cmd.Context(), cfg, archive)
	if err != nil {
		return err
	}

	info, err := archive.Save(cmd.Context(), args[0], l.Snapshot())
	if err != nil {
		return err
	}
	fmt.Printf("  Saved %q (%s, income %s)\n", info.Name, info.Month, info.Income)
	return nil
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	flagLoad = args[0]
	return runTUI(cmd, nil)
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withArchive(func(a *store.Archive) error {
		snap, err := a.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		l := ledger.Restore(snap)
		if flagIncome != "" {
			l.SetIncomeText(flagIncome)
		}
		money := cli.NewMoney(cfg.Currency.Label, cfg.Currency.Decimals)

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s", args[0], l.Month())))
		fmt.Println()
		fmt.Print(renderSummary(l, money))
		return nil
	})
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	return withArchive(func(a *store.Archive) error {
		infos, err := a.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("\n  No snapshots yet. Save one with `gaji snapshot save NAME`.")
			return nil
		}
		fmt.Print(cli.RenderTable(snapshotTable(infos)))
		return nil
	})
}

func snapshotTable(infos []store.Info) cli.Table {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			info.Month,
			info.Income,
			strconv.Itoa(info.Commitments),
			strconv.Itoa(info.Savings),
			strconv.Itoa(info.Transactions),
			info.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	return cli.Table{
		Title:   "Snapshots",
		Headers: []string{"Name", "Month", "Income", "Commit", "Goals", "Txns", "Updated"},
		Rows:    rows,
	}
}

func runSnapshotRm(cmd *cobra.Command, args []string) error {
	return withArchive(func(a *store.Archive) error {
		var errs []error
		for _, name := range args {
			if err := a.Delete(cmd.Context(), name); err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Printf("  Removed %q\n", name)
		}
		return errors.Join(errs...)
	})
}
