package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gaji/internal/cli"
	"github.com/theirongolddev/gaji/internal/config"
	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
	"github.com/theirongolddev/gaji/internal/tui/theme"
)

func TestPromptSetupAppliesAnswers(t *testing.T) {
	names := theme.Names()
	if len(names) < 2 {
		t.Skip("need at least two themes")
	}

	in := strings.NewReader("3500\nUSD\n2\n")
	var out bytes.Buffer
	cfg := promptSetup(in, &out, config.DefaultConfig())

	if cfg.General.Income != "3500" {
		t.Errorf("income = %q, want 3500", cfg.General.Income)
	}
	if cfg.Currency.Label != "USD" {
		t.Errorf("currency = %q, want USD", cfg.Currency.Label)
	}
	if cfg.Appearance.Theme != names[1] {
		t.Errorf("theme = %q, want %q", cfg.Appearance.Theme, names[1])
	}
	if !strings.Contains(out.String(), "Welcome to gaji") {
		t.Error("missing welcome banner")
	}
}

func TestPromptSetupKeepsBlankAndInvalidAnswers(t *testing.T) {
	def := config.DefaultConfig()
	in := strings.NewReader("lots\n\n\n")
	var out bytes.Buffer
	cfg := promptSetup(in, &out, def)

	if cfg.General.Income != def.General.Income {
		t.Errorf("income = %q, want unchanged %q", cfg.General.Income, def.General.Income)
	}
	if cfg.Currency.Label != def.Currency.Label {
		t.Errorf("currency = %q, want unchanged", cfg.Currency.Label)
	}
	if cfg.Appearance.Theme != def.Appearance.Theme {
		t.Errorf("theme = %q, want unchanged", cfg.Appearance.Theme)
	}
	if !strings.Contains(out.String(), `"lots" is not a number`) {
		t.Error("expected a rejection message for the invalid income")
	}
}

func TestRenderSummary(t *testing.T) {
	l := ledger.New(ledger.WithIncome(ledger.DefaultIncome), ledger.WithMonth("November"))
	c := l.AddCommitment()
	l.UpdateCommitmentName(c.ID, "Rent")
	l.UpdateCommitmentAmount(c.ID, "500")

	out := renderSummary(l, cli.DefaultMoney)
	for _, want := range []string{
		ledger.LabelCommitments, ledger.LabelSavings, ledger.LabelExpenses,
		"RM 1,148.00", // 41% of 2800
		"Spending share",
		"Budget vs actual",
		"0/1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	l := ledger.New(ledger.WithMonth("November"))
	out := renderSummary(l, cli.DefaultMoney)
	if !strings.Contains(out, "Nothing recorded yet.") {
		t.Errorf("empty ledger summary should say nothing is recorded\n%s", out)
	}
	if !strings.Contains(out, "Budget vs actual") {
		t.Error("bars should render even with nothing recorded")
	}
}

func TestSnapshotTable(t *testing.T) {
	infos := []store.Info{
		{Name: "nov", Month: "November", Income: "2800", Commitments: 8, Savings: 3, Transactions: 2,
			UpdatedAt: time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)},
	}
	tbl := snapshotTable(infos)
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(tbl.Rows))
	}
	row := tbl.Rows[0]
	if row[0] != "nov" || row[3] != "8" || row[4] != "3" || row[5] != "2" {
		t.Errorf("unexpected row %v", row)
	}
	if len(row) != len(tbl.Headers) {
		t.Errorf("row has %d cells, headers %d", len(row), len(tbl.Headers))
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestServeConfigFlagsOverride(t *testing.T) {
	cfg := config.DefaultConfig()

	dc := serveConfig(cfg)
	if dc.Addr != cfg.Server.Addr || dc.EventsBuffer != cfg.Server.EventsBuffer {
		t.Errorf("serveConfig without flags = %+v, want config values", dc)
	}

	flagServeAddr, flagServeEventsBuffer = "127.0.0.1:9999", 5
	t.Cleanup(func() { flagServeAddr, flagServeEventsBuffer = "", 0 })

	dc = serveConfig(cfg)
	if dc.Addr != "127.0.0.1:9999" || dc.EventsBuffer != 5 {
		t.Errorf("serveConfig with flags = %+v", dc)
	}
}

func TestLoadLedgerIncomeOverride(t *testing.T) {
	flagIncome = "5000"
	t.Cleanup(func() { flagIncome = "" })

	cfg := config.DefaultConfig()
	l, err := loadLedger(t.Context(), cfg, nil)
	if err != nil {
		t.Fatalf("loadLedger: %v", err)
	}
	if got := l.Income().String(); got != "5000" {
		t.Errorf("income = %s, want 5000", got)
	}
}

func TestLoadLedgerNeedsStore(t *testing.T) {
	flagLoad = "nov"
	t.Cleanup(func() { flagLoad = "" })

	if _, err := loadLedger(t.Context(), config.DefaultConfig(), nil); err == nil {
		t.Fatal("expected an error loading a snapshot without a store")
	}
}

func TestSetupLoggingRejectsMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "gaji"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "gaji", "config.toml"), []byte("[log\nlevel = \"debug\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := setupLogging(&cobra.Command{Use: "summary"}, nil)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("setupLogging err = %v, want a config parse error", err)
	}
}
