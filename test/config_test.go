package test

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-streak-ledger/cmd/streak/launcher"
	"github.com/rony4d/go-streak-ledger/flags"
	"github.com/rony4d/go-streak-ledger/streak"
)

// helper to run MakeAllConfigs with a synthetic CLI context.

func runConfigFromArgs(t *testing.T, args []string) (launcher.Config, error) {
	t.Helper()

	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true
	app.Flags = flags.AllFlags()

	var (
		got    launcher.Config
		cfgErr error
	)
	app.Action = func(c *cli.Context) error {
		got, cfgErr = launcher.MakeAllConfigs(c)
		return nil
	}

	if err := app.Run(append([]string{"streak"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return got, cfgErr
}

// TestMakeAllConfigs_flagOverrides verifies that every layer of the launcher
// config ends up in the aggregated Config struct: defaults, the preset bundle,
// the TOML file and finally individual flags.
func TestMakeAllConfigs_flagOverrides(t *testing.T) {
	dir := t.TempDir()

	configFile := filepath.Join(dir, "streak.toml")
	err := os.WriteFile(configFile, []byte(`
[Node]
DataDir = "`+filepath.ToSlash(filepath.Join(dir, "from-file"))+`"

[Node.Logging]
Verbosity = 5
Format = "json"

[Ledger]
Rules = "dev"

[Store]
CacheMB = 7
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want func(t *testing.T, cfg launcher.Config)
	}{
		{
			name: "defaults",
			args: []string{"--datadir", dir},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Node.DataDir != dir {
					t.Fatalf("DataDir = %q, want %q", cfg.Node.DataDir, dir)
				}
				if cfg.Ledger.Rules != "main" || cfg.Store.Backend != "leveldb" || !cfg.Journal.Enabled {
					t.Fatalf("defaults = %+v, want mainnet rules on leveldb with a journal", cfg)
				}
				if cfg.Store.Path != filepath.Join(dir, "ledger") {
					t.Fatalf("Store.Path = %q", cfg.Store.Path)
				}
				if cfg.Journal.Path != filepath.Join(dir, "journal.db") {
					t.Fatalf("Journal.Path = %q", cfg.Journal.Path)
				}
				if cfg.Ledger.AllowAirdrop {
					t.Fatal("the faucet must be closed by default")
				}
			},
		},
		{
			name: "logging",
			args: []string{"--datadir", dir, "--log.verbosity", "4", "--log.format", "json", "--log.color"},
			want: func(t *testing.T, cfg launcher.Config) {
				l := cfg.Node.Logging
				if l.Verbosity != 4 || l.Format != "json" || !l.Color {
					t.Fatalf("Logging = %+v", l)
				}
			},
		},
		{
			name: "fake preset",
			args: []string{"--datadir", dir, "--preset", "fake"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Ledger.Preset != "fake" || cfg.Ledger.Rules != "fake" {
					t.Fatalf("Ledger = %+v, want fake preset", cfg.Ledger)
				}
				if cfg.Store.Backend != "memory" || cfg.Journal.Enabled || !cfg.Ledger.AllowAirdrop {
					t.Fatalf("fake preset = %+v", cfg)
				}
			},
		},
		{
			name: "preset then flags",
			args: []string{"--datadir", dir, "--preset", "dev", "--rules", "main", "--cache", "99", "--nojournal"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Ledger.Rules != "main" {
					t.Fatalf("Rules = %q, want the flag to beat the preset", cfg.Ledger.Rules)
				}
				if !cfg.Ledger.AllowAirdrop {
					t.Fatal("dev preset opens the faucet")
				}
				if cfg.Store.CacheMB != 99 || cfg.Journal.Enabled {
					t.Fatalf("Store = %+v, Journal = %+v", cfg.Store, cfg.Journal)
				}
			},
		},
		{
			name: "config file",
			args: []string{"--config", configFile, "--log.verbosity", "2"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Node.DataDir != filepath.Join(dir, "from-file") {
					t.Fatalf("DataDir = %q, want the file's value", cfg.Node.DataDir)
				}
				if cfg.Node.Logging.Verbosity != 2 {
					t.Fatalf("Verbosity = %d, want the flag to beat the file", cfg.Node.Logging.Verbosity)
				}
				if cfg.Node.Logging.Format != "json" || cfg.Ledger.Rules != "dev" || cfg.Store.CacheMB != 7 {
					t.Fatalf("file values not applied: %+v", cfg)
				}
				if _, err := os.Stat(cfg.Node.DataDir); err != nil {
					t.Fatalf("datadir not created: %v", err)
				}
			},
		},
		{
			name: "store and journal paths",
			args: []string{"--datadir", dir, "--datadir.ledger", filepath.Join(dir, "db"), "--journal", filepath.Join(dir, "j.db")},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Store.Path != filepath.Join(dir, "db") || cfg.Journal.Path != filepath.Join(dir, "j.db") {
					t.Fatalf("paths = %q, %q", cfg.Store.Path, cfg.Journal.Path)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := runConfigFromArgs(t, test.args)
			if err != nil {
				t.Fatalf("MakeAllConfigs: %v", err)
			}
			test.want(t, cfg)
			t.Logf("args = %#v", test.args)
		})
	}
}

func TestMakeAllConfigs_env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STREAK_DATADIR", dir)
	t.Setenv("STREAK_RULES", "dev")
	t.Setenv("STREAK_NOW", "1608600120")

	cfg, err := runConfigFromArgs(t, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Node.DataDir != dir || cfg.Ledger.Rules != "dev" || cfg.Ledger.Now != 1608600120 {
		t.Fatalf("environment not applied: %+v", cfg)
	}
}

func TestMakeAllConfigs_errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := runConfigFromArgs(t, []string{"--datadir", dir, "--preset", "nope"}); err == nil {
		t.Fatal("unknown preset accepted")
	}
	if _, err := runConfigFromArgs(t, []string{"--datadir", dir, "--config", filepath.Join(dir, "missing.toml")}); err == nil {
		t.Fatal("missing config file accepted")
	}
}

func TestIntegrationConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := runConfigFromArgs(t, []string{
		"--datadir", dir,
		"--preset", "dev",
		"--now", "1608600000",
		"--program", streak.DefaultProgramID.String(),
	})
	if err != nil {
		t.Fatal(err)
	}
	icfg, err := cfg.IntegrationConfig()
	if err != nil {
		t.Fatal(err)
	}
	if icfg.Rules.Name != "dev" || icfg.Rules.DefaultCheckinInterval != streak.DevNetIntervalSeconds {
		t.Fatalf("Rules = %s", icfg.Rules)
	}
	if icfg.Rules.ProgramID != streak.DefaultProgramID {
		t.Fatalf("ProgramID = %s", icfg.Rules.ProgramID)
	}
	if icfg.Clock == nil || icfg.Clock() != 1608600000 {
		t.Fatal("--now did not pin the clock")
	}
	if icfg.JournalPath != filepath.Join(dir, "journal.db") {
		t.Fatalf("JournalPath = %q", icfg.JournalPath)
	}

	cfg.Ledger.ProgramID = "not-base58-0OIl"
	if _, err := cfg.IntegrationConfig(); err == nil {
		t.Fatal("bad program id accepted")
	}

	out, err := launcher.DumpConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 {
		t.Fatal("empty config dump")
	}
}
