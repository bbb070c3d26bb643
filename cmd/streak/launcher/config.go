// This file maps CLI context to the config struct.

package launcher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-streak-ledger/integration"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/streak"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node    NodeConfig
	Ledger  LedgerConfig
	Store   StoreConfig
	Journal JournalConfig
}

type NodeConfig struct {
	DataDir        string
	SentryDSN      string
	DebugDeadlocks bool
	Logging        LoggingConfig
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

type LedgerConfig struct {
	Preset       string
	Rules        string
	ProgramID    string
	AllowAirdrop bool
	// Now pins the clock. Zero reads the wall clock.
	Now int64
}

type StoreConfig struct {
	Backend string
	Path    string
	CacheMB int
	Handles int
}

type JournalConfig struct {
	Enabled bool
	Path    string
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

func defaultConfig() Config {
	def := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir:        resolvePath(def.Node.DataDir),
			DebugDeadlocks: def.Node.DebugDeadlocks,
			Logging: LoggingConfig{
				Verbosity: def.Logging.Verbosity,
				Format:    def.Logging.Format,
				Color:     def.Logging.Color,
			},
		},
		Ledger: LedgerConfig{
			Preset:       def.Ledger.Preset,
			Rules:        def.Ledger.Rules,
			ProgramID:    def.Ledger.ProgramID,
			AllowAirdrop: def.Ledger.AllowAirdrop,
		},
		Store: StoreConfig{
			Backend: def.Storage.Backend,
			CacheMB: def.Storage.CacheSizeMB,
			Handles: def.Storage.Handles,
		},
		Journal: JournalConfig{
			Enabled: def.Journal.Enabled,
		},
	}
}

func applyPreset(cfg *Config, preset integration.PresetConfig) {
	current := integration.PresetConfig{
		Name:         cfg.Ledger.Preset,
		Rules:        cfg.Ledger.Rules,
		DB:           cfg.Store.Backend,
		CacheMB:      cfg.Store.CacheMB,
		Handles:      cfg.Store.Handles,
		Journal:      cfg.Journal.Enabled,
		AllowAirdrop: cfg.Ledger.AllowAirdrop,
	}
	integration.ApplyPreset(&current, preset)
	cfg.Ledger.Preset = current.Name
	cfg.Ledger.Rules = current.Rules
	cfg.Store.Backend = current.DB
	cfg.Store.CacheMB = current.CacheMB
	cfg.Store.Handles = current.Handles
	cfg.Journal.Enabled = current.Journal
	cfg.Ledger.AllowAirdrop = current.AllowAirdrop
}

// MakeAllConfigs merges defaults, the --preset bundle, the config file, then
// individual CLI flag overrides (environment variables count as flags).
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if ctx.GlobalIsSet("preset") {
		preset, err := integration.GetPresetByName(ctx.GlobalString("preset"))
		if err != nil {
			return cfg, err
		}
		applyPreset(&cfg, preset)
	}

	if file := ctx.GlobalString("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	applyCLIOverrides(ctx, &cfg)
	finalizePaths(&cfg)

	if cfg.Store.Backend != integration.DBMemory || cfg.Journal.Enabled {
		if err := ensureDir(cfg.Node.DataDir); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Config-file / CLI wiring
// -----------------------------------------------------------------------------

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, cfg)
}

// DumpConfig renders cfg as TOML, the format loadConfigFile reads.
func DumpConfig(cfg Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(out), nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.GlobalIsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.GlobalString("datadir"))
	}
	if ctx.GlobalIsSet("sentry.dsn") {
		cfg.Node.SentryDSN = ctx.GlobalString("sentry.dsn")
	}
	if ctx.GlobalIsSet("debug.deadlocks") {
		cfg.Node.DebugDeadlocks = ctx.GlobalBool("debug.deadlocks")
	}

	if ctx.GlobalIsSet("log.format") {
		cfg.Node.Logging.Format = ctx.GlobalString("log.format")
	}
	if ctx.GlobalIsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.GlobalInt("log.verbosity")
	}
	if ctx.GlobalIsSet("log.color") {
		cfg.Node.Logging.Color = ctx.GlobalBool("log.color")
	}

	if ctx.GlobalIsSet("rules") {
		cfg.Ledger.Rules = ctx.GlobalString("rules")
	}
	if ctx.GlobalIsSet("program") {
		cfg.Ledger.ProgramID = ctx.GlobalString("program")
	}
	if ctx.GlobalIsSet("airdrop") {
		cfg.Ledger.AllowAirdrop = ctx.GlobalBool("airdrop")
	}
	if ctx.GlobalIsSet("now") {
		cfg.Ledger.Now = ctx.GlobalInt64("now")
	}

	if ctx.GlobalIsSet("db") {
		cfg.Store.Backend = ctx.GlobalString("db")
	}
	if ctx.GlobalIsSet("datadir.ledger") {
		cfg.Store.Path = resolvePath(ctx.GlobalString("datadir.ledger"))
	}
	if ctx.GlobalIsSet("cache") {
		cfg.Store.CacheMB = ctx.GlobalInt("cache")
	}
	if ctx.GlobalIsSet("handles") {
		cfg.Store.Handles = ctx.GlobalInt("handles")
	}
	if ctx.GlobalIsSet("journal") {
		cfg.Journal.Path = resolvePath(ctx.GlobalString("journal"))
		cfg.Journal.Enabled = true
	}
	if ctx.GlobalBool("nojournal") {
		cfg.Journal.Enabled = false
	}
}

func finalizePaths(cfg *Config) {
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(cfg.Node.DataDir, "ledger")
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(cfg.Node.DataDir, DefaultConfig().Journal.File)
	}
}

// IntegrationConfig converts the launcher config into what integration.Open needs.
func (cfg Config) IntegrationConfig() (integration.Config, error) {
	rules, err := streak.RulesByName(cfg.Ledger.Rules)
	if err != nil {
		return integration.Config{}, err
	}
	if cfg.Ledger.ProgramID != "" {
		rules.ProgramID, err = pubkey.FromString(cfg.Ledger.ProgramID)
		if err != nil {
			return integration.Config{}, fmt.Errorf("program id: %w", err)
		}
	}
	out := integration.Config{
		Rules:        rules,
		DB:           cfg.Store.Backend,
		DBPath:       cfg.Store.Path,
		CacheMB:      cfg.Store.CacheMB,
		Handles:      cfg.Store.Handles,
		AllowAirdrop: cfg.Ledger.AllowAirdrop,
	}
	if cfg.Journal.Enabled {
		out.JournalPath = cfg.Journal.Path
	}
	if now := cfg.Ledger.Now; now != 0 {
		out.Clock = func() int64 { return now }
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
