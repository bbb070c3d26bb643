package integration

import "fmt"

// Presets bundle the choices an operator usually makes together: which rules
// the ledger runs, where its records live and whether faucet airdrops and the
// journal are on. The launcher starts from a preset and lets the config file
// and flags override single fields.

// PresetConfig captures the tunable parameters that vary across preset profiles.
type PresetConfig struct {
	Name         string // human-readable identifier (e.g., "dev", "fake")
	Rules        string // rules preset name passed to streak.RulesByName
	DB           string // record store backend: "leveldb" or "memory"
	CacheMB      int    // leveldb block cache
	Handles      int    // leveldb open file handles
	Journal      bool   // whether instructions are journaled to sqlite
	AllowAirdrop bool   // whether the faucet is open
}

const (
	DBLevel  = "leveldb"
	DBMemory = "memory"
)

// DefaultPreset is a persistent mainnet ledger: daily periods, no faucet.
func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:         "default",
		Rules:        "main",
		DB:           DBLevel,
		CacheMB:      128,
		Handles:      256,
		Journal:      true,
		AllowAirdrop: false,
	}
}

// DevPreset is a persistent ledger with one-minute periods and an open faucet,
// for exercising the death and bonus flows by hand.
func DevPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "dev"
	cfg.Rules = "dev"
	cfg.CacheMB = 32
	cfg.Handles = 64
	cfg.AllowAirdrop = true
	return cfg
}

// FakePreset keeps everything in memory and runs fakenet rules. Nothing
// survives the process, so the journal is off.
func FakePreset() PresetConfig {
	cfg := DevPreset()
	cfg.Name = "fake"
	cfg.Rules = "fake"
	cfg.DB = DBMemory
	cfg.CacheMB = 0
	cfg.Handles = 0
	cfg.Journal = false
	return cfg
}

// GetPresetByName looks up a preset by its string identifier.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "default", "main", "mainnet":
		return DefaultPreset(), nil
	case "dev", "devnet":
		return DevPreset(), nil
	case "fake", "fakenet":
		return FakePreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: default, dev, fake)", name)
	}
}

// ApplyPreset merges preset into target. Non-zero strings and sizes override;
// booleans always do.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.Rules != "" {
		target.Rules = preset.Rules
	}
	if preset.DB != "" {
		target.DB = preset.DB
	}
	if preset.CacheMB > 0 {
		target.CacheMB = preset.CacheMB
	}
	if preset.Handles > 0 {
		target.Handles = preset.Handles
	}
	target.Journal = preset.Journal
	target.AllowAirdrop = preset.AllowAirdrop
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
