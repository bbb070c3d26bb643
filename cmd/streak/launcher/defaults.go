package launcher

import (
	"github.com/rony4d/go-streak-ledger/integration"
)

// Defaults bundles the baseline configuration values the launcher uses
// before the preset, config file and flags override them.

type Defaults struct {
	Node    NodeDefaults
	Ledger  LedgerDefaults
	Storage StorageDefaults
	Journal JournalDefaults
	Logging LoggingDefaults
}

// NodeDefaults captures top-level process settings.
type NodeDefaults struct {
	DataDir        string // root of the record store and journal
	DebugDeadlocks bool   // report record locks held past the deadlock timeout
}

// LedgerDefaults select the rules the ledger runs.
type LedgerDefaults struct {
	Preset       string // integration preset name
	Rules        string // streak.RulesByName key
	ProgramID    string // base58 override of the rules' program ID, empty keeps it
	AllowAirdrop bool   // faucet
}

// StorageDefaults configures the record store.
type StorageDefaults struct {
	Backend     string // leveldb or memory
	CacheSizeMB int    // leveldb block cache
	Handles     int    // leveldb file handles
}

// JournalDefaults configure the sqlite instruction journal.
type JournalDefaults struct {
	Enabled bool
	File    string // relative to the datadir
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // 0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace
	Format    string // text or json
	Color     bool
}

// DefaultConfig returns a fully populated Defaults instance derived from the
// default integration preset.

func DefaultConfig() Defaults {
	preset := integration.DefaultPreset()
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.streak",
		},
		Ledger: LedgerDefaults{
			Preset:       preset.Name,
			Rules:        preset.Rules,
			AllowAirdrop: preset.AllowAirdrop,
		},
		Storage: StorageDefaults{
			Backend:     preset.DB,
			CacheSizeMB: preset.CacheMB,
			Handles:     preset.Handles,
		},
		Journal: JournalDefaults{
			Enabled: preset.Journal,
			File:    "journal.db",
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
	}
}
