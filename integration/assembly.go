// Package integration wires the account store, journal and host executor into
// a ready ledger from a flat configuration.
package integration

import (
	"errors"
	"fmt"
	"os"

	"github.com/Fantom-foundation/lachesis-base/kvdb"
	"github.com/Fantom-foundation/lachesis-base/kvdb/leveldb"
	"github.com/Fantom-foundation/lachesis-base/kvdb/memorydb"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-streak-ledger/accountstore"
	"github.com/rony4d/go-streak-ledger/host"
	"github.com/rony4d/go-streak-ledger/journal"
	"github.com/rony4d/go-streak-ledger/streak"
)

var ErrUnknownDB = errors.New("unknown store backend")

// Config is everything Open needs.
type Config struct {
	Rules        streak.Rules
	DB           string
	DBPath       string
	CacheMB      int
	Handles      int
	JournalPath  string // empty disables the journal
	AllowAirdrop bool
	Clock        func() int64
}

// Node is an opened ledger together with the resources backing it.
type Node struct {
	Ledger  *host.Ledger
	Store   *accountstore.Store
	Journal *journal.Journal
	log     logrus.FieldLogger
}

func openDB(cfg Config) (kvdb.Store, error) {
	switch cfg.DB {
	case DBMemory:
		return memorydb.New(), nil
	case DBLevel:
		if err := os.MkdirAll(cfg.DBPath, 0o700); err != nil {
			return nil, fmt.Errorf("create store dir %s: %w", cfg.DBPath, err)
		}
		db, err := leveldb.New(cfg.DBPath, cfg.CacheMB, cfg.Handles, func() error { return nil }, func() {})
		if err != nil {
			return nil, fmt.Errorf("open leveldb %s: %w", cfg.DBPath, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDB, cfg.DB)
	}
}

// Open validates the rules, opens the store and journal and assembles the ledger.
func Open(cfg Config, log logrus.FieldLogger) (*Node, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules %s: %w", cfg.Rules.Name, err)
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	n := &Node{Store: accountstore.New(db), log: log}

	hostCfg := host.Config{
		Rules:        cfg.Rules,
		Clock:        cfg.Clock,
		Logger:       log,
		AllowAirdrop: cfg.AllowAirdrop,
	}
	if cfg.JournalPath != "" {
		n.Journal, err = journal.Open(cfg.JournalPath, log)
		if err != nil {
			_ = n.Store.Close()
			return nil, err
		}
		hostCfg.Recorder = n.Journal
	}
	n.Ledger = host.New(n.Store, hostCfg)

	log.WithFields(logrus.Fields{
		"rules":   cfg.Rules.Name,
		"program": cfg.Rules.ProgramID.String(),
		"db":      cfg.DB,
		"path":    cfg.DBPath,
		"journal": cfg.JournalPath,
	}).Debug("Ledger opened")
	return n, nil
}

// Close releases the journal and the store.
func (n *Node) Close() error {
	var errs []error
	if n.Journal != nil {
		if err := n.Journal.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := n.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) != 0 {
		n.log.WithField("errors", len(errs)).Warn("Ledger closed with errors")
		return errs[0]
	}
	return nil
}
