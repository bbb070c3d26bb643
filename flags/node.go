package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// StoreFlags hold knobs for the record store and the instruction journal.

func StoreFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "db",
			Usage:  "Record store backend (leveldb|memory)",
			EnvVar: "STREAK_DB",
		},
		cli.StringFlag{
			Name:  "datadir.ledger",
			Usage: "Override path to the record store (defaults to <datadir>/ledger)",
		},
		cli.IntFlag{
			Name:  "cache",
			Usage: "Megabytes of memory allocated to the leveldb cache",
		},
		cli.IntFlag{
			Name:  "handles",
			Usage: "Open file handles for leveldb",
		},
		cli.StringFlag{
			Name:   "journal",
			Usage:  "Override path to the sqlite journal (defaults to <datadir>/journal.db)",
			EnvVar: "STREAK_JOURNAL",
		},
		cli.BoolFlag{
			Name:  "nojournal",
			Usage: "Do not journal instructions",
		},
	}
}

// AllFlags is every global flag the launcher registers.
func AllFlags() []cli.Flag {
	var all []cli.Flag
	all = append(all, CommonFlags()...)
	all = append(all, LedgerFlags()...)
	all = append(all, StoreFlags()...)
	return all
}
