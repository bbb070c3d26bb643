package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// LedgerFlags select the rules the ledger runs and the clock it reads.

func LedgerFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "preset",
			Usage:  "Configuration preset (default|dev|fake)",
			Value:  "default",
			EnvVar: "STREAK_PRESET",
		},
		cli.StringFlag{
			Name:   "rules",
			Usage:  "Rules preset overriding the one the preset picks (main|dev|fake)",
			EnvVar: "STREAK_RULES",
		},
		cli.StringFlag{
			Name:   "program",
			Usage:  "Base58 program ID records are derived from",
			EnvVar: "STREAK_PROGRAM_ID",
		},
		cli.BoolFlag{
			Name:   "airdrop",
			Usage:  "Open the faucet (airdrop and genesis commands)",
			EnvVar: "STREAK_AIRDROP",
		},
		cli.Int64Flag{
			Name:   "now",
			Usage:  "Fixed unix time to run instructions at instead of the wall clock",
			EnvVar: "STREAK_NOW",
		},
	}
}
