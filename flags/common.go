package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CommonFlags returns the base set of CLI flags shared across commands.

func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "datadir",
			Usage:  "Data directory for the ledger store and journal",
			Value:  "~/.streak",
			EnvVar: "STREAK_DATADIR",
		},
		cli.StringFlag{
			Name:   "config",
			Usage:  "TOML configuration file",
			EnvVar: "STREAK_CONFIG",
		},
		cli.StringFlag{
			Name:   "log.format",
			Usage:  "Log output format (text|json)",
			Value:  "text",
			EnvVar: "STREAK_LOG_FORMAT",
		},
		cli.IntFlag{
			Name:   "log.verbosity",
			Usage:  "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value:  3,
			EnvVar: "STREAK_LOG_VERBOSITY",
		},
		cli.BoolFlag{
			Name:   "log.color",
			Usage:  "Enable colored log output",
			EnvVar: "STREAK_LOG_COLOR",
		},
		cli.StringFlag{
			Name:   "sentry.dsn",
			Usage:  "Forward error level log entries to this Sentry DSN",
			EnvVar: "STREAK_SENTRY_DSN",
		},
		cli.BoolFlag{
			Name:   "debug.deadlocks",
			Usage:  "Report record locks held longer than the deadlock timeout",
			EnvVar: "STREAK_DEBUG_DEADLOCKS",
		},
	}
}
