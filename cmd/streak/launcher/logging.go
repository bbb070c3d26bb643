package launcher

import (
	"fmt"
	"io"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// logLevel maps --log.verbosity (0=fatal … 5=trace) onto logrus levels.
func logLevel(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.FatalLevel
	case verbosity >= 5:
		return logrus.TraceLevel
	default:
		return logrus.Level(verbosity + 1)
	}
}

// newLogger builds the process logger from cfg. Error and worse entries also
// go to Sentry when a DSN is configured.
func newLogger(cfg NodeConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logLevel(cfg.Logging.Verbosity))

	switch cfg.Logging.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Logging.Color,
			DisableColors: !cfg.Logging.Color,
			FullTimestamp: true,
		})
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json)", cfg.Logging.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		hook.Timeout = 5 * time.Second
		hook.StacktraceConfiguration.Enable = true
		logger.AddHook(hook)
	}
	return logger, nil
}

// setupDeadlockDetection turns the record lock checker on or off for the process.
func setupDeadlockDetection(enabled bool, log logrus.FieldLogger) {
	deadlock.Opts.Disable = !enabled
	if !enabled {
		return
	}
	deadlock.Opts.DeadlockTimeout = 30 * time.Second
	deadlock.Opts.LogBuf = log.WithField("module", "deadlock").WriterLevel(logrus.ErrorLevel)
	deadlock.Opts.OnPotentialDeadlock = func() {
		log.Error("Potential deadlock on a record lock")
	}
}
