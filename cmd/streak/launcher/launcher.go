package launcher

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-streak-ledger/flags"
	"github.com/rony4d/go-streak-ledger/integration"
)

var (
	gitCommit = ""

	app = flags.NewApp(gitCommit, "stake-and-survive check-in ledger")
)

func init() {
	app.HideVersion = false
	app.Commands = commands()
}

// Launch loads .env into the environment, then runs the CLI. Flags read their
// EnvVar while parsing, so the file must be loaded first.
func Launch(args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return app.Run(args)
}

// session is one command invocation: its config, logger and opened ledger.
type session struct {
	cfg  Config
	log  *logrus.Logger
	node *integration.Node
}

func openSession(ctx *cli.Context) (*session, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Node, os.Stderr)
	if err != nil {
		return nil, err
	}
	setupDeadlockDetection(cfg.Node.DebugDeadlocks, logger)

	icfg, err := cfg.IntegrationConfig()
	if err != nil {
		return nil, err
	}
	node, err := integration.Open(icfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: logger, node: node}, nil
}

func (s *session) Close() {
	if err := s.node.Close(); err != nil {
		s.log.WithError(err).Error("Failed to close ledger")
	}
}

// action opens a session around fn.
func action(fn func(ctx *cli.Context, s *session) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, s)
	}
}
