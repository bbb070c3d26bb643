package launcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-streak-ledger/host"
	"github.com/rony4d/go-streak-ledger/integration"
	"github.com/rony4d/go-streak-ledger/inter"
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/journal"
	"github.com/rony4d/go-streak-ledger/streakcore"
	"github.com/rony4d/go-streak-ledger/utils/units"
)

var (
	signerFlag = cli.StringFlag{
		Name:  "signer",
		Usage: "Base58 wallet signing the instruction (fake:N picks a fake wallet)",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "Amount in SOL, or \"<n> lamports\"",
	}
	referrerFlag = cli.StringFlag{
		Name:  "referrer",
		Usage: "Wallet of the referring player",
	}
	playerFlag = cli.StringFlag{
		Name:  "player",
		Usage: "Wallet of the player",
	}
	authorityFlag = cli.StringFlag{
		Name:  "authority",
		Usage: "Wallet allowed to run admin instructions",
	}
	treasuryFlag = cli.StringFlag{
		Name:  "treasury",
		Usage: "Wallet receiving protocol fees",
	}
	windowFlag = cli.Uint64Flag{
		Name:  "window",
		Usage: "Bonus window id, strictly above the current one",
	}
	secondsFlag = cli.Int64Flag{
		Name:  "seconds",
		Usage: "Check-in interval in seconds",
	}
	encodeFlag = cli.BoolFlag{
		Name:  "encode",
		Usage: "Print the encoded instruction instead of submitting it",
	}
	accountsFlag = cli.IntFlag{
		Name:  "accounts",
		Usage: "Number of fake wallets to fund",
		Value: 3,
	}
	balanceFlag = cli.StringFlag{
		Name:  "balance",
		Usage: "SOL each fake wallet starts with",
		Value: "10",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "Record store path to rebuild into (memory if empty)",
	}
	limitFlag = cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of entries",
	}
	opFlag = cli.StringFlag{
		Name:  "op",
		Usage: "Instruction name filter",
	}
)

func commands() []cli.Command {
	return []cli.Command{
		{
			Name:   "init",
			Usage:  "Create the game state",
			Flags:  []cli.Flag{authorityFlag, treasuryFlag, encodeFlag},
			Action: action(initAction),
		},
		{
			Name:   "genesis",
			Usage:  "Fund fake wallets and initialize the game at the fake genesis time",
			Flags:  []cli.Flag{accountsFlag, balanceFlag},
			Action: action(genesisAction),
		},
		{
			Name:      "airdrop",
			Usage:     "Credit SOL to a wallet (faucet ledgers only)",
			ArgsUsage: "<wallet>",
			Flags:     []cli.Flag{amountFlag},
			Action:    action(airdropAction),
		},
		{
			Name:   "stake",
			Usage:  "Stake SOL and start a streak",
			Flags:  []cli.Flag{signerFlag, amountFlag, referrerFlag, encodeFlag},
			Action: action(stakeAction),
		},
		playerCommand("checkin", "Check in for the current period", inter.NewCheckin),
		playerCommand("claim-bonus", "Claim the open bonus window", inter.NewClaimBonus),
		playerCommand("withdraw", "Withdraw the grown stake and end the streak", inter.NewWithdraw),
		playerCommand("claim-rewards", "Collect referral rewards", inter.NewClaimRewards),
		{
			Name:   "process-death",
			Usage:  "Forfeit a dead player's stake (or spend a lifeline)",
			Flags:  []cli.Flag{signerFlag, playerFlag, encodeFlag},
			Action: action(processDeathAction),
		},
		{
			Name:   "reap",
			Usage:  "Process every player that is dead at the current clock",
			Flags:  []cli.Flag{signerFlag},
			Action: action(reapAction),
		},
		{
			Name:   "start-bonus",
			Usage:  "Open a bonus window (authority only)",
			Flags:  []cli.Flag{signerFlag, windowFlag, encodeFlag},
			Action: action(startBonusAction),
		},
		{
			Name:   "set-interval",
			Usage:  "Change the check-in interval (authority only)",
			Flags:  []cli.Flag{signerFlag, secondsFlag, encodeFlag},
			Action: action(setIntervalAction),
		},
		{
			Name:   "inspect",
			Usage:  "Print the game state, or one player's record and liveness",
			Flags:  []cli.Flag{playerFlag},
			Action: action(inspectAction),
		},
		{
			Name:      "decode",
			Usage:     "Decode hex instruction data",
			ArgsUsage: "<0x…>",
			Action:    decodeAction,
		},
		{
			Name:   "errors",
			Usage:  "List the error codes instructions fail with",
			Action: errorsAction,
		},
		{
			Name:   "journal",
			Usage:  "List journaled instructions",
			Flags:  []cli.Flag{signerFlag, opFlag, limitFlag},
			Action: action(journalAction),
		},
		{
			Name:   "replay",
			Usage:  "Rebuild a record store from the journal",
			Flags:  []cli.Flag{outFlag},
			Action: action(replayAction),
		},
		{
			Name:  "dumpconfig",
			Usage: "Print the effective configuration as TOML",
			Action: func(ctx *cli.Context) error {
				cfg, err := MakeAllConfigs(ctx)
				if err != nil {
					return err
				}
				out, err := DumpConfig(cfg)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(ctx.App.Writer, string(out))
				return err
			},
		},
	}
}

func playerCommand(name, usage string, build func(programID, user pubkey.Pubkey) inter.Instruction) cli.Command {
	return cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{signerFlag, encodeFlag},
		Action: action(func(ctx *cli.Context, s *session) error {
			signer, err := walletFlag(ctx, signerFlag.Name)
			if err != nil {
				return err
			}
			return s.submit(ctx, build(s.programID(), signer))
		}),
	}
}

// parseWallet accepts a base58 key or fake:N.
func parseWallet(str string) (pubkey.Pubkey, error) {
	if n, ok := strings.CutPrefix(str, "fake:"); ok {
		i, err := strconv.Atoi(n)
		if err != nil {
			return pubkey.Pubkey{}, fmt.Errorf("fake wallet %q: %w", str, err)
		}
		return host.FakeWallet(i), nil
	}
	return pubkey.FromString(str)
}

func walletFlag(ctx *cli.Context, name string) (pubkey.Pubkey, error) {
	str := ctx.String(name)
	if str == "" {
		return pubkey.Pubkey{}, fmt.Errorf("--%s is required", name)
	}
	pk, err := parseWallet(str)
	if err != nil {
		return pk, fmt.Errorf("--%s: %w", name, err)
	}
	return pk, nil
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func (s *session) programID() pubkey.Pubkey {
	return s.node.Ledger.Processor().Rules().ProgramID
}

// submit applies ix and prints its program log, or only prints ix with --encode.
func (s *session) submit(ctx *cli.Context, ix inter.Instruction) error {
	if ctx.Bool(encodeFlag.Name) {
		return printJSON(ctx.App.Writer, ix)
	}
	receipt, err := s.node.Ledger.Submit(context.Background(), ix)
	if err != nil {
		if code := streakcore.CodeOf(err); code != 0 {
			return fmt.Errorf("%s failed with custom error %d: %w", ix.Op(), code, err)
		}
		return fmt.Errorf("%s failed: %w", ix.Op(), err)
	}
	for _, line := range receipt.Logs {
		fmt.Fprintln(ctx.App.Writer, "Program log:", line)
	}
	return nil
}

func initAction(ctx *cli.Context, s *session) error {
	authority, err := walletFlag(ctx, authorityFlag.Name)
	if err != nil {
		return err
	}
	treasury, err := walletFlag(ctx, treasuryFlag.Name)
	if err != nil {
		return err
	}
	return s.submit(ctx, inter.NewInitialize(s.programID(), authority, treasury))
}

func genesisAction(ctx *cli.Context, s *session) error {
	n := ctx.Int(accountsFlag.Name)
	if n <= 0 {
		return errors.New("--accounts must be positive")
	}
	balance, err := units.ParseSOL(ctx.String(balanceFlag.Name))
	if err != nil {
		return err
	}
	balances := make(map[pubkey.Pubkey]uint64, n)
	for i := 1; i <= n; i++ {
		balances[host.FakeWallet(i)] = balance
	}
	authority, treasury := host.FakeWallet(0), host.FakeWallet(n+1)
	if err := host.ApplyFakeGenesis(context.Background(), s.node.Ledger, authority, treasury, balances); err != nil {
		return err
	}
	w := ctx.App.Writer
	fmt.Fprintf(w, "authority  fake:0    %s\n", authority)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(w, "player     fake:%-4d %s  %s SOL\n", i, host.FakeWallet(i), units.FormatSOLShort(balance))
	}
	fmt.Fprintf(w, "treasury   fake:%-4d %s\n", n+1, treasury)
	return nil
}

func airdropAction(ctx *cli.Context, s *session) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: airdrop --amount <SOL> <wallet>")
	}
	owner, err := parseWallet(ctx.Args().First())
	if err != nil {
		return err
	}
	lamports, err := units.ParseSOL(ctx.String(amountFlag.Name))
	if err != nil {
		return err
	}
	if err := s.node.Ledger.Airdrop(context.Background(), owner, lamports); err != nil {
		return err
	}
	bal, err := s.node.Ledger.Balance(owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%s now holds %s SOL\n", owner, units.FormatSOL(bal))
	return nil
}

func stakeAction(ctx *cli.Context, s *session) error {
	signer, err := walletFlag(ctx, signerFlag.Name)
	if err != nil {
		return err
	}
	lamports, err := units.ParseSOL(ctx.String(amountFlag.Name))
	if err != nil {
		return err
	}
	// the program only enforces the minimum
	if maxStake := s.node.Ledger.Processor().Rules().Economy.MaxStake; lamports > maxStake {
		return fmt.Errorf("stake of %s SOL is above the %s SOL maximum", units.FormatSOLShort(lamports), units.FormatSOLShort(maxStake))
	}
	var referrer *pubkey.Pubkey
	if ctx.String(referrerFlag.Name) != "" {
		ref, err := walletFlag(ctx, referrerFlag.Name)
		if err != nil {
			return err
		}
		referrer = &ref
	}
	return s.submit(ctx, inter.NewStake(s.programID(), signer, lamports, referrer))
}

func (s *session) processDeath(ctx *cli.Context, caller, dead pubkey.Pubkey) error {
	game, err := s.node.Ledger.GameState()
	if err != nil {
		return err
	}
	if game == nil {
		return streakcore.ErrNotInitialized
	}
	ancestors, err := s.node.Ledger.Ancestors(dead)
	if err != nil {
		return err
	}
	return s.submit(ctx, inter.NewProcessDeath(s.programID(), caller, dead, ancestors, game.Treasury))
}

func processDeathAction(ctx *cli.Context, s *session) error {
	caller, err := walletFlag(ctx, signerFlag.Name)
	if err != nil {
		return err
	}
	dead, err := walletFlag(ctx, playerFlag.Name)
	if err != nil {
		return err
	}
	return s.processDeath(ctx, caller, dead)
}

func reapAction(ctx *cli.Context, s *session) error {
	caller, err := walletFlag(ctx, signerFlag.Name)
	if err != nil {
		return err
	}
	dead, err := s.node.Ledger.DeadPlayers()
	if err != nil {
		return err
	}
	failed := 0
	for _, wallet := range dead {
		if err := s.processDeath(ctx, caller, wallet); err != nil {
			s.log.WithError(err).WithField("player", wallet.String()).Warn("Failed to process death")
			failed++
		}
	}
	s.log.WithFields(logrus.Fields{"dead": len(dead), "failed": failed}).Info("Reap finished")
	if failed != 0 {
		return fmt.Errorf("%d of %d deaths failed", failed, len(dead))
	}
	return nil
}

func startBonusAction(ctx *cli.Context, s *session) error {
	signer, err := walletFlag(ctx, signerFlag.Name)
	if err != nil {
		return err
	}
	return s.submit(ctx, inter.NewStartBonusWindow(s.programID(), signer, ctx.Uint64(windowFlag.Name)))
}

func setIntervalAction(ctx *cli.Context, s *session) error {
	signer, err := walletFlag(ctx, signerFlag.Name)
	if err != nil {
		return err
	}
	return s.submit(ctx, inter.NewSetCheckinInterval(s.programID(), signer, ctx.Int64(secondsFlag.Name)))
}

type gameView struct {
	Address  pubkey.Pubkey    `json:"address"`
	Game     *inter.GameState `json:"game"`
	Vault    string           `json:"vaultSOL"`
	Treasury string           `json:"treasurySOL"`
	Now      int64            `json:"now"`
}

func inspectAction(ctx *cli.Context, s *session) error {
	l := s.node.Ledger
	if ctx.String(playerFlag.Name) != "" {
		wallet, err := walletFlag(ctx, playerFlag.Name)
		if err != nil {
			return err
		}
		st, err := l.Status(wallet)
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, st)
	}

	game, err := l.GameState()
	if err != nil {
		return err
	}
	if game == nil {
		return streakcore.ErrNotInitialized
	}
	vault, err := l.Balance(l.Processor().GameStateAddress())
	if err != nil {
		return err
	}
	treasury, err := l.Balance(game.Treasury)
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, gameView{
		Address:  l.Processor().GameStateAddress(),
		Game:     game,
		Vault:    units.FormatSOL(vault),
		Treasury: units.FormatSOL(treasury),
		Now:      l.Now(),
	})
}

func decodeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("usage: decode <0x-prefixed instruction data>")
	}
	data, err := hexutil.Decode(ctx.Args().First())
	if err != nil {
		return err
	}
	call, err := inter.DecodeCall(data)
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, struct {
		Op string `json:"op"`
		inter.Call
	}{call.Op.String(), call})
}

func errorsAction(ctx *cli.Context) error {
	for _, e := range streakcore.Errors() {
		fmt.Fprintf(ctx.App.Writer, "%d\t%s\t%s\n", e.Code, e.Name, e.Msg)
	}
	return nil
}

func journalAction(ctx *cli.Context, s *session) error {
	j := s.node.Journal
	if j == nil {
		return errors.New("the journal is disabled")
	}
	f := journal.Filter{Limit: ctx.Int(limitFlag.Name)}
	if ctx.String(signerFlag.Name) != "" {
		signer, err := walletFlag(ctx, signerFlag.Name)
		if err != nil {
			return err
		}
		f.Signer = &signer
	}
	if name := ctx.String(opFlag.Name); name != "" {
		op, ok := inter.OpcodeByName(name)
		if !ok {
			return fmt.Errorf("unknown instruction %q", name)
		}
		f.Op = op
	}
	entries, err := j.Entries(context.Background(), f)
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	for _, e := range entries {
		status := "ok"
		if !e.Accepted() {
			status = fmt.Sprintf("err %d", e.Code)
		}
		what := e.Op
		if e.Kind == journal.KindAirdrop {
			what = "airdrop " + units.FormatSOLShort(e.Lamports)
		}
		fmt.Fprintf(w, "%6d  %d  %-22s %-10s %s\n", e.Seq, e.Now, what, status, e.Signer)
	}
	return nil
}

func replayAction(ctx *cli.Context, s *session) error {
	if s.node.Journal == nil {
		return errors.New("the journal is disabled")
	}
	icfg, err := s.cfg.IntegrationConfig()
	if err != nil {
		return err
	}
	icfg.JournalPath = ""
	icfg.AllowAirdrop = true
	icfg.DB = integration.DBMemory
	if out := ctx.String(outFlag.Name); out != "" {
		if out == s.cfg.Store.Path {
			return errors.New("--out must differ from the live record store")
		}
		icfg.DB = integration.DBLevel
		icfg.DBPath = resolvePath(out)
	}
	target, err := integration.Open(icfg, s.log)
	if err != nil {
		return err
	}
	defer target.Close()

	applied, err := journal.Replay(context.Background(), s.node.Journal, target.Ledger)
	if err != nil {
		return err
	}
	game, err := target.Ledger.GameState()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "replayed %d entries\n", applied)
	if game != nil {
		return printJSON(ctx.App.Writer, game)
	}
	return nil
}
