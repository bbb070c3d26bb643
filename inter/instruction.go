package inter

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/rony4d/go-streak-ledger/inter/pubkey"
	"github.com/rony4d/go-streak-ledger/utils/borsh"
)

/*
	Instruction payload layout:

	[8-byte discriminator][arguments, little-endian, fixed width]

	stake                 amount u64, referrer Option<Pubkey>
	start_bonus_window    window_id u64
	set_checkin_interval  interval_seconds i64
	everything else       no arguments
*/

var (
	ErrUnknownInstruction = errors.New("unknown instruction discriminator")
	ErrShortInstruction   = errors.New("instruction data shorter than its discriminator")
)

// Opcode names one of the ledger's nine operations.
type Opcode uint8

const (
	OpUnknown Opcode = iota
	OpInitialize
	OpStake
	OpCheckin
	OpClaimBonus
	OpProcessDeath
	OpWithdraw
	OpClaimRewards
	OpStartBonusWindow
	OpSetCheckinInterval
)

var opcodeNames = map[Opcode]string{
	OpInitialize:         "initialize",
	OpStake:              "stake",
	OpCheckin:            "checkin",
	OpClaimBonus:         "claim_bonus",
	OpProcessDeath:       "process_death",
	OpWithdraw:           "withdraw",
	OpClaimRewards:       "claim_rewards",
	OpStartBonusWindow:   "start_bonus_window",
	OpSetCheckinInterval: "set_checkin_interval",
}

var opcodeDiscriminators = map[Opcode]Discriminator{
	OpInitialize:         InitializeDiscriminator,
	OpStake:              StakeDiscriminator,
	OpCheckin:            CheckinDiscriminator,
	OpClaimBonus:         ClaimBonusDiscriminator,
	OpProcessDeath:       ProcessDeathDiscriminator,
	OpWithdraw:           WithdrawDiscriminator,
	OpClaimRewards:       ClaimRewardsDiscriminator,
	OpStartBonusWindow:   StartBonusWindowDiscriminator,
	OpSetCheckinInterval: SetCheckinIntervalDiscriminator,
}

// Opcodes lists every operation in declaration order.
func Opcodes() []Opcode {
	return []Opcode{
		OpInitialize, OpStake, OpCheckin, OpClaimBonus, OpProcessDeath,
		OpWithdraw, OpClaimRewards, OpStartBonusWindow, OpSetCheckinInterval,
	}
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// Discriminator returns the wire tag of op.
func (op Opcode) Discriminator() Discriminator {
	return opcodeDiscriminators[op]
}

// OpcodeByName resolves the snake_case operation name.
func OpcodeByName(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name {
			return op, true
		}
	}
	return OpUnknown, false
}

// Call is a decoded instruction payload. Only the fields of Op are meaningful.
type Call struct {
	Op Opcode

	// stake
	Amount   uint64
	Referrer *pubkey.Pubkey

	// start_bonus_window
	WindowID uint64

	// set_checkin_interval
	IntervalSeconds int64
}

// Encode serializes the call. Fixed-width encoding cannot fail.
func (c Call) Encode() []byte {
	w := borsh.NewWriter(8 + 8 + 33)
	disc := c.Op.Discriminator()
	w.FixedBytes(disc[:])
	switch c.Op {
	case OpStake:
		w.U64(c.Amount)
		if c.Referrer != nil {
			w.OptionFixed(c.Referrer[:])
		} else {
			w.OptionFixed(nil)
		}
	case OpStartBonusWindow:
		w.U64(c.WindowID)
	case OpSetCheckinInterval:
		w.I64(c.IntervalSeconds)
	}
	return w.BytesW.Bytes()
}

// DecodeCall parses an instruction payload. Trailing bytes are rejected.
func DecodeCall(data []byte) (Call, error) {
	var c Call
	if len(data) < len(Discriminator{}) {
		return c, ErrShortInstruction
	}
	var disc Discriminator
	copy(disc[:], data)
	for op, d := range opcodeDiscriminators {
		if d == disc {
			c.Op = op
			break
		}
	}
	if c.Op == OpUnknown {
		return c, fmt.Errorf("%w: %s", ErrUnknownInstruction, disc)
	}

	err := borsh.UnmarshalBinaryAdapter(data, func(r *borsh.Reader) error {
		r.FixedBytes(len(disc))
		switch c.Op {
		case OpStake:
			c.Amount = r.U64()
			if ref := r.OptionFixed32(); ref != nil {
				pk := pubkey.Pubkey(*ref)
				c.Referrer = &pk
			}
		case OpStartBonusWindow:
			c.WindowID = r.U64()
		case OpSetCheckinInterval:
			c.IntervalSeconds = r.I64()
		}
		return nil
	})
	if err != nil {
		return Call{}, fmt.Errorf("decode %s: %w", c.Op, err)
	}
	return c, nil
}

// Instruction is one signed invocation: a payload plus the ordered addresses
// of every record it touches. Optional account slots hold the zero key.
type Instruction struct {
	Signer   pubkey.Pubkey   `json:"signer"`
	Accounts []pubkey.Pubkey `json:"accounts"`
	Data     hexutil.Bytes   `json:"data"`
}

// Op peeks at the discriminator without decoding the arguments.
func (ix Instruction) Op() Opcode {
	if len(ix.Data) < len(Discriminator{}) {
		return OpUnknown
	}
	var disc Discriminator
	copy(disc[:], ix.Data)
	for op, d := range opcodeDiscriminators {
		if d == disc {
			return op
		}
	}
	return OpUnknown
}

// Touched returns every non-zero address the instruction declares, signer included.
// Hosts lock exactly this set.
func (ix Instruction) Touched() []pubkey.Pubkey {
	seen := make(map[pubkey.Pubkey]bool, len(ix.Accounts)+1)
	out := make([]pubkey.Pubkey, 0, len(ix.Accounts)+1)
	for _, addr := range append([]pubkey.Pubkey{ix.Signer}, ix.Accounts...) {
		if addr.Zero() || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}
