package inter

import (
	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

// AccountRole names a slot in an instruction's account list.
type AccountRole uint8

const (
	RoleGameState AccountRole = iota
	RolePlayer
	RoleReferrer
	RoleReferrer1
	RoleReferrer2
	RoleReferrer3
	RoleTreasury
	RoleSigner
)

// Optional reports whether the slot may hold the zero key.
func (r AccountRole) Optional() bool {
	switch r {
	case RoleReferrer, RoleReferrer1, RoleReferrer2, RoleReferrer3:
		return true
	}
	return false
}

// AncestorRoles are the process_death referrer slots, level 1 first.
var AncestorRoles = [3]AccountRole{RoleReferrer1, RoleReferrer2, RoleReferrer3}

var layouts = map[Opcode][]AccountRole{
	OpInitialize:         {RoleGameState, RoleTreasury, RoleSigner},
	OpStake:              {RoleGameState, RolePlayer, RoleReferrer, RoleSigner},
	OpCheckin:            {RoleGameState, RolePlayer, RoleSigner},
	OpClaimBonus:         {RoleGameState, RolePlayer, RoleSigner},
	OpProcessDeath:       {RoleGameState, RolePlayer, RoleReferrer1, RoleReferrer2, RoleReferrer3, RoleTreasury, RoleSigner},
	OpWithdraw:           {RoleGameState, RolePlayer, RoleSigner},
	OpClaimRewards:       {RoleGameState, RolePlayer, RoleSigner},
	OpStartBonusWindow:   {RoleGameState, RoleSigner},
	OpSetCheckinInterval: {RoleGameState, RoleSigner},
}

// Layout returns the ordered account roles of op.
func (op Opcode) Layout() []AccountRole {
	return layouts[op]
}

// Account returns the address in the slot for role, or the zero key if op
// has no such slot or the account list is too short.
func (ix Instruction) Account(op Opcode, role AccountRole) pubkey.Pubkey {
	for i, r := range op.Layout() {
		if r == role {
			if i < len(ix.Accounts) {
				return ix.Accounts[i]
			}
			break
		}
	}
	return pubkey.Pubkey{}
}

// Builders. Each one derives the record addresses from programID and lays the
// accounts out in the order Layout expects.

func NewInitialize(programID, authority, treasury pubkey.Pubkey) Instruction {
	game, _ := GameStateAddress(programID)
	return Instruction{
		Signer:   authority,
		Accounts: []pubkey.Pubkey{game, treasury, authority},
		Data:     Call{Op: OpInitialize}.Encode(),
	}
}

func NewStake(programID, user pubkey.Pubkey, amount uint64, referrer *pubkey.Pubkey) Instruction {
	game, _ := GameStateAddress(programID)
	player, _ := PlayerAddress(programID, user)
	var refAccount pubkey.Pubkey
	if referrer != nil {
		refAccount, _ = PlayerAddress(programID, *referrer)
	}
	return Instruction{
		Signer:   user,
		Accounts: []pubkey.Pubkey{game, player, refAccount, user},
		Data:     Call{Op: OpStake, Amount: amount, Referrer: referrer}.Encode(),
	}
}

func NewCheckin(programID, user pubkey.Pubkey) Instruction {
	return newPlayerInstruction(programID, user, OpCheckin)
}

func NewClaimBonus(programID, user pubkey.Pubkey) Instruction {
	return newPlayerInstruction(programID, user, OpClaimBonus)
}

func NewWithdraw(programID, user pubkey.Pubkey) Instruction {
	return newPlayerInstruction(programID, user, OpWithdraw)
}

func NewClaimRewards(programID, user pubkey.Pubkey) Instruction {
	return newPlayerInstruction(programID, user, OpClaimRewards)
}

func newPlayerInstruction(programID, user pubkey.Pubkey, op Opcode) Instruction {
	game, _ := GameStateAddress(programID)
	player, _ := PlayerAddress(programID, user)
	return Instruction{
		Signer:   user,
		Accounts: []pubkey.Pubkey{game, player, user},
		Data:     Call{Op: op}.Encode(),
	}
}

// NewProcessDeath builds process_death for the dead wallet. ancestors are
// wallets, level 1 first; at most three are used.
func NewProcessDeath(programID, caller, dead pubkey.Pubkey, ancestors []pubkey.Pubkey, treasury pubkey.Pubkey) Instruction {
	game, _ := GameStateAddress(programID)
	deadAccount, _ := PlayerAddress(programID, dead)
	accounts := []pubkey.Pubkey{game, deadAccount, {}, {}, {}, treasury, caller}
	for i, wallet := range ancestors {
		if i == len(AncestorRoles) {
			break
		}
		accounts[2+i], _ = PlayerAddress(programID, wallet)
	}
	return Instruction{
		Signer:   caller,
		Accounts: accounts,
		Data:     Call{Op: OpProcessDeath}.Encode(),
	}
}

func NewStartBonusWindow(programID, authority pubkey.Pubkey, windowID uint64) Instruction {
	game, _ := GameStateAddress(programID)
	return Instruction{
		Signer:   authority,
		Accounts: []pubkey.Pubkey{game, authority},
		Data:     Call{Op: OpStartBonusWindow, WindowID: windowID}.Encode(),
	}
}

func NewSetCheckinInterval(programID, authority pubkey.Pubkey, seconds int64) Instruction {
	game, _ := GameStateAddress(programID)
	return Instruction{
		Signer:   authority,
		Accounts: []pubkey.Pubkey{game, authority},
		Data:     Call{Op: OpSetCheckinInterval, IntervalSeconds: seconds}.Encode(),
	}
}
