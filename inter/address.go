package inter

import (
	"fmt"

	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

// Seeds for program-derived record addresses.
var (
	GameStateSeed = []byte("game_state")
	PlayerSeed    = []byte("player")
)

// GameStateAddress derives the singleton GameState address and its bump.
func GameStateAddress(programID pubkey.Pubkey) (pubkey.Pubkey, uint8) {
	return mustFind([][]byte{GameStateSeed}, programID)
}

// PlayerAddress derives the Player record address owned by wallet.
func PlayerAddress(programID, wallet pubkey.Pubkey) (pubkey.Pubkey, uint8) {
	return mustFind([][]byte{PlayerSeed, wallet[:]}, programID)
}

// mustFind panics only if no bump in 0..255 yields an off-curve hash.
// The seeds here are short and fixed, so the only failure mode is that.
func mustFind(seeds [][]byte, programID pubkey.Pubkey) (pubkey.Pubkey, uint8) {
	addr, bump, err := pubkey.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Errorf("derive address for program %s: %w", programID, err))
	}
	return addr, bump
}
