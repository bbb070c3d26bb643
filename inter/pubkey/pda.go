package pubkey

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
)

const (
	// MaxSeedLength bounds a single derivation seed.
	MaxSeedLength = 32
	// MaxSeeds bounds the number of seeds, bump included.
	MaxSeeds = 16

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLengthExceeded = errors.New("pubkey: seed longer than 32 bytes")
	ErrMaxSeedsExceeded      = errors.New("pubkey: too many seeds")
	ErrInvalidSeeds          = errors.New("pubkey: derived address lies on the ed25519 curve")
	ErrNoViableBump          = errors.New("pubkey: no bump seed yields an off-curve address")
)

// OnCurve reports whether pk decodes to a point on the ed25519 curve.
// Program-derived addresses are exactly the hashes that do not, so no private key can sign for them.
func OnCurve(pk Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(pk[:])
	return err == nil
}

// CreateProgramAddress hashes seeds || programID || "ProgramDerivedAddress".
// It fails with ErrInvalidSeeds when the hash is a valid curve point.
func CreateProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return Pubkey{}, ErrMaxSeedsExceeded
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Pubkey{}, ErrMaxSeedLengthExceeded
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var addr Pubkey
	copy(addr[:], h.Sum(nil))
	if OnCurve(addr) {
		return Pubkey{}, ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress tries bump seeds from 255 down and returns the first
// off-curve address together with its bump.
func FindProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if err != ErrInvalidSeeds {
			return Pubkey{}, 0, err
		}
	}
	return Pubkey{}, 0, ErrNoViableBump
}
