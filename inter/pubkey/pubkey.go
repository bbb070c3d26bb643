// Package pubkey provides the 32-byte identity used for wallets, program IDs
// and program-derived record addresses. Identities render as base58, the way
// wallets display them; hex input with a 0x prefix is accepted for tooling.
package pubkey

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mr-tron/base58"
)

// Size is the length of an identity in bytes.
const Size = 32

var (
	ErrInvalidLength = errors.New("pubkey: expected 32 bytes")
	ErrEmpty         = errors.New("pubkey: empty string")
)

// Pubkey is an ed25519 public key or a program-derived address.
// The zero value doubles as "no account" in optional instruction slots.
type Pubkey [Size]byte

// Zero reports whether every byte of pk is zero.
func (pk Pubkey) Zero() bool {
	return pk == Pubkey{}
}

// String returns the base58 form.
func (pk Pubkey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the raw key.
func (pk Pubkey) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, pk[:])
	return out
}

// Less orders identities bytewise. Lock acquisition relies on this order.
func (pk Pubkey) Less(other Pubkey) bool {
	for i := 0; i < Size; i++ {
		if pk[i] != other[i] {
			return pk[i] < other[i]
		}
	}
	return false
}

// FromBytes copies a 32-byte slice into a Pubkey.
func FromBytes(b []byte) (Pubkey, error) {
	var pk Pubkey
	if len(b) != Size {
		return pk, ErrInvalidLength
	}
	copy(pk[:], b)
	return pk, nil
}

// FromString parses base58, or hex when the string starts with 0x.
func FromString(str string) (Pubkey, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Pubkey{}, ErrEmpty
	}
	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		raw, err = hexutil.Decode(str)
	} else {
		raw, err = base58.Decode(str)
	}
	if err != nil {
		return Pubkey{}, err
	}
	return FromBytes(raw)
}

// MustFromString is FromString for constants. It panics on bad input.
func MustFromString(str string) Pubkey {
	pk, err := FromString(str)
	if err != nil {
		panic(err)
	}
	return pk
}

// MarshalText implements encoding.TextMarshaler.
func (pk Pubkey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *Pubkey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
