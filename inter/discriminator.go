package inter

import (
	"crypto/sha256"
	"encoding/hex"
)

// Discriminator is the 8-byte tag in front of every instruction payload and
// every account record. Instruction tags are sha256("global:<name>")[:8] and
// record tags are sha256("account:<Name>")[:8]. The values are pinned here
// because callers match them byte for byte.
type Discriminator [8]byte

func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

var (
	InitializeDiscriminator         = Discriminator{175, 175, 109, 31, 13, 152, 155, 237}
	StakeDiscriminator              = Discriminator{206, 176, 202, 18, 200, 209, 179, 108}
	CheckinDiscriminator            = Discriminator{223, 175, 165, 27, 123, 7, 54, 252}
	ClaimBonusDiscriminator         = Discriminator{143, 250, 0, 123, 176, 198, 110, 71}
	ProcessDeathDiscriminator       = Discriminator{114, 251, 43, 80, 207, 177, 198, 62}
	WithdrawDiscriminator           = Discriminator{183, 18, 70, 156, 148, 109, 161, 34}
	ClaimRewardsDiscriminator       = Discriminator{4, 144, 132, 71, 116, 23, 151, 80}
	StartBonusWindowDiscriminator   = Discriminator{56, 48, 189, 106, 43, 77, 143, 1}
	SetCheckinIntervalDiscriminator = Discriminator{242, 110, 65, 89, 69, 181, 199, 100}

	GameStateDiscriminator = Discriminator{144, 94, 208, 172, 248, 99, 134, 120}
	PlayerDiscriminator    = Discriminator{205, 222, 112, 7, 165, 155, 206, 218}
)

// SighashDiscriminator derives a tag from a namespace ("global", "account") and a name.
func SighashDiscriminator(namespace, name string) Discriminator {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d Discriminator
	copy(d[:], sum[:8])
	return d
}
