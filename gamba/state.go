package gamba

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	playerAccountDiscriminator = AccountDiscriminator("Player")
	gambaStateDiscriminator    = AccountDiscriminator("GambaState")
)

// AccountDiscriminator is the anchor account tag: sha256("account:<Name>")[:8].
func AccountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// PlayerState is what inspecting a user's player account found. The two
// variants select disjoint instruction sets; see Assembler.Assemble.
type PlayerState interface {
	isPlayerState()
}

// Uninitialized means the player account does not exist yet.
type Uninitialized struct {
	Player solana.PublicKey
}

// Ready means the player account exists and the global state decoded.
type Ready struct {
	Player solana.PublicKey
	State  *GambaState
}

func (Uninitialized) isPlayerState() {}
func (Ready) isPlayerState()         {}

// GambaState is the leading fixed-layout part of the global state account.
type GambaState struct {
	Authority       solana.PublicKey
	RngAddress      solana.PublicKey
	GambaFeeAddress solana.PublicKey
}

func DecodeGambaState(data []byte) (*GambaState, error) {
	if err := checkDiscriminator(data, gambaStateDiscriminator, "gamba state"); err != nil {
		return nil, err
	}
	var st GambaState
	if err := bin.NewBorshDecoder(data[8:]).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: gamba state: %v", ErrCorruptState, err)
	}
	return &st, nil
}

// CheckPlayerAccount verifies the account data carries the Player tag.
func CheckPlayerAccount(data []byte) error {
	return checkDiscriminator(data, playerAccountDiscriminator, "player")
}

func checkDiscriminator(data []byte, want [8]byte, what string) error {
	if len(data) < len(want) {
		return fmt.Errorf("%w: %s account has %d bytes", ErrCorruptState, what, len(data))
	}
	if !bytes.Equal(data[:8], want[:]) {
		return fmt.Errorf("%w: %s account discriminator mismatch", ErrCorruptState, what)
	}
	return nil
}
