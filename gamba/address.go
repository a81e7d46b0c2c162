package gamba

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// identityLength is the size of an ed25519 public key.
const identityLength = 32

var (
	seedPlayer        = []byte("PLAYER")
	seedGame          = []byte("GAME")
	seedGambaState    = []byte("GAMBA_STATE")
	seedPoolJackpot   = []byte("POOL_JACKPOT")
	seedPoolBonusMint = []byte("POOL_BONUS_MINT")
)

// Addresses are the per-user accounts a wager touches.
type Addresses struct {
	User       solana.PublicKey
	Player     solana.PublicKey
	Game       solana.PublicKey
	GambaState solana.PublicKey

	UserUnderlyingATA solana.PublicKey
	CreatorATA        solana.PublicKey
	PlayerATA         solana.PublicKey

	// Set to the program ID when the wager does not use bonus tokens.
	UserBonusATA   solana.PublicKey
	PlayerBonusATA solana.PublicKey
}

// ParseIdentity decodes a base58 account key supplied by a caller.
func ParseIdentity(s string) (solana.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: empty account", ErrInvalidIdentity)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	if len(b) != identityLength {
		return solana.PublicKey{}, fmt.Errorf("%w: account must be %d bytes, got %d", ErrInvalidIdentity, identityLength, len(b))
	}
	var pk solana.PublicKey
	copy(pk[:], b)
	return pk, nil
}

func (p Program) derive(seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, p.ID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: derive address: %v", ErrInvalidIdentity, err)
	}
	return addr, nil
}

func (p Program) PlayerAddress(user solana.PublicKey) (solana.PublicKey, error) {
	return p.derive(seedPlayer, user.Bytes())
}

func (p Program) GameAddress(user solana.PublicKey) (solana.PublicKey, error) {
	return p.derive(seedGame, user.Bytes())
}

// GambaStateAddress is the program's single global state account.
func (p Program) GambaStateAddress() (solana.PublicKey, error) {
	return p.derive(seedGambaState)
}

// PoolJackpotAddress is the jackpot token account owned by pool.
func (p Program) PoolJackpotAddress(pool solana.PublicKey) (solana.PublicKey, error) {
	return p.derive(seedPoolJackpot, pool.Bytes())
}

// PoolBonusMintAddress is the bonus token mint issued by pool.
func (p Program) PoolBonusMintAddress(pool solana.PublicKey) (solana.PublicKey, error) {
	return p.derive(seedPoolBonusMint, pool.Bytes())
}

func associatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: associated token address: %v", ErrInvalidIdentity, err)
	}
	return ata, nil
}

// Resolve computes every address a wager by user needs. The result depends
// only on user, useBonus and p.
func (p Program) Resolve(user solana.PublicKey, useBonus bool) (Addresses, error) {
	a := Addresses{User: user, UserBonusATA: p.ID, PlayerBonusATA: p.ID}
	var err error
	if a.Player, err = p.PlayerAddress(user); err != nil {
		return Addresses{}, err
	}
	if a.Game, err = p.GameAddress(user); err != nil {
		return Addresses{}, err
	}
	if a.GambaState, err = p.GambaStateAddress(); err != nil {
		return Addresses{}, err
	}
	if a.UserUnderlyingATA, err = associatedTokenAddress(user, p.UnderlyingMint); err != nil {
		return Addresses{}, err
	}
	if a.CreatorATA, err = associatedTokenAddress(p.Creator, p.UnderlyingMint); err != nil {
		return Addresses{}, err
	}
	if a.PlayerATA, err = associatedTokenAddress(a.Player, p.UnderlyingMint); err != nil {
		return Addresses{}, err
	}
	if useBonus {
		if a.UserBonusATA, err = associatedTokenAddress(user, p.BonusMint); err != nil {
			return Addresses{}, err
		}
		if a.PlayerBonusATA, err = associatedTokenAddress(a.Player, p.BonusMint); err != nil {
			return Addresses{}, err
		}
	}
	return a, nil
}
