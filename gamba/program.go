// Package gamba derives the addresses and builds the instructions the Gamba
// on-chain program expects for a coin-flip wager. Everything here is pure: no
// network access, no key material.
package gamba

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInvalidIdentity = errors.New("gamba: invalid identity")
	ErrInvalidWager    = errors.New("gamba: invalid wager")
	ErrInvalidSide     = errors.New("gamba: invalid side")
	ErrCorruptState    = errors.New("gamba: corrupt account state")
)

// Addresses of the mainnet deployment the blinks were built against.
var (
	DefaultProgramID          = solana.MustPublicKeyFromBase58("GambaXcmhJg1vgPm1Gn6mnMKGyyR3X2eSmF6yeU6XWtT")
	DefaultPool               = solana.MustPublicKeyFromBase58("EHZWpW2qq4C6hDbKzuAydZudHXowtMdQJ8kdfBztxUhS")
	DefaultUnderlyingMint     = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	DefaultBonusMint          = solana.MustPublicKeyFromBase58("3DYPrHe51zLFaNRC2hGLepR5xr56GKhdbhd34kSwgmJm")
	DefaultCreator            = solana.MustPublicKeyFromBase58("GzzWXXDjLD4FDwDkWB5sARjC2aaLSfCQDjx3dmpoTY7K")
	DefaultPoolJackpotAccount = solana.MustPublicKeyFromBase58("HiXuHhhCe7X9ndczXfwMrTqaUPL98sBuHdsLLqMqAGk")
)

// Program is the fixed set of accounts every play instruction references.
type Program struct {
	ID                 solana.PublicKey
	Pool               solana.PublicKey
	UnderlyingMint     solana.PublicKey
	BonusMint          solana.PublicKey
	Creator            solana.PublicKey
	PoolJackpotAccount solana.PublicKey
}

func DefaultProgram() Program {
	return Program{
		ID:                 DefaultProgramID,
		Pool:               DefaultPool,
		UnderlyingMint:     DefaultUnderlyingMint,
		BonusMint:          DefaultBonusMint,
		Creator:            DefaultCreator,
		PoolJackpotAccount: DefaultPoolJackpotAccount,
	}
}
