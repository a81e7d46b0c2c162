package gamba

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Kind names the instruction set a plan carries.
type Kind string

const (
	KindInitialize Kind = "initialize"
	KindPlay       Kind = "play"
)

// Wager is a validated bet, already in base units.
type Wager struct {
	Lamports   uint64
	Side       Side
	ClientSeed string
}

// Plan is the ordered instruction list for one transaction.
type Plan struct {
	Kind         Kind
	Instructions []solana.Instruction
}

// Assembler turns a wager and the inspected player state into instructions.
type Assembler struct {
	Program    Program
	CreatorFee uint32 // basis points
	JackpotFee uint32 // basis points
	Metadata   Metadata
	UseBonus   bool
}

// Assemble returns only the initialization instruction for a new player; the
// caller signs it and retries before any funds are wagered.
func (a Assembler) Assemble(state PlayerState, addrs Addresses, w Wager) (Plan, error) {
	switch state.(type) {
	case Uninitialized:
		return Plan{
			Kind:         KindInitialize,
			Instructions: []solana.Instruction{a.Program.PlayerInitialize(addrs)},
		}, nil
	case Ready:
		if w.Lamports == 0 {
			return Plan{}, fmt.Errorf("%w: amount must be positive", ErrInvalidWager)
		}
		if _, ok := betTables[w.Side]; !ok {
			return Plan{}, fmt.Errorf("%w: %q", ErrInvalidSide, w.Side)
		}
		ix, err := a.Program.PlayGame(addrs, PlayArgs{
			Wager:      w.Lamports,
			Bet:        w.Side.Bet(),
			ClientSeed: w.ClientSeed,
			CreatorFee: a.CreatorFee,
			JackpotFee: a.JackpotFee,
			Metadata:   a.Metadata.String(),
		})
		if err != nil {
			return Plan{}, err
		}
		return Plan{Kind: KindPlay, Instructions: []solana.Instruction{ix}}, nil
	default:
		return Plan{}, fmt.Errorf("gamba: unhandled player state %T", state)
	}
}
