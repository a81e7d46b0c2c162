package gamba

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	playerInitializeDiscriminator = instructionDiscriminator("player_initialize")
	playGameDiscriminator         = instructionDiscriminator("play_game")
)

// instructionDiscriminator is the anchor method selector: sha256("global:<name>")[:8].
func instructionDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// PlayArgs are the play_game arguments, in wire order.
type PlayArgs struct {
	Wager      uint64
	Bet        []uint32
	ClientSeed string
	CreatorFee uint32
	JackpotFee uint32
	Metadata   string
}

func EncodePlayArgs(args PlayArgs) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(playGameDiscriminator[:])
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("gamba: encode play args: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodePlayArgs(data []byte) (PlayArgs, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], playGameDiscriminator[:]) {
		return PlayArgs{}, fmt.Errorf("gamba: not a play_game instruction")
	}
	var args PlayArgs
	if err := bin.NewBorshDecoder(data[8:]).Decode(&args); err != nil {
		return PlayArgs{}, fmt.Errorf("gamba: decode play args: %w", err)
	}
	return args, nil
}

// IsPlayerInitialize reports whether data selects player_initialize.
func IsPlayerInitialize(data []byte) bool {
	return bytes.Equal(data, playerInitializeDiscriminator[:])
}

// PlayerInitialize creates the player account for addrs.User.
func (p Program) PlayerInitialize(addrs Addresses) solana.Instruction {
	return solana.NewInstruction(p.ID, solana.AccountMetaSlice{
		solana.Meta(addrs.Player).WRITE(),
		solana.Meta(addrs.User).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}, append([]byte(nil), playerInitializeDiscriminator[:]...))
}

// PlayGame places a wager. The account order is fixed by the program.
func (p Program) PlayGame(addrs Addresses, args PlayArgs) (solana.Instruction, error) {
	data, err := EncodePlayArgs(args)
	if err != nil {
		return nil, err
	}
	accounts := solana.AccountMetaSlice{
		solana.Meta(addrs.User).WRITE().SIGNER(),
		solana.Meta(addrs.Player).WRITE(),
		solana.Meta(addrs.Game).WRITE(),
		solana.Meta(p.Pool).WRITE(),
		solana.Meta(p.UnderlyingMint),
		solana.Meta(p.BonusMint).WRITE(),
		solana.Meta(addrs.UserUnderlyingATA).WRITE(),
		solana.Meta(p.Creator),
		solana.Meta(addrs.CreatorATA).WRITE(),
		solana.Meta(addrs.PlayerATA).WRITE(),
		p.optional(addrs.PlayerBonusATA),
		p.optional(addrs.UserBonusATA),
		solana.Meta(addrs.GambaState),
		solana.Meta(p.PoolJackpotAccount).WRITE(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
	}
	return solana.NewInstruction(p.ID, accounts, data), nil
}

// optional marks an anchor optional account. An absent account is passed as
// the program ID and must stay read-only.
func (p Program) optional(addr solana.PublicKey) *solana.AccountMeta {
	if addr.Equals(p.ID) {
		return solana.Meta(addr)
	}
	return solana.Meta(addr).WRITE()
}
