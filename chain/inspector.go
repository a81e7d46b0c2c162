package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

// Inspector reads the player and global state accounts to decide whether a
// user must initialize before playing.
type Inspector struct {
	rpc        RPC
	programID  solana.PublicKey
	commitment rpc.CommitmentType
}

func NewInspector(client RPC, programID solana.PublicKey, commitment rpc.CommitmentType) *Inspector {
	return &Inspector{rpc: client, programID: programID, commitment: commitment}
}

// Inspect returns gamba.Uninitialized when the player account is absent and
// gamba.Ready when it exists and the global state decodes. Present but
// unreadable accounts fail with gamba.ErrCorruptState; RPC failures with
// ErrUpstreamUnavailable.
func (i *Inspector) Inspect(ctx context.Context, addrs gamba.Addresses) (gamba.PlayerState, error) {
	player, err := i.account(ctx, addrs.Player)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return gamba.Uninitialized{Player: addrs.Player}, nil
	}
	if !player.Owner.Equals(i.programID) {
		return nil, fmt.Errorf("%w: player %s owned by %s", gamba.ErrCorruptState, addrs.Player, player.Owner)
	}
	if err := gamba.CheckPlayerAccount(accountData(player)); err != nil {
		return nil, err
	}

	stateAcc, err := i.account(ctx, addrs.GambaState)
	if err != nil {
		return nil, err
	}
	if stateAcc == nil {
		return nil, fmt.Errorf("%w: gamba state %s not found", gamba.ErrCorruptState, addrs.GambaState)
	}
	state, err := gamba.DecodeGambaState(accountData(stateAcc))
	if err != nil {
		return nil, err
	}
	return gamba.Ready{Player: addrs.Player, State: state}, nil
}

// account returns nil, nil for a missing account.
func (i *Inspector) account(ctx context.Context, addr solana.PublicKey) (*rpc.Account, error) {
	res, err := i.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: i.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get account %s: %v", ErrUpstreamUnavailable, addr, err)
	}
	if res == nil || res.Value == nil {
		return nil, nil
	}
	return res.Value, nil
}

func accountData(acc *rpc.Account) []byte {
	if acc == nil || acc.Data == nil {
		return nil
	}
	return acc.Data.GetBinary()
}
