package chain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashenafi-pixel/gamba-blinks/chain"
	"github.com/Ashenafi-pixel/gamba-blinks/chain/chaintest"
	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

var user = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")

func setup(t *testing.T) (*chaintest.RPC, *chain.Inspector, gamba.Program, gamba.Addresses) {
	t.Helper()
	p := gamba.DefaultProgram()
	addrs, err := p.Resolve(user, false)
	require.NoError(t, err)
	fake := chaintest.NewRPC()
	return fake, chain.NewInspector(fake, p.ID, rpc.CommitmentProcessed), p, addrs
}

func TestInspect_Uninitialized(t *testing.T) {
	_, in, _, addrs := setup(t)
	st, err := in.Inspect(context.Background(), addrs)
	require.NoError(t, err)
	assert.Equal(t, gamba.Uninitialized{Player: addrs.Player}, st)
}

func TestInspect_Ready(t *testing.T) {
	fake, in, p, addrs := setup(t)
	require.NoError(t, fake.SeedPlayer(p, user))

	st, err := in.Inspect(context.Background(), addrs)
	require.NoError(t, err)
	ready, ok := st.(gamba.Ready)
	require.True(t, ok, "got %T", st)
	assert.Equal(t, addrs.Player, ready.Player)
	assert.Equal(t, p.Creator, ready.State.Authority)
	assert.Equal(t, p.Pool, ready.State.RngAddress)
}

func TestInspect_WrongOwner(t *testing.T) {
	fake, in, _, addrs := setup(t)
	fake.SetAccount(addrs.Player, solana.SystemProgramID, chaintest.PlayerAccountData())
	_, err := in.Inspect(context.Background(), addrs)
	assert.ErrorIs(t, err, gamba.ErrCorruptState)
}

func TestInspect_BadPlayerData(t *testing.T) {
	fake, in, p, addrs := setup(t)
	fake.SetAccount(addrs.Player, p.ID, []byte("garbage-garbage"))
	_, err := in.Inspect(context.Background(), addrs)
	assert.ErrorIs(t, err, gamba.ErrCorruptState)
}

func TestInspect_MissingGambaState(t *testing.T) {
	fake, in, p, addrs := setup(t)
	fake.SetAccount(addrs.Player, p.ID, chaintest.PlayerAccountData())
	_, err := in.Inspect(context.Background(), addrs)
	assert.ErrorIs(t, err, gamba.ErrCorruptState)
}

func TestInspect_RPCFailure(t *testing.T) {
	fake, in, _, addrs := setup(t)
	fake.FailAccounts(errors.New("connection refused"))
	_, err := in.Inspect(context.Background(), addrs)
	assert.ErrorIs(t, err, chain.ErrUpstreamUnavailable)
}

func TestParseCommitment(t *testing.T) {
	c, err := chain.ParseCommitment("Finalized")
	require.NoError(t, err)
	assert.Equal(t, rpc.CommitmentFinalized, c)
	c, err = chain.ParseCommitment("")
	require.NoError(t, err)
	assert.Equal(t, rpc.CommitmentProcessed, c)
	_, err = chain.ParseCommitment("eventually")
	assert.Error(t, err)
}
