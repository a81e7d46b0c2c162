package action_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamba-blinks/action"
	"github.com/Ashenafi-pixel/gamba-blinks/chain"
	"github.com/Ashenafi-pixel/gamba-blinks/chain/chaintest"
	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
	"github.com/Ashenafi-pixel/gamba-blinks/ledger"
)

var user = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")

type harness struct {
	rpc      *chaintest.RPC
	store    *ledger.FileStore
	pipeline *action.Pipeline
	program  gamba.Program
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	p := gamba.DefaultProgram()
	fake := chaintest.NewRPC()
	store := ledger.NewFileStore(t.TempDir())
	asm := gamba.Assembler{Program: p, CreatorFee: 500, JackpotFee: 100, Metadata: gamba.DefaultMetadata()}
	pl := action.NewPipeline(asm,
		chain.NewInspector(fake, p.ID, rpc.CommitmentProcessed),
		chain.NewBuilder(fake, rpc.CommitmentProcessed),
		store, zap.NewNop())
	return &harness{rpc: fake, store: store, pipeline: pl, program: p}
}

func decode(t *testing.T, resp *action.ActionPostResponse) *solana.Transaction {
	t.Helper()
	tx, err := chain.DecodeTransaction(resp.Transaction)
	require.NoError(t, err)
	return tx
}

func TestPrepare_NewPlayerGetsInitialize(t *testing.T) {
	h := newHarness(t)
	resp, err := h.pipeline.Prepare(context.Background(), action.WagerRequest{Account: user.String(), Amount: "0.5"})
	require.NoError(t, err)
	assert.Equal(t, "Player account not found. Please sign this transaction to create it. Then try again.", resp.Message)

	tx := decode(t, resp)
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, user, tx.Message.AccountKeys[0])
	assert.True(t, gamba.IsPlayerInitialize(tx.Message.Instructions[0].Data))

	entries, err := h.store.Recent(context.Background(), user.String(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "initialize", entries[0].Kind)
	assert.Zero(t, entries[0].Lamports)
}

func TestPrepare_ReturningPlayerHeads(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.rpc.SeedPlayer(h.program, user))

	resp, err := h.pipeline.Prepare(context.Background(), action.WagerRequest{
		Account: user.String(), Amount: "1", Side: "heads", ClientSeed: "abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "1 SOL on the line. 🚀 Blink to find out if you double up to 2 SOL!", resp.Message)

	tx := decode(t, resp)
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, user, tx.Message.AccountKeys[0])
	args, err := gamba.DecodePlayArgs(tx.Message.Instructions[0].Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), args.Wager)
	assert.Equal(t, []uint32{20000, 0}, args.Bet)
	assert.Equal(t, "abc", args.ClientSeed)
	assert.Equal(t, "0:Blinks:Solana-Blinks", args.Metadata)

	entries, err := h.store.Recent(context.Background(), user.String(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "play", entries[0].Kind)
	assert.Equal(t, "heads", entries[0].Side)
}

func TestPrepare_DefaultsToHeadsAndGeneratesSeed(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.rpc.SeedPlayer(h.program, user))

	resp, err := h.pipeline.Prepare(context.Background(), action.WagerRequest{Account: user.String(), Amount: "0.25"})
	require.NoError(t, err)
	args, err := gamba.DecodePlayArgs(decode(t, resp).Message.Instructions[0].Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(250_000_000), args.Wager)
	assert.Equal(t, []uint32{20000, 0}, args.Bet)
	assert.NotEmpty(t, args.ClientSeed)
}

func TestPrepare_IdempotentWithSeed(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.rpc.SeedPlayer(h.program, user))
	req := action.WagerRequest{Account: user.String(), Amount: "2", Side: "tails", ClientSeed: "fixed"}

	first, err := h.pipeline.Prepare(context.Background(), req)
	require.NoError(t, err)
	h.rpc.SetBlockhash(solana.Hash{2})
	second, err := h.pipeline.Prepare(context.Background(), req)
	require.NoError(t, err)

	a, b := decode(t, first), decode(t, second)
	assert.NotEqual(t, a.Message.RecentBlockhash, b.Message.RecentBlockhash)
	assert.Equal(t, a.Message.AccountKeys, b.Message.AccountKeys)
	assert.Equal(t, a.Message.Instructions, b.Message.Instructions)
}

func TestPrepare_ValidationMakesNoRPCCalls(t *testing.T) {
	cases := []struct {
		name string
		req  action.WagerRequest
		want error
	}{
		{"missing amount", action.WagerRequest{Account: user.String()}, gamba.ErrInvalidWager},
		{"zero amount", action.WagerRequest{Account: user.String(), Amount: "0"}, gamba.ErrInvalidWager},
		{"missing account", action.WagerRequest{Amount: "1"}, action.ErrMissingAccount},
		{"bad account", action.WagerRequest{Account: "xyz", Amount: "1"}, gamba.ErrInvalidIdentity},
		{"bad side", action.WagerRequest{Account: user.String(), Amount: "1", Side: "edge"}, gamba.ErrInvalidSide},
		{"long seed", action.WagerRequest{Account: user.String(), Amount: "1", ClientSeed: "0123456789012345678901234567890123"}, action.ErrInvalidSeed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.pipeline.Prepare(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, http.StatusBadRequest, action.StatusCode(err))
			accounts, blockhashes := h.rpc.Calls()
			assert.Zero(t, accounts)
			assert.Zero(t, blockhashes)
		})
	}
}

func TestPrepare_UpstreamFailure(t *testing.T) {
	h := newHarness(t)
	h.rpc.FailAccounts(errors.New("503"))
	_, err := h.pipeline.Prepare(context.Background(), action.WagerRequest{Account: user.String(), Amount: "1"})
	require.Error(t, err)
	assert.True(t, action.Upstream(err))
	assert.Equal(t, http.StatusInternalServerError, action.StatusCode(err))
	assert.Equal(t, action.OpaqueMessage, action.PublicMessage(err))
}

func TestPrepare_CorruptStateIsOpaque(t *testing.T) {
	h := newHarness(t)
	addrs, err := h.program.Resolve(user, false)
	require.NoError(t, err)
	h.rpc.SetAccount(addrs.Player, h.program.ID, []byte{1, 2, 3})

	_, err = h.pipeline.Prepare(context.Background(), action.WagerRequest{Account: user.String(), Amount: "1"})
	assert.ErrorIs(t, err, gamba.ErrCorruptState)
	assert.Equal(t, http.StatusInternalServerError, action.StatusCode(err))
	assert.Equal(t, action.OpaqueMessage, action.PublicMessage(err))
}
