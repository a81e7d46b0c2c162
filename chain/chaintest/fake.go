// Package chaintest provides an in-memory chain.RPC for tests.
package chaintest

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

// RPC serves accounts from a map and a fixed blockhash.
type RPC struct {
	mu             sync.Mutex
	accounts       map[solana.PublicKey]*rpc.Account
	blockhash      solana.Hash
	accountErr     error
	blockhashErr   error
	accountCalls   int
	blockhashCalls int
}

func NewRPC() *RPC {
	return &RPC{
		accounts:  make(map[solana.PublicKey]*rpc.Account),
		blockhash: solana.Hash{1},
	}
}

func (f *RPC) SetAccount(addr, owner solana.PublicKey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[addr] = &rpc.Account{
		Lamports: 1_000_000,
		Owner:    owner,
		Data:     rpc.DataBytesOrJSONFromBytes(data),
	}
}

func (f *RPC) SetBlockhash(h solana.Hash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockhash = h
}

func (f *RPC) FailAccounts(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountErr = err
}

func (f *RPC) FailBlockhash(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockhashErr = err
}

// Calls returns the number of account and blockhash requests served.
func (f *RPC) Calls() (accounts, blockhashes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accountCalls, f.blockhashCalls
}

func (f *RPC) GetAccountInfoWithOpts(_ context.Context, account solana.PublicKey, _ *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCalls++
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	acc, ok := f.accounts[account]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{Value: acc}, nil
}

func (f *RPC) GetLatestBlockhash(_ context.Context, _ rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockhashCalls++
	if f.blockhashErr != nil {
		return nil, f.blockhashErr
	}
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: f.blockhash, LastValidBlockHeight: 1000},
	}, nil
}

// PlayerAccountData is a minimal valid player account body.
func PlayerAccountData() []byte {
	d := gamba.AccountDiscriminator("Player")
	return append(d[:], make([]byte, 64)...)
}

// GambaStateData encodes the fixed-layout head of the global state account.
func GambaStateData(authority, rng, fee solana.PublicKey) []byte {
	d := gamba.AccountDiscriminator("GambaState")
	out := append([]byte(nil), d[:]...)
	out = append(out, authority.Bytes()...)
	out = append(out, rng.Bytes()...)
	out = append(out, fee.Bytes()...)
	return out
}

// SeedPlayer makes user look like a returning player of program p.
func (f *RPC) SeedPlayer(p gamba.Program, user solana.PublicKey) error {
	addrs, err := p.Resolve(user, false)
	if err != nil {
		return err
	}
	f.SetAccount(addrs.Player, p.ID, PlayerAccountData())
	f.SetAccount(addrs.GambaState, p.ID, GambaStateData(p.Creator, p.Pool, p.Creator))
	return nil
}
