// Package chain holds the two steps of transaction preparation that talk to a
// Solana RPC node: reading account state and stamping a recent blockhash.
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrUpstreamUnavailable = errors.New("chain: upstream unavailable")

// RPC is the subset of *rpc.Client the pipeline calls. A single client is safe
// for concurrent use by independent requests.
type RPC interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

var _ RPC = (*rpc.Client)(nil)

func NewRPC(endpoint string) *rpc.Client {
	return rpc.New(endpoint)
}

// ParseCommitment maps a config string to a commitment level.
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "processed":
		return rpc.CommitmentProcessed, nil
	case "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	default:
		return "", fmt.Errorf("chain: unknown commitment %q", s)
	}
}
