package chain

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Prepared is an unsigned transaction ready to hand to a wallet.
type Prepared struct {
	Transaction          *solana.Transaction
	Encoded              string // base64 wire format
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
}

// Builder wraps instructions into a transaction paid for by the caller.
type Builder struct {
	rpc        RPC
	commitment rpc.CommitmentType
}

func NewBuilder(client RPC, commitment rpc.CommitmentType) *Builder {
	return &Builder{rpc: client, commitment: commitment}
}

// Build fetches a fresh blockhash and serializes the transaction with empty
// signature slots. The server never signs.
func (b *Builder) Build(ctx context.Context, payer solana.PublicKey, instructions []solana.Instruction) (*Prepared, error) {
	if len(instructions) == 0 {
		return nil, errors.New("chain: no instructions to build")
	}
	res, err := b.rpc.GetLatestBlockhash(ctx, b.commitment)
	if err != nil {
		return nil, fmt.Errorf("%w: latest blockhash: %v", ErrUpstreamUnavailable, err)
	}
	if res == nil || res.Value == nil {
		return nil, fmt.Errorf("%w: empty blockhash response", ErrUpstreamUnavailable)
	}
	tx, err := solana.NewTransaction(instructions, res.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("chain: new transaction: %w", err)
	}
	encoded, err := EncodeUnsigned(tx)
	if err != nil {
		return nil, err
	}
	return &Prepared{
		Transaction:          tx,
		Encoded:              encoded,
		Blockhash:            res.Value.Blockhash,
		LastValidBlockHeight: res.Value.LastValidBlockHeight,
	}, nil
}

// EncodeUnsigned zero-fills the required signature slots and returns the
// base64 wire encoding.
func EncodeUnsigned(tx *solana.Transaction) (string, error) {
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("chain: serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeTransaction parses a base64 transaction produced by EncodeUnsigned.
func DecodeTransaction(encoded string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("chain: decode base64: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("chain: decode transaction: %w", err)
	}
	return tx, nil
}
