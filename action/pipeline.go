// Package action turns a wager request into an unsigned transaction and
// defines the Actions protocol messages around it.
package action

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamba-blinks/chain"
	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
	"github.com/Ashenafi-pixel/gamba-blinks/ledger"
)

const initMessage = "Player account not found. Please sign this transaction to create it. Then try again."

type Inspector interface {
	Inspect(ctx context.Context, addrs gamba.Addresses) (gamba.PlayerState, error)
}

type TxBuilder interface {
	Build(ctx context.Context, payer solana.PublicKey, instructions []solana.Instruction) (*chain.Prepared, error)
}

var (
	_ Inspector = (*chain.Inspector)(nil)
	_ TxBuilder = (*chain.Builder)(nil)
)

// Pipeline is safe for concurrent use; it holds no per-request state.
type Pipeline struct {
	assembler gamba.Assembler
	inspector Inspector
	builder   TxBuilder
	ledger    ledger.Store // optional
	log       *zap.Logger
}

func NewPipeline(assembler gamba.Assembler, inspector Inspector, builder TxBuilder, store ledger.Store, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		assembler: assembler,
		inspector: inspector,
		builder:   builder,
		ledger:    store,
		log:       log.Named("pipeline"),
	}
}

// Prepare validates req, then resolves addresses, inspects the player,
// assembles instructions and builds the unsigned transaction. Validation
// failures return before any RPC call.
func (p *Pipeline) Prepare(ctx context.Context, req WagerRequest) (*ActionPostResponse, error) {
	w, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if w.Bet.ClientSeed == "" {
		if w.Bet.ClientSeed, err = NewClientSeed(); err != nil {
			return nil, fmt.Errorf("action: client seed: %w", err)
		}
	}

	addrs, err := p.assembler.Program.Resolve(w.User, p.assembler.UseBonus)
	if err != nil {
		return nil, err
	}
	state, err := p.inspector.Inspect(ctx, addrs)
	if err != nil {
		return nil, err
	}
	plan, err := p.assembler.Assemble(state, addrs, w.Bet)
	if err != nil {
		return nil, err
	}
	prepared, err := p.builder.Build(ctx, w.User, plan.Instructions)
	if err != nil {
		return nil, err
	}

	p.record(ctx, w, plan.Kind)
	p.log.Info("prepared transaction",
		zap.String("account", w.User.String()),
		zap.String("kind", string(plan.Kind)),
		zap.Uint64("lamports", w.Bet.Lamports),
		zap.String("side", string(w.Bet.Side)),
		zap.Stringer("blockhash", prepared.Blockhash),
	)
	return &ActionPostResponse{
		Transaction: prepared.Encoded,
		Message:     message(plan.Kind, w),
	}, nil
}

func message(kind gamba.Kind, w Wager) string {
	if kind == gamba.KindInitialize {
		return initMessage
	}
	top := w.Amount.Mul(w.Bet.Side.MaxMultiplier())
	return fmt.Sprintf("%s SOL on the line. 🚀 Blink to find out if you double up to %s SOL!", w.Amount.String(), top.String())
}

// record is best effort; the transaction is returned even if it fails.
func (p *Pipeline) record(ctx context.Context, w Wager, kind gamba.Kind) {
	if p.ledger == nil {
		return
	}
	e := ledger.NewEntry(w.User.String(), string(kind))
	if kind == gamba.KindPlay {
		e.Lamports = w.Bet.Lamports
		e.Side = string(w.Bet.Side)
		e.Metadata = p.assembler.Metadata.String()
	}
	if err := p.ledger.Append(ctx, e); err != nil {
		p.log.Warn("ledger append failed", zap.String("account", e.Account), zap.Error(err))
	}
}
