package action

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

const maxSeedLength = 32

// WagerRequest is the raw caller input: amount and side from the query
// string, account and seed from the body.
type WagerRequest struct {
	Account    string
	Amount     string
	Side       string
	ClientSeed string
}

// Wager is a request that passed validation.
type Wager struct {
	User   solana.PublicKey
	Amount decimal.Decimal // SOL
	Bet    gamba.Wager
}

// Validate checks the request without touching the network. The amount is
// checked first so a bare POST reports the missing amount.
func (r WagerRequest) Validate() (Wager, error) {
	amount, err := gamba.ParseAmount(r.Amount)
	if err != nil {
		return Wager{}, err
	}
	lamports, err := gamba.ToLamports(amount)
	if err != nil {
		return Wager{}, err
	}
	if strings.TrimSpace(r.Account) == "" {
		return Wager{}, ErrMissingAccount
	}
	user, err := gamba.ParseIdentity(r.Account)
	if err != nil {
		return Wager{}, err
	}
	side := gamba.Heads
	if r.Side != "" {
		if side, err = gamba.ParseSide(r.Side); err != nil {
			return Wager{}, err
		}
	}
	if utf8.RuneCountInString(r.ClientSeed) > maxSeedLength {
		return Wager{}, fmt.Errorf("%w: at most %d characters", ErrInvalidSeed, maxSeedLength)
	}
	return Wager{
		User:   user,
		Amount: amount,
		Bet: gamba.Wager{
			Lamports:   lamports,
			Side:       side,
			ClientSeed: r.ClientSeed,
		},
	}, nil
}

var seedSpace = big.NewInt(1_000_000_000)

// NewClientSeed returns a random decimal seed below one billion.
func NewClientSeed() (string, error) {
	n, err := rand.Int(rand.Reader, seedSpace)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}
