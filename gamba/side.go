package gamba

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the coin face a wager is placed on.
type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

// Payout multiplier per drawn outcome; index 0 is heads, index 1 is tails.
var betTables = map[Side][]int64{
	Heads: {2, 0},
	Tails: {0, 2},
}

func ParseSide(s string) (Side, error) {
	side := Side(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := betTables[side]; !ok {
		return "", fmt.Errorf("%w: %q (want heads or tails)", ErrInvalidSide, s)
	}
	return side, nil
}

// Bet is the bet table the program receives, in basis points.
func (s Side) Bet() []uint32 {
	table := betTables[s]
	out := make([]uint32, len(table))
	for i, m := range table {
		out[i] = BasisPoints(decimal.NewFromInt(m))
	}
	return out
}

// MaxMultiplier is the best payout the side can draw.
func (s Side) MaxMultiplier() decimal.Decimal {
	var best int64
	for _, m := range betTables[s] {
		if m > best {
			best = m
		}
	}
	return decimal.NewFromInt(best)
}
