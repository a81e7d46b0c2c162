package gamba

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const LamportsPerSOL = 1_000_000_000

const (
	maxAmountLength = 40
	// A uint64 has 20 decimal digits.
	maxLamportDigits     = 20
	maxCoefficientDigits = 40
	// Below this a coefficient of maxCoefficientDigits cannot reach one lamport.
	minAmountExponent = -(maxCoefficientDigits + 9)
)

var (
	lamportsPerSOL = decimal.NewFromInt(LamportsPerSOL)
	basisPointUnit = decimal.NewFromInt(10_000)
	maxLamports    = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
)

// ParseAmount parses a display-unit (SOL) amount such as "0.5". Only plain
// decimals of bounded length are accepted; exponent notation is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: missing required query parameter: amount", ErrInvalidWager)
	}
	if len(s) > maxAmountLength {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must be at most %d characters", ErrInvalidWager, maxAmountLength)
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q must be a plain decimal", ErrInvalidWager, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q is not a number", ErrInvalidWager, s)
	}
	return d, nil
}

// ToLamports converts a SOL amount to base units. The result is always positive.
// Magnitude is checked on coefficient and exponent before any arithmetic that
// would expand the number.
func ToLamports(amount decimal.Decimal) (uint64, error) {
	if amount.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidWager)
	}
	digits, exp := amount.NumDigits(), int(amount.Exponent())
	if digits > maxCoefficientDigits || digits+exp > maxLamportDigits-9 {
		return 0, fmt.Errorf("%w: amount is too large", ErrInvalidWager)
	}
	if exp < minAmountExponent {
		return 0, fmt.Errorf("%w: amount is finer than one lamport", ErrInvalidWager)
	}
	l := amount.Mul(lamportsPerSOL)
	if !l.IsInteger() {
		return 0, fmt.Errorf("%w: amount is finer than one lamport", ErrInvalidWager)
	}
	if l.GreaterThan(maxLamports) {
		return 0, fmt.Errorf("%w: amount is too large", ErrInvalidWager)
	}
	return l.BigInt().Uint64(), nil
}

// BasisPoints expresses a ratio in units of 1/10000, rounded to the nearest unit.
// Negative ratios map to zero.
func BasisPoints(ratio decimal.Decimal) uint32 {
	bps := ratio.Mul(basisPointUnit).Round(0)
	if bps.Sign() <= 0 {
		return 0
	}
	if bps.GreaterThan(decimal.NewFromInt(math.MaxUint32)) {
		return math.MaxUint32
	}
	return uint32(bps.IntPart())
}
