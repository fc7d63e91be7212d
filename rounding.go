package tokenratio

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/constraints"
	"lukechampine.com/uint128"
)

var errUnknownPolicy = errors.New("unknown rounding policy")

// ReversibleRatio is a ratio that can be applied to a token amount and
// reversed.
// Because rounded division is not injective, reversing an output yields the
// whole range of amounts that map onto it rather than a single value.
type ReversibleRatio interface {
	// Apply returns the rounded result of applying the ratio to amount.
	Apply(amount uint64) (uint64, error)

	// Reverse returns the closed range of every amount x for which
	// Apply(x) == amtAfterApply.
	Reverse(amtAfterApply uint64) (ValueRange, error)
}

// RoundingPolicy is the rounding direction used when applying a ratio.
type RoundingPolicy uint8

const (
	// RoundDown rounds towards zero, see [FloorDiv].
	RoundDown RoundingPolicy = iota
	// RoundUp rounds away from zero, see [CeilDiv].
	RoundUp
)

// ParseRoundingPolicy converts a string to a rounding policy.
// The accepted values are "down", "floor", "up" and "ceil", in any case.
func ParseRoundingPolicy(s string) (RoundingPolicy, error) {
	switch strings.ToLower(s) {
	case "down", "floor":
		return RoundDown, nil
	case "up", "ceil":
		return RoundUp, nil
	}
	return 0, fmt.Errorf("parsing %q: %w", s, errUnknownPolicy)
}

// String method implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (p RoundingPolicy) String() string {
	switch p {
	case RoundDown:
		return "down"
	case RoundUp:
		return "up"
	}
	return fmt.Sprintf("RoundingPolicy(%d)", uint8(p))
}

// FloorDiv applies a ratio rounding down: floor(amount * num / denom).
type FloorDiv[N, D constraints.Unsigned] struct {
	Ratio Ratio[N, D]
}

// Apply returns floor(amount * num / denom), computed without intermediate
// overflow.
// Apply returns 0 if the numerator or the denominator is zero.
//
// Apply returns an error if the result does not fit into uint64, which
// can only happen for ratios greater than one.
func (f FloorDiv[N, D]) Apply(amount uint64) (uint64, error) {
	res, err := floorApply(uint64(f.Ratio.Num), uint64(f.Ratio.Denom), amount)
	if err != nil {
		return 0, fmt.Errorf("applying %v rounding down to %v: %w", f.Ratio, amount, err)
	}
	return res, nil
}

// Reverse returns the range of amounts x with floor(x * num / denom) equal
// to amtAfterApply, that is
//
//	[ceil(y * denom / num), floor(((y + 1) * denom - 1) / num)]
//
// with the upper bound clamped to [math.MaxUint64].
// If the numerator or the denominator is zero, every amount maps to 0 and
// reversing 0 returns [FullRange].
//
// Reverse returns an error if no amount maps onto amtAfterApply.
func (f FloorDiv[N, D]) Reverse(amtAfterApply uint64) (ValueRange, error) {
	r, err := floorReverse(uint64(f.Ratio.Num), uint64(f.Ratio.Denom), amtAfterApply)
	if err != nil {
		return ValueRange{}, fmt.Errorf("reversing %v rounding down from %v: %w", f.Ratio, amtAfterApply, err)
	}
	return r, nil
}

// CeilDiv applies a ratio rounding up: ceil(amount * num / denom).
type CeilDiv[N, D constraints.Unsigned] struct {
	Ratio Ratio[N, D]
}

// Apply returns ceil(amount * num / denom), computed without intermediate
// overflow.
// Apply returns 0 if the numerator or the denominator is zero.
//
// Apply returns an error if the result does not fit into uint64, which
// can only happen for ratios greater than one.
func (c CeilDiv[N, D]) Apply(amount uint64) (uint64, error) {
	res, err := ceilApply(uint64(c.Ratio.Num), uint64(c.Ratio.Denom), amount)
	if err != nil {
		return 0, fmt.Errorf("applying %v rounding up to %v: %w", c.Ratio, amount, err)
	}
	return res, nil
}

// Reverse returns the range of amounts x with ceil(x * num / denom) equal
// to amtAfterApply, that is
//
//	[floor((y - 1) * denom / num) + 1, floor(y * denom / num)]
//
// with the upper bound clamped to [math.MaxUint64], or [0, 0] if y is zero.
// If the numerator or the denominator is zero, every amount maps to 0 and
// reversing 0 returns [FullRange].
//
// Reverse returns an error if no amount maps onto amtAfterApply.
func (c CeilDiv[N, D]) Reverse(amtAfterApply uint64) (ValueRange, error) {
	r, err := ceilReverse(uint64(c.Ratio.Num), uint64(c.Ratio.Denom), amtAfterApply)
	if err != nil {
		return ValueRange{}, fmt.Errorf("reversing %v rounding up from %v: %w", c.Ratio, amtAfterApply, err)
	}
	return r, nil
}

var (
	_ ReversibleRatio = FloorDiv[uint64, uint64]{}
	_ ReversibleRatio = CeilDiv[uint64, uint64]{}
)

// narrow converts a 128-bit value back to uint64.
func narrow(v uint128.Uint128) (uint64, error) {
	if v.Hi != 0 {
		return 0, fmt.Errorf("result %v exceeds %v: %w", v, uint64(math.MaxUint64), ErrOverflow)
	}
	return v.Lo, nil
}

// clamp converts a 128-bit upper bound to uint64, saturating at math.MaxUint64.
func clamp(v uint128.Uint128) uint64 {
	if v.Hi != 0 {
		return math.MaxUint64
	}
	return v.Lo
}

// noPreimage is returned by the reverse operations when no amount maps
// onto the requested output.
func noPreimage(y uint64) error {
	return fmt.Errorf("no amount maps to %v: %w", y, ErrOverflow)
}

// degenerateReverse handles ratios with a zero numerator or denominator,
// which map every amount to zero.
func degenerateReverse(y uint64) (ValueRange, error) {
	if y != 0 {
		return ValueRange{}, noPreimage(y)
	}
	return FullRange(), nil
}

func floorApply(num, denom, amount uint64) (uint64, error) {
	if num == 0 || denom == 0 {
		return 0, nil
	}
	// The product of two uint64 values always fits into 128 bits.
	q := uint128.From64(amount).Mul64(num).Div64(denom)
	return narrow(q)
}

func ceilApply(num, denom, amount uint64) (uint64, error) {
	if num == 0 || denom == 0 {
		return 0, nil
	}
	q, rem := uint128.From64(amount).Mul64(num).QuoRem64(denom)
	if rem != 0 {
		q = q.Add64(1)
	}
	return narrow(q)
}

func floorReverse(num, denom, y uint64) (ValueRange, error) {
	if num == 0 || denom == 0 {
		return degenerateReverse(y)
	}
	dy := uint128.From64(denom).Mul64(y)

	// Lower bound: ceil(y * denom / num)
	lo, rem := dy.QuoRem64(num)
	if rem != 0 {
		lo = lo.Add64(1)
	}
	min, err := narrow(lo)
	if err != nil {
		return ValueRange{}, fmt.Errorf("lower bound: %w", err)
	}

	// Upper bound: floor(((y + 1) * denom - 1) / num).
	// (y + 1) * denom is at most 2^128 - 2^64, so the sum cannot overflow.
	max := clamp(dy.Add64(denom).Sub64(1).Div64(num))

	if min > max {
		return ValueRange{}, noPreimage(y)
	}
	return ValueRange{min: min, max: max}, nil
}

func ceilReverse(num, denom, y uint64) (ValueRange, error) {
	if num == 0 || denom == 0 {
		return degenerateReverse(y)
	}
	if y == 0 {
		return SingleValue(0), nil
	}

	// Lower bound: floor((y - 1) * denom / num) + 1
	lo := uint128.From64(denom).Mul64(y - 1).Div64(num)
	if lo.Hi != 0 || lo.Lo == math.MaxUint64 {
		return ValueRange{}, fmt.Errorf("lower bound: %w", ErrOverflow)
	}
	min := lo.Lo + 1

	// Upper bound: floor(y * denom / num)
	max := clamp(uint128.From64(denom).Mul64(y).Div64(num))

	if min > max {
		return ValueRange{}, noPreimage(y)
	}
	return ValueRange{min: min, max: max}, nil
}
