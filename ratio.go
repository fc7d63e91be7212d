package tokenratio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
	"golang.org/x/exp/constraints"
	"lukechampine.com/uint128"
)

var errNegativeRatio = errors.New("ratio must not be negative")

// Ratio represents an exact rational number Num / Denom applied to uint64
// token amounts.
// The numerator and denominator may have different unsigned widths, up to
// 64 bits each; ratios of different widths can be compared with [Equal] and
// [Compare].
//
// A zero denominator is legal and denotes a ratio that applies to zero for
// every amount.
// Ratios are not normalized: 1/2 and 2/4 are different values that compare
// equal.
//
// A Ratio has no rounding direction of its own. Use [Ratio.Floor] or
// [Ratio.Ceil] to apply it to an amount.
// Ratio is designed to be safe for concurrent use by multiple goroutines.
type Ratio[N, D constraints.Unsigned] struct {
	Num   N
	Denom D
}

// NewRatio returns the ratio num / denom.
func NewRatio[N, D constraints.Unsigned](num N, denom D) Ratio[N, D] {
	return Ratio[N, D]{Num: num, Denom: denom}
}

// NewRatioFromDecimal converts a decimal, such as an exchange rate quoted
// with a fixed number of digits, to the exact ratio coef / 10^scale.
// See also method [Ratio.String].
//
// NewRatioFromDecimal returns an error if the decimal is negative.
func NewRatioFromDecimal(d decimal.Decimal) (Ratio[uint64, uint64], error) {
	if d.IsNeg() {
		return Ratio[uint64, uint64]{}, fmt.Errorf("converting %v: %w", d, errNegativeRatio)
	}
	// decimal.MaxScale is 19 and 10^19 still fits into uint64.
	denom := uint64(1)
	for i := 0; i < d.Scale(); i++ {
		denom *= 10
	}
	return Ratio[uint64, uint64]{Num: d.Coef(), Denom: denom}, nil
}

// ParseRatio converts a string to a ratio.
// The input string must be in one of the following formats:
//
//	3/7
//	0/0
//	0.0025
//	12
//
// The first two forms are taken verbatim, without normalization.
// Decimal forms are converted with [NewRatioFromDecimal].
func ParseRatio(s string) (Ratio[uint64, uint64], error) {
	if num, denom, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Ratio[uint64, uint64]{}, fmt.Errorf("parsing numerator: %w", err)
		}
		d, err := strconv.ParseUint(strings.TrimSpace(denom), 10, 64)
		if err != nil {
			return Ratio[uint64, uint64]{}, fmt.Errorf("parsing denominator: %w", err)
		}
		return Ratio[uint64, uint64]{Num: n, Denom: d}, nil
	}
	d, err := decimal.Parse(strings.TrimSpace(s))
	if err != nil {
		return Ratio[uint64, uint64]{}, fmt.Errorf("parsing decimal: %w", err)
	}
	r, err := NewRatioFromDecimal(d)
	if err != nil {
		return Ratio[uint64, uint64]{}, fmt.Errorf("parsing decimal: %w", err)
	}
	return r, nil
}

// MustParseRatio is like [ParseRatio] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding ratios.
func MustParseRatio(s string) Ratio[uint64, uint64] {
	r, err := ParseRatio(s)
	if err != nil {
		panic(fmt.Sprintf("ParseRatio(%q) failed: %v", s, err))
	}
	return r
}

// widen converts an unsigned value of any width up to 64 bits to 128 bits.
func widen[T constraints.Unsigned](v T) uint128.Uint128 {
	return uint128.From64(uint64(v))
}

// crossProducts returns a.Num * b.Denom and b.Num * a.Denom.
//
// Both products are computed with an overflow-checking multiplication and
// panic if the 128-bit result does not fit. That can only happen if an
// operand is wider than 64 bits, which the type constraints rule out.
func crossProducts[LN, LD, RN, RD constraints.Unsigned](a Ratio[LN, LD], b Ratio[RN, RD]) (lhs, rhs uint128.Uint128) {
	lhs = widen(a.Num).Mul64(uint64(b.Denom))
	rhs = widen(b.Num).Mul64(uint64(a.Denom))
	return lhs, rhs
}

// Equal returns true if a and b represent the same rational number.
// The ratios may have different widths.
//
// Equality is decided by cross-multiplication, so a ratio with a zero
// denominator and a non-zero numerator equals any other such ratio, and 0/0
// equals every ratio.
func Equal[LN, LD, RN, RD constraints.Unsigned](a Ratio[LN, LD], b Ratio[RN, RD]) bool {
	lhs, rhs := crossProducts(a, b)
	return lhs.Equals(rhs)
}

// Compare compares a and b by cross-multiplication and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
//
// The ratios may have different widths.
// A ratio with a zero denominator and a non-zero numerator compares greater
// than every ratio with a non-zero denominator.
func Compare[LN, LD, RN, RD constraints.Unsigned](a Ratio[LN, LD], b Ratio[RN, RD]) int {
	lhs, rhs := crossProducts(a, b)
	return lhs.Cmp(rhs)
}

// Equal returns true if r and q represent the same rational number.
// See also function [Equal] for ratios of different widths.
func (r Ratio[N, D]) Equal(q Ratio[N, D]) bool {
	return Equal(r, q)
}

// Cmp compares r and q and returns:
//
//	-1 if r < q
//	 0 if r = q
//	+1 if r > q
//
// See also function [Compare] for ratios of different widths.
func (r Ratio[N, D]) Cmp(q Ratio[N, D]) int {
	return Compare(r, q)
}

// Less returns true if r < q.
func (r Ratio[N, D]) Less(q Ratio[N, D]) bool {
	return Compare(r, q) < 0
}

// IsZero returns true if the ratio applies to zero for every amount,
// that is, if its numerator or its denominator is zero.
func (r Ratio[N, D]) IsZero() bool {
	return r.Num == 0 || r.Denom == 0
}

// Widen returns the same ratio with both components as uint64.
func (r Ratio[N, D]) Widen() Ratio[uint64, uint64] {
	return Ratio[uint64, uint64]{Num: uint64(r.Num), Denom: uint64(r.Denom)}
}

// Floor returns the ratio with round-down application.
func (r Ratio[N, D]) Floor() FloorDiv[N, D] {
	return FloorDiv[N, D]{Ratio: r}
}

// Ceil returns the ratio with round-up application.
func (r Ratio[N, D]) Ceil() CeilDiv[N, D] {
	return CeilDiv[N, D]{Ratio: r}
}

// Rounding returns the ratio with the application direction given by p.
//
// Rounding panics if p is not a known policy.
func (r Ratio[N, D]) Rounding(p RoundingPolicy) ReversibleRatio {
	switch p {
	case RoundDown:
		return r.Floor()
	case RoundUp:
		return r.Ceil()
	}
	panic(fmt.Sprintf("%v.Rounding(%v) failed: %v", r, p, errUnknownPolicy))
}

// String method implements the [fmt.Stringer] interface and returns
// the ratio as "num/denom".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r Ratio[N, D]) String() string {
	return strconv.FormatUint(uint64(r.Num), 10) + "/" + strconv.FormatUint(uint64(r.Denom), 10)
}
