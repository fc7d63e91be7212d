package tokenratio

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/govalues/decimal"
)

// BpsDenominator is the number of basis points in 100%.
const BpsDenominator uint16 = 10_000

// bpsScale is the number of decimal places of a fee fraction expressed in
// basis points.
const bpsScale = 4

var (
	errNegativeFee  = errors.New("fee must not be negative")
	errFeePrecision = errors.New("fee has more than 4 decimal places")
)

// BpsFeeSpec is a fee expressed in basis points, where 1 bps is 1/10,000.
// It is charged like a [FeeSpec] with a denominator of [BpsDenominator]:
//
//	amt_after_fee = floor(amt * (10_000 - bps) / 10_000)
//
// which maximizes the fee charged.
// A BpsFeeSpec is valid if it does not exceed 10,000.
type BpsFeeSpec uint16

// NewBpsFeeSpecFromDecimal converts a fee fraction, such as 0.0025 for
// 0.25%, to basis points.
// See also method [BpsFeeSpec.Decimal].
//
// NewBpsFeeSpecFromDecimal returns an error if:
//   - the fraction is negative;
//   - the fraction cannot be represented exactly with 4 decimal places;
//   - the fraction is greater than 1 (fee greater than 100%).
func NewBpsFeeSpecFromDecimal(d decimal.Decimal) (BpsFeeSpec, error) {
	if d.IsNeg() {
		return 0, fmt.Errorf("converting %v: %w", d, errNegativeFee)
	}
	t := d.Trim(bpsScale)
	if t.Scale() > bpsScale {
		return 0, fmt.Errorf("converting %v: %w", d, errFeePrecision)
	}
	t = t.Pad(bpsScale)
	if t.Scale() != bpsScale || t.Coef() > uint64(BpsDenominator) {
		return 0, fmt.Errorf("converting %v: fee exceeds 100%%: %w", d, ErrInvalidFeeSpec)
	}
	return BpsFeeSpec(t.Coef()), nil
}

// AsFeeSpec returns the equivalent [FeeSpec] with a denominator of
// [BpsDenominator].
func (f BpsFeeSpec) AsFeeSpec() FeeSpec[uint16, uint16] {
	return FeeSpec[uint16, uint16]{FeeNum: uint16(f), FeeDenom: BpsDenominator}
}

// IsValid returns true if the fee does not exceed 10,000 bps (100%).
// An invalid fee is exactly one that [BpsFeeSpec.Apply] rejects.
func (f BpsFeeSpec) IsValid() bool {
	return uint16(f) <= BpsDenominator
}

// Apply charges the fee on amt.
// See also method [FeeSpec.Apply].
//
// Apply returns an error if the fee exceeds 10,000 bps (100%).
func (f BpsFeeSpec) Apply(amt uint64) (AmtsAfterFee, error) {
	return f.AsFeeSpec().Apply(amt)
}

// PseudoReverse returns a possible amount that was fed into
// [BpsFeeSpec.Apply] to leave amtAfterFee.
// It returns amtAfterFee unchanged for a zero fee.
// See also method [FeeSpec.PseudoReverse].
//
// PseudoReverse returns an error if the fee exceeds 10,000 bps (100%).
func (f BpsFeeSpec) PseudoReverse(amtAfterFee uint64) (uint64, error) {
	return f.AsFeeSpec().PseudoReverse(amtAfterFee)
}

// Remainder returns the fee viewed as the ratio from an amount to the amount
// left after the fee.
func (f BpsFeeSpec) Remainder() FeeRemainder[uint16, uint16] {
	return f.AsFeeSpec().Remainder()
}

// Decimal returns the fee as a fraction with 4 decimal places,
// for example 0.0025 for 25 bps.
func (f BpsFeeSpec) Decimal() decimal.Decimal {
	d, err := decimal.New(int64(f), bpsScale)
	if err != nil {
		panic(fmt.Sprintf("%v.Decimal() failed: %v", f, err))
	}
	return d
}

// String method implements the [fmt.Stringer] interface and returns the fee
// as "25bps".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (f BpsFeeSpec) String() string {
	return strconv.FormatUint(uint64(f), 10) + "bps"
}
