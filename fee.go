package tokenratio

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// AmtsAfterFee is the result of charging a fee on an amount.
// AmtAfterFee + FeesCharged always equals the amount the fee was charged on.
type AmtsAfterFee struct {
	AmtAfterFee uint64 // amount left after the fee
	FeesCharged uint64 // fee collected
}

// Amount returns the amount the fee was charged on.
func (a AmtsAfterFee) Amount() uint64 {
	return a.AmtAfterFee + a.FeesCharged
}

// String method implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a AmtsAfterFee) String() string {
	return fmt.Sprintf("%v after fee, %v charged", a.AmtAfterFee, a.FeesCharged)
}

// FeeSpec represents a proportional fee FeeNum / FeeDenom.
//
// The fee is charged by rounding the amount left after the fee down:
//
//	amt_after_fee = floor(amt * (FeeDenom - FeeNum) / FeeDenom)
//
// and collecting everything else, which maximizes the fee charged.
// A fee is valid if FeeNum <= FeeDenom. A zero denominator means no fee.
// FeeSpec is designed to be safe for concurrent use by multiple goroutines.
type FeeSpec[N, D constraints.Unsigned] struct {
	FeeNum   N
	FeeDenom D
}

// NewFeeSpec returns the fee num / denom.
// The fee is not validated, see [FeeSpec.IsValid].
func NewFeeSpec[N, D constraints.Unsigned](num N, denom D) FeeSpec[N, D] {
	return FeeSpec[N, D]{FeeNum: num, FeeDenom: denom}
}

// IsValid returns true if the fee does not exceed 100%.
func (f FeeSpec[N, D]) IsValid() bool {
	return uint64(f.FeeNum) <= uint64(f.FeeDenom)
}

// isZero returns true if the fee never charges anything.
func (f FeeSpec[N, D]) isZero() bool {
	return f.FeeNum == 0 || f.FeeDenom == 0
}

// validate returns an error wrapping [ErrInvalidFeeSpec] for fees above 100%.
func (f FeeSpec[N, D]) validate() error {
	if !f.IsValid() {
		return fmt.Errorf("fee %v exceeds 100%%: %w", f.Ratio(), ErrInvalidFeeSpec)
	}
	return nil
}

// Ratio returns the fee as a ratio.
func (f FeeSpec[N, D]) Ratio() Ratio[N, D] {
	return Ratio[N, D]{Num: f.FeeNum, Denom: f.FeeDenom}
}

// Remainder returns the fee viewed as the ratio from an amount to the amount
// left after the fee.
func (f FeeSpec[N, D]) Remainder() FeeRemainder[N, D] {
	return FeeRemainder[N, D]{Fee: f}
}

// afterFee returns the round-down ratio (FeeDenom - FeeNum) / FeeDenom.
// The fee must be valid and non-zero.
func (f FeeSpec[N, D]) afterFee() FloorDiv[uint64, uint64] {
	denom := uint64(f.FeeDenom)
	return NewRatio(denom-uint64(f.FeeNum), denom).Floor()
}

// Apply charges the fee on amt.
// The fee charged is computed as amt - amt_after_fee, so the two parts of
// the result always add up to amt.
//
// Apply returns an error if the fee exceeds 100%.
func (f FeeSpec[N, D]) Apply(amt uint64) (AmtsAfterFee, error) {
	if err := f.validate(); err != nil {
		return AmtsAfterFee{}, err
	}
	if f.isZero() {
		return AmtsAfterFee{AmtAfterFee: amt}, nil
	}
	after, err := f.afterFee().Apply(amt)
	if err != nil {
		return AmtsAfterFee{}, fmt.Errorf("charging fee %v: %w", f.Ratio(), err)
	}
	return AmtsAfterFee{AmtAfterFee: after, FeesCharged: amt - after}, nil
}

// PseudoReverse returns a possible amount that was fed into [FeeSpec.Apply]
// to leave amtAfterFee.
// The result is the smallest such amount, that is, the one that charges the
// least fee.
// PseudoReverse returns amtAfterFee unchanged if FeeNum or FeeDenom is zero.
//
// PseudoReverse returns an error if:
//   - the fee exceeds 100%;
//   - no amount leaves amtAfterFee, which for a 100% fee is every non-zero
//     amtAfterFee.
func (f FeeSpec[N, D]) PseudoReverse(amtAfterFee uint64) (uint64, error) {
	if err := f.validate(); err != nil {
		return 0, err
	}
	if f.isZero() {
		return amtAfterFee, nil
	}
	r, err := f.afterFee().Reverse(amtAfterFee)
	if err != nil {
		return 0, fmt.Errorf("reversing fee %v: %w", f.Ratio(), err)
	}
	return r.Min(), nil
}

// String method implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (f FeeSpec[N, D]) String() string {
	return "fee " + f.Ratio().String()
}

// FeeRemainder is a [ReversibleRatio] mapping an amount to the amount left
// after charging Fee on it.
type FeeRemainder[N, D constraints.Unsigned] struct {
	Fee FeeSpec[N, D]
}

// Apply returns the amount left after charging the fee on amt.
// See also method [FeeSpec.Apply].
func (r FeeRemainder[N, D]) Apply(amt uint64) (uint64, error) {
	a, err := r.Fee.Apply(amt)
	if err != nil {
		return 0, err
	}
	return a.AmtAfterFee, nil
}

// Reverse returns every amount that leaves amtAfterFee once the fee is
// charged.
// For a zero fee the range holds amtAfterFee only.
//
// Reverse returns an error if the fee exceeds 100% or if no amount leaves
// amtAfterFee.
func (r FeeRemainder[N, D]) Reverse(amtAfterFee uint64) (ValueRange, error) {
	f := r.Fee
	if err := f.validate(); err != nil {
		return ValueRange{}, err
	}
	if f.isZero() {
		return SingleValue(amtAfterFee), nil
	}
	v, err := f.afterFee().Reverse(amtAfterFee)
	if err != nil {
		return ValueRange{}, fmt.Errorf("reversing fee %v: %w", f.Ratio(), err)
	}
	return v, nil
}

var _ ReversibleRatio = FeeRemainder[uint16, uint16]{}
