package tokenratio

import (
	"errors"
	"fmt"
	"math"
)

var errInvertedRange = errors.New("lower bound exceeds upper bound")

// ValueRange represents a closed interval [min, max] of token amounts.
// It is returned by [ReversibleRatio.Reverse] and describes every amount
// that a ratio maps onto a given output.
// The zero value is the single-value range [0, 0].
type ValueRange struct {
	min, max uint64
}

// NewValueRange returns the interval [min, max].
//
// NewValueRange returns an error if min > max.
func NewValueRange(min, max uint64) (ValueRange, error) {
	if min > max {
		return ValueRange{}, fmt.Errorf("[%v, %v]: %w", min, max, errInvertedRange)
	}
	return ValueRange{min: min, max: max}, nil
}

// MustNewValueRange is like [NewValueRange] but panics if the range cannot
// be constructed.
func MustNewValueRange(min, max uint64) ValueRange {
	r, err := NewValueRange(min, max)
	if err != nil {
		panic(fmt.Sprintf("NewValueRange(%v, %v) failed: %v", min, max, err))
	}
	return r
}

// FullRange returns the interval [0, math.MaxUint64].
func FullRange() ValueRange {
	return ValueRange{min: 0, max: math.MaxUint64}
}

// SingleValue returns the interval [v, v].
func SingleValue(v uint64) ValueRange {
	return ValueRange{min: v, max: v}
}

// Min returns the lower bound of the interval.
func (r ValueRange) Min() uint64 {
	return r.min
}

// Max returns the upper bound of the interval.
func (r ValueRange) Max() uint64 {
	return r.max
}

// Contains returns true if min <= v <= max.
func (r ValueRange) Contains(v uint64) bool {
	return r.min <= v && v <= r.max
}

// IsSingle returns true if the interval holds exactly one value.
func (r ValueRange) IsSingle() bool {
	return r.min == r.max
}

// IsFull returns true if the interval covers every uint64 value.
func (r ValueRange) IsFull() bool {
	return r.min == 0 && r.max == math.MaxUint64
}

// String method implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r ValueRange) String() string {
	return fmt.Sprintf("[%v, %v]", r.min, r.max)
}
