package tokenratio

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const maxU64 = math.MaxUint64

func TestParseRoundingPolicy(t *testing.T) {
	tests := []struct {
		s    string
		want RoundingPolicy
	}{
		{"down", RoundDown},
		{"floor", RoundDown},
		{"UP", RoundUp},
		{"ceil", RoundUp},
	}
	for _, tt := range tests {
		got, err := ParseRoundingPolicy(tt.s)
		if err != nil {
			t.Errorf("ParseRoundingPolicy(%q) failed: %v", tt.s, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRoundingPolicy(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
	if _, err := ParseRoundingPolicy("half-even"); err == nil {
		t.Errorf("ParseRoundingPolicy(%q) did not fail", "half-even")
	}
	if s := RoundingPolicy(9).String(); s != "RoundingPolicy(9)" {
		t.Errorf("RoundingPolicy(9).String() = %q", s)
	}
}

func TestFloorDiv_Apply(t *testing.T) {

	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			ratio  string
			amount uint64
			want   uint64
		}{
			{"1/3", 10, 3},
			{"2/3", 10, 6},
			{"3/2", 10, 15},
			{"0/5", 7, 0},
			{"5/0", 7, 0},
			{"0/0", maxU64, 0},
			{"18446744073709551615/18446744073709551615", maxU64, maxU64},
			{"18446744073709551614/18446744073709551615", maxU64, maxU64 - 1},
			{"1/18446744073709551615", maxU64 - 1, 0},
		}
		for _, tt := range tests {
			f := MustParseRatio(tt.ratio).Floor()
			got, err := f.Apply(tt.amount)
			if err != nil {
				t.Errorf("%v.Floor().Apply(%v) failed: %v", tt.ratio, tt.amount, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%v.Floor().Apply(%v) = %v, want %v", tt.ratio, tt.amount, got, tt.want)
			}
		}
	})

	t.Run("overflow", func(t *testing.T) {
		tests := []struct {
			ratio  string
			amount uint64
		}{
			{"2/1", maxU64},
			{"18446744073709551615/1", 2},
			{"3/2", maxU64},
		}
		for _, tt := range tests {
			_, err := MustParseRatio(tt.ratio).Floor().Apply(tt.amount)
			if !errors.Is(err, ErrOverflow) {
				t.Errorf("%v.Floor().Apply(%v) error = %v, want %v", tt.ratio, tt.amount, err, ErrOverflow)
			}
		}
	})
}

func TestCeilDiv_Apply(t *testing.T) {

	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			ratio  string
			amount uint64
			want   uint64
		}{
			{"1/3", 10, 4},
			{"1/3", 9, 3},
			{"2/3", 10, 7},
			{"1/2", 0, 0},
			{"0/5", 7, 0},
			{"5/0", 7, 0},
			{"1/18446744073709551615", 1, 1},
			{"18446744073709551614/18446744073709551615", maxU64, maxU64 - 1},
		}
		for _, tt := range tests {
			c := MustParseRatio(tt.ratio).Ceil()
			got, err := c.Apply(tt.amount)
			if err != nil {
				t.Errorf("%v.Ceil().Apply(%v) failed: %v", tt.ratio, tt.amount, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%v.Ceil().Apply(%v) = %v, want %v", tt.ratio, tt.amount, got, tt.want)
			}
		}
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := MustParseRatio("2/1").Ceil().Apply(maxU64)
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("2/1.Ceil().Apply(%v) error = %v, want %v", uint64(maxU64), err, ErrOverflow)
		}
	})
}

func TestFloorDiv_Reverse(t *testing.T) {

	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			ratio            string
			y                uint64
			wantMin, wantMax uint64
		}{
			{"1/3", 3, 9, 11},
			{"1/1", 5, 5, 5},
			{"1/2", 0, 0, 1},
			{"2/3", 2, 3, 4},
			{"3/2", 4, 3, 3},
			{"0/7", 0, 0, maxU64},
			{"7/0", 0, 0, maxU64},
			{"1/3", maxU64 / 3, maxU64, maxU64},
			{"1/2", maxU64 / 2, maxU64 - 1, maxU64},
			{"18446744073709551615/18446744073709551615", maxU64, maxU64, maxU64},
		}
		for _, tt := range tests {
			f := MustParseRatio(tt.ratio).Floor()
			got, err := f.Reverse(tt.y)
			if err != nil {
				t.Errorf("%v.Floor().Reverse(%v) failed: %v", tt.ratio, tt.y, err)
				continue
			}
			if got.Min() != tt.wantMin || got.Max() != tt.wantMax {
				t.Errorf("%v.Floor().Reverse(%v) = %v, want [%v, %v]", tt.ratio, tt.y, got, tt.wantMin, tt.wantMax)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			ratio string
			y     uint64
		}{
			{"2/1", 3},      // odd outputs are skipped
			{"0/7", 1},      // only zero is reachable
			{"7/0", 1},      // only zero is reachable
			{"1/2", maxU64}, // lower bound exceeds uint64
		}
		for _, tt := range tests {
			_, err := MustParseRatio(tt.ratio).Floor().Reverse(tt.y)
			if !errors.Is(err, ErrOverflow) {
				t.Errorf("%v.Floor().Reverse(%v) error = %v, want %v", tt.ratio, tt.y, err, ErrOverflow)
			}
		}
	})
}

func TestCeilDiv_Reverse(t *testing.T) {

	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			ratio            string
			y                uint64
			wantMin, wantMax uint64
		}{
			{"1/3", 4, 10, 12},
			{"1/2", 0, 0, 0},
			{"1/2", 1, 1, 2},
			{"2/3", 2, 2, 3},
			{"3/2", 3, 2, 2},
			{"0/7", 0, 0, maxU64},
			{"1/3", maxU64 / 3, maxU64 - 2, maxU64},
		}
		for _, tt := range tests {
			c := MustParseRatio(tt.ratio).Ceil()
			got, err := c.Reverse(tt.y)
			if err != nil {
				t.Errorf("%v.Ceil().Reverse(%v) failed: %v", tt.ratio, tt.y, err)
				continue
			}
			if got.Min() != tt.wantMin || got.Max() != tt.wantMax {
				t.Errorf("%v.Ceil().Reverse(%v) = %v, want [%v, %v]", tt.ratio, tt.y, got, tt.wantMin, tt.wantMax)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			ratio string
			y     uint64
		}{
			{"2/1", 3},
			{"0/7", 2},
			{"1/2", maxU64},
		}
		for _, tt := range tests {
			_, err := MustParseRatio(tt.ratio).Ceil().Reverse(tt.y)
			if !errors.Is(err, ErrOverflow) {
				t.Errorf("%v.Ceil().Reverse(%v) error = %v, want %v", tt.ratio, tt.y, err, ErrOverflow)
			}
		}
	})
}

// anyRatioGen draws ratios over the whole domain, including zero numerators
// and denominators, and ratios far above one.
func anyRatioGen() *rapid.Generator[Ratio[uint64, uint64]] {
	return rapid.Custom(func(t *rapid.T) Ratio[uint64, uint64] {
		return NewRatio(
			rapid.Uint64().Draw(t, "num"),
			rapid.Uint64().Draw(t, "denom"),
		)
	})
}

// checkReverse verifies that Reverse(Apply(x)) contains x and that the
// returned range is exact: both bounds map onto the same output and their
// outer neighbours do not.
func checkReverse(t *rapid.T, r ReversibleRatio, x uint64) {
	y, err := r.Apply(x)
	if err != nil {
		require.ErrorIs(t, err, ErrOverflow)
		return
	}

	rng, err := r.Reverse(y)
	require.NoError(t, err)
	require.True(t, rng.Contains(x), "%v not in %v", x, rng)

	lo, err := r.Apply(rng.Min())
	require.NoError(t, err)
	require.Equal(t, y, lo)

	hi, err := r.Apply(rng.Max())
	require.NoError(t, err)
	require.Equal(t, y, hi)

	if rng.Min() > 0 {
		below, err := r.Apply(rng.Min() - 1)
		require.NoError(t, err)
		require.NotEqual(t, y, below)
	}
	if rng.Max() < maxU64 {
		above, err := r.Apply(rng.Max() + 1)
		if err == nil {
			require.NotEqual(t, y, above)
		}
	}
}

// TestFloorDiv_ReverseSoundness checks that every amount lies within the
// range obtained by reversing its own rounded-down output.
func TestFloorDiv_ReverseSoundness(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		r := anyRatioGen().Draw(t, "ratio")
		x := rapid.Uint64().Draw(t, "x")
		checkReverse(t, r.Floor(), x)
	})
}

// TestCeilDiv_ReverseSoundness checks that every amount lies within the
// range obtained by reversing its own rounded-up output.
func TestCeilDiv_ReverseSoundness(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		r := anyRatioGen().Draw(t, "ratio")
		x := rapid.Uint64().Draw(t, "x")
		checkReverse(t, r.Ceil(), x)
	})
}

// TestRounding_Direction checks that rounding up never yields less than
// rounding down, and by at most one.
func TestRounding_Direction(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		r := anyRatioGen().Draw(t, "ratio")
		x := rapid.Uint64().Draw(t, "x")

		down, err := r.Floor().Apply(x)
		if err != nil {
			return
		}
		up, err := r.Ceil().Apply(x)
		if err != nil {
			// Only the rounded-up result can overflow on its own.
			require.Equal(t, uint64(maxU64), down)
			return
		}
		require.GreaterOrEqual(t, up, down)
		require.LessOrEqual(t, up-down, uint64(1))
	})
}

func TestApply_Pure(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		r := anyRatioGen().Draw(t, "ratio")
		x := rapid.Uint64().Draw(t, "x")

		a, errA := r.Floor().Apply(x)
		b, errB := r.Floor().Apply(x)
		require.Equal(t, a, b)
		require.Equal(t, errA == nil, errB == nil)
	})
}
