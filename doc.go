/*
Package tokenratio implements exact ratio and proportional fee arithmetic on
uint64 token amounts.
It converts amounts under a ratio, such as an exchange rate or a pool share,
and charges proportional fees, without ever creating or destroying value
through rounding.

# Features

  - Immutable values, ensuring safe usage across multiple goroutines
  - Exact comparison of ratios of any unsigned width up to 64 bits
  - Rounding down and rounding up, with 128-bit intermediate products
  - Reversal of a rounded result into the full range of possible inputs
  - Proportional fees and basis point fees that always favor the protocol
  - Conversion from [decimal] exchange rates and fee fractions

# Representation

A [Ratio] is a numerator and a denominator of independent unsigned widths.
Ratios are not normalized, and a zero denominator denotes a ratio that
applies to zero for every amount.
A [Ratio] is applied through one of two rounding policies, [FloorDiv] and
[CeilDiv], which both implement [ReversibleRatio].

A [FeeSpec] is a fee numerator and denominator, and a [BpsFeeSpec] is a fee
in basis points over a fixed denominator of 10,000.
Fees round the amount left after the fee down, so the fee charged is
maximized, and the fee charged is always the exact complement of the amount
left after the fee.

# Reversal

Rounded division is not injective: several amounts map onto the same
result.
[ReversibleRatio.Reverse] therefore returns a [ValueRange] holding every
amount consistent with a result, while [FeeSpec.PseudoReverse] returns the
smallest amount that leaves a given amount after the fee.

# Errors

Every fallible operation returns an error that carries a [MathError]:
[ErrOverflow] if a result cannot be represented, or if no amount maps onto
a reversed result, and [ErrInvalidFeeSpec] if a fee exceeds 100%.
[ToProgramError] converts these errors into a single program error with
code [ProgramErrorCode].
Comparison of ratios never returns an error; it panics only if its 128-bit
width contract is broken, which the type constraints rule out.
*/
package tokenratio
