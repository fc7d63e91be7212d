package tokenratio

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// MathError is the kind of arithmetic failure reported by the engine.
// The set of kinds is closed: every error returned by the package carries
// exactly one of [ErrOverflow] or [ErrInvalidFeeSpec], possibly wrapped with
// additional context.
// Use [errors.Is] or [AsMathError] to classify an error.
type MathError uint8

const (
	// ErrOverflow indicates that a result or an intermediate value cannot be
	// represented, even after widening.
	ErrOverflow MathError = iota + 1

	// ErrInvalidFeeSpec indicates a fee whose numerator exceeds its
	// denominator (fee greater than 100%).
	ErrInvalidFeeSpec
)

// Codespace is the codespace under which [ErrProgram] is registered.
const Codespace = "tokenratio"

// ProgramErrorCode is the custom program error code reserved for
// failures of the ratio and fee engine.
const ProgramErrorCode uint32 = 696969

// ErrProgram is the program-level error that every [MathError] converts to.
// See also function [ToProgramError].
var ErrProgram = errorsmod.Register(Codespace, ProgramErrorCode, "token ratio math error")

// Error implements the [error] interface.
func (e MathError) Error() string {
	switch e {
	case ErrOverflow:
		return "overflow"
	case ErrInvalidFeeSpec:
		return "invalid fee spec"
	}
	return fmt.Sprintf("MathError(%d)", uint8(e))
}

// Code returns the program error code the error maps to.
// All kinds share [ProgramErrorCode].
func (e MathError) Code() uint32 {
	return ProgramErrorCode
}

// AsMathError returns the kind of the first [MathError] found in the chain
// of err.
func AsMathError(err error) (MathError, bool) {
	var e MathError
	if errors.As(err, &e) {
		return e, true
	}
	return 0, false
}

// ToProgramError converts an error carrying a [MathError] into [ErrProgram],
// keeping the original message as context.
// Errors that do not carry a MathError are returned unchanged, and nil stays nil.
func ToProgramError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsMathError(err); !ok {
		return err
	}
	return errorsmod.Wrap(ErrProgram, err.Error())
}
