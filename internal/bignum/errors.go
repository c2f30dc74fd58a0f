package bignum

import (
	"errors"
	"fmt"
)

var (
	// ErrDivideByZero indicates an attempt to divide by zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrInvalidDigit indicates a character outside the 0-9A-F alphabet.
	ErrInvalidDigit = errors.New("invalid digit character")
	// ErrDigitOutOfRange indicates a digit that does not fit the base.
	ErrDigitOutOfRange = errors.New("digit out of range for base")
	// ErrExponentTooLarge indicates an exponent wider than one limb.
	ErrExponentTooLarge = errors.New("exponent too large")
	// ErrUndefined indicates 0^0.
	ErrUndefined = errors.New("zero to the zeroth power is undefined")
	// ErrSizeLimit indicates the numeric size limit was exceeded.
	ErrSizeLimit = errors.New("numeric size limit exceeded")
	// ErrInvalidBase indicates a base outside [MinBase, MaxBase].
	ErrInvalidBase = errors.New("base must be in range [2, 16]")
	// ErrEmpty indicates an input with no digits at all.
	ErrEmpty = errors.New("empty number")
)

// DigitError describes the first bad character Parse met.
// It unwraps to ErrInvalidDigit or ErrDigitOutOfRange.
type DigitError struct {
	Err    error
	Char   rune
	Pos    int // 1-based, in characters
	Offset int // byte offset of Char in the input
	Width  int // bytes Char occupies at Offset; 1 for invalid UTF-8
	Base   int
}

func (e *DigitError) Error() string {
	if errors.Is(e.Err, ErrDigitOutOfRange) {
		d, _ := digitValue(e.Char)
		return fmt.Sprintf("%v: digit %q (%d) at position %d is too big for base %d", e.Err, e.Char, d, e.Pos, e.Base)
	}
	return fmt.Sprintf("%v: %q at position %d", e.Err, e.Char, e.Pos)
}

func (e *DigitError) Unwrap() error {
	return e.Err
}
