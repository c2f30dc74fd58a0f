package bignum

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"
)

const (
	// MinBase is the smallest supported base.
	MinBase = 2
	// MaxBase is the largest supported base.
	MaxBase = 16
)

const digitChars = "0123456789ABCDEF"

// Parse reads a number written in base (2..16) using the digits 0-9 and
// A-F (either case). It uses Horner's method: acc = acc*base + digit.
func Parse(s string, base int) (Nat, error) {
	b, err := checkBase(base)
	if err != nil {
		return Nat{}, err
	}
	if s == "" {
		return Nat{}, ErrEmpty
	}

	bn := FromUint32(b)
	acc := Zero()
	pos := 0
	for off, ch := range s {
		pos++
		d, ok := digitValue(ch)
		if !ok || d >= b {
			de := &DigitError{Err: ErrInvalidDigit, Char: ch, Pos: pos, Offset: off, Base: base}
			if ok {
				de.Err = ErrDigitOutOfRange
			}
			// RuneError занимает 1 байт для битого UTF-8, но 3 для U+FFFD
			_, de.Width = utf8.DecodeRuneInString(s[off:])
			return Nat{}, de
		}
		acc, err = Mul(acc, bn)
		if err != nil {
			return Nat{}, err
		}
		acc, err = Add(acc, FromUint32(d))
		if err != nil {
			return Nat{}, err
		}
	}
	return acc, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string, base int) Nat {
	n, err := Parse(s, base)
	if err != nil {
		panic(fmt.Sprintf("bignum: MustParse(%q, %d): %v", s, base, err))
	}
	return n
}

// Format writes x in base (2..16) using upper-case digits.
func Format(x Nat, base int) (string, error) {
	buf, err := Append(nil, x, base)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Append appends the digits of x in base to dst and returns the extended buffer.
func Append(dst []byte, x Nat, base int) ([]byte, error) {
	b, err := checkBase(base)
	if err != nil {
		return dst, err
	}

	// Single digit: nothing to divide.
	w := x.words()
	if len(w) == 1 && w[0] < b {
		return append(dst, digitChars[w[0]]), nil
	}

	// Digits come out least significant first; reverse at the end.
	start := len(dst)
	bn := FromUint32(b)
	cur := x
	for !cur.IsZero() {
		q, r, err := DivMod(cur, bn)
		if err != nil {
			return dst[:start], err
		}
		dst = append(dst, digitChars[r.words()[0]])
		cur = q
	}
	slices.Reverse(dst[start:])
	return dst, nil
}

func checkBase(base int) (uint32, error) {
	b, err := safecast.Conv[uint32](base)
	if err != nil || b < MinBase || b > MaxBase {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidBase, base)
	}
	return b, nil
}

func digitValue(ch rune) (uint32, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint32(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return 10 + uint32(ch-'a'), true
	case ch >= 'A' && ch <= 'F':
		return 10 + uint32(ch-'A'), true
	default:
		return 0, false
	}
}
