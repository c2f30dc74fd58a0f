package bignum

import (
	"math/bits"
)

// MaxLimbs is the maximum number of limbs a result may have.
const MaxLimbs = 1_000_000

// Shared canonical limbs for ZERO and ONE. They are never written to.
var (
	zeroLimbs = []uint32{0}
	oneLimbs  = []uint32{1}
)

// Nat represents a non-negative big integer.
//
// Limbs are base-2^32 little-endian (limbs[0] is least significant). A Nat is
// always canonical: at least one limb, and no most-significant zero limb unless
// the value is zero, which is exactly [0]. The zero value Nat{} reads as zero.
//
// Values are immutable once built; every operation returns a fresh Nat.
type Nat struct {
	limbs []uint32
}

// Zero returns the shared zero value.
func Zero() Nat { return Nat{limbs: zeroLimbs} }

// One returns the shared one value.
func One() Nat { return Nat{limbs: oneLimbs} }

// FromUint32 creates a Nat from a uint32.
func FromUint32(v uint32) Nat {
	switch v {
	case 0:
		return Zero()
	case 1:
		return One()
	}
	return Nat{limbs: []uint32{v}}
}

// FromUint64 creates a Nat from a uint64.
func FromUint64(v uint64) Nat {
	hi := uint32(v >> 32) //nolint:gosec // G115: truncation is intentional (high limb).
	if hi == 0 {
		return FromUint32(uint32(v)) //nolint:gosec // G115: v fits in the low limb.
	}
	return Nat{limbs: []uint32{uint32(v), hi}} //nolint:gosec // G115: truncation is intentional (low limb).
}

// FromLimbs builds a Nat from little-endian limbs. The input is copied and trimmed.
func FromLimbs(limbs []uint32) Nat {
	if len(limbs) == 0 {
		return Zero()
	}
	out := make([]uint32, len(limbs))
	copy(out, limbs)
	return makeNat(out)
}

// Copy returns a deep copy of x. ZERO and ONE stay shared.
func Copy(x Nat) Nat {
	w := x.words()
	if isLessOrEqualOne(w) {
		return FromUint32(w[0])
	}
	out := make([]uint32, len(w))
	copy(out, w)
	return Nat{limbs: out}
}

// words returns the canonical limbs, mapping the zero value to ZERO.
func (x Nat) words() []uint32 {
	if len(x.limbs) == 0 {
		return zeroLimbs
	}
	return x.limbs
}

// Len returns the number of significant limbs (at least 1).
func (x Nat) Len() int { return len(x.words()) }

// Limbs returns a copy of the little-endian limbs.
func (x Nat) Limbs() []uint32 {
	w := x.words()
	out := make([]uint32, len(w))
	copy(out, w)
	return out
}

// IsZero reports whether x == 0.
func (x Nat) IsZero() bool { return isZero(x.words()) }

// IsOne reports whether x == 1.
func (x Nat) IsOne() bool { return isOne(x.words()) }

// IsLessOrEqualOne reports whether x <= 1.
func (x Nat) IsLessOrEqualOne() bool { return isLessOrEqualOne(x.words()) }

// BitLen returns the number of bits required to represent x (0 for zero).
func (x Nat) BitLen() int {
	w := x.words()
	ms := w[len(w)-1]
	return (len(w)-1)*32 + (32 - bits.LeadingZeros32(ms))
}

// Uint64 converts x to uint64 if it fits.
func (x Nat) Uint64() (uint64, bool) {
	w := x.words()
	switch len(w) {
	case 1:
		return uint64(w[0]), true
	case 2:
		return uint64(w[0]) | uint64(w[1])<<32, true
	default:
		return 0, false
	}
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Nat) Cmp(y Nat) int {
	return cmpLimbs(x.words(), y.words())
}

// Equal reports whether x == y.
func (x Nat) Equal(y Nat) bool { return x.Cmp(y) == 0 }

// String formats x in base 10.
func (x Nat) String() string {
	s, err := Format(x, 10)
	if err != nil {
		return "<format-error>"
	}
	return s
}

func isZero(w []uint32) bool           { return len(w) == 1 && w[0] == 0 }
func isOne(w []uint32) bool            { return len(w) == 1 && w[0] == 1 }
func isLessOrEqualOne(w []uint32) bool { return len(w) == 1 && w[0] <= 1 }

// trim drops most-significant zero limbs, keeping at least one limb.
func trim(limbs []uint32) []uint32 {
	if len(limbs) == 0 {
		return zeroLimbs
	}
	n := len(limbs)
	for n > 1 && limbs[n-1] == 0 {
		n--
	}
	return limbs[:n]
}

// makeNat wraps a freshly allocated buffer owned by the caller, trimming it and
// swapping 0 and 1 for the shared singletons.
func makeNat(limbs []uint32) Nat {
	limbs = trim(limbs)
	if isLessOrEqualOne(limbs) {
		return FromUint32(limbs[0])
	}
	return Nat{limbs: limbs}
}

func cmpLimbs(a, b []uint32) int {
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func checkSize(limbs []uint32) error {
	if len(limbs) > MaxLimbs {
		return ErrSizeLimit
	}
	return nil
}
