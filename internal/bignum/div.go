package bignum

import "math/bits"

// DivMod performs division with remainder: u = q*v + r, 0 <= r < v.
func DivMod(u, v Nat) (q, r Nat, err error) {
	x, y := u.words(), v.words()
	switch {
	case isZero(y):
		return Nat{}, Nat{}, ErrDivideByZero
	case len(x) < len(y):
		return Zero(), Copy(u), nil
	case isOne(y):
		return Copy(u), Zero(), nil
	case len(y) == 1:
		qs, rem := divWord(x, y[0])
		return makeNat(qs), FromUint32(rem), nil
	}
	qs, rs := divKnuth(x, y)
	return makeNat(qs), makeNat(rs), nil
}

// DivModUint32 divides u by a single limb.
func DivModUint32(u Nat, d uint32) (Nat, uint32, error) {
	if d == 0 {
		return Nat{}, 0, ErrDivideByZero
	}
	qs, rem := divWord(u.words(), d)
	return makeNat(qs), rem, nil
}

// Quo returns the quotient of a / b.
func Quo(a, b Nat) (Nat, error) {
	q, _, err := DivMod(a, b)
	return q, err
}

// Rem returns the remainder of a / b.
func Rem(a, b Nat) (Nat, error) {
	_, r, err := DivMod(a, b)
	return r, err
}

// divWord is plain long division by one limb, most significant limb first.
func divWord(x []uint32, d uint32) ([]uint32, uint32) {
	q := make([]uint32, len(x))
	dd := uint64(d)
	var rem uint64
	for i := len(x) - 1; i >= 0; i-- {
		cur := rem<<32 | uint64(x[i])
		q[i] = uint32(cur / dd) //nolint:gosec // G115: quotient fits in uint32 since rem < d.
		rem = cur % dd
	}
	return q, uint32(rem) //nolint:gosec // G115: remainder fits in uint32.
}

// divKnuth divides u by v (len(v) >= 2, len(u) >= len(v)) following
// Knuth, TAOCP vol. 2, 4.3.1, Algorithm D. The returned slices are fresh and untrimmed.
func divKnuth(u, v []uint32) (q, r []uint32) {
	n, m := len(v), len(u)

	// D1. Normalize so that the top bit of the divisor is set.
	shift := uint(bits.LeadingZeros32(v[n-1]))
	vn := make([]uint32, n)
	shlLimbs(vn, v, shift)
	un := make([]uint32, m+1)
	un[m] = shlLimbs(un[:m], u, shift)

	// D2. Quotient has at most m-n+1 limbs.
	q = make([]uint32, m-n+1)
	vTop := uint64(vn[n-1])
	vNext := uint64(vn[n-2])

	for j := m - n; j >= 0; j-- {
		// D3. Estimate qhat from the top two limbs of the window.
		num := uint64(un[j+n])<<32 | uint64(un[j+n-1])
		qhat := num / vTop
		rhat := num % vTop

		// qhat is at most two too large; once rhat no longer fits a limb the
		// second test cannot hold, so stop there.
		for qhat>>32 != 0 || qhat*vNext > (rhat<<32|uint64(un[j+n-2])) {
			qhat--
			rhat += vTop
			if rhat>>32 != 0 {
				break
			}
		}

		// D4. Multiply and subtract qhat*vn from the window un[j : j+n+1].
		var borrow int64
		for i := range n {
			p := qhat * uint64(vn[i])
			t := int64(un[i+j]) - borrow - int64(p&0xffffffff) //nolint:gosec // G115: low half fits in int64.
			un[i+j] = uint32(t)                               //nolint:gosec // G115: truncation is intentional (limb arithmetic).
			borrow = int64(p>>32) - (t >> 32)                 //nolint:gosec // G115: high half fits in int64.
		}
		t := int64(un[j+n]) - borrow
		un[j+n] = uint32(t) //nolint:gosec // G115: truncation is intentional (limb arithmetic).

		q[j] = uint32(qhat) //nolint:gosec // G115: qhat < 2^32 after correction.

		// D5/D6. Went negative: qhat was one too large, add the divisor back.
		// The final carry cancels the borrow above and is dropped.
		if t < 0 {
			q[j]--
			var carry uint64
			for i := range n {
				s := uint64(un[i+j]) + uint64(vn[i]) + carry
				un[i+j] = uint32(s) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
				carry = s >> 32
			}
			un[j+n] += uint32(carry) //nolint:gosec // G115: carry is 0 or 1.
		}
	}

	// D8. Unnormalize the remainder.
	r = make([]uint32, n)
	shrLimbs(r, un[:n+1], shift)
	return q, r
}

// shlLimbs sets z = x << s for s in [0, 31] and returns the bits shifted out
// of the top limb. len(z) must equal len(x).
func shlLimbs(z, x []uint32, s uint) uint32 {
	rs := 32 - s
	c := x[len(x)-1] >> rs
	for i := len(x) - 1; i > 0; i-- {
		z[i] = x[i]<<s | x[i-1]>>rs
	}
	z[0] = x[0] << s
	return c
}

// shrLimbs sets z = x >> s for s in [0, 31], where len(x) == len(z)+1 and the
// extra top limb of x supplies the high bits of z's last limb.
func shrLimbs(z, x []uint32, s uint) {
	rs := 32 - s
	for i := range z {
		z[i] = x[i]>>s | x[i+1]<<rs
	}
}
